// Command lightbox runs the animation engine headless: it loads settings,
// registers the built-in animators, constructs the conductor and renders
// until interrupted. Control planes (HTTP, GPIO buttons) are separate
// programs built on the same internal packages.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fieldjoshua/LightBox-2.0/internal/app"
	"github.com/fieldjoshua/LightBox-2.0/internal/config"
	"github.com/fieldjoshua/LightBox-2.0/internal/diagnostics"
	"github.com/fieldjoshua/LightBox-2.0/internal/render"
	"github.com/fieldjoshua/LightBox-2.0/internal/render/scenes/cosmic"
	"github.com/fieldjoshua/LightBox-2.0/internal/render/scenes/shimmer"
	"github.com/fieldjoshua/LightBox-2.0/internal/render/scenes/solid"
	"github.com/fieldjoshua/LightBox-2.0/internal/render/scenes/waves"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "YAML settings file (optional)")
		backend  = flag.String("backend", "", "override backend: strip|panel|sim")
		animator = flag.String("animator", "cosmic", "starting animation")
		fps      = flag.Int("fps", 0, "override target FPS")
		preview  = flag.Bool("preview", false, "echo simulated frames to the terminal")
		debug    = flag.Bool("debug", false, "verbose logging")
		save     = flag.Bool("save", false, "write effective settings back on exit")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Warn().Err(err).Str("path", *cfgPath).Msg("settings not loaded, using defaults")
		} else {
			cfg = loaded
		}
	}
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *preview {
		cfg.SimConsole = true
	}

	store, err := config.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	reg := render.NewRegistry()
	reg.Register(cosmic.New())
	reg.Register(waves.New())
	reg.Register(shimmer.New(time.Now().UnixNano()))
	reg.Register(solid.New("solid", render.RGB{R: 255, G: 255, B: 255}))

	board := diagnostics.NewBoard()
	cond, err := app.New(store, reg, board, *animator)
	if err != nil {
		log.Fatal().Err(err).Msg("conductor init")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	_ = cond.Run(ctx)

	snap := cond.Monitor().Snapshot()
	log.Info().
		Float64("avg_fps", snap.FPS).
		Uint64("frames", snap.FrameCount).
		Uint64("dropped", snap.DroppedFrames).
		Dur("uptime", snap.Uptime).
		Msg("stopped")

	if *save && *cfgPath != "" {
		if err := config.Save(*cfgPath, store.Get()); err != nil {
			log.Warn().Err(err).Msg("settings not saved")
		}
	}
}
