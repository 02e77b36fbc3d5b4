package config

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrConfigInvalid marks a rejected replacement. The previous snapshot stays
// active when Replace returns an error wrapping this.
var ErrConfigInvalid = errors.New("config invalid")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfigInvalid}, args...)...)
}

// Store holds the active Configuration snapshot. Get is wait-free; Replace
// validates, then swaps atomically. Readers holding an old snapshot keep a
// consistent view for as long as they need it.
type Store struct {
	cur atomic.Pointer[Config]
}

// NewStore seeds the store with an already-validated snapshot.
func NewStore(c *Config) (*Store, error) {
	if c == nil {
		c = Default()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Store{}
	s.cur.Store(c)
	return s, nil
}

// Get returns the current snapshot. Never nil, never blocks.
func (s *Store) Get() *Config { return s.cur.Load() }

// Replace validates next and swaps it in. It returns whether the change
// affects the matrix driver (backend selection, dimensions, wiring, or
// backend parameters) so the caller can schedule a rebuild.
func (s *Store) Replace(next *Config) (driverAffecting bool, err error) {
	if next == nil {
		return false, invalidf("nil snapshot")
	}
	if err := next.Validate(); err != nil {
		log.Warn().Err(err).Msg("config replacement rejected")
		return false, err
	}
	old := s.cur.Swap(next)
	return DriverAffecting(old, next), nil
}
