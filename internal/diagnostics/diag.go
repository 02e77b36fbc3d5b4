package diagnostics

import "sync"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Well-known diagnostic codes.
const (
	CodeDriverDegraded = "DRIVER.DEGRADED"
	CodePluginFault    = "PLUGIN.FAULT"
	CodePoolOverflow   = "POOL.OVERFLOW"
	CodeConfigRejected = "CONFIG.REJECTED"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// Board holds the currently active fault flags keyed by code. The conductor
// and drivers raise/clear flags; external observers poll Active. All methods
// are safe for concurrent use.
type Board struct {
	mu     sync.RWMutex
	active map[string]Diagnostic
}

func NewBoard() *Board {
	return &Board{active: map[string]Diagnostic{}}
}

// Raise records d as active, replacing any prior flag with the same code.
func (b *Board) Raise(d Diagnostic) {
	b.mu.Lock()
	b.active[d.Code] = d
	b.mu.Unlock()
}

// Clear removes the flag with the given code, if any.
func (b *Board) Clear(code string) {
	b.mu.Lock()
	delete(b.active, code)
	b.mu.Unlock()
}

// IsRaised reports whether a flag with the given code is active.
func (b *Board) IsRaised(code string) bool {
	b.mu.RLock()
	_, ok := b.active[code]
	b.mu.RUnlock()
	return ok
}

// Active returns a copy of the active flags.
func (b *Board) Active() []Diagnostic {
	b.mu.RLock()
	out := make([]Diagnostic, 0, len(b.active))
	for _, d := range b.active {
		out = append(out, d)
	}
	b.mu.RUnlock()
	return out
}
