package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardRaiseClear(t *testing.T) {
	b := NewBoard()
	assert.False(t, b.IsRaised(CodeDriverDegraded))
	assert.Empty(t, b.Active())

	b.Raise(Diagnostic{Severity: Warn, Code: CodeDriverDegraded, Summary: "no spi"})
	assert.True(t, b.IsRaised(CodeDriverDegraded))
	assert.Len(t, b.Active(), 1)

	// Same code replaces, not accumulates.
	b.Raise(Diagnostic{Severity: Err, Code: CodeDriverDegraded, Summary: "still no spi"})
	assert.Len(t, b.Active(), 1)
	assert.Equal(t, Err, b.Active()[0].Severity)

	b.Clear(CodeDriverDegraded)
	assert.False(t, b.IsRaised(CodeDriverDegraded))
	b.Clear(CodeDriverDegraded) // clearing twice is harmless
}
