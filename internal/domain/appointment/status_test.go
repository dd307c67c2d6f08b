package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.NoError(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusPending},
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusConfirmed},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusPending},
	}
	for _, tr := range rejected {
		err := CanTransition(tr[0], tr[1])
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "%s -> %s", tr[0], tr[1])
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	_, ok = ParseStatus("DONE")
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.Equal(t, StatusPending, InitialStatus())
}
