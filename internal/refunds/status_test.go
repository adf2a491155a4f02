package refunds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_TransitionMatrix(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},

		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusCancelled, false},
		{StatusApproved, StatusPending, false},

		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusApproved, false},
		{StatusCancelled, StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("UNKNOWN").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_CodesAreStable(t *testing.T) {
	assert.Equal(t, 1, StatusPending.Code())
	assert.Equal(t, 2, StatusApproved.Code())
	assert.Equal(t, 3, StatusRejected.Code())
	assert.Equal(t, 4, StatusCompleted.Code())
	assert.Equal(t, 5, StatusCancelled.Code())
	assert.Equal(t, 0, Status("UNKNOWN").Code())
}
