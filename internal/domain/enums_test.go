package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusPreparing, StatusPrepared,
	StatusShipping, StatusShipped, StatusDelivered, StatusCancelled,
}

func TestReachableFrom(t *testing.T) {
	t.Run("Cancellation Always Reachable", func(t *testing.T) {
		for _, s := range allStatuses {
			reachable := ReachableFrom(s)
			if s.IsTerminal() {
				assert.Empty(t, reachable, "terminal status %s must reach nothing", s)
				continue
			}
			assert.Contains(t, reachable, StatusCancelled, "status %s must reach cancelled", s)
		}
	})

	t.Run("Forward Only", func(t *testing.T) {
		reachable := ReachableFrom(StatusPreparing)
		assert.NotContains(t, reachable, StatusPending)
		assert.NotContains(t, reachable, StatusConfirmed)
		assert.NotContains(t, reachable, StatusPreparing)
		assert.Contains(t, reachable, StatusPrepared)
		assert.Contains(t, reachable, StatusDelivered)
	})

	t.Run("Unknown Status", func(t *testing.T) {
		assert.Empty(t, ReachableFrom(Status("bogus")))
	})

	t.Run("Cancelled Is Last", func(t *testing.T) {
		reachable := ReachableFrom(StatusPending)
		assert.Equal(t, StatusCancelled, reachable[len(reachable)-1])
	})
}

func TestNextCanonical(t *testing.T) {
	cases := []struct {
		from Status
		want Status
	}{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusPreparing},
		{StatusPreparing, StatusPrepared},
		{StatusPrepared, StatusShipping},
		{StatusShipping, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusDelivered, ""},
		{StatusCancelled, ""},
		{Status("bogus"), ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NextCanonical(tc.from), "next after %s", tc.from)
	}
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPending))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestIsValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.IsValid(), "%s must be valid", s)
	}
	assert.False(t, Status("PENDING").IsValid())
	assert.False(t, Status("").IsValid())
}
