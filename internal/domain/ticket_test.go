package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, TicketStatusPaid.CanTransitionTo(TicketStatusCanceled))
	assert.True(t, TicketStatusPaid.CanTransitionTo(TicketStatusRefunded))

	// Terminal statuses never move again.
	assert.False(t, TicketStatusCanceled.CanTransitionTo(TicketStatusRefunded))
	assert.False(t, TicketStatusRefunded.CanTransitionTo(TicketStatusCanceled))
	assert.False(t, TicketStatusCanceled.CanTransitionTo(TicketStatusPaid))
}
