package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ReservationStatus }{
		{StatusPendingPayment, StatusConfirmed},
		{StatusPendingPayment, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusNoShow},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to ReservationStatus }{
		{StatusPendingPayment, StatusInProgress},
		{StatusPendingPayment, StatusCompleted},
		{StatusConfirmed, StatusPendingPayment},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPendingPayment},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusConfirmed},
		{StatusInProgress, StatusCancelled},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(StatusPendingPayment, StatusConfirmed))

	err := CheckTransition(StatusCompleted, StatusCancelled)
	require.Error(t, err)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusCompleted, transitionErr.From)
	assert.Equal(t, StatusCancelled, transitionErr.To)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPendingPayment.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestParseReservationStatus(t *testing.T) {
	status, err := ParseReservationStatus("pending_payment")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, status)

	_, err = ParseReservationStatus("PENDING_PAYMENT")
	assert.Error(t, err)

	_, err = ParseReservationStatus("paid")
	assert.Error(t, err)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(0))
	assert.Equal(t, StatusPendingPayment, InitialStatus(0.01))
	assert.Equal(t, StatusPendingPayment, InitialStatus(150))
}
