package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus_KnownValues(t *testing.T) {
	for _, status := range KnownStatuses() {
		parsed, err := ParseStatus(string(status))
		require.NoError(t, err)
		require.Equal(t, status, parsed)
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	_, err := ParseStatus("Perdido")
	require.ErrorIs(t, err, ErrUnknownStatus)

	// Casing matters: the literals are persisted verbatim.
	_, err = ParseStatus("en espera")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestValidateTransition_SelfRejected(t *testing.T) {
	for _, status := range KnownStatuses() {
		err := status.ValidateTransition(status)
		require.ErrorIs(t, err, ErrSameStatus)
	}
}

func TestValidateTransition_TerminalRejected(t *testing.T) {
	require.ErrorIs(t, StatusDelivered.ValidateTransition(StatusPending), ErrShipmentDelivered)
	require.ErrorIs(t, StatusDelivered.ValidateTransition(StatusInTransit), ErrShipmentDelivered)
}

func TestValidateTransition_AllowsAnyOtherMove(t *testing.T) {
	require.NoError(t, StatusPending.ValidateTransition(StatusInTransit))
	require.NoError(t, StatusPending.ValidateTransition(StatusDelivered))
	require.NoError(t, StatusInTransit.ValidateTransition(StatusPending))
	require.NoError(t, StatusInTransit.ValidateTransition(StatusDelivered))
}
