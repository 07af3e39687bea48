package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReduceAvailable_FloorsAtZeroAndFlipsAvailability(t *testing.T) {
	tr := &Transporter{CapacityGrams: 1000, AvailableCapacity: 1000, Available: true}

	tr.ReduceAvailable(500)
	require.EqualValues(t, 500, tr.AvailableCapacity)
	require.True(t, tr.Available)

	tr.ReduceAvailable(500)
	require.EqualValues(t, 0, tr.AvailableCapacity)
	require.False(t, tr.Available)

	// Over-reduction clamps instead of going negative.
	tr.AvailableCapacity = 300
	tr.Available = true
	tr.ReduceAvailable(900)
	require.EqualValues(t, 0, tr.AvailableCapacity)
	require.False(t, tr.Available)
}

func TestRestoreAvailable_CapsAtCapacityAndReenables(t *testing.T) {
	tr := &Transporter{CapacityGrams: 1000, AvailableCapacity: 0, Available: false}

	tr.RestoreAvailable(400)
	require.EqualValues(t, 400, tr.AvailableCapacity)
	require.True(t, tr.Available)

	tr.RestoreAvailable(900)
	require.EqualValues(t, 1000, tr.AvailableCapacity)
	require.True(t, tr.Available)
}

func TestCanCarry(t *testing.T) {
	tr := &Transporter{CapacityGrams: 1000, AvailableCapacity: 500, Available: true}
	require.True(t, tr.CanCarry(500))
	require.False(t, tr.CanCarry(501))

	tr.Available = false
	require.False(t, tr.CanCarry(100))
}

func TestTransporterValidate(t *testing.T) {
	require.NoError(t, (&Transporter{CapacityGrams: 1000, AvailableCapacity: 500}).Validate())
	require.ErrorIs(t, (&Transporter{CapacityGrams: 0}).Validate(), ErrInvalidCapacity)
	require.ErrorIs(t, (&Transporter{CapacityGrams: 100, AvailableCapacity: 200}).Validate(), ErrInvalidCapacity)
}
