package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validShipment(t *testing.T) *Shipment {
	t.Helper()
	s, err := NewShipment(7, 1, 2, 3, 500, "20x20x20", "Ana Gómez", "Calle 10 #4-21", "3000000000", "CC-123")
	require.NoError(t, err)
	return s
}

func TestNewShipment_StampsTrackingCode(t *testing.T) {
	s := validShipment(t)
	require.Len(t, s.TrackingCode, 8)
	require.Equal(t, strings.ToUpper(s.TrackingCode), s.TrackingCode)

	other := validShipment(t)
	require.NotEqual(t, s.TrackingCode, other.TrackingCode)
}

func TestNewShipment_Validation(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (*Shipment, error)
		want error
	}{
		{"zero weight", func() (*Shipment, error) {
			return NewShipment(7, 1, 2, 3, 0, "", "Ana", "Calle 10", "", "CC-123")
		}, ErrInvalidWeight},
		{"negative weight", func() (*Shipment, error) {
			return NewShipment(7, 1, 2, 3, -100, "", "Ana", "Calle 10", "", "CC-123")
		}, ErrInvalidWeight},
		{"missing owner", func() (*Shipment, error) {
			return NewShipment(0, 1, 2, 3, 500, "", "Ana", "Calle 10", "", "CC-123")
		}, ErrMissingOwner},
		{"missing locations", func() (*Shipment, error) {
			return NewShipment(7, 0, 2, 3, 500, "", "Ana", "Calle 10", "", "CC-123")
		}, ErrMissingLocations},
		{"missing product type", func() (*Shipment, error) {
			return NewShipment(7, 1, 2, 0, 500, "", "Ana", "Calle 10", "", "CC-123")
		}, ErrMissingProductType},
		{"missing recipient", func() (*Shipment, error) {
			return NewShipment(7, 1, 2, 3, 500, "", "  ", "Calle 10", "", "CC-123")
		}, ErrMissingRecipient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOwnedBy(t *testing.T) {
	s := validShipment(t)
	require.True(t, s.OwnedBy(7))
	require.False(t, s.OwnedBy(8))
}
