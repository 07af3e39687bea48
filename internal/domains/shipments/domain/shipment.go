package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeight       = errors.New("weight must be greater than zero grams")
	ErrMissingRecipient    = errors.New("recipient name, address and document are required")
	ErrMissingLocations    = errors.New("origin and destination locations are required")
	ErrMissingProductType  = errors.New("product type is required")
	ErrMissingOwner        = errors.New("owning user is required")
	ErrMissingTrackingCode = errors.New("tracking code is required")
)

// Shipment is the package a user hands over for delivery. It is immutable
// once created; lifecycle changes are expressed through its status history.
type Shipment struct {
	ID                int64
	UserID            int64
	OriginID          int64
	DestinationID     int64
	DestinationDetail string
	ProductTypeID     int64
	WeightGrams       int64
	Dimensions        string
	RecipientName     string
	RecipientAddress  string
	RecipientPhone    string
	RecipientDocument string
	TrackingCode      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewShipment validates the creation invariants and stamps a fresh tracking code.
func NewShipment(userID, originID, destinationID, productTypeID, weightGrams int64, dimensions, recipientName, recipientAddress, recipientPhone, recipientDocument string) (*Shipment, error) {
	s := &Shipment{
		UserID:            userID,
		OriginID:          originID,
		DestinationID:     destinationID,
		ProductTypeID:     productTypeID,
		WeightGrams:       weightGrams,
		Dimensions:        strings.TrimSpace(dimensions),
		RecipientName:     strings.TrimSpace(recipientName),
		RecipientAddress:  strings.TrimSpace(recipientAddress),
		RecipientPhone:    strings.TrimSpace(recipientPhone),
		RecipientDocument: strings.TrimSpace(recipientDocument),
		TrackingCode:      NewTrackingCode(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewTrackingCode produces the short user-facing identifier: the first eight
// characters of a random UUID, uppercased.
func NewTrackingCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Validate re-applies the creation invariants.
func (s *Shipment) Validate() error {
	if s.UserID <= 0 {
		return ErrMissingOwner
	}
	if s.OriginID <= 0 || s.DestinationID <= 0 {
		return ErrMissingLocations
	}
	if s.ProductTypeID <= 0 {
		return ErrMissingProductType
	}
	if s.WeightGrams <= 0 {
		return ErrInvalidWeight
	}
	if s.RecipientName == "" || s.RecipientAddress == "" || s.RecipientDocument == "" {
		return ErrMissingRecipient
	}
	if s.TrackingCode == "" {
		return ErrMissingTrackingCode
	}
	return nil
}

// OwnedBy reports whether the shipment belongs to the given user.
func (s *Shipment) OwnedBy(userID int64) bool { return s.UserID == userID }
