package application

import (
	"errors"
	"fmt"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
)

var (
	// ErrInvalidInput signals the registration payload violated an invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrEmailTaken signals the email already belongs to an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// callers cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
