package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/envioslab/shipment-api/internal/domains/users/ports"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("super-secret")

	raw, err := issuer.Issue(ports.Claims{UserID: 7, Email: "ana@example.com", RoleID: 2})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Equal(t, int64(2), claims.RoleID)
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer := NewJWTIssuer("super-secret")
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	raw, err := issuer.Issue(ports.Claims{UserID: 7})
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(DefaultTTL + time.Minute) }
	_, err = issuer.Verify(raw)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := NewJWTIssuer("secret-one").Issue(ports.Claims{UserID: 7})
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret-two").Verify(raw)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewJWTIssuer("super-secret").Verify("not.a.token")
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestIssue_MissingSecret(t *testing.T) {
	_, err := NewJWTIssuer("").Issue(ports.Claims{UserID: 7})
	require.Error(t, err)
}
