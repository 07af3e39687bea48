package ports

import "errors"

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity a verified token carries.
type Claims struct {
	UserID int64
	Email  string
	RoleID int64
}

// TokenIssuer signs and verifies the session tokens handed out at login.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}
