package identity

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hirelytics/hirelytics/internal/utils"
)

// Session is what the identity provider vouches for on each request.
type Session struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	PublicMetadata map[string]any `json:"public_metadata"`
}

// Verifier checks HS256 session tokens. Issuer and audience are only
// enforced when set.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewVerifier(secret, issuer, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

var (
	ErrNoSecret       = errors.New("session secret not configured")
	ErrInvalidSession = errors.New("invalid session token")
)

func (v *Verifier) Verify(raw string) (Session, error) {
	const op = "identity.Verify"

	if len(v.secret) == 0 {
		return Session{}, utils.E(utils.CodeInternal, op, "session secret not configured", ErrNoSecret)
	}
	if raw == "" {
		return Session{}, utils.E(utils.CodeUnauthenticated, op, "missing session token", nil)
	}

	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return Session{}, utils.E(utils.CodeUnauthenticated, op, "invalid session token", ErrInvalidSession)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Session{}, utils.E(utils.CodeUnauthenticated, op, "invalid token issuer", ErrInvalidSession)
	}
	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return Session{}, utils.E(utils.CodeUnauthenticated, op, "invalid token audience", ErrInvalidSession)
	}
	if claims.Subject == "" {
		return Session{}, utils.E(utils.CodeUnauthenticated, op, "missing subject", ErrInvalidSession)
	}

	return Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
