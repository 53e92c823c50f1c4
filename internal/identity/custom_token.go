package identity

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hirelytics/hirelytics/internal/utils"
)

const CustomTokenAudience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

type customTokenClaims struct {
	jwt.RegisteredClaims
	UID    string         `json:"uid"`
	Claims map[string]any `json:"claims,omitempty"`
}

// CustomTokenMinter signs Firebase custom sign-in tokens with a service
// account key, so the browser can link its session to the backing store.
type CustomTokenMinter struct {
	clientEmail string
	key         *rsa.PrivateKey
	now         func() time.Time
}

func NewCustomTokenMinter(clientEmail, privateKeyPEM string) (*CustomTokenMinter, error) {
	const op = "identity.NewCustomTokenMinter"
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "parse private key", err)
	}
	return &CustomTokenMinter{clientEmail: clientEmail, key: key, now: time.Now}, nil
}

func (m *CustomTokenMinter) Mint(uid string) (string, error) {
	const op = "identity.Mint"
	if uid == "" {
		return "", utils.Unauthenticated(op)
	}

	iat := m.now()
	claims := customTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.clientEmail,
			Subject:   m.clientEmail,
			Audience:  jwt.ClaimStrings{CustomTokenAudience},
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(time.Hour)),
		},
		UID:    uid,
		Claims: map[string]any{"provider": "clerk"},
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.key)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "sign custom token", err)
	}
	return s, nil
}
