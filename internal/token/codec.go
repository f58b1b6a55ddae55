package token

import (
	stderrors "errors"
	"time"

	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the payload carried inside a signed token.
type Claims struct {
	Subject   string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type wireClaims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Encode signs claims into a compact HS256 JWT. Pure function, the secret
// never appears in the output.
func Encode(claims Claims, kind Kind, secret []byte) (string, error) {
	if claims.Subject == "" || !claims.ExpiresAt.After(claims.IssuedAt) {
		return "", pkgerrors.ErrInvalidClaims
	}
	wc := wireClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(secret)
}

// Decode parses the token structure and verifies its signature. Expiry is
// deliberately not checked here; that policy lives in the Validator so the
// clock-skew tolerance stays in one place.
func Decode(tokenStr string, secret []byte) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	var wc wireClaims
	_, err := parser.ParseWithClaims(tokenStr, &wc, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	switch {
	case err == nil:
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, pkgerrors.ErrSignatureInvalid
	default:
		return nil, pkgerrors.ErrTokenMalformed
	}
	if wc.Subject == "" || wc.IssuedAt == nil || wc.ExpiresAt == nil {
		return nil, pkgerrors.ErrTokenMalformed
	}
	return &Claims{
		Subject:   wc.Subject,
		Kind:      wc.Kind,
		IssuedAt:  wc.IssuedAt.Time,
		ExpiresAt: wc.ExpiresAt.Time,
	}, nil
}
