package token

import (
	"time"

	pkgerrors "github.com/campushq/course-service/pkg/errors"
)

// Validator verifies signature, expiry and subject binding. A token whose
// expiry is in the past by no more than the leeway is still accepted; this
// absorbs clock drift between issuing and validating nodes.
type Validator struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

func NewValidator(secret []byte, leeway time.Duration) *Validator {
	return &Validator{
		secret: secret,
		leeway: leeway,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock returns a copy of the validator using the given clock. Tests only.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	cp := *v
	cp.now = now
	return &cp
}

// Validate checks malformed -> signature -> expiry -> subject mismatch, in
// that order. An empty expectedSubject skips the subject check.
func (v *Validator) Validate(tokenStr, expectedSubject string) (*Claims, error) {
	claims, err := Decode(tokenStr, v.secret)
	if err != nil {
		return nil, err
	}
	if v.now().After(claims.ExpiresAt.Add(v.leeway)) {
		return nil, pkgerrors.ErrTokenExpired
	}
	if expectedSubject != "" && claims.Subject != expectedSubject {
		return nil, pkgerrors.ErrSubjectMismatch
	}
	return claims, nil
}

// ExtractSubject validates the token and returns its subject. Used when the
// caller does not yet know which identity to expect.
func (v *Validator) ExtractSubject(tokenStr string) (string, error) {
	claims, err := v.Validate(tokenStr, "")
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
