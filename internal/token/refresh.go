package token

import (
	pkgerrors "github.com/campushq/course-service/pkg/errors"
)

// RefreshCoordinator exchanges a valid refresh token for a fresh pair.
// The design is stateless: the old refresh token is not invalidated and
// remains usable until its natural expiry.
type RefreshCoordinator struct {
	validator *Validator
	issuer    *Issuer
}

func NewRefreshCoordinator(validator *Validator, issuer *Issuer) *RefreshCoordinator {
	return &RefreshCoordinator{validator: validator, issuer: issuer}
}

func (c *RefreshCoordinator) Refresh(refreshToken string) (*Pair, error) {
	claims, err := c.validator.Validate(refreshToken, "")
	if err != nil {
		return nil, err
	}
	if claims.Kind != KindRefresh {
		return nil, pkgerrors.ErrWrongTokenKind
	}
	return c.issuer.IssuePair(claims.Subject)
}
