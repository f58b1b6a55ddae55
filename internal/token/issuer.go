package token

import (
	"errors"
	"time"
)

// Pair is an access+refresh token pair minted together. The two tokens share
// an issue time but are otherwise independent.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access TTL must be positive")
	}
	if refreshTTL <= accessTTL {
		return nil, errors.New("refresh TTL must be greater than access TTL")
	}
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock returns a copy of the issuer using the given clock. Tests only.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) IssueAccessToken(subject string) (string, error) {
	return i.issue(subject, KindAccess, i.accessTTL, i.now())
}

func (i *Issuer) IssueRefreshToken(subject string) (string, error) {
	return i.issue(subject, KindRefresh, i.refreshTTL, i.now())
}

func (i *Issuer) IssuePair(subject string) (*Pair, error) {
	now := i.now()
	access, err := i.issue(subject, KindAccess, i.accessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, err := i.issue(subject, KindRefresh, i.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) issue(subject string, kind Kind, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	return Encode(claims, kind, i.secret)
}
