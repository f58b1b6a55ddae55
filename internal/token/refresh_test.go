package token

import (
	"testing"
	"time"

	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCoordinator_Refresh(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	const skew = 60 * time.Second

	issuer, err := NewIssuer(testSecret, 3600*time.Second, 86400*time.Second)
	require.NoError(t, err)

	t.Run("exchanges a refresh token for a fresh pair", func(t *testing.T) {
		pair, err := issuer.WithClock(fixedClock(t0)).IssuePair("000000000")
		require.NoError(t, err)

		later := t0.Add(30 * time.Minute)
		rc := NewRefreshCoordinator(
			NewValidator(testSecret, skew).WithClock(fixedClock(later)),
			issuer.WithClock(fixedClock(later)),
		)

		fresh, err := rc.Refresh(pair.RefreshToken)
		require.NoError(t, err)

		access, err := NewValidator(testSecret, skew).WithClock(fixedClock(later)).Validate(fresh.AccessToken, "000000000")
		require.NoError(t, err)
		assert.Equal(t, KindAccess, access.Kind)

		refresh, err := Decode(fresh.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, KindRefresh, refresh.Kind)
		assert.Equal(t, "000000000", refresh.Subject)
		assert.Equal(t, later.Unix(), refresh.IssuedAt.Unix())
	})

	t.Run("rejects an access token where a refresh token is required", func(t *testing.T) {
		pair, err := issuer.WithClock(fixedClock(t0)).IssuePair("000000000")
		require.NoError(t, err)

		rc := NewRefreshCoordinator(
			NewValidator(testSecret, skew).WithClock(fixedClock(t0)),
			issuer.WithClock(fixedClock(t0)),
		)
		_, err = rc.Refresh(pair.AccessToken)
		assert.ErrorIs(t, err, pkgerrors.ErrWrongTokenKind)
	})

	t.Run("expired refresh token is terminal", func(t *testing.T) {
		pair, err := issuer.WithClock(fixedClock(t0)).IssuePair("000000000")
		require.NoError(t, err)

		muchLater := t0.Add(86400*time.Second + skew + time.Second)
		rc := NewRefreshCoordinator(
			NewValidator(testSecret, skew).WithClock(fixedClock(muchLater)),
			issuer.WithClock(fixedClock(muchLater)),
		)
		_, err = rc.Refresh(pair.RefreshToken)
		assert.ErrorIs(t, err, pkgerrors.ErrTokenExpired)
	})

	t.Run("malformed refresh token", func(t *testing.T) {
		rc := NewRefreshCoordinator(NewValidator(testSecret, skew), issuer)
		_, err := rc.Refresh("garbage")
		assert.ErrorIs(t, err, pkgerrors.ErrTokenMalformed)
	})
}

// Full lifecycle at concrete offsets: access TTL 3600s, refresh TTL 86400s,
// skew 60s.
func TestTokenLifecycle_Scenario(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	const skew = 60 * time.Second

	issuer, err := NewIssuer(testSecret, 3600*time.Second, 86400*time.Second)
	require.NoError(t, err)

	pair, err := issuer.WithClock(fixedClock(t0)).IssuePair("000000000")
	require.NoError(t, err)

	at := func(offset time.Duration) *Validator {
		return NewValidator(testSecret, skew).WithClock(fixedClock(t0.Add(offset)))
	}

	// t0+3000: access token still valid.
	_, err = at(3000 * time.Second).Validate(pair.AccessToken, "000000000")
	assert.NoError(t, err)

	// t0+3700: past TTL plus skew.
	_, err = at(3700 * time.Second).Validate(pair.AccessToken, "000000000")
	assert.ErrorIs(t, err, pkgerrors.ErrTokenExpired)

	// Refresh still works at t0+3700 and the new access token is valid a
	// second later.
	refreshAt := t0.Add(3700 * time.Second)
	rc := NewRefreshCoordinator(
		NewValidator(testSecret, skew).WithClock(fixedClock(refreshAt)),
		issuer.WithClock(fixedClock(refreshAt)),
	)
	fresh, err := rc.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	_, err = at(3701 * time.Second).Validate(fresh.AccessToken, "000000000")
	assert.NoError(t, err)
}
