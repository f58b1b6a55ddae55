package service

import (
	"context"
	"testing"
	"time"

	"github.com/campushq/course-service/internal/models"
	"github.com/campushq/course-service/internal/token"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	createFn         func(ctx context.Context, user *models.User) error
	getByIDFn        func(ctx context.Context, id int32) (*models.User, error)
	getByStudentIDFn func(ctx context.Context, studentID string) (*models.User, error)
	setActiveFn      func(ctx context.Context, id int32, active bool) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int32) (*models.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return f.getByStudentIDFn(ctx, studentID)
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id int32, active bool) error {
	return f.setActiveFn(ctx, id, active)
}

var authTestSecret = []byte("auth-service-test-secret")

func newTestTokenStack(t *testing.T) (*token.Issuer, *token.RefreshCoordinator) {
	t.Helper()
	issuer, err := token.NewIssuer(authTestSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	validator := token.NewValidator(authTestSecret, time.Minute)
	return issuer, token.NewRefreshCoordinator(validator, issuer)
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		StudentID:    "000000000",
		Name:         "Ada Lovelace",
		Email:        "ada@example.edu",
		Role:         models.RoleStudent,
		Active:       true,
		PasswordHash: string(hash),
	}
}

func TestAuthService_Register(t *testing.T) {
	issuer, refresher := newTestTokenStack(t)

	t.Run("creates the user and defaults the role", func(t *testing.T) {
		var created *models.User
		repo := &fakeUserRepo{createFn: func(_ context.Context, user *models.User) error {
			user.ID = 42
			created = user
			return nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		id, err := svc.Register(context.Background(), "000000000", "Ada Lovelace", "ada@example.edu", "s3cret", "")
		require.NoError(t, err)
		assert.Equal(t, int32(42), id)
		require.NotNil(t, created)
		assert.Equal(t, models.RoleStudent, created.Role)
		assert.True(t, created.Active)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{}, issuer, refresher)
		_, err := svc.Register(context.Background(), "", "", "", "", models.RoleStudent)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("surfaces duplicate registration", func(t *testing.T) {
		repo := &fakeUserRepo{createFn: func(_ context.Context, _ *models.User) error {
			return pkgerrors.ErrUserAlreadyExists
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.Register(context.Background(), "000000000", "Ada", "ada@example.edu", "s3cret", models.RoleStudent)
		assert.ErrorIs(t, err, pkgerrors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	issuer, refresher := newTestTokenStack(t)

	t.Run("issues a pair bound to the student id", func(t *testing.T) {
		user := activeUser(t, "s3cret")
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		pair, err := svc.Login(context.Background(), "000000000", "s3cret")
		require.NoError(t, err)

		validator := token.NewValidator(authTestSecret, time.Minute)
		claims, err := validator.Validate(pair.AccessToken, "000000000")
		require.NoError(t, err)
		assert.Equal(t, token.KindAccess, claims.Kind)
	})

	t.Run("unknown student id collapses to invalid credentials", func(t *testing.T) {
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, pkgerrors.ErrUserNotFound
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.Login(context.Background(), "999999999", "s3cret")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
	})

	t.Run("wrong password collapses to invalid credentials", func(t *testing.T) {
		user := activeUser(t, "s3cret")
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.Login(context.Background(), "000000000", "wrong")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
	})

	t.Run("disabled account cannot log in", func(t *testing.T) {
		user := activeUser(t, "s3cret")
		user.Active = false
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.Login(context.Background(), "000000000", "s3cret")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	issuer, refresher := newTestTokenStack(t)
	svc := NewAuthService(&fakeUserRepo{}, issuer, refresher)

	t.Run("exchanges a refresh token", func(t *testing.T) {
		pair, err := issuer.IssuePair("000000000")
		require.NoError(t, err)

		fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
		assert.NotEmpty(t, fresh.RefreshToken)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		pair, err := issuer.IssuePair("000000000")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, pkgerrors.ErrWrongTokenKind)
	})
}

func TestAuthService_ResolvePrincipal(t *testing.T) {
	issuer, refresher := newTestTokenStack(t)

	t.Run("maps the role onto authorities", func(t *testing.T) {
		user := activeUser(t, "s3cret")
		user.Role = models.RoleTeacher
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		principal, err := svc.ResolvePrincipal(context.Background(), "000000000")
		require.NoError(t, err)
		assert.Equal(t, "000000000", principal.Subject)
		assert.Contains(t, principal.Authorities, "courses:write")
		assert.Contains(t, principal.Authorities, "grades:write")
	})

	t.Run("missing user is unavailable", func(t *testing.T) {
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, pkgerrors.ErrUserNotFound
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.ResolvePrincipal(context.Background(), "999999999")
		assert.ErrorIs(t, err, pkgerrors.ErrPrincipalUnavailable)
	})

	t.Run("disabled user is unavailable", func(t *testing.T) {
		user := activeUser(t, "s3cret")
		user.Active = false
		repo := &fakeUserRepo{getByStudentIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		}}
		svc := NewAuthService(repo, issuer, refresher)

		_, err := svc.ResolvePrincipal(context.Background(), "000000000")
		assert.ErrorIs(t, err, pkgerrors.ErrPrincipalUnavailable)
	})
}
