package service

import (
	"context"
	"fmt"
	"log/slog"

	stderrors "errors"

	"github.com/campushq/course-service/internal/infrastructure/auth"
	"github.com/campushq/course-service/internal/models"
	"github.com/campushq/course-service/internal/repository"
	"github.com/campushq/course-service/internal/token"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, studentID, name, email, password string, role models.Role) (int32, error)
	Login(ctx context.Context, studentID, password string) (*token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)
	ResolvePrincipal(ctx context.Context, subject string) (*auth.Principal, error)
}

type authService struct {
	userRepo  repository.UserRepository
	issuer    *token.Issuer
	refresher *token.RefreshCoordinator
}

func NewAuthService(userRepo repository.UserRepository, issuer *token.Issuer, refresher *token.RefreshCoordinator) *authService {
	return &authService{
		userRepo:  userRepo,
		issuer:    issuer,
		refresher: refresher,
	}
}

func (s *authService) Register(ctx context.Context, studentID, name, email, password string, role models.Role) (int32, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if studentID == "" || password == "" {
		span.SetStatus(codes.Error, "empty student_id or password")
		return 0, pkgerrors.ErrInvalidInput
	}
	if role == "" {
		role = models.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password hashing failed")
		slog.Error("failed to hash password", "student_id", studentID, "error", err)
		return 0, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	user := &models.User{
		StudentID:    studentID,
		Name:         name,
		Email:        email,
		Role:         role,
		Active:       true,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			span.SetStatus(codes.Error, "student_id already registered")
			slog.Warn("student_id already registered", "student_id", studentID)
			return 0, pkgerrors.ErrUserAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user creation failed")
		slog.Error("failed to create user", "student_id", studentID, "error", err)
		return 0, fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	slog.Info("user registered", "user_id", user.ID, "student_id", studentID, "role", role)
	return user.ID, nil
}

func (s *authService) Login(ctx context.Context, studentID, password string) (*token.Pair, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.userRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		span.SetStatus(codes.Error, "user lookup failed")
		slog.Warn("login failed", "student_id", studentID, "error", err)
		return nil, pkgerrors.ErrInvalidCredentials
	}
	if !user.Active {
		span.SetStatus(codes.Error, "user disabled")
		slog.Warn("login rejected for disabled user", "student_id", studentID)
		return nil, pkgerrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		span.SetStatus(codes.Error, "invalid password")
		slog.Warn("invalid password", "student_id", studentID)
		return nil, pkgerrors.ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		slog.Error("failed to issue token pair", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("%w: failed to issue tokens", pkgerrors.ErrInternal)
	}

	slog.Info("user logged in", "student_id", studentID, "user_id", user.ID)
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	tracer := otel.Tracer("course-service")
	_, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	pair, err := s.refresher.Refresh(refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "refresh rejected")
		slog.Warn("refresh rejected", "error", err)
		return nil, err
	}

	slog.Info("token pair refreshed")
	return pair, nil
}

// ResolvePrincipal turns a validated token subject into a live principal.
// A missing or disabled user is reported as unavailable, never as a distinct
// condition the caller could leak to clients.
func (s *authService) ResolvePrincipal(ctx context.Context, subject string) (*auth.Principal, error) {
	user, err := s.userRepo.GetByStudentID(ctx, subject)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrPrincipalUnavailable
		}
		return nil, fmt.Errorf("%w: principal lookup failed", pkgerrors.ErrInternal)
	}
	if !user.Active {
		return nil, pkgerrors.ErrPrincipalUnavailable
	}
	return &auth.Principal{
		Subject:     user.StudentID,
		Authorities: user.Role.Authorities(),
	}, nil
}
