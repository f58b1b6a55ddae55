package errors

import (
	"errors"
)

var (
	// Token lifecycle errors. Validation decides in this order:
	// malformed -> signature -> expiry -> subject mismatch.
	ErrTokenMalformed   = errors.New("invalid JWT token")
	ErrSignatureInvalid = errors.New("invalid JWT signature")
	ErrTokenExpired     = errors.New("token has expired")
	ErrSubjectMismatch  = errors.New("token subject mismatch")
	ErrWrongTokenKind   = errors.New("wrong token kind")
	ErrInvalidClaims    = errors.New("invalid token claims")

	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPrincipalUnavailable = errors.New("principal unavailable")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrNilUser            = errors.New("user is nil")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("course already exists")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)
