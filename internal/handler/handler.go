package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/campushq/course-service/internal/infrastructure/auth"
	"github.com/campushq/course-service/internal/infrastructure/observability"
	"github.com/campushq/course-service/internal/models"
	service "github.com/campushq/course-service/internal/services"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/gorilla/mux"
)

type Handler struct {
	authService   service.AuthService
	courseService service.CourseService
}

func NewHandler(authService service.AuthService, courseService service.CourseService) *Handler {
	return &Handler{authService: authService, courseService: courseService}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/courses", h.ListCourses).Methods(http.MethodGet)
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	r.Handle("/courses", auth.RequireAuthority("courses:write")(http.HandlerFunc(h.CreateCourse))).Methods(http.MethodPost)
	r.Handle("/enrollments", auth.RequireAuthority("enrollments:write")(http.HandlerFunc(h.Enroll))).Methods(http.MethodPost)
	r.HandleFunc("/enrollments", h.ListEnrollments).Methods(http.MethodGet)
	r.Handle("/submissions", auth.RequireAuthority("submissions:write")(http.HandlerFunc(h.CreateSubmission))).Methods(http.MethodPost)
	r.Handle("/submissions/{id:[0-9]+}/grade", auth.RequireAuthority("grades:write")(http.HandlerFunc(h.GradeSubmission))).Methods(http.MethodPost)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.authService.Register(r.Context(), req.StudentID, req.Name, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrUserAlreadyExists):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, pkgerrors.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]int32{"user_id": userID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.authService.Login(r.Context(), req.StudentID, req.Password)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, err.Error())
		} else {
			h.writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, pair)
}

// Refresh exchanges a valid refresh token for a new pair. Failures are always
// 401 with a short reason; expiry is called out so clients re-authenticate.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		observability.TokenRefreshes.WithLabelValues("rejected").Inc()
		h.writeError(w, http.StatusUnauthorized, auth.ReasonForError(err))
		return
	}

	observability.TokenRefreshes.WithLabelValues("success").Inc()
	h.writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"subject":     principal.Subject,
		"authorities": principal.Authorities,
	})
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	h.writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req struct {
		Code     string `json:"code"`
		Title    string `json:"title"`
		Capacity int32  `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course := &models.Course{Code: req.Code, Title: req.Title, Capacity: req.Capacity}
	if err := h.courseService.CreateCourse(r.Context(), principal.Subject, course); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrCourseExists):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, pkgerrors.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "failed to create course")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req struct {
		CourseID int32 `json:"course_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := h.courseService.Enroll(r.Context(), principal.Subject, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrCourseNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, pkgerrors.ErrAlreadyEnrolled):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "failed to enroll")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, enrollment)
}

func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	enrollments, err := h.courseService.ListEnrollments(r.Context(), principal.Subject)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	h.writeJSON(w, http.StatusOK, enrollments)
}

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req struct {
		EnrollmentID int32  `json:"enrollment_id"`
		Assignment   string `json:"assignment"`
		Content      string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submission, err := h.courseService.SubmitAssignment(r.Context(), principal.Subject, req.EnrollmentID, req.Assignment, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrEnrollmentNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, pkgerrors.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "failed to create submission")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, submission)
}

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	submissionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	var req struct {
		Score int32 `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.courseService.GradeSubmission(r.Context(), principal.Subject, int32(submissionID), req.Score); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrSubmissionNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "failed to grade submission")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "graded"})
}
