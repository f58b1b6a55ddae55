package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	stderrors "errors"

	"github.com/campushq/course-service/internal/infrastructure/kafka"
	"github.com/campushq/course-service/internal/infrastructure/redis"
	"github.com/campushq/course-service/internal/models"
	"github.com/campushq/course-service/internal/repository"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const (
	courseCatalogKey = "courses:catalog"
	courseCatalogTTL = 5 * time.Minute

	notificationsTopic = "notifications"
)

type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, subject string, course *models.Course) error
	Enroll(ctx context.Context, subject string, courseID int32) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, subject string) ([]models.Enrollment, error)
	SubmitAssignment(ctx context.Context, subject string, enrollmentID int32, assignment, content string) (*models.Submission, error)
	GradeSubmission(ctx context.Context, graderSubject string, submissionID, score int32) error
}

type courseService struct {
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	submissionRepo repository.SubmissionRepository
	redisClient    redis.RedisClient
	kafkaProducer  kafka.KafkaProducer
}

func NewCourseService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	submissionRepo repository.SubmissionRepository,
	redisClient redis.RedisClient,
	kafkaProducer kafka.KafkaProducer,
) *courseService {
	return &courseService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		submissionRepo: submissionRepo,
		redisClient:    redisClient,
		kafkaProducer:  kafkaProducer,
	}
}

func (s *courseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "ListCourses")
	defer span.End()

	cached, err := s.redisClient.Get(ctx, courseCatalogKey)
	if err == nil {
		var courses []models.Course
		if err := json.Unmarshal([]byte(cached), &courses); err != nil {
			slog.Error("failed to unmarshal cached catalog", "error", err)
		} else {
			return courses, nil
		}
	} else if !stderrors.Is(err, redis.ErrKeyNotFound) {
		slog.Error("failed to read catalog from Redis", "error", err)
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course listing failed")
		slog.Error("failed to list courses", "error", err)
		return nil, err
	}

	if payload, err := json.Marshal(courses); err == nil {
		if err := s.redisClient.Set(ctx, courseCatalogKey, string(payload), courseCatalogTTL); err != nil {
			slog.Error("failed to cache catalog", "error", err)
		}
	}
	return courses, nil
}

func (s *courseService) CreateCourse(ctx context.Context, subject string, course *models.Course) error {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "CreateCourse")
	defer span.End()

	teacher, err := s.userRepo.GetByStudentID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "teacher lookup failed")
		slog.Error("failed to resolve course creator", "student_id", subject, "error", err)
		return err
	}
	course.TeacherID = teacher.ID

	if err := s.courseRepo.Create(ctx, course); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course creation failed")
		slog.Error("failed to create course", "code", course.Code, "error", err)
		return err
	}

	if err := s.redisClient.Del(ctx, courseCatalogKey); err != nil {
		slog.Error("failed to invalidate catalog cache", "error", err)
	}

	slog.Info("course created", "course_id", course.ID, "code", course.Code)
	return nil
}

func (s *courseService) Enroll(ctx context.Context, subject string, courseID int32) (*models.Enrollment, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "Enroll")
	defer span.End()

	user, err := s.userRepo.GetByStudentID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		slog.Error("failed to resolve student", "student_id", subject, "error", err)
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		span.SetStatus(codes.Error, "course not found")
		slog.Warn("enrollment into unknown course", "course_id", courseID, "error", err)
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, user.ID, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment check failed")
		slog.Error("failed to check enrollment", "user_id", user.ID, "course_id", courseID, "error", err)
		return nil, err
	}
	if enrolled {
		span.SetStatus(codes.Error, "already enrolled")
		return nil, pkgerrors.ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		UserID:   user.ID,
		CourseID: courseID,
		Status:   models.EnrollmentActive,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment creation failed")
		slog.Error("failed to create enrollment", "user_id", user.ID, "course_id", courseID, "error", err)
		return nil, err
	}

	s.publishNotification(models.NotificationEvent{
		EventType:  models.EventEnrollmentCreated,
		StudentID:  user.StudentID,
		Email:      user.Email,
		CourseCode: course.Code,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	slog.Info("enrollment created", "enrollment_id", enrollment.ID, "student_id", user.StudentID, "course_code", course.Code)
	return enrollment, nil
}

func (s *courseService) ListEnrollments(ctx context.Context, subject string) ([]models.Enrollment, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "ListEnrollments")
	defer span.End()

	user, err := s.userRepo.GetByStudentID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByUser(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment listing failed")
		slog.Error("failed to list enrollments", "user_id", user.ID, "error", err)
		return nil, err
	}
	return enrollments, nil
}

func (s *courseService) SubmitAssignment(ctx context.Context, subject string, enrollmentID int32, assignment, content string) (*models.Submission, error) {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "SubmitAssignment")
	defer span.End()

	user, err := s.userRepo.GetByStudentID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		span.SetStatus(codes.Error, "enrollment not found")
		return nil, err
	}
	if enrollment.UserID != user.ID {
		span.SetStatus(codes.Error, "enrollment belongs to another student")
		slog.Warn("submission against foreign enrollment", "user_id", user.ID, "enrollment_id", enrollmentID)
		return nil, pkgerrors.ErrEnrollmentNotFound
	}

	submission := &models.Submission{
		EnrollmentID: enrollmentID,
		Assignment:   assignment,
		Content:      content,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission creation failed")
		slog.Error("failed to create submission", "enrollment_id", enrollmentID, "error", err)
		return nil, err
	}

	slog.Info("submission created", "submission_id", submission.ID, "enrollment_id", enrollmentID, "assignment", assignment)
	return submission, nil
}

func (s *courseService) GradeSubmission(ctx context.Context, graderSubject string, submissionID, score int32) error {
	tracer := otel.Tracer("course-service")
	ctx, span := tracer.Start(ctx, "GradeSubmission")
	defer span.End()

	grader, err := s.userRepo.GetByStudentID(ctx, graderSubject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grader lookup failed")
		return err
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		span.SetStatus(codes.Error, "submission not found")
		return err
	}

	if err := s.submissionRepo.SetGrade(ctx, submissionID, score, grader.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading failed")
		slog.Error("failed to set grade", "submission_id", submissionID, "error", err)
		return err
	}

	event := models.NotificationEvent{
		EventType:  models.EventGradePosted,
		Assignment: submission.Assignment,
		Score:      score,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if enrollment, err := s.enrollmentRepo.GetByID(ctx, submission.EnrollmentID); err == nil {
		if student, err := s.userRepo.GetByID(ctx, enrollment.UserID); err == nil {
			event.StudentID = student.StudentID
			event.Email = student.Email
		}
	}
	s.publishNotification(event)

	slog.Info("submission graded", "submission_id", submissionID, "score", score, "graded_by", grader.ID)
	return nil
}

// publishNotification sends the event asynchronously with a small retry
// budget; notification delivery never fails the originating request.
func (s *courseService) publishNotification(event models.NotificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal notification event", "event_type", event.EventType, "error", err)
		return
	}
	go func() {
		retries := 3
		for i := 0; i < retries; i++ {
			if err := s.kafkaProducer.Send(context.Background(), notificationsTopic, event.StudentID, payload); err == nil {
				return
			}
			time.Sleep(time.Second * time.Duration(i+1))
		}
		slog.Error("failed to send notification event after retries",
			"event_type", event.EventType,
			"student_id", event.StudentID)
	}()
}
