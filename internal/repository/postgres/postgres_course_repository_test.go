package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campushq/course-service/internal/models"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseRepo(t *testing.T) (*PostgresCourseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCourseRepository(db), mock
}

func TestPostgresCourseRepository_Create(t *testing.T) {
	insertPattern := regexp.QuoteMeta(`INSERT INTO courses (code, title, teacher_id, capacity)`)

	t.Run("populates id and created_at", func(t *testing.T) {
		repo, mock := newCourseRepo(t)
		createdAt := time.Now()
		mock.ExpectQuery(insertPattern).
			WithArgs("CS101", "Intro to Computer Science", int32(2), int32(120)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int32(1), createdAt))

		course := &models.Course{Code: "CS101", Title: "Intro to Computer Science", TeacherID: 2, Capacity: 120}
		require.NoError(t, repo.Create(context.Background(), course))
		assert.Equal(t, int32(1), course.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate code maps to course exists", func(t *testing.T) {
		repo, mock := newCourseRepo(t)
		mock.ExpectQuery(insertPattern).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), &models.Course{Code: "CS101", Title: "Intro"})
		assert.ErrorIs(t, err, pkgerrors.ErrCourseExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing code or title is rejected", func(t *testing.T) {
		repo, _ := newCourseRepo(t)
		err := repo.Create(context.Background(), &models.Course{Code: "CS101"})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestPostgresCourseRepository_List(t *testing.T) {
	listPattern := regexp.QuoteMeta(`SELECT id, code, title, teacher_id, capacity, created_at FROM courses ORDER BY code`)

	t.Run("returns all rows in code order", func(t *testing.T) {
		repo, mock := newCourseRepo(t)
		createdAt := time.Now()
		mock.ExpectQuery(listPattern).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "teacher_id", "capacity", "created_at"}).
				AddRow(int32(1), "CS101", "Intro to Computer Science", int32(2), int32(120), createdAt).
				AddRow(int32(2), "CS202", "Algorithms", int32(2), int32(80), createdAt))

		courses, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "CS101", courses[0].Code)
		assert.Equal(t, "CS202", courses[1].Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields no courses", func(t *testing.T) {
		repo, mock := newCourseRepo(t)
		mock.ExpectQuery(listPattern).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "teacher_id", "capacity", "created_at"}))

		courses, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, courses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCourseRepository_GetByID(t *testing.T) {
	getPattern := regexp.QuoteMeta(`SELECT id, code, title, teacher_id, capacity, created_at FROM courses WHERE id = $1`)

	t.Run("missing course maps to not found", func(t *testing.T) {
		repo, mock := newCourseRepo(t)
		mock.ExpectQuery(getPattern).
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "teacher_id", "capacity", "created_at"}))

		_, err := repo.GetByID(context.Background(), 404)
		assert.ErrorIs(t, err, pkgerrors.ErrCourseNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
