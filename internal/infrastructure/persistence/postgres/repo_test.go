package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

type queryCounter struct {
	service.NoopMetrics
	ops []string
}

func (q *queryCounter) RecordDBQuery(operation string, _ time.Duration) {
	q.ops = append(q.ops, operation)
}

func newTestDB(t *testing.T, metrics service.Metrics) *DBConnection {
	t.Helper()
	ctx := context.Background()
	conn, err := NewDBConnection(ctx, &config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, metrics, logger.NewNoopLogger())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(ctx))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sampleCourse(title string) *models.Course {
	return &models.Course{
		Owner:    "owner@example.com",
		Title:    title,
		Slug:     "slug-" + title,
		Overview: "overview",
		Created:  time.Now().UTC(),
		Module:   models.Module{Title: "Module " + title, Description: "d"},
		Subject:  models.Subject{Title: "Subject " + title, Slug: "s-" + title},
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewUserRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	user := models.NewUser("Ada", "Lovelace", "ada@example.com", "hash", "Engineer", true)
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsSuperUser)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	exists, err := repo.ExistsByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_FindByEmailAbsentIsNotAnError(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewUserRepository(conn.DB(), logger.NewNoopLogger())

	user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_FindByIDAbsent(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewUserRepository(conn.DB(), logger.NewNoopLogger())

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewUserRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.NewUser("A", "B", "dup@example.com", "h", "J", false)))
	err := repo.Create(ctx, models.NewUser("C", "D", "dup@example.com", "h", "J", false))
	assert.True(t, errors.IsCode(err, constants.ErrCodeConflict), "got %v", err)
}

func TestUserRepository_CreateManyIsAtomic(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewUserRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	users := []*models.User{
		models.NewUser("A", "A", "one@example.com", "h", "J", false),
		models.NewUser("B", "B", "two@example.com", "h", "J", false),
		models.NewUser("C", "C", "one@example.com", "h", "J", false),
	}
	err := repo.CreateMany(ctx, users)
	assert.True(t, errors.IsCode(err, constants.ErrCodeConflict))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.CreateMany(ctx, users[:2]))
	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCourseRepository_Lifecycle(t *testing.T) {
	counter := &queryCounter{}
	conn := newTestDB(t, counter)
	repo := NewCourseRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	course := sampleCourse("go")
	require.NoError(t, repo.Create(ctx, course))
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, course.Module.ID, course.ModuleID)

	found, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Module go", found.Module.Title)
	assert.Equal(t, "s-go", found.Subject.Slug)

	found.Title = "Go in depth"
	found.Module.Title = "Advanced"
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in depth", updated.Title)
	assert.Equal(t, "Advanced", updated.Module.Title)

	require.NoError(t, repo.Delete(ctx, course.ID))
	_, err = repo.FindByID(ctx, course.ID)
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))
	assert.True(t, errors.IsCode(repo.Delete(ctx, course.ID), constants.ErrCodeNotFound))

	assert.Contains(t, counter.ops, "create_course")
	assert.Contains(t, counter.ops, "query_course")
}

func TestCourseRepository_CreateManyAndList(t *testing.T) {
	conn := newTestDB(t, nil)
	repo := NewCourseRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, repo.CreateMany(ctx, []*models.Course{sampleCourse("a"), sampleCourse("b"), sampleCourse("c")}))

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEmpty(t, list[0].Module.Title)
	assert.NotEmpty(t, list[0].Subject.Title)
}

func TestModuleRepository_DeleteCascadesToCourses(t *testing.T) {
	conn := newTestDB(t, nil)
	courses := NewCourseRepository(conn.DB(), logger.NewNoopLogger())
	modules := NewModuleRepository(conn.DB(), logger.NewNoopLogger())
	subjects := NewSubjectRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	course := sampleCourse("x")
	require.NoError(t, courses.Create(ctx, course))

	require.NoError(t, modules.Delete(ctx, course.ModuleID))
	_, err := courses.FindByID(ctx, course.ID)
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))

	// The subject survives; only courses of the deleted module go.
	_, err = subjects.FindByID(ctx, course.SubjectID)
	assert.NoError(t, err)

	assert.True(t, errors.IsCode(modules.Delete(ctx, course.ModuleID), constants.ErrCodeNotFound))
}

func TestSubjectRepository_CRUD(t *testing.T) {
	conn := newTestDB(t, nil)
	courses := NewCourseRepository(conn.DB(), logger.NewNoopLogger())
	repo := NewSubjectRepository(conn.DB(), logger.NewNoopLogger())
	ctx := context.Background()

	subject := &models.Subject{Title: "Math", Slug: "math"}
	require.NoError(t, repo.Create(ctx, subject))

	subject.Title = "Mathematics"
	require.NoError(t, repo.Update(ctx, subject))

	got, err := repo.FindByID(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", got.Title)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	course := sampleCourse("y")
	require.NoError(t, courses.Create(ctx, course))
	require.NoError(t, repo.Delete(ctx, course.SubjectID))
	_, err = courses.FindByID(ctx, course.ID)
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))
}

func TestDBConnection_HealthCheck(t *testing.T) {
	conn := newTestDB(t, nil)

	info, err := conn.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", info["status"])
}

func TestNewDBConnection_UnknownDriver(t *testing.T) {
	_, err := NewDBConnection(context.Background(), &config.DatabaseConfig{Driver: "oracle"}, nil, logger.NewNoopLogger())
	assert.Error(t, err)
}
