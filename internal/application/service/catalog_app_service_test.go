package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

func courseRequest(title string) *dto.CourseCreateRequest {
	return &dto.CourseCreateRequest{
		Owner:    "owner@example.com",
		Title:    title,
		Slug:     "slug-" + title,
		Overview: "overview of " + title,
		Module:   dto.ModuleCreateRequest{Title: "Module " + title, Description: "intro"},
		Subject:  dto.SubjectCreateRequest{Title: "Subject " + title, Slug: "subject-" + title},
	}
}

func TestCourseAppService(t *testing.T) {
	env := newTestEnv(t)
	log := logger.NewNoopLogger()
	svc := NewCourseAppService(postgres.NewCourseRepository(env.db.DB(), log), log)
	ctx := context.Background()

	course, err := svc.Create(ctx, courseRequest("go"))
	require.NoError(t, err)
	assert.False(t, course.Created.IsZero())
	assert.Equal(t, time.UTC, course.Created.Location())

	created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, course.ID, &dto.CourseUpdateRequest{
		Title:   "Go in practice",
		Created: &created,
		Module:  dto.ModuleUpdateRequest{Description: "deeper"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go in practice", updated.Title)
	assert.Equal(t, "slug-go", updated.Slug, "empty fields are left alone")
	assert.Equal(t, "Module go", updated.Module.Title)
	assert.Equal(t, "deeper", updated.Module.Description)

	got, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, created.Equal(got.Created))

	_, err = svc.Update(ctx, "missing", &dto.CourseUpdateRequest{Title: "x"})
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))

	require.NoError(t, svc.Delete(ctx, course.ID))
	assert.True(t, errors.IsCode(svc.Delete(ctx, course.ID), constants.ErrCodeNotFound))
}

func TestCourseAppService_CreateManyValidatesEveryItem(t *testing.T) {
	env := newTestEnv(t)
	log := logger.NewNoopLogger()
	svc := NewCourseAppService(postgres.NewCourseRepository(env.db.DB(), log), log)
	ctx := context.Background()

	bad := courseRequest("b")
	bad.Title = ""
	_, err := svc.CreateMany(ctx, []*dto.CourseCreateRequest{courseRequest("a"), bad})
	assert.True(t, errors.IsCode(err, constants.ErrCodeInvalidRequest))

	list, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	out, err := svc.CreateMany(ctx, []*dto.CourseCreateRequest{courseRequest("a"), courseRequest("b")})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestModuleAndSubjectAppServices(t *testing.T) {
	env := newTestEnv(t)
	log := logger.NewNoopLogger()
	modules := NewModuleAppService(postgres.NewModuleRepository(env.db.DB(), log), log)
	subjects := NewSubjectAppService(postgres.NewSubjectRepository(env.db.DB(), log), log)
	ctx := context.Background()

	m, err := modules.Create(ctx, &dto.ModuleCreateRequest{Title: "Basics", Description: "first steps"})
	require.NoError(t, err)
	m, err = modules.Update(ctx, m.ID, &dto.ModuleUpdateRequest{Title: "Fundamentals"})
	require.NoError(t, err)
	assert.Equal(t, "Fundamentals", m.Title)
	assert.Equal(t, "first steps", m.Description)

	_, err = modules.Create(ctx, &dto.ModuleCreateRequest{})
	assert.True(t, errors.IsCode(err, constants.ErrCodeInvalidRequest))

	s, err := subjects.Create(ctx, &dto.SubjectCreateRequest{Title: "Physics", Slug: "physics"})
	require.NoError(t, err)
	s, err = subjects.Update(ctx, s.ID, &dto.SubjectUpdateRequest{Slug: "phys"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", s.Title)
	assert.Equal(t, "phys", s.Slug)

	list, err := subjects.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, modules.Delete(ctx, m.ID))
	_, err = modules.Get(ctx, m.ID)
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))
	require.NoError(t, subjects.Delete(ctx, s.ID))
}
