package repository

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
)

// CourseRepository defines persistence operations for courses.
// Courses are always returned with their module and subject loaded.
type CourseRepository interface {
	List(ctx context.Context, limit int) ([]*models.Course, error)

	// FindByID returns a not_found AppError when the course does not exist.
	FindByID(ctx context.Context, id string) (*models.Course, error)

	// Create stores the course together with its module and subject in one transaction.
	Create(ctx context.Context, course *models.Course) error

	// CreateMany stores every course, module and subject in one transaction.
	CreateMany(ctx context.Context, courses []*models.Course) error

	// Update saves the course and its nested module and subject.
	Update(ctx context.Context, course *models.Course) error

	// Delete removes the course. Its module and subject are kept.
	Delete(ctx context.Context, id string) error
}

// ModuleRepository defines persistence operations for modules.
type ModuleRepository interface {
	List(ctx context.Context, limit int) ([]*models.Module, error)
	FindByID(ctx context.Context, id string) (*models.Module, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error

	// Delete removes the module and every course that references it.
	Delete(ctx context.Context, id string) error
}

// SubjectRepository defines persistence operations for subjects.
type SubjectRepository interface {
	List(ctx context.Context, limit int) ([]*models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error

	// Delete removes the subject and every course that references it.
	Delete(ctx context.Context, id string) error
}
