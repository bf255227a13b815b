package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// CourseRepoImpl implements CourseRepository interface using gorm.
type CourseRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewCourseRepository creates a gorm-backed course repository.
func NewCourseRepository(db *gorm.DB, log logger.Logger) repository.CourseRepository {
	return &CourseRepoImpl{
		db:     db,
		logger: log.WithComponent("CourseRepository"),
	}
}

func (r *CourseRepoImpl) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Module").Preload("Subject")
}

func (r *CourseRepoImpl) List(ctx context.Context, limit int) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.withRelations(ctx).Order("created").Limit(clampLimit(limit)).Find(&courses).Error; err != nil {
		r.logger.Error(ctx, "Failed to list courses", err)
		return nil, translateError(err, "")
	}
	return courses, nil
}

func (r *CourseRepoImpl) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.withRelations(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("course", id)
		}
		r.logger.Error(ctx, "Failed to retrieve course", err, logger.String("course_id", id))
		return nil, translateError(err, "")
	}
	return &course, nil
}

// createCourseTx inserts the module and subject first so the course can reference them.
func createCourseTx(tx *gorm.DB, course *models.Course) error {
	if err := tx.Create(&course.Module).Error; err != nil {
		return err
	}
	if err := tx.Create(&course.Subject).Error; err != nil {
		return err
	}
	course.ModuleID = course.Module.ID
	course.SubjectID = course.Subject.ID
	return tx.Omit(clause.Associations).Create(course).Error
}

func (r *CourseRepoImpl) Create(ctx context.Context, course *models.Course) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createCourseTx(tx, course)
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to create course", err, logger.String("title", course.Title))
		return translateError(err, "Course already exists")
	}
	r.logger.Info(ctx, "Course created", logger.String("course_id", course.ID))
	return nil
}

func (r *CourseRepoImpl) CreateMany(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range courses {
			if err := createCourseTx(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to create courses", err, logger.Int("count", len(courses)))
		return translateError(err, "Course already exists")
	}
	r.logger.Info(ctx, "Courses created", logger.Int("count", len(courses)))
	return nil
}

func (r *CourseRepoImpl) Update(ctx context.Context, course *models.Course) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&course.Module).Error; err != nil {
			return err
		}
		if err := tx.Save(&course.Subject).Error; err != nil {
			return err
		}
		course.ModuleID = course.Module.ID
		course.SubjectID = course.Subject.ID
		return tx.Omit(clause.Associations).Save(course).Error
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to update course", err, logger.String("course_id", course.ID))
		return translateError(err, "Course already exists")
	}
	return nil
}

func (r *CourseRepoImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to delete course", result.Error, logger.String("course_id", id))
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound("course", id)
	}
	r.logger.Info(ctx, "Course deleted", logger.String("course_id", id))
	return nil
}
