package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// SubjectRepoImpl implements SubjectRepository interface using gorm.
type SubjectRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewSubjectRepository(db *gorm.DB, log logger.Logger) repository.SubjectRepository {
	return &SubjectRepoImpl{db: db, logger: log.WithComponent("SubjectRepository")}
}

func (r *SubjectRepoImpl) List(ctx context.Context, limit int) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := r.db.WithContext(ctx).Order("title").Limit(clampLimit(limit)).Find(&subjects).Error; err != nil {
		r.logger.Error(ctx, "Failed to list subjects", err)
		return nil, translateError(err, "")
	}
	return subjects, nil
}

func (r *SubjectRepoImpl) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("subject", id)
		}
		return nil, translateError(err, "")
	}
	return &subject, nil
}

func (r *SubjectRepoImpl) Create(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		r.logger.Error(ctx, "Failed to create subject", err)
		return translateError(err, "Subject already exists")
	}
	return nil
}

func (r *SubjectRepoImpl) Update(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Save(subject).Error; err != nil {
		r.logger.Error(ctx, "Failed to update subject", err, logger.String("subject_id", subject.ID))
		return translateError(err, "Subject already exists")
	}
	return nil
}

// Delete removes the subject's courses and then the subject in one transaction.
func (r *SubjectRepoImpl) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", id).Delete(&models.Course{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Subject{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.ErrNotFound("subject", id)
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		r.logger.Error(ctx, "Failed to delete subject", err, logger.String("subject_id", id))
		return translateError(err, "")
	}
	r.logger.Info(ctx, "Subject deleted", logger.String("subject_id", id))
	return nil
}
