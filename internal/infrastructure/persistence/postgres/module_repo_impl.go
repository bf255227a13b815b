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

// ModuleRepoImpl implements ModuleRepository interface using gorm.
type ModuleRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewModuleRepository(db *gorm.DB, log logger.Logger) repository.ModuleRepository {
	return &ModuleRepoImpl{db: db, logger: log.WithComponent("ModuleRepository")}
}

func (r *ModuleRepoImpl) List(ctx context.Context, limit int) ([]*models.Module, error) {
	var modules []*models.Module
	if err := r.db.WithContext(ctx).Order("title").Limit(clampLimit(limit)).Find(&modules).Error; err != nil {
		r.logger.Error(ctx, "Failed to list modules", err)
		return nil, translateError(err, "")
	}
	return modules, nil
}

func (r *ModuleRepoImpl) FindByID(ctx context.Context, id string) (*models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&module).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("module", id)
		}
		return nil, translateError(err, "")
	}
	return &module, nil
}

func (r *ModuleRepoImpl) Create(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		r.logger.Error(ctx, "Failed to create module", err)
		return translateError(err, "Module already exists")
	}
	return nil
}

func (r *ModuleRepoImpl) Update(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Save(module).Error; err != nil {
		r.logger.Error(ctx, "Failed to update module", err, logger.String("module_id", module.ID))
		return translateError(err, "Module already exists")
	}
	return nil
}

// Delete removes the module's courses and then the module in one transaction.
func (r *ModuleRepoImpl) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&models.Course{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Module{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.ErrNotFound("module", id)
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		r.logger.Error(ctx, "Failed to delete module", err, logger.String("module_id", id))
		return translateError(err, "")
	}
	r.logger.Info(ctx, "Module deleted", logger.String("module_id", id))
	return nil
}
