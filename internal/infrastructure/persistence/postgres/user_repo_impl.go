package postgres

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// UserRepoImpl implements UserRepository interface using gorm.
type UserRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewUserRepository creates a gorm-backed user repository.
func NewUserRepository(db *gorm.DB, log logger.Logger) repository.UserRepository {
	return &UserRepoImpl{
		db:     db,
		logger: log.WithComponent("UserRepository"),
	}
}

func (r *UserRepoImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error(ctx, "Failed to retrieve user by email", err, logger.String("email", email))
		return nil, translateError(err, "")
	}
	return &user, nil
}

func (r *UserRepoImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("user", id)
		}
		r.logger.Error(ctx, "Failed to retrieve user by ID", err, logger.String("user_id", id))
		return nil, translateError(err, "")
	}
	return &user, nil
}

func (r *UserRepoImpl) List(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at").Limit(clampLimit(limit)).Find(&users).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list users", err)
		return nil, translateError(err, "")
	}
	return users, nil
}

func (r *UserRepoImpl) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Warn(ctx, "Failed to create user", logger.String("email", user.Email), logger.Error(err))
		return translateError(err, fmt.Sprintf("User with email %s already exists", user.Email))
	}
	r.logger.Info(ctx, "User created", logger.String("user_id", user.ID), logger.Bool("super_user", user.IsSuperUser))
	return nil
}

func (r *UserRepoImpl) CreateMany(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return translateError(err, fmt.Sprintf("User with email %s already exists", u.Email))
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Warn(ctx, "Failed to create users", logger.Int("count", len(users)), logger.Error(err))
		return err
	}
	r.logger.Info(ctx, "Users created", logger.Int("count", len(users)))
	return nil
}

func (r *UserRepoImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, translateError(err, "")
	}
	return count > 0, nil
}
