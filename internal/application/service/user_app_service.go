package service

import (
	"context"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	domainService "github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// UserAppService manages accounts on behalf of a super user.
type UserAppService interface {
	Create(ctx context.Context, req *dto.UserCreateRequest) (*dto.UserResponse, error)
	CreateMany(ctx context.Context, reqs []*dto.UserCreateRequest) ([]*dto.UserResponse, error)
	List(ctx context.Context, limit int) ([]*dto.UserResponse, error)
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
}

type userAppServiceImpl struct {
	users  repository.UserRepository
	hasher domainService.PasswordHasher
	logger logger.Logger
}

func NewUserAppService(users repository.UserRepository, hasher domainService.PasswordHasher, log logger.Logger) UserAppService {
	return &userAppServiceImpl{
		users:  users,
		hasher: hasher,
		logger: log.WithComponent("UserAppService"),
	}
}

func (s *userAppServiceImpl) Create(ctx context.Context, req *dto.UserCreateRequest) (*dto.UserResponse, error) {
	user, err := newUserFromRequest(ctx, s.users, s.hasher, req)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "User created",
		logger.String("user_id", user.ID),
		logger.Bool("is_super_user", user.IsSuperUser),
	)
	return dto.NewUserResponse(user), nil
}

// CreateMany writes every user or none. Duplicates inside the batch are rejected up front.
func (s *userAppServiceImpl) CreateMany(ctx context.Context, reqs []*dto.UserCreateRequest) ([]*dto.UserResponse, error) {
	if len(reqs) == 0 {
		return nil, errors.ErrInvalidRequest("at least one user is required")
	}

	seen := make(map[string]struct{}, len(reqs))
	users := make([]*models.User, 0, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.Email]; dup {
			return nil, errors.ErrConflict("The user with this email already exists in the system.")
		}
		seen[req.Email] = struct{}{}

		user, err := newUserFromRequest(ctx, s.users, s.hasher, req)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := s.users.CreateMany(ctx, users); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Users created", logger.Int("count", len(users)))
	return dto.NewUserResponses(users), nil
}

func (s *userAppServiceImpl) List(ctx context.Context, limit int) ([]*dto.UserResponse, error) {
	users, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponses(users), nil
}

func (s *userAppServiceImpl) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}
