// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	domainService "github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
	"github.com/turtacn/coursehub/pkg/utils"
)

// Login result labels reported to Metrics.
const (
	LoginResultSuccess   = "success"
	LoginResultFailure   = "failure"
	LoginResultThrottled = "throttled"
)

// LoginThrottle limits login attempts per username and client IP.
//
// Implementation: internal/infrastructure/ratelimit/login_limiter.go
type LoginThrottle interface {
	Check(ctx context.Context, username, ip string) error
	Reset(ctx context.Context, username, ip string)
}

// AuthAppService defines the interface for authentication application service
type AuthAppService interface {
	// Login checks credentials and issues an access token for the user's email.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)

	// Register creates a regular (never super) user and logs them in.
	Register(ctx context.Context, req *dto.UserCreateRequest) (*dto.RegisterResponse, error)

	// Logout returns a backdated copy of the presented token.
	Logout(ctx context.Context, authorizationHeader string) (*dto.TokenResponse, error)

	// IssueToken mints a token for an existing user without a password check.
	IssueToken(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, error)
}

type authAppServiceImpl struct {
	tokens   domainService.TokenService
	users    repository.UserRepository
	hasher   domainService.PasswordHasher
	throttle LoginThrottle
	audit    domainService.AuditPublisher
	metrics  domainService.Metrics
	logger   logger.Logger
}

// NewAuthAppService creates a new instance of AuthAppService.
// throttle, audit and metrics may be nil.
func NewAuthAppService(
	tokens domainService.TokenService,
	users repository.UserRepository,
	hasher domainService.PasswordHasher,
	throttle LoginThrottle,
	audit domainService.AuditPublisher,
	metrics domainService.Metrics,
	log logger.Logger,
) AuthAppService {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	return &authAppServiceImpl{
		tokens:   tokens,
		users:    users,
		hasher:   hasher,
		throttle: throttle,
		audit:    audit,
		metrics:  metrics,
		logger:   log.WithComponent("AuthAppService"),
	}
}

func (s *authAppServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Check(ctx, req.Username, req.ClientIP); err != nil {
			s.metrics.RecordLogin(LoginResultThrottled)
			return nil, err
		}
	}

	user, err := s.users.FindByEmail(ctx, req.Username)
	if err != nil {
		s.logger.Error(ctx, "Failed to look up user for login", err)
		return nil, err
	}

	// Unknown user and wrong password are indistinguishable to the caller.
	if user == nil || !s.hasher.Verify(req.Password, user.Password) {
		s.metrics.RecordLogin(LoginResultFailure)
		event := models.NewAuditEvent(constants.AuditEventLoginFailed, req.Username, false)
		event.ClientIP = req.ClientIP
		publishAudit(ctx, s.audit, s.logger, event)
		return nil, errors.ErrInvalidCredentials()
	}

	token, err := s.tokens.Issue(ctx, models.Claims{constants.ClaimUser: user.Email})
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, req.Username, req.ClientIP)
	}
	s.metrics.RecordLogin(LoginResultSuccess)
	event := models.NewAuditEvent(constants.AuditEventLogin, user.Email, true)
	event.ClientIP = req.ClientIP
	publishAudit(ctx, s.audit, s.logger, event)

	s.logger.Info(ctx, "User logged in", logger.String("user_id", user.ID))
	return dto.NewTokenResponse(token), nil
}

func (s *authAppServiceImpl) Register(ctx context.Context, req *dto.UserCreateRequest) (*dto.RegisterResponse, error) {
	// Self-registration never grants the super-user flag.
	req.IsSuperUser = false

	user, err := newUserFromRequest(ctx, s.users, s.hasher, req)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, models.Claims{constants.ClaimUser: user.Email})
	if err != nil {
		return nil, err
	}

	publishAudit(ctx, s.audit, s.logger, models.NewAuditEvent(constants.AuditEventRegistered, user.Email, true))
	s.logger.Info(ctx, "User registered", logger.String("user_id", user.ID))

	return &dto.RegisterResponse{
		User:          dto.NewUserResponse(user),
		TokenResponse: *dto.NewTokenResponse(token),
	}, nil
}

func (s *authAppServiceImpl) Logout(ctx context.Context, authorizationHeader string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(authorizationHeader) == "" {
		return nil, errors.ErrMalformedRequest("Authorization header is required")
	}

	token, err := s.tokens.Logout(ctx, authorizationHeader)
	if err != nil {
		return nil, err
	}

	publishAudit(ctx, s.audit, s.logger, models.NewAuditEvent(constants.AuditEventLogout, "", true))
	return dto.NewTokenResponse(token), nil
}

func (s *authAppServiceImpl) IssueToken(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrNotFound("user", req.Email)
	}

	claims := models.Claims{constants.ClaimUser: user.Email}
	var token string
	if req.TTLMinutes > 0 {
		token, err = s.tokens.IssueWithTTL(ctx, claims, time.Duration(req.TTLMinutes)*time.Minute)
	} else {
		token, err = s.tokens.Issue(ctx, claims)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewTokenResponse(token), nil
}

// newUserFromRequest validates req, rejects a taken email and hashes the password.
func newUserFromRequest(ctx context.Context, users repository.UserRepository, hasher domainService.PasswordHasher, req *dto.UserCreateRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrConflict("The user with this email already exists in the system.")
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.ErrServerError("could not hash password").WithCause(err)
	}
	return models.NewUser(req.FirstName, req.LastName, req.Email, hash, req.JobTitle, req.IsSuperUser), nil
}
