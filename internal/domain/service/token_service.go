package service

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// TokenService issues and verifies stateless bearer tokens.
//
// No record of issued tokens is kept. Logout therefore cannot revoke
// anything: it returns a copy of the presented token whose expiry has been
// moved back, and the presented token stays valid until its own expiry.
type TokenService interface {
	// Issue signs claims with an expiry of now plus the configured lifetime.
	Issue(ctx context.Context, claims models.Claims) (string, error)

	// IssueWithTTL signs claims with an expiry of now plus ttl. A negative ttl
	// yields a token that is already expired.
	IssueWithTTL(ctx context.Context, claims models.Claims, ttl time.Duration) (string, error)

	// Verify checks signature, subject and expiry and returns the token's identity.
	// Errors:
	//   - unauthenticated: bad signature, missing "user", missing or unparseable "exp"
	//   - token_expired: "exp" is not after the current time
	Verify(ctx context.Context, token string) (*models.Identity, error)

	// Logout parses "Bearer <token>" and returns the same claims re-signed with
	// "exp" moved back by the logout backdate.
	// Errors:
	//   - malformed_request: header is not exactly "Bearer <token>", or "exp" is missing
	//   - unauthenticated: the token does not decode
	Logout(ctx context.Context, authorizationHeader string) (string, error)
}

// TokenServiceOption configures a TokenService.
type TokenServiceOption func(*tokenService)

// WithClock replaces the wall clock. Tests use it to step across expiry boundaries.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *tokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogoutBackdate overrides how far Logout moves the expiry back.
func WithLogoutBackdate(d time.Duration) TokenServiceOption {
	return func(s *tokenService) {
		if d > 0 {
			s.logoutBackdate = d
		}
	}
}

// WithTokenMetrics records issuance and verification outcomes.
func WithTokenMetrics(m Metrics) TokenServiceOption {
	return func(s *tokenService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTokenLogger sets the logger used for debug output.
func WithTokenLogger(log logger.Logger) TokenServiceOption {
	return func(s *tokenService) {
		if log != nil {
			s.logger = log.WithComponent("TokenService")
		}
	}
}

type tokenService struct {
	backend        SigningBackend
	defaultTTL     time.Duration
	logoutBackdate time.Duration
	now            func() time.Time
	metrics        Metrics
	logger         logger.Logger
}

// NewTokenService creates a TokenService over backend. A non-positive
// defaultTTL falls back to constants.DefaultAccessTokenTTL.
func NewTokenService(backend SigningBackend, defaultTTL time.Duration, opts ...TokenServiceOption) TokenService {
	if defaultTTL <= 0 {
		defaultTTL = constants.DefaultAccessTokenTTL
	}
	s := &tokenService{
		backend:        backend,
		defaultTTL:     defaultTTL,
		logoutBackdate: constants.LogoutBackdate,
		now:            time.Now,
		metrics:        NoopMetrics{},
		logger:         logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tokenService) Issue(ctx context.Context, claims models.Claims) (string, error) {
	return s.IssueWithTTL(ctx, claims, s.defaultTTL)
}

func (s *tokenService) IssueWithTTL(ctx context.Context, claims models.Claims, ttl time.Duration) (string, error) {
	stamped := claims.Clone()
	stamped[constants.ClaimExpiry] = s.now().Add(ttl).Unix()

	token, err := s.backend.Encode(stamped)
	if err != nil {
		s.metrics.RecordTokenIssue(false)
		s.logger.Error(ctx, "failed to sign token", err)
		return "", errors.ErrServerError("could not issue token").WithCause(err)
	}
	s.metrics.RecordTokenIssue(true)
	return token, nil
}

func (s *tokenService) Verify(ctx context.Context, token string) (*models.Identity, error) {
	identity, err := s.verify(token)
	if err != nil {
		appErr, _ := errors.AsAppError(err)
		s.metrics.RecordTokenVerify(string(appErr.Code()))
		s.logger.Debug(ctx, "token rejected", logger.String("reason", appErr.Description()))
		return nil, err
	}
	s.metrics.RecordTokenVerify("ok")
	return identity, nil
}

func (s *tokenService) verify(token string) (*models.Identity, error) {
	if token == "" {
		return nil, errors.ErrUnauthenticated("Could not validate credentials")
	}
	claims, err := s.backend.Decode(token)
	if err != nil {
		return nil, errors.ErrUnauthenticated("Could not validate credentials").WithCause(err)
	}
	email, ok := claims.Subject()
	if !ok {
		return nil, errors.ErrUnauthenticated("Token has no subject")
	}
	exp, ok := claims.Expiry()
	if !ok {
		return nil, errors.ErrUnauthenticated("Token has no valid expiry")
	}
	if !s.now().Before(time.Unix(exp, 0)) {
		return nil, errors.ErrTokenExpired()
	}
	return &models.Identity{Email: email}, nil
}

func (s *tokenService) Logout(ctx context.Context, authorizationHeader string) (string, error) {
	parts := strings.SplitN(authorizationHeader, " ", 2)
	if len(parts) != 2 || parts[0] != constants.BearerScheme || parts[1] == "" {
		return "", errors.ErrMalformedRequest("Authorization header must be 'Bearer <token>'")
	}

	claims, err := s.backend.Decode(parts[1])
	if err != nil {
		return "", errors.ErrUnauthenticated("Could not validate credentials").WithCause(err)
	}
	exp, ok := claims.Expiry()
	if !ok {
		return "", errors.ErrMalformedRequest("Token has no valid expiry")
	}

	backdated := claims.Clone()
	backdated[constants.ClaimExpiry] = exp - int64(s.logoutBackdate/time.Second)

	token, err := s.backend.Encode(backdated)
	if err != nil {
		s.logger.Error(ctx, "failed to re-sign token on logout", err)
		return "", errors.ErrServerError("could not issue token").WithCause(err)
	}
	if email, ok := claims.Subject(); ok {
		s.logger.Info(ctx, "logout token issued", logger.String("user", email))
	}
	return token, nil
}
