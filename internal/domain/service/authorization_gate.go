package service

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// Gate decision labels reported to Metrics.
const (
	GateResultGranted   = "granted"
	GateResultForbidden = "forbidden"
	GateResultRejected  = "rejected"
	GateResultCanceled  = "canceled"
	GateResultError     = "error"
)

// AuthorizationGate resolves the caller behind a bearer token and decides
// whether privileged operations may run.
type AuthorizationGate interface {
	// CurrentIdentity verifies token and returns its identity.
	CurrentIdentity(ctx context.Context, token string) (*models.Identity, error)

	// RequirePrivileged verifies token, loads the user and succeeds only when
	// the user exists and has the super-user flag. A context that ends before
	// the decision yields request_canceled, never success.
	RequirePrivileged(ctx context.Context, token string) (*models.User, error)
}

type authorizationGate struct {
	tokens  TokenService
	users   UserFinder
	metrics Metrics
	logger  logger.Logger
}

// NewAuthorizationGate creates an AuthorizationGate. metrics may be nil.
func NewAuthorizationGate(tokens TokenService, users UserFinder, metrics Metrics, log logger.Logger) AuthorizationGate {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &authorizationGate{
		tokens:  tokens,
		users:   users,
		metrics: metrics,
		logger:  log.WithComponent("AuthorizationGate"),
	}
}

func (g *authorizationGate) CurrentIdentity(ctx context.Context, token string) (*models.Identity, error) {
	return g.tokens.Verify(ctx, token)
}

func (g *authorizationGate) RequirePrivileged(ctx context.Context, token string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		g.metrics.RecordGateDecision(GateResultCanceled)
		return nil, errors.ErrRequestCanceled(err)
	}

	identity, err := g.CurrentIdentity(ctx, token)
	if err != nil {
		g.metrics.RecordGateDecision(GateResultRejected)
		return nil, err
	}

	user, err := g.users.FindByEmail(ctx, identity.Email)
	// The lookup may have returned a result after the caller gave up.
	if ctxErr := ctx.Err(); ctxErr != nil {
		g.metrics.RecordGateDecision(GateResultCanceled)
		return nil, errors.ErrRequestCanceled(ctxErr)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			g.metrics.RecordGateDecision(GateResultCanceled)
			return nil, errors.ErrRequestCanceled(err)
		}
		g.metrics.RecordGateDecision(GateResultError)
		g.logger.Error(ctx, "user lookup failed", err, logger.String("email", identity.Email))
		return nil, err
	}

	if user == nil {
		g.metrics.RecordGateDecision(GateResultForbidden)
		g.logger.Warn(ctx, "privileged access denied: unknown user", logger.String("email", identity.Email))
		return nil, errors.ErrForbidden("User does not exist")
	}
	if !user.IsSuperUser {
		g.metrics.RecordGateDecision(GateResultForbidden)
		g.logger.Warn(ctx, "privileged access denied: not a super user", logger.String("email", identity.Email))
		return nil, errors.ErrForbidden("You are not authorized to perform this action")
	}

	g.metrics.RecordGateDecision(GateResultGranted)
	return user, nil
}
