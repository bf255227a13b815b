package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/domain/models"
	domainService "github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/internal/infrastructure/crypto"
	"github.com/turtacn/coursehub/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/coursehub/internal/infrastructure/ratelimit"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (a *recordingAudit) Publish(_ context.Context, e models.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
	return nil
}

func (a *recordingAudit) Close() error { return nil }

func (a *recordingAudit) types() []constants.AuditEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]constants.AuditEventType, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db     *postgres.DBConnection
	tokens domainService.TokenService
	hasher domainService.PasswordHasher
	audit  *recordingAudit
	auth   AuthAppService
	users  UserAppService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNoopLogger()

	db, err := postgres.NewDBConnection(ctx, &config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil, log)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(ctx))
	t.Cleanup(func() { _ = db.Close() })

	signer, err := crypto.NewJWTSigner("HS256", []byte("test-secret"))
	require.NoError(t, err)
	tokens := domainService.NewTokenService(signer, 30*time.Minute)
	hasher := crypto.NewBcryptHasher(4)
	limiter := ratelimit.NewLoginLimiter(nil, ratelimit.LoginLimiterConfig{Attempts: 3, Window: time.Minute}, nil, log)
	userRepo := postgres.NewUserRepository(db.DB(), log)
	audit := &recordingAudit{}

	return &testEnv{
		db:     db,
		tokens: tokens,
		hasher: hasher,
		audit:  audit,
		auth:   NewAuthAppService(tokens, userRepo, hasher, limiter, audit, nil, log),
		users:  NewUserAppService(userRepo, hasher, log),
	}
}

func userRequest(email string) *dto.UserCreateRequest {
	return &dto.UserCreateRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     email,
		Password:  "cobol-rules",
		JobTitle:  "Admiral",
	}
}

func TestAuthAppService_RegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := userRequest("grace@example.com")
	req.IsSuperUser = true
	reg, err := env.auth.Register(ctx, req)
	require.NoError(t, err)
	assert.False(t, reg.User.IsSuperUser, "self-registration never grants super user")
	assert.Equal(t, "Bearer", reg.TokenType)

	identity, err := env.tokens.Verify(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", identity.Email)

	resp, err := env.auth.Login(ctx, &dto.LoginRequest{Username: "grace@example.com", Password: "cobol-rules", ClientIP: "1.2.3.4"})
	require.NoError(t, err)
	identity, err = env.tokens.Verify(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", identity.Email)

	assert.Equal(t, []constants.AuditEventType{constants.AuditEventRegistered, constants.AuditEventLogin}, env.audit.types())
}

func TestAuthAppService_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, userRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, userRequest("dup@example.com"))
	assert.True(t, errors.IsCode(err, constants.ErrCodeConflict))
}

func TestAuthAppService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	req := userRequest("not-an-email")
	req.Password = "short"
	_, err := env.auth.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidRequest, appErr.Code())
	assert.Contains(t, appErr.Metadata(), "email")
	assert.Contains(t, appErr.Metadata(), "password")
}

func TestAuthAppService_LoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.users.Create(ctx, userRequest("known@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody@example.com", "whatever"},
		{"wrong password", "known@example.com", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(ctx, &dto.LoginRequest{Username: tt.username, Password: tt.password, ClientIP: tt.name})
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, constants.ErrCodeInvalidCredentials, appErr.Code())
			assert.Equal(t, 404, appErr.HTTPStatus())
			assert.Equal(t, "Invalid Credentials", appErr.Description())
		})
	}
}

func TestAuthAppService_LoginThrottled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := &dto.LoginRequest{Username: "victim@example.com", Password: "guess", ClientIP: "9.9.9.9"}

	for i := 0; i < 3; i++ {
		_, err := env.auth.Login(ctx, req)
		assert.True(t, errors.IsCode(err, constants.ErrCodeInvalidCredentials))
	}

	_, err := env.auth.Login(ctx, req)
	assert.True(t, errors.IsCode(err, constants.ErrCodeRateLimitExceeded))

	// A different client IP has its own budget.
	other := *req
	other.ClientIP = "8.8.8.8"
	_, err = env.auth.Login(ctx, &other)
	assert.True(t, errors.IsCode(err, constants.ErrCodeInvalidCredentials))
}

func TestAuthAppService_Logout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.tokens.Issue(ctx, models.Claims{constants.ClaimUser: "a@example.com"})
	require.NoError(t, err)

	resp, err := env.auth.Logout(ctx, "Bearer "+token)
	require.NoError(t, err)
	_, err = env.tokens.Verify(ctx, resp.AccessToken)
	assert.True(t, errors.IsCode(err, constants.ErrCodeTokenExpired))

	_, err = env.auth.Logout(ctx, "")
	assert.True(t, errors.IsCode(err, constants.ErrCodeMalformedRequest))
}

func TestAuthAppService_IssueToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.users.Create(ctx, userRequest("cli@example.com"))
	require.NoError(t, err)

	resp, err := env.auth.IssueToken(ctx, &dto.IssueTokenRequest{Email: "cli@example.com", TTLMinutes: 5})
	require.NoError(t, err)
	identity, err := env.tokens.Verify(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cli@example.com", identity.Email)

	_, err = env.auth.IssueToken(ctx, &dto.IssueTokenRequest{Email: "ghost@example.com"})
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))
}

func TestUserAppService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := userRequest("root@example.com")
	admin.IsSuperUser = true
	created, err := env.users.Create(ctx, admin)
	require.NoError(t, err)
	assert.True(t, created.IsSuperUser)

	got, err := env.users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", got.Email)

	_, err = env.users.Get(ctx, "missing")
	assert.True(t, errors.IsCode(err, constants.ErrCodeNotFound))

	many, err := env.users.CreateMany(ctx, []*dto.UserCreateRequest{userRequest("a@example.com"), userRequest("b@example.com")})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	_, err = env.users.CreateMany(ctx, []*dto.UserCreateRequest{userRequest("c@example.com"), userRequest("c@example.com")})
	assert.True(t, errors.IsCode(err, constants.ErrCodeConflict))

	_, err = env.users.CreateMany(ctx, []*dto.UserCreateRequest{userRequest("d@example.com"), userRequest("a@example.com")})
	assert.True(t, errors.IsCode(err, constants.ErrCodeConflict))

	list, err := env.users.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
