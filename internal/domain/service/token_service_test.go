package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
)

// fakeBackend "signs" by prefixing the base64 JSON payload with a secret.
type fakeBackend struct {
	secret string
}

func (b fakeBackend) Encode(claims models.Claims) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return b.secret + "." + base64.RawURLEncoding.EncodeToString(raw), nil
}

func (b fakeBackend) Decode(token string) (models.Claims, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] != b.secret {
		return nil, errors.ErrSignatureInvalid()
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.ErrSignatureInvalid()
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var claims models.Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, errors.ErrSignatureInvalid()
	}
	return claims, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *fakeClock                   { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }
func userClaims(email string) models.Claims  { return models.Claims{constants.ClaimUser: email} }

func newTokenService(clock *fakeClock, ttl time.Duration) service.TokenService {
	return service.NewTokenService(fakeBackend{secret: "s3cret"}, ttl, service.WithClock(clock.Now))
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newClock()
	svc := newTokenService(clock, 30*time.Minute)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "üñí@example.org", "x+tag@sub.example.com"} {
		token, err := svc.Issue(ctx, models.Claims{constants.ClaimUser: email, "role": "reader"})
		require.NoError(t, err)

		claims, err := fakeBackend{secret: "s3cret"}.Decode(token)
		require.NoError(t, err)
		sub, ok := claims.Subject()
		require.True(t, ok)
		assert.Equal(t, email, sub)
		exp, ok := claims.Expiry()
		require.True(t, ok)
		assert.InDelta(t, clock.Now().Add(30*time.Minute).Unix(), exp, 1)
		assert.Equal(t, "reader", claims["role"])

		identity, err := svc.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, email, identity.Email)
	}
}

func TestTokenService_IssueDoesNotMutateInput(t *testing.T) {
	svc := newTokenService(newClock(), time.Minute)
	in := userClaims("a@example.com")

	_, err := svc.Issue(context.Background(), in)
	require.NoError(t, err)

	_, has := in[constants.ClaimExpiry]
	assert.False(t, has)
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	const ttl = 120 * time.Second
	clock := newClock()
	svc := newTokenService(clock, time.Hour)
	ctx := context.Background()

	token, err := svc.IssueWithTTL(ctx, userClaims("a@example.com"), ttl)
	require.NoError(t, err)

	clock.Advance(ttl - time.Second)
	_, err = svc.Verify(ctx, token)
	assert.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = svc.Verify(ctx, token)
	assert.True(t, errors.IsCode(err, constants.ErrCodeTokenExpired), "got %v", err)
}

func TestTokenService_ThirtyMinuteLifetime(t *testing.T) {
	clock := newClock()
	svc := newTokenService(clock, 30*time.Minute)
	ctx := context.Background()

	token, err := svc.Issue(ctx, userClaims("a@example.com"))
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = svc.Verify(ctx, token)
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(ctx, token)
	assert.True(t, errors.IsCode(err, constants.ErrCodeTokenExpired))
}

func TestTokenService_NegativeTTLIsExpired(t *testing.T) {
	svc := newTokenService(newClock(), time.Hour)
	ctx := context.Background()

	token, err := svc.IssueWithTTL(ctx, userClaims("a@example.com"), -5*time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeTokenExpired, appErr.Code())
	assert.Equal(t, constants.StatusTokenExpired, appErr.HTTPStatus())
}

func TestTokenService_VerifyRejects(t *testing.T) {
	clock := newClock()
	svc := newTokenService(clock, time.Hour)
	other := service.NewTokenService(fakeBackend{secret: "other"}, time.Hour, service.WithClock(clock.Now))
	backend := fakeBackend{secret: "s3cret"}
	ctx := context.Background()

	foreign, err := other.Issue(ctx, userClaims("a@example.com"))
	require.NoError(t, err)

	noExp, err := backend.Encode(userClaims("a@example.com"))
	require.NoError(t, err)

	noUser, err := svc.Issue(ctx, models.Claims{"role": "admin"})
	require.NoError(t, err)

	badExp, err := backend.Encode(models.Claims{constants.ClaimUser: "a@example.com", constants.ClaimExpiry: "soon"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"garbage", "not-a-token"},
		{"different secret", foreign},
		{"exp removed", noExp},
		{"exp unparseable", badExp},
		{"user missing", noUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.Verify(ctx, tt.token)
			assert.Nil(t, identity)
			assert.True(t, errors.IsCode(err, constants.ErrCodeUnauthenticated), "got %v", err)
		})
	}
}

func TestTokenService_VerifyHidesDecoderText(t *testing.T) {
	svc := newTokenService(newClock(), time.Hour)

	_, err := svc.Verify(context.Background(), "other.payload")
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Could not validate credentials", appErr.Description())
	assert.NotContains(t, err.Error(), "signature")
}

func TestTokenService_LogoutBackdatesCopy(t *testing.T) {
	clock := newClock()
	svc := newTokenService(clock, 30*time.Minute)
	backend := fakeBackend{secret: "s3cret"}
	ctx := context.Background()

	original, err := svc.Issue(ctx, models.Claims{constants.ClaimUser: "a@example.com", "role": "reader"})
	require.NoError(t, err)

	logoutToken, err := svc.Logout(ctx, "Bearer "+original)
	require.NoError(t, err)
	assert.NotEqual(t, original, logoutToken)

	before, err := backend.Decode(original)
	require.NoError(t, err)
	after, err := backend.Decode(logoutToken)
	require.NoError(t, err)

	origExp, _ := before.Expiry()
	newExp, _ := after.Expiry()
	assert.Equal(t, origExp-86400, newExp)
	assert.Equal(t, "reader", after["role"])

	_, err = svc.Verify(ctx, logoutToken)
	assert.True(t, errors.IsCode(err, constants.ErrCodeTokenExpired))

	// Logout does not revoke: the presented token keeps working until its own expiry.
	clock.Advance(29 * time.Minute)
	identity, err := svc.Verify(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", identity.Email)

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(ctx, original)
	assert.True(t, errors.IsCode(err, constants.ErrCodeTokenExpired))
}

func TestTokenService_LogoutMalformedHeader(t *testing.T) {
	svc := newTokenService(newClock(), time.Hour)
	ctx := context.Background()
	valid, err := svc.Issue(ctx, userClaims("a@example.com"))
	require.NoError(t, err)

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		valid,
		"Basic " + valid,
		"bearer " + valid,
		"Bearer" + valid,
	}

	for _, h := range headers {
		_, err := svc.Logout(ctx, h)
		assert.True(t, errors.IsCode(err, constants.ErrCodeMalformedRequest), "header %q: got %v", h, err)
	}
}

func TestTokenService_LogoutRejectsBadTokens(t *testing.T) {
	svc := newTokenService(newClock(), time.Hour)
	backend := fakeBackend{secret: "s3cret"}
	ctx := context.Background()

	_, err := svc.Logout(ctx, "Bearer forged.payload")
	assert.True(t, errors.IsCode(err, constants.ErrCodeUnauthenticated))

	noExp, err := backend.Encode(userClaims("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Logout(ctx, "Bearer "+noExp)
	assert.True(t, errors.IsCode(err, constants.ErrCodeMalformedRequest))
}

func TestTokenService_DefaultTTLFallback(t *testing.T) {
	clock := newClock()
	svc := service.NewTokenService(fakeBackend{secret: "s3cret"}, 0, service.WithClock(clock.Now))
	ctx := context.Background()

	token, err := svc.Issue(ctx, userClaims("a@example.com"))
	require.NoError(t, err)

	claims, err := fakeBackend{secret: "s3cret"}.Decode(token)
	require.NoError(t, err)
	exp, _ := claims.Expiry()
	assert.Equal(t, clock.Now().Add(constants.DefaultAccessTokenTTL).Unix(), exp)
}
