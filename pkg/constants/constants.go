// Package constants defines system-wide constants for the coursehub service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Token Constants
// ================================================================================

// TokenType represents the type reported alongside an issued token.
type TokenType string

const (
	// TokenTypeBearer is the only token type issued; it is also the Authorization scheme.
	TokenTypeBearer TokenType = "Bearer"
)

const (
	// ClaimUser carries the subject email.
	ClaimUser = "user"
	// ClaimExpiry carries the expiry as integer seconds since the Unix epoch.
	ClaimExpiry = "exp"
)

const (
	// DefaultAccessTokenTTL applies when configuration does not set a lifetime.
	DefaultAccessTokenTTL = 30 * time.Minute

	// LogoutBackdate is subtracted from the expiry of the token handed back by logout.
	LogoutBackdate = 24 * time.Hour

	// AuthorizationHeader is the HTTP header carrying bearer tokens.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the only accepted Authorization scheme.
	BearerScheme = "Bearer"
)

// ================================================================================
// JWT Algorithm Constants
// ================================================================================

// JWTAlgorithm represents the signing algorithm for JWT tokens
type JWTAlgorithm string

const (
	AlgorithmHS256 JWTAlgorithm = "HS256"
	AlgorithmHS384 JWTAlgorithm = "HS384"
	AlgorithmHS512 JWTAlgorithm = "HS512"
	AlgorithmRS256 JWTAlgorithm = "RS256"
	AlgorithmRS384 JWTAlgorithm = "RS384"
	AlgorithmRS512 JWTAlgorithm = "RS512"
	AlgorithmPS256 JWTAlgorithm = "PS256"
	AlgorithmES256 JWTAlgorithm = "ES256"
	AlgorithmES384 JWTAlgorithm = "ES384"
	AlgorithmES512 JWTAlgorithm = "ES512"
	AlgorithmEdDSA JWTAlgorithm = "EdDSA"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode is the machine-readable error identifier returned to clients.
type ErrorCode string

const (
	ErrCodeUnauthenticated    ErrorCode = "unauthenticated"
	ErrCodeTokenExpired       ErrorCode = "token_expired"
	ErrCodeForbidden          ErrorCode = "forbidden"
	ErrCodeMalformedRequest   ErrorCode = "malformed_request"
	ErrCodeSignatureInvalid   ErrorCode = "signature_invalid"
	ErrCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeConflict           ErrorCode = "conflict"
	ErrCodeRateLimitExceeded  ErrorCode = "rate_limit_exceeded"
	ErrCodeRequestCanceled    ErrorCode = "request_canceled"
	ErrCodeServerError        ErrorCode = "server_error"
)

// StatusTokenExpired is the HTTP status for a well-signed token past its expiry.
// It tells clients to log in again rather than fix their credentials.
const StatusTokenExpired = 440

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for values stored in request contexts.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyIdentity  ContextKey = "identity"
	ContextKeyUser      ContextKey = "current_user"
)

// ================================================================================
// Audit Events
// ================================================================================

// AuditEventType names an event published to the audit sink.
type AuditEventType string

const (
	AuditEventLogin             AuditEventType = "user.login"
	AuditEventLoginFailed       AuditEventType = "user.login_failed"
	AuditEventLogout            AuditEventType = "user.logout"
	AuditEventRegistered        AuditEventType = "user.registered"
	AuditEventAccessDenied      AuditEventType = "access.denied"
	AuditEventPrivilegedGranted AuditEventType = "privileged.granted"
)

// ================================================================================
// Pagination
// ================================================================================

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)
