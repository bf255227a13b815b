// Package service holds the domain services: token issuance and verification,
// and the authorization gate that protects privileged operations.
package service

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
)

// SigningBackend turns claims into a signed token string and back.
// Decode checks the signature and algorithm only; claim validation such as
// expiry belongs to the TokenService. Every decode failure is reported as a
// single signature_invalid error without the parser's message.
//
// Implementation: internal/infrastructure/crypto/jwt_signer.go
type SigningBackend interface {
	Encode(claims models.Claims) (string, error)
	Decode(token string) (models.Claims, error)
}

// UserFinder resolves an identity to its stored user record.
// FindByEmail returns (nil, nil) when no user has the email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher compares submitted passwords against stored hashes.
//
// Implementation: internal/infrastructure/crypto/bcrypt_hasher.go
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// AuditPublisher ships audit events to a sink. Callers log failures and carry on.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent) error
	Close() error
}
