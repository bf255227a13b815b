// Package crypto provides the signing backend and password hasher used by the
// token and login flows.
package crypto

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/errors"
)

// JWTSigner is a service.SigningBackend producing compact JWS tokens.
// It is immutable after construction and safe for concurrent use.
type JWTSigner struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	parser    *jwt.Parser
}

var _ service.SigningBackend = (*JWTSigner)(nil)

// NewJWTSigner builds a signer for algorithm.
// HS* algorithms use secret as the HMAC key. RS*, PS*, ES* and EdDSA expect
// secret to hold a PEM encoded private key; tokens are verified with its public half.
func NewJWTSigner(algorithm string, secret []byte) (*JWTSigner, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil || method == jwt.SigningMethodNone {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	signKey, verifyKey, err := loadKeys(method, secret)
	if err != nil {
		return nil, err
	}

	return &JWTSigner{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			// exp is checked by the token service against its own clock.
			jwt.WithoutClaimsValidation(),
			jwt.WithJSONNumber(),
		),
	}, nil
}

func loadKeys(method jwt.SigningMethod, secret []byte) (interface{}, interface{}, error) {
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return secret, secret, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(secret)
		if err != nil {
			return nil, nil, fmt.Errorf("parse RSA private key: %w", err)
		}
		return key, &key.PublicKey, nil
	case *jwt.SigningMethodECDSA:
		key, err := jwt.ParseECPrivateKeyFromPEM(secret)
		if err != nil {
			return nil, nil, fmt.Errorf("parse EC private key: %w", err)
		}
		return key, &key.PublicKey, nil
	case *jwt.SigningMethodEd25519:
		key, err := jwt.ParseEdPrivateKeyFromPEM(secret)
		if err != nil {
			return nil, nil, fmt.Errorf("parse Ed25519 private key: %w", err)
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected Ed25519 key type %T", key)
		}
		return edKey, edKey.Public(), nil
	default:
		return nil, nil, fmt.Errorf("unsupported signing method %s", method.Alg())
	}
}

// Algorithm returns the JWS "alg" value of issued tokens.
func (s *JWTSigner) Algorithm() string {
	return s.method.Alg()
}

// Encode signs claims.
func (s *JWTSigner) Encode(claims models.Claims) (string, error) {
	token := jwt.NewWithClaims(s.method, jwt.MapClaims(claims))
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", errors.ErrServerError("token signing failed").WithCause(err)
	}
	return signed, nil
}

// Decode verifies the signature and algorithm of token and returns its claims.
// Every failure is reported as signature_invalid; the parser error is kept as the cause only.
func (s *JWTSigner) Decode(token string) (models.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.ErrSignatureInvalid()
	}
	claims := jwt.MapClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.verifyKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.ErrSignatureInvalid().WithCause(err)
	}
	return models.Claims(claims), nil
}
