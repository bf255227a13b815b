package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/coursehub/pkg/constants"
)

// Claims is the payload bound into an access token. Only "user" and "exp" have
// meaning to the service; any other key is carried through untouched.
type Claims map[string]interface{}

// Clone returns a shallow copy so callers can stamp claims without mutating the input.
func (c Claims) Clone() Claims {
	out := make(Claims, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Subject returns the "user" claim when it is a non-empty string.
func (c Claims) Subject() (string, bool) {
	v, ok := c[constants.ClaimUser]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Expiry returns the "exp" claim as integer seconds since the epoch.
// Numbers with a fractional part, non-numeric strings and other types are rejected.
func (c Claims) Expiry() (int64, bool) {
	v, ok := c[constants.ClaimExpiry]
	if !ok || v == nil {
		return 0, false
	}
	switch exp := v.(type) {
	case int64:
		return exp, true
	case int:
		return int64(exp), true
	case float64:
		if exp != math.Trunc(exp) || math.IsInf(exp, 0) || math.IsNaN(exp) {
			return 0, false
		}
		// Out-of-range conversions are implementation-defined.
		if exp < math.MinInt64 || exp >= math.MaxInt64 {
			return 0, false
		}
		return int64(exp), true
	case json.Number:
		n, err := exp.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(exp, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Identity is the subject extracted from a verified token.
type Identity struct {
	Email string `json:"email"`
}
