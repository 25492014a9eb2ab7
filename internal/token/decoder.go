package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/hiredesk-session/internal/domain"
)

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind string

const (
	KindMalformed    DecodeErrorKind = "MALFORMED"
	KindMissingField DecodeErrorKind = "MISSING_FIELD"
)

// DecodeError reports why a credential could not be decoded into claims.
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("credential payload missing field %q", e.Field)
	default:
		if e.Err != nil {
			return fmt.Sprintf("malformed credential: %v", e.Err)
		}
		return "malformed credential"
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Claims is the decoded credential payload. sub, role and exp are
// trust-critical and required; the display fields degrade to empty.
type Claims struct {
	SubjectID   string           `json:"sub"`
	FullName    string           `json:"fio"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	CompanyName string           `json:"companyName"`
	Role        domain.Role      `json:"role"`
	ExpiresAt   *jwt.NumericDate `json:"exp"`
}

// Identity projects the claims onto the application-facing profile.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{
		SubjectID:   c.SubjectID,
		FullName:    c.FullName,
		Username:    c.Username,
		Email:       c.Email,
		CompanyName: c.CompanyName,
		Role:        c.Role,
	}
}

// Decode parses a compact credential into claims without verifying its
// signature. Verification is intentionally skipped to match the consuming
// application's decode-and-trust behavior; do not reuse this at a trust
// boundary without adding it.
func Decode(credential string) (*Claims, error) {
	parts := strings.Split(credential, ".")
	if len(parts) < 2 {
		return nil, &DecodeError{Kind: KindMalformed}
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, &DecodeError{Kind: KindMalformed, Err: err}
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, &DecodeError{Kind: KindMalformed, Err: err}
	}

	if claims.SubjectID == "" {
		return nil, &DecodeError{Kind: KindMissingField, Field: "sub"}
	}
	if !claims.Role.Valid() {
		return nil, &DecodeError{Kind: KindMissingField, Field: "role"}
	}
	if claims.ExpiresAt == nil {
		return nil, &DecodeError{Kind: KindMissingField, Field: "exp"}
	}

	return &claims, nil
}

// IsExpired reports whether the claims have expired at the given instant.
// Expiry is compared at second granularity: a credential is expired the
// moment now reaches exp.
func IsExpired(claims *Claims, now time.Time) bool {
	return claims.ExpiresAt.Unix() <= now.Unix()
}
