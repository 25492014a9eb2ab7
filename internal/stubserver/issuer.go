package stubserver

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/hiredesk-session/internal/domain"
)

// Issuer signs HS256 tokens whose payload matches what the real
// authentication service puts on the wire.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an issuer.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

type issuedClaims struct {
	FullName    string      `json:"fio"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	CompanyName string      `json:"companyName,omitempty"`
	Role        domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the account.
func (i *Issuer) Issue(account *Account) (string, time.Time, error) {
	expiresAt := time.Now().Add(i.ttl)
	claims := &issuedClaims{
		FullName:    account.FullName,
		Username:    account.Username,
		Email:       account.Email,
		CompanyName: account.CompanyName,
		Role:        account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
