// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docportal/internal/model"
)

// ErrInvalidToken is returned for tokens that are malformed, expired or wrongly signed.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the principal so the middleware can authorize without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	Role      model.Role `json:"role"`
	CompanyID string     `json:"company_id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token issuer. The secret must not be empty.
func NewTokens(secret, issuer string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: empty secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt: ttl must be positive")
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for p and its expiry.
func (t *Tokens) Issue(p model.Principal) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:      p.Role,
		CompanyID: p.CompanyID,
		Email:     p.Email,
		Name:      p.Name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates the token and returns the principal it was issued for.
func (t *Tokens) Verify(token string) (*model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	switch claims.Role {
	case model.RoleAdmin:
	case model.RoleCompany:
		if claims.CompanyID == "" {
			return nil, fmt.Errorf("%w: company token without company id", ErrInvalidToken)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return &model.Principal{
		Subject:   claims.Subject,
		Role:      claims.Role,
		CompanyID: claims.CompanyID,
		Email:     claims.Email,
		Name:      claims.Name,
	}, nil
}
