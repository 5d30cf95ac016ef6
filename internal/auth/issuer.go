package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inspection-service/internal/model"
)

// DefaultAccessTTL is the fixed validity window of mobile credentials.
const DefaultAccessTTL = 4 * time.Hour

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a time-boxed token carrying the user's id, name, email and role.
func (i *Issuer) Issue(user model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
