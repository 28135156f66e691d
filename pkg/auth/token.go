package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"sensorhub/pkg/models"
)

// ErrInvalidToken is the single outcome every token rejection collapses to.
// The wrapped cause is for server-side logs only and must never reach a
// client.
var ErrInvalidToken = errors.New("auth: invalid token")

const DefaultTokenTTL = time.Hour

type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenAuthenticator struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenAuthenticator(secret []byte, issuer, audience string, ttl time.Duration) *TokenAuthenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuthenticator{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Issue signs a token for the user carrying identity and role claims. The
// jti claim keeps two tokens issued in the same instant distinguishable.
// Roles are frozen at issuance; a role change requires a fresh login.
func (ta *TokenAuthenticator) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ta.ttl)

	claims := Claims{
		Email: user.Email,
		Roles: []string{user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    ta.issuer,
			Audience:  jwt.ClaimStrings{ta.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ta.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks signature, issuer, audience and expiry, and returns the
// typed principal carried by the token.
func (ta *TokenAuthenticator) Validate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ta.issuer),
		jwt.WithAudience(ta.audience),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: unexpected signing method")
		}
		return ta.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	roles := make([]Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		if role, ok := ParseRole(r); ok {
			roles = append(roles, role)
		}
	}
	if claims.Subject == "" || len(roles) == 0 {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}
