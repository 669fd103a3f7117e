package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"hammercms/internal/config"
)

// Package auth issues and verifies the bearer tokens that protect the
// staff dashboard. Credentials for the single admin account come from
// configuration; the password is stored only as a bcrypt hash.

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const issuer = "hammercms"

// Authenticator checks admin credentials and mints/verifies JWTs.
type Authenticator struct {
	secret     []byte
	adminEmail string
	adminHash  []byte
	ttl        time.Duration
}

// New validates the auth configuration and returns an Authenticator.
func New(cfg config.AuthConfig) (*Authenticator, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassHash == "" {
		return nil, fmt.Errorf("admin email and password hash are required")
	}
	ttl := time.Duration(cfg.TokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		secret:     []byte(cfg.JWTSecret),
		adminEmail: cfg.AdminEmail,
		adminHash:  []byte(cfg.AdminPassHash),
		ttl:        ttl,
	}, nil
}

// Login verifies the credentials and returns a signed token. Email and
// password failures are indistinguishable to the caller.
func (a *Authenticator) Login(email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.adminEmail)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.adminHash, []byte(password))
	if !emailOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns its subject (the staff email).
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
