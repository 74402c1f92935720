package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/eshop/backoffice/internal/config"
	"github.com/eshop/backoffice/internal/models"
)

// AuthService signs in the single back-office admin and validates its sessions.
type AuthService struct {
	admin     models.User
	salt      []byte
	hash      []byte
	argon     config.Argon2Config
	secret    []byte
	ttl       time.Duration
	blacklist TokenBlacklist
	now       func() time.Time
}

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// NewAuthService hashes the configured admin password once so logins compare
// against a derived key rather than the plain text.
func NewAuthService(cfg config.AuthConfig, argonCfg config.Argon2Config, blacklist TokenBlacklist) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}

	salt := make([]byte, argonCfg.SaltLength)
	if _, err := cryptorand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	s := &AuthService{
		admin: models.User{
			Email: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
			Name:  cfg.AdminName,
		},
		salt:      salt,
		argon:     argonCfg,
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.SessionTTL,
		blacklist: blacklist,
		now:       time.Now,
	}
	s.hash = s.derive(cfg.AdminPassword)
	return s, nil
}

func (s *AuthService) derive(password string) []byte {
	return argon2.IDKey([]byte(password), s.salt, s.argon.Time, s.argon.Memory, s.argon.Threads, s.argon.KeyLength)
}

// Login checks the credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare(s.derive(password), s.hash) == 1
	if !emailOK || !passwordOK {
		log.Printf("[AUTH] Login rejected for %s", email)
		return nil, "", ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      s.admin,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := sessionClaims{
		Name: session.User.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.User.Email,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}

	log.Printf("[AUTH] Session %s started for %s", session.ID, email)
	return session, token, nil
}

// Authenticate returns the session carried by token if it is valid, unexpired
// and not revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" || claims.Subject != s.admin.Email {
		return nil, ErrInvalidSession
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidSession
	}

	session := &models.Session{
		ID:        claims.ID,
		User:      models.User{Email: claims.Subject, Name: claims.Name},
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return session, nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrInvalidSession
	}
	if err := s.blacklist.Revoke(ctx, session.ID, session.ExpiresAt.Sub(s.now())); err != nil {
		return err
	}
	log.Printf("[AUTH] Session %s ended for %s", session.ID, session.User.Email)
	return nil
}
