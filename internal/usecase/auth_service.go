package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pedidos-agent/internal/domain"
)

type LoginGateway interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
}

type SessionStore interface {
	Save(domain.Session) error
	Load() (domain.Session, bool)
	Clear() error
}

// AuthService logs in against the remote backend, persists the session the
// gateway reads on every request, and mints tokens for the local control API.
type AuthService struct {
	Gateway   LoginGateway
	Store     SessionStore
	JWTSecret string
	TokenTTL  time.Duration
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.Gateway.Login(ctx, username, password)
	if err != nil {
		return "", domain.User{}, err
	}
	sess := domain.Session{User: user, Username: username, Password: password}
	if err := s.Store.Save(sess); err != nil {
		return "", domain.User{}, err
	}
	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.JWTSecret))
	if err != nil {
		return "", domain.User{}, err
	}
	return signed, user, nil
}

func (s *AuthService) Logout() error {
	return s.Store.Clear()
}

func (s *AuthService) IsLoggedIn() bool {
	_, ok := s.Store.Load()
	return ok
}

func (s *AuthService) Current() (domain.Session, bool) {
	return s.Store.Load()
}

// Verify checks a control API token and returns the user id it was minted
// for.
func (s *AuthService) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(s.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", ErrBadRequest("invalid token")
	}
	m, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadRequest("invalid claims")
	}
	uid, _ := m["user_id"].(string)
	return uid, nil
}
