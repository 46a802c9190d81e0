package service

import (
	"context"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/pkg/utils/tokens"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single admin principal.
type AuthService interface {
	// Login checks password against the configured hash and mints a bearer
	// token. Wrong passwords are ErrInvalidCredentials.
	Login(ctx context.Context, password string) (string, error)
}

type authService struct {
	hash   string
	secret string
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthService(cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{
		hash:   cfg.Auth.AdminPasswordHash,
		secret: cfg.Auth.TokenSecret,
		ttl:    time.Duration(cfg.Auth.TokenTTLMin) * time.Minute,
		log:    log,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)); err != nil {
		s.log.Warn("admin login rejected")
		return "", ErrInvalidCredentials
	}
	token, err := tokens.Sign(s.secret, s.ttl)
	if err != nil {
		return "", err
	}
	s.log.Info("admin logged in")
	return token, nil
}
