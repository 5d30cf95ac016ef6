package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inspection-service/internal/auth"
	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

type AuthService struct {
	userRepo *repository.UserRepository
	issuer   *auth.Issuer
}

func NewAuthService(userRepo *repository.UserRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer}
}

// MobileLogin exchanges email/password for a short-lived bearer token. Every
// failure collapses into ErrInvalidCredentials so callers cannot tell a wrong
// password from an unknown email.
func (s *AuthService) MobileLogin(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
