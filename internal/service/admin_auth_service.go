package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"rapidpark/internal/repository"
)

type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type adminAuthService struct {
	repo   repository.AdminAuthRepository
	secret string
}

func NewAdminAuthService(repo repository.AdminAuthRepository, secret string) AdminAuthService {
	return &adminAuthService{repo: repo, secret: secret}
}

func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	if s.secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password cannot be empty")
	}
	return s.repo.CreateAdmin(ctx, email, password)
}
