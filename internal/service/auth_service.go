package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"aceplace/internal/model"
	"aceplace/internal/repository"
	"aceplace/internal/util"
)

type AuthService struct {
	userStore UserStore
	jwtSecret string
}

func NewAuthService(userStore UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		userStore: userStore,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user. The pre-check keeps the common duplicate
// case cheap; the unique index on users.email closes the race between two
// concurrent registrations.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userStore.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userStore.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return u, nil
}

// Login checks user credentials and returns a JWT bound to the email.
// An unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.Email, s.jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}
