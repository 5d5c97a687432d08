package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jeetendra29gupta/pizza-order-api/internal/auth"
	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
	"github.com/jeetendra29gupta/pizza-order-api/internal/repository"
)

const bcryptCost = 10

// dummyHash is compared against when the username does not resolve, so a
// failed lookup and a wrong password cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService handles signup, login and token refresh.
type AuthService interface {
	Signup(ctx context.Context, username, password, email string) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, rawRefreshToken string) (accessToken, refreshToken string, err error)
}

type authService struct {
	userRepo repository.UserRepository
	codec    *auth.TokenCodec
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, codec *auth.TokenCodec) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    codec,
	}
}

// Signup creates a new user with a hashed password. Both username and email
// must be unused.
func (s *authService) Signup(ctx context.Context, username, password, email string) (*model.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUser
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username existence: %w", err)
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUser
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsStaff:      false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns an access+refresh token pair.
// An unknown username and a wrong password are indistinguishable to the
// caller.
func (s *authService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return "", "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", apperrors.ErrInvalidCredentials
	}

	return s.issuePair(user.Username)
}

// Refresh validates a refresh token and returns a new access+refresh pair.
// Every verification failure, including a non-refresh kind or a subject that
// no longer exists, collapses to ErrUnauthenticated.
func (s *authService) Refresh(ctx context.Context, rawRefreshToken string) (accessToken, refreshToken string, err error) {
	claims, err := s.codec.Verify(rawRefreshToken)
	if err != nil {
		return "", "", apperrors.ErrUnauthenticated
	}
	if claims.Kind != auth.KindRefresh {
		return "", "", apperrors.ErrUnauthenticated
	}

	user, err := s.userRepo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return "", "", apperrors.ErrUnauthenticated
	}

	return s.issuePair(user.Username)
}

func (s *authService) issuePair(username string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.codec.Issue(username, auth.KindAccess)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err = s.codec.Issue(username, auth.KindRefresh)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}
