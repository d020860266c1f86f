package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rakshak-service/pkg/constants"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Invalid credentials")

type UserService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	SeedDefaults(ctx context.Context) error
}

type userService struct {
	userRepository UserRepository
	tokens         *TokenIssuer
	logger         *zap.SugaredLogger
}

func NewUserService(userRepository UserRepository, tokens *TokenIssuer, logger *zap.SugaredLogger) UserService {
	return &userService{
		userRepository: userRepository,
		tokens:         tokens,
		logger:         logger,
	}
}

func (s *userService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}

// Stored passwords are bcrypt hashes; legacy plain-text rows still compare
// exactly.
func passwordMatches(stored, given string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

func isBcrypt(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

type seedUser struct {
	username string
	password string
	role     string
}

var defaultUsers = []seedUser{
	{username: "admin", password: "admin123", role: constants.RoleAdmin},
	{username: "moderator", password: "mod123", role: constants.RoleModerator},
}

// SeedDefaults creates the admin and moderator accounts when missing.
// Existing accounts are left untouched.
func (s *userService) SeedDefaults(ctx context.Context) error {
	for _, d := range defaultUsers {
		existing, err := s.userRepository.FindByUsername(ctx, d.username)
		if err != nil {
			return fmt.Errorf("look up %s: %w", d.username, err)
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash %s password: %w", d.username, err)
		}

		err = s.userRepository.Create(ctx, &User{
			Username:  d.username,
			Password:  string(hash),
			Role:      d.role,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", d.username, err)
		}
		s.logger.Infof("Default %s user created", d.role)
	}
	return nil
}
