package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"markmycampus/internal/auth"
	"markmycampus/internal/model"
	"markmycampus/internal/repository"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts the first 72 bytes.
	maxPasswordBytes  = 72
	maxUsernameLength = 64
)

type AuthService struct {
	userRepo      *repository.UserRepository
	tokens        *auth.TokenService
	adminPassword string
	log           logrus.FieldLogger
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenService, adminPassword string, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokens:        tokens,
		adminPassword: adminPassword,
		log:           log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	token, err := s.tokens.Issue(auth.UserPrincipal{ID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user registered")
	return &AuthResult{Token: token, User: user}, nil
}

// Verify returns nil without error when the username is unknown or the password is wrong.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.Verify(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.WithField("username", input.Username).Warn("login rejected")
		return nil, ErrInvalidCredential
	}

	token, err := s.tokens.Issue(auth.UserPrincipal{ID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) AdminLogin(password string) (string, error) {
	if password == "" {
		return "", ErrMissingAdminPassword
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		s.log.Warn("admin login rejected")
		return "", ErrInvalidAdminPassword
	}

	token, err := s.tokens.Issue(auth.AdminPrincipal{})
	if err != nil {
		return "", err
	}
	s.log.Info("admin logged in")
	return token, nil
}
