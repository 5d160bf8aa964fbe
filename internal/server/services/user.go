package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/hasher"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/repositories/repomanager"
	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(subjectID int64) (string, time.Time, error)
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Name            string
	Password        string
	ConfirmPassword string
	Categories      []string
}

// Session is what a client receives after registering or logging in.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *models.User
}

// UserService handles registration and login.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      hasher.Hasher
	auth        *Authenticator
	tokens      TokenIssuer
}

func NewUserService(m repomanager.RepositoryManager, h hasher.Hasher, a *Authenticator, tokens TokenIssuer) *UserService {
	return &UserService{repomanager: m, hasher: h, auth: a, tokens: tokens}
}

// Register validates in, stores the new account and opens a session for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	user, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	user.PasswordHash, err = s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, hasher.ErrSecretTooLong) {
			return nil, fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInfrastructure, err)
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		_, err := repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %w", common.ErrorInfrastructure, err)
	}

	return s.openSession(user)
}

// Login checks the credentials and opens a session.
func (s *UserService) Login(ctx context.Context, name, password string) (*Session, error) {
	user, err := s.auth.Authenticate(ctx, name, password)
	if err != nil {
		return nil, err
	}
	return s.openSession(user)
}

func (s *UserService) openSession(user *models.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInfrastructure, err)
	}
	return &Session{
		AccessToken: token,
		TokenType:   common.TokenType,
		ExpiresAt:   exp,
		User:        user,
	}, nil
}

func validateRegistration(in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	var categories []string
	for _, c := range in.Categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if strings.Contains(c, ",") {
			return nil, fmt.Errorf("%w: category %q must not contain a comma", common.ErrorValidation, c)
		}
		categories = append(categories, c)
	}

	return &models.User{Name: name, Categories: categories}, nil
}
