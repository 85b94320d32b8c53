package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"modqueue/internal/auth"
	apperrors "modqueue/internal/errors"
	"modqueue/internal/model"
	"modqueue/internal/repository"
)

// RegisterInput is the signup request schema. Every field is required.
type RegisterInput struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginInput is the login request schema.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    uint
}

// AuthService handles signup and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, jwtService *auth.JWTService, log zerolog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		validate:   validator.New(),
		log:        log.With().Str("component", "auth_service").Logger(),
	}
}

// Register validates the input, rejects a taken username or email, and stores
// a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, apperrors.ErrMissingFields
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil && existing != nil {
		s.log.Info().Str("username", in.Username).Msg("signup rejected: username or email taken")
		return nil, apperrors.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error().Err(err).Msg("check user existence")
		return nil, apperrors.PersistenceError("Failed to create user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	// A concurrent signup can pass the lookup above; the unique indexes reject
	// the second insert and the transaction leaves nothing behind.
	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		return repo.Create(ctx, user)
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", in.Username).Msg("create user")
		return nil, apperrors.PersistenceError("Failed to create user", err)
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies the email and password and issues a session token.
func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, apperrors.ErrLoginMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.log.Error().Err(err).Msg("find user by email")
		return nil, apperrors.PersistenceError("Failed to look up user", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Info().Uint("user_id", user.ID).Msg("login rejected: incorrect password")
			return nil, apperrors.ErrIncorrectPassword
		}
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("verify password")
		return nil, apperrors.Internal("verify password", err)
	}

	token, expiresAt, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("issue token", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("login succeeded")
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
	}, nil
}
