package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"shortkey/internal/entities"
	"shortkey/internal/jwt"
	"shortkey/internal/models"
	"shortkey/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, id int64) (*entities.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *jwt.Service
	adminEmail string
}

// NewAuthService creates a new auth service. Registrations matching adminEmail
// are seeded with the ADMIN role.
func NewAuthService(users repository.UserRepository, jwtService *jwt.Service, adminEmail string) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		adminEmail: strings.ToLower(adminEmail),
	}
}

// Register creates a new user account and logs it in.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(req.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := entities.RoleUser
	if email == s.adminEmail {
		role = entities.RoleAdmin
	}

	// The unique index on email is the arbiter; no pre-check needed.
	user, err := s.users.Create(ctx, req.Name, email, string(hashedPassword), role)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(user)
}

// Login authenticates a user and returns user info with a fresh token.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user)
}

// GetUser looks up a user by id. Returns ErrNotFound for unknown ids.
func (s *authService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *authService) respond(user *entities.User) (*models.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
		Role:   user.Role,
	}, nil
}
