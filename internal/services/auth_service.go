package services

import (
	"errors"
	"fmt"

	"community-api/internal/models"
	"community-api/internal/permissions"
	"community-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

const minPasswordLength = 8

// AuthService handles authentication related business logic.
type AuthService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		db:       db,
		userRepo: userRepo,
	}
}

// SignupInput represents parameters to register a user.
type SignupInput struct {
	Username    string
	Password    string
	DisplayName string
}

// Signup registers a new user with the default application role.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		DisplayName:  input.DisplayName,
		AppRole:      models.AppRoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput represents login credentials.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// SetAppRole changes a target user's application role. Only a user holding
// MANAGE_USERS (app admins) may do this.
func (s *AuthService) SetAppRole(actorID, targetID uint64, role models.AppRole) error {
	snap, err := permissions.Resolve(s.db, actorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !snap.CheckAppPermission(permissions.ActionManageUsers) {
		return ErrNotAllowed
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.UpdateAppRole(targetID, role); err != nil {
		return fmt.Errorf("failed to update app role: %w", err)
	}
	return nil
}
