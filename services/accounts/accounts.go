// Package accounts registers users and checks their credentials.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsfeed/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUsernameLength = 150

var (
	ErrInvalidInput       = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user not found")
)

type Service struct {
	db   *gorm.DB
	cost int
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy of the service hashing with the given bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	clone := *s
	clone.cost = cost
	return &clone
}

func (s *Service) Register(ctx context.Context, username, password string) (models.UserModel, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.UserModel{}, ErrInvalidInput
	}
	if len([]rune(username)) > maxUsernameLength {
		return models.UserModel{}, fmt.Errorf("%w: username longer than %d characters", ErrInvalidInput, maxUsernameLength)
	}
	// bcrypt only looks at the first 72 bytes and rejects longer input.
	if len(password) > 72 {
		return models.UserModel{}, fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.UserModel{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.UserModel{Username: username, Password: string(hashed)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return models.UserModel{}, ErrUsernameTaken
		}
		return models.UserModel{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserModel{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.UserModel{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.UserModel{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserModel{}, ErrNotFound
	}
	if err != nil {
		return models.UserModel{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
