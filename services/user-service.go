package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"taskboard-project/backend/logging"
	"taskboard-project/backend/models"
	"taskboard-project/backend/repositories"
	"taskboard-project/backend/utils"
)

const minPasswordLength = 6

// UserService implements registration and login. Passwords are bcrypt-hashed
// before storage; emails are stored lowercase so uniqueness is
// case-insensitive.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates an account and returns it together with a signed token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", models.ErrEmailTaken
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with email %s", user.ID.Hex(), user.Email)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. An
// unknown email and a wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.ID.Hex())
	return user, token, nil
}

// Me returns the profile of the authenticated user.
func (s *UserService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// SearchUsers finds other accounts by name or email fragment, used when
// picking project members. Queries shorter than two characters return an
// empty list.
func (s *UserService) SearchUsers(ctx context.Context, actingUserID primitive.ObjectID, query string) ([]models.UserRef, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.UserRef{}, nil
	}
	return s.users.Search(ctx, actingUserID, query, 10)
}
