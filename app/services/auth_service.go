// Package services contains the business logic between controllers and
// repositories. Services return taxonomy errors; controllers only translate
// them to HTTP.
package services

import (
	"context"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/auth"
	"github.com/rishavanand/bazario/pkg/crypt"
)

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// LoginInput is the payload for login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordInput is the payload for the password reset flow.
type ForgotPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Answer      string `json:"answer" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ProfileInput is the payload for profile updates. All fields optional;
// a non-empty password shorter than 6 characters is rejected.
type ProfileInput struct {
	Name     string `json:"name" validate:"nullable"`
	Password string `json:"password" validate:"nullable,min=6"`
	Phone    string `json:"phone" validate:"nullable"`
	Address  string `json:"address" validate:"nullable"`
}

// userStore is the slice of the user repository this service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// AuthService implements registration, login, password reset and profile
// updates on top of the user repository.
type AuthService struct {
	users userStore
}

// NewAuthService wires the service to the default user repository.
func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// NewAuthServiceWith injects an explicit store (tests).
func NewAuthServiceWith(users userStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account. The password is bcrypt-hashed and the
// security answer encrypted before anything touches storage; a duplicate
// email surfaces as a conflict from the unique index.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "hash password", err)
	}

	answer, err := crypt.Encrypt(in.Answer)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "encrypt answer", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Answer:   answer,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints a JWT. Wrong email and wrong
// password produce the same message so the two are indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	invalid := apperr.Unauthenticated("Invalid email or password")

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return "", nil, invalid
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return "", nil, invalid
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindUnexpected, "mint token", err)
	}
	return token, user, nil
}

// ForgotPassword resets the password when email plus security answer match.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	wrong := apperr.NotFound("Wrong email or answer")

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return wrong
	}

	answer, err := crypt.Decrypt(user.Answer)
	if err != nil || answer != in.Answer {
		return wrong
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "hash password", err)
	}

	user.Password = hash
	return s.users.Update(ctx, user)
}

// UpdateProfile applies a partial update to the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUnexpected, "hash password", err)
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// User loads the authenticated user by id.
func (s *AuthService) User(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
