package usecases

import (
	"dream-journal/apperrors"
	"dream-journal/auth"
	"dream-journal/entities"
	"dream-journal/repositories"

	"github.com/rs/zerolog/log"
)

type AuthUseCase struct {
	Users  repositories.UserRepository
	Tokens *auth.TokenService
}

func NewAuthUseCase(users repositories.UserRepository, tokens *auth.TokenService) *AuthUseCase {
	return &AuthUseCase{Users: users, Tokens: tokens}
}

// Register creates an account and returns it with a freshly issued token.
func (uc *AuthUseCase) Register(username, email, password string) (*entities.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", apperrors.Validation("Please provide username, email, and password")
	}

	// Duplicate email is a conflict, indistinguishable status-wise from a
	// validation failure (both 400) but with its own message.
	if _, err := uc.Users.GetByEmail(email); err == nil {
		return nil, "", apperrors.Conflict("email already exists")
	}

	user := &entities.User{
		Username: username,
		Email:    email,
		Role:     entities.RoleUser,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, "", err
	}
	if err := uc.Users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := uc.Tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so account existence never leaks.
func (uc *AuthUseCase) Login(email, password string) (*entities.User, string, error) {
	if email == "" {
		return nil, "", apperrors.Validation("Email is required")
	}
	if password == "" {
		return nil, "", apperrors.Validation("Password is required")
	}

	user, err := uc.Users.GetByEmail(email)
	if err != nil || !user.CheckPassword(password) {
		return nil, "", apperrors.Unauthorized("Invalid credentials")
	}

	token, err := uc.Tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the identity for an authenticated caller.
func (uc *AuthUseCase) Me(userID string) (*entities.User, error) {
	user, err := uc.Users.GetByID(userID)
	if err != nil {
		return nil, apperrors.Unauthorized("Not authorized to access this route")
	}
	return user, nil
}
