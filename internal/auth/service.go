// Package auth handles account registration and credential checks. Session
// and cookie mechanics belong to the surrounding web layer; this service
// only answers "who is user N" and "are these credentials valid".
package auth

import (
	"errors"
	"regexp"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/entities"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrAccountInactive = errors.New("account is deactivated")
	ErrBadCredentials  = errors.New("invalid username or password")
)

// Service handles authentication and user management.
type Service struct {
	users      *users.Repository
	bcryptCost int
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, bcryptCost int) *Service {
	return &Service{users: repo, bcryptCost: bcryptCost}
}

// Register creates a new account with the given role.
func (s *Service) Register(username, email, password, firstName, lastName string, role entities.UserRole) (*entities.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, &database.ValidationError{Field: "username", Reason: "must be 3-64 characters, alphanumeric with underscore or hyphen"}
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, &database.ValidationError{Field: "email", Reason: "invalid format"}
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, &database.ValidationError{Field: "password", Reason: err.Error()}
	}

	return s.users.Create(&entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
	})
}

// Authenticate validates credentials by username or email and stamps the
// last login time on success. Deactivated accounts cannot log in.
func (s *Service) Authenticate(login, password string) (*entities.User, error) {
	user, err := s.users.GetByLogin(login)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.users.TouchLastLogin(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// ByID resolves a user id supplied by the session collaborator. This is the
// whole session-to-user lookup surface: stateless, no process-wide state.
func (s *Service) ByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}
