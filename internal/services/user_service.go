package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"echobox/internal/models"
	"echobox/internal/repositories"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername returns every rule the candidate breaks, so the boundary
// can report field-level detail.
func ValidateUsername(username string) []string {
	var errs []string
	if username == "" {
		return []string{"username is required"}
	}
	if utf8.RuneCountInString(username) < 2 {
		errs = append(errs, "username must be at least 2 characters")
	}
	if utf8.RuneCountInString(username) > 20 {
		errs = append(errs, "username must be at most 20 characters")
	}
	if !usernameRe.MatchString(username) {
		errs = append(errs, "username must not contain special characters")
	}
	return errs
}

type UserService interface {
	// Register creates an unverified account and sends a verification code.
	// An unverified placeholder holding the same email is taken over.
	Register(username, email, password string) (*models.User, error)
	// CheckUsername reports whether the username is free among verified accounts.
	CheckUsername(username string) (bool, error)
	GetUserByID(id int) (*models.User, error)
	SetTelegramLink(userID int, chatID int64, enable bool) error
}

type userService struct {
	repo         repositories.UserRepository
	authService  AuthService
	verification VerificationService
}

func NewUserService(repo repositories.UserRepository, authService AuthService, verification VerificationService) UserService {
	return &userService{
		repo:         repo,
		authService:  authService,
		verification: verification,
	}
}

func (s *userService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	taken, err := s.repo.ExistsVerifiedUsername(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch {
	case existing != nil && existing.IsVerified:
		return nil, ErrEmailTaken
	case existing != nil:
		// unverified placeholder: the new sign-up takes the row over
		existing.Username = username
		existing.PasswordHash = hash
		if err := s.repo.Update(existing); err != nil {
			if repositories.IsUniqueViolation(err, repositories.ConstraintUsername) {
				return nil, ErrUsernameTaken
			}
			return nil, err
		}
		user = existing
	default:
		user = &models.User{
			Username:       username,
			Email:          email,
			PasswordHash:   hash,
			IsVerified:     false,
			AcceptMessages: true, // default at creation
		}
		if err := s.repo.Create(user); err != nil {
			if repositories.IsUniqueViolation(err, repositories.ConstraintUsername) {
				return nil, ErrUsernameTaken
			}
			if repositories.IsUniqueViolation(err, repositories.ConstraintEmail) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}

	// Email failure surfaces to the caller; the account row is already
	// persisted and a resend can pick it up later.
	if err := s.verification.IssueAndSend(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) CheckUsername(username string) (bool, error) {
	taken, err := s.repo.ExistsVerifiedUsername(strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) SetTelegramLink(userID int, chatID int64, enable bool) error {
	return s.repo.UpdateTelegramLink(userID, chatID, enable)
}
