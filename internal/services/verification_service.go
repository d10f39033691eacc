package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"echobox/internal/models"
	"echobox/internal/repositories"
)

var (
	ErrCodeInvalid = errors.New("code invalid")
	ErrCodeExpired = errors.New("code expired")
)

// codeTTL — validity window of an emailed verification code.
const codeTTL = time.Hour

type VerificationService interface {
	// IssueAndSend generates a fresh 6-digit code, stores it on the account
	// (overwriting any previous code) and emails it to the user.
	IssueAndSend(user *models.User) error
	// Verify checks the submitted code and marks the account verified.
	Verify(username, code string) (*models.User, error)
}

type verificationService struct {
	users  repositories.UserRepository
	emails EmailService
}

func NewVerificationService(users repositories.UserRepository, emails EmailService) VerificationService {
	return &verificationService{users: users, emails: emails}
}

// uniform in [100000, 999999]
func (s *verificationService) generateCode() string {
	src := rand.NewSource(time.Now().UnixNano())
	rnd := rand.New(src)
	return fmt.Sprintf("%06d", 100000+rnd.Intn(900000))
}

func (s *verificationService) IssueAndSend(user *models.User) error {
	code := s.generateCode()
	expiresAt := time.Now().Add(codeTTL)

	if err := s.users.SetVerificationCode(user.ID, code, expiresAt); err != nil {
		return err
	}
	user.VerifyCode = &code
	user.VerifyCodeExpiresAt = &expiresAt

	if err := s.emails.SendVerificationEmail(user.Email, user.Username, code); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	log.Printf("[verify][issue] user_id=%d expires_at=%s", user.ID, expiresAt.Format(time.RFC3339))
	return nil
}

// Verify check order: mismatch is reported before expiry, so an expired AND
// wrong code comes back as ErrCodeInvalid. A cleared code (already used)
// also reads as a mismatch.
func (s *verificationService) Verify(username, code string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.VerifyCode == nil || *user.VerifyCode != code {
		return nil, ErrCodeInvalid
	}
	if user.VerifyCodeExpiresAt == nil || !time.Now().Before(*user.VerifyCodeExpiresAt) {
		return nil, ErrCodeExpired
	}

	if err := s.users.MarkVerified(user.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	user.IsVerified = true
	user.VerifiedAt = &now
	user.VerifyCode = nil
	user.VerifyCodeExpiresAt = nil

	log.Printf("[verify][confirm] OK user_id=%d", user.ID)
	return user, nil
}
