package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"echobox/internal/models"
)

// function-field stubs so each test wires only what it needs

type stubInbox struct {
	sendFn   func(targetUsername, content string) (*models.Message, error)
	listFn   func(userID int) ([]*models.Message, error)
	setFn    func(userID int, accept bool) (*models.User, error)
	deleteFn func(userID int, messageID uuid.UUID) error
}

func (s *stubInbox) SendMessage(targetUsername, content string) (*models.Message, error) {
	return s.sendFn(targetUsername, content)
}

func (s *stubInbox) ListMessages(userID int) ([]*models.Message, error) {
	return s.listFn(userID)
}

func (s *stubInbox) SetAcceptingMessages(userID int, accept bool) (*models.User, error) {
	return s.setFn(userID, accept)
}

func (s *stubInbox) DeleteMessage(userID int, messageID uuid.UUID) error {
	return s.deleteFn(userID, messageID)
}

type stubUsers struct {
	registerFn      func(username, email, password string) (*models.User, error)
	checkFn         func(username string) (bool, error)
	getByIDFn       func(id int) (*models.User, error)
	telegramLinkFn  func(userID int, chatID int64, enable bool) error
}

func (s *stubUsers) Register(username, email, password string) (*models.User, error) {
	return s.registerFn(username, email, password)
}

func (s *stubUsers) CheckUsername(username string) (bool, error) {
	return s.checkFn(username)
}

func (s *stubUsers) GetUserByID(id int) (*models.User, error) {
	return s.getByIDFn(id)
}

func (s *stubUsers) SetTelegramLink(userID int, chatID int64, enable bool) error {
	return s.telegramLinkFn(userID, chatID, enable)
}

type stubVerification struct {
	issueFn  func(user *models.User) error
	verifyFn func(username, code string) (*models.User, error)
}

func (s *stubVerification) IssueAndSend(user *models.User) error {
	return s.issueFn(user)
}

func (s *stubVerification) Verify(username, code string) (*models.User, error) {
	return s.verifyFn(username, code)
}

type stubAuth struct {
	hashFn func(plain string) (string, error)
	authFn func(identifier, password string) (*models.User, error)
}

func (s *stubAuth) HashPassword(plain string) (string, error) {
	return s.hashFn(plain)
}

func (s *stubAuth) Authenticate(identifier, password string) (*models.User, error) {
	return s.authFn(identifier, password)
}

type stubSuggestions struct {
	streamFn func(ctx context.Context, onChunk func(string) error) error
	listFn   func(ctx context.Context) []string
}

func (s *stubSuggestions) StreamSuggestions(ctx context.Context, onChunk func(string) error) error {
	return s.streamFn(ctx, onChunk)
}

func (s *stubSuggestions) Suggestions(ctx context.Context) []string {
	return s.listFn(ctx)
}

type stubExporter struct {
	exportFn func(w io.Writer, username string, messages []*models.Message) error
}

func (s *stubExporter) ExportInbox(w io.Writer, username string, messages []*models.Message) error {
	return s.exportFn(w, username, messages)
}

// withIdentity injects the auth middleware's output for protected handlers.
func withIdentity(id models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id.ID)
		c.Set("identity", id)
		c.Next()
	}
}
