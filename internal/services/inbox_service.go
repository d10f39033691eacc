package services

import (
	"errors"
	"log"

	"github.com/google/uuid"

	"echobox/internal/models"
	"echobox/internal/repositories"
)

var (
	ErrNotAcceptingMessages = errors.New("user is not accepting messages")
	ErrMessageNotFound      = errors.New("message not found")
)

type InboxService interface {
	// SendMessage appends an anonymous message to the target's inbox.
	SendMessage(targetUsername, content string) (*models.Message, error)
	// ListMessages returns the inbox newest-first.
	ListMessages(userID int) ([]*models.Message, error)
	// SetAcceptingMessages toggles the accept flag; idempotent.
	SetAcceptingMessages(userID int, accept bool) (*models.User, error)
	// DeleteMessage removes one message scoped to its owner.
	DeleteMessage(userID int, messageID uuid.UUID) error
}

type inboxService struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	notifier Notifier // optional, may be nil
}

func NewInboxService(users repositories.UserRepository, messages repositories.MessageRepository, notifier Notifier) InboxService {
	return &inboxService{
		users:    users,
		messages: messages,
		notifier: notifier,
	}
}

func (s *inboxService) SendMessage(targetUsername, content string) (*models.Message, error) {
	user, err := s.users.GetByUsername(targetUsername)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.AcceptMessages {
		return nil, ErrNotAcceptingMessages
	}

	msg, err := s.messages.Create(user.ID, content)
	if err != nil {
		return nil, err
	}

	// best effort; a broken bot must not fail the send
	if s.notifier != nil && user.NotifyTelegram && user.TelegramChatID != 0 {
		if err := s.notifier.NotifyNewMessage(user.TelegramChatID, user.Username); err != nil {
			log.Printf("[inbox][send] telegram notify failed: user_id=%d err=%v", user.ID, err)
		}
	}
	return msg, nil
}

func (s *inboxService) ListMessages(userID int) ([]*models.Message, error) {
	return s.messages.ListByUserID(userID)
}

func (s *inboxService) SetAcceptingMessages(userID int, accept bool) (*models.User, error) {
	user, err := s.users.SetAcceptMessages(userID, accept)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *inboxService) DeleteMessage(userID int, messageID uuid.UUID) error {
	ok, err := s.messages.Delete(messageID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMessageNotFound
	}
	return nil
}
