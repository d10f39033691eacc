package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echobox/internal/models"
)

func newInboxFixture(t *testing.T, notifier Notifier) (*fakeUserRepo, *fakeMessageRepo, InboxService, *models.User) {
	t.Helper()
	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	svc := NewInboxService(users, messages, notifier)

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", AcceptMessages: true}
	require.NoError(t, users.Create(user))
	require.NoError(t, users.MarkVerified(user.ID))
	return users, messages, svc, user
}

func TestSendMessage(t *testing.T) {
	_, _, svc, user := newInboxFixture(t, nil)

	msg, err := svc.SendMessage("alice", "hello there")
	require.NoError(t, err)
	assert.Equal(t, user.ID, msg.UserID)
	assert.Equal(t, "hello there", msg.Content)
	assert.NotEqual(t, uuid.Nil, msg.ID)
}

func TestSendMessageUnknownUser(t *testing.T) {
	_, _, svc, _ := newInboxFixture(t, nil)

	_, err := svc.SendMessage("nobody", "hello")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendMessageNotAccepting(t *testing.T) {
	users, messages, svc, user := newInboxFixture(t, nil)

	_, err := users.SetAcceptMessages(user.ID, false)
	require.NoError(t, err)

	_, err = svc.SendMessage("alice", "hello")
	assert.ErrorIs(t, err, ErrNotAcceptingMessages)

	// the inbox was not touched
	assert.Empty(t, messages.msgs)
}

func TestListMessagesNewestFirst(t *testing.T) {
	_, _, svc, user := newInboxFixture(t, nil)

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.SendMessage("alice", content)
		require.NoError(t, err)
	}

	list, err := svc.ListMessages(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
	assert.Equal(t, "first", list[2].Content)
}

func TestSetAcceptingMessages(t *testing.T) {
	_, _, svc, user := newInboxFixture(t, nil)

	updated, err := svc.SetAcceptingMessages(user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.AcceptMessages)

	// idempotent
	updated, err = svc.SetAcceptingMessages(user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.AcceptMessages)

	_, err = svc.SetAcceptingMessages(9999, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteMessageScopedToOwner(t *testing.T) {
	users, _, svc, user := newInboxFixture(t, nil)

	other := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", AcceptMessages: true}
	require.NoError(t, users.Create(other))

	msg, err := svc.SendMessage("alice", "for alice only")
	require.NoError(t, err)

	// another user cannot delete it
	err = svc.DeleteMessage(other.ID, msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	require.NoError(t, svc.DeleteMessage(user.ID, msg.ID))

	// already gone
	err = svc.DeleteMessage(user.ID, msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestSendMessageNotifiesTelegram(t *testing.T) {
	notifier := &fakeNotifier{}
	users, _, svc, user := newInboxFixture(t, notifier)
	require.NoError(t, users.UpdateTelegramLink(user.ID, 42, true))

	_, err := svc.SendMessage("alice", "hello")
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, notifier.notified)
}

func TestSendMessageNotifierFailureIgnored(t *testing.T) {
	notifier := &fakeNotifier{err: assert.AnError}
	users, messages, svc, user := newInboxFixture(t, notifier)
	require.NoError(t, users.UpdateTelegramLink(user.ID, 42, true))

	_, err := svc.SendMessage("alice", "hello")
	require.NoError(t, err)
	assert.Len(t, messages.msgs, 1)
}
