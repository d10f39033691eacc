package services

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"echobox/internal/models"
	"echobox/internal/repositories"
)

// in-memory repositories mirroring the SQL behavior closely enough for the
// service-level tests

type fakeUserRepo struct {
	seq   int
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.VerifiedAt != nil {
		t := *u.VerifiedAt
		cp.VerifiedAt = &t
	}
	if u.VerifyCode != nil {
		s := *u.VerifyCode
		cp.VerifyCode = &s
	}
	if u.VerifyCodeExpiresAt != nil {
		t := *u.VerifyCodeExpiresAt
		cp.VerifyCodeExpiresAt = &t
	}
	return &cp
}

func (f *fakeUserRepo) Create(user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return &pq.Error{Code: "23505", Constraint: repositories.ConstraintUsername}
		}
		if u.Email == user.Email {
			return &pq.Error{Code: "23505", Constraint: repositories.ConstraintEmail}
		}
	}
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	for id, u := range f.users {
		if id != user.ID && u.Username == user.Username {
			return &pq.Error{Code: "23505", Constraint: repositories.ConstraintUsername}
		}
	}
	if _, ok := f.users[user.ID]; !ok {
		return nil
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Delete(id int) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	return cloneUser(f.users[id]), nil
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIdentifier(identifier string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsVerifiedUsername(username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.IsVerified {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SetVerificationCode(userID int, code string, expiresAt time.Time) error {
	if u, ok := f.users[userID]; ok {
		u.VerifyCode = &code
		exp := expiresAt
		u.VerifyCodeExpiresAt = &exp
	}
	return nil
}

func (f *fakeUserRepo) MarkVerified(userID int) error {
	if u, ok := f.users[userID]; ok {
		now := time.Now()
		u.IsVerified = true
		u.VerifiedAt = &now
		u.VerifyCode = nil
		u.VerifyCodeExpiresAt = nil
	}
	return nil
}

func (f *fakeUserRepo) SetAcceptMessages(userID int, accept bool) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	u.AcceptMessages = accept
	return cloneUser(u), nil
}

func (f *fakeUserRepo) UpdateTelegramLink(userID int, chatID int64, enable bool) error {
	if u, ok := f.users[userID]; ok {
		u.TelegramChatID = chatID
		u.NotifyTelegram = enable
	}
	return nil
}

type fakeMessageRepo struct {
	now  time.Time
	msgs []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeMessageRepo) Create(userID int, content string) (*models.Message, error) {
	f.now = f.now.Add(time.Second)
	msg := &models.Message{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: f.now,
	}
	f.msgs = append(f.msgs, msg)
	return msg, nil
}

func (f *fakeMessageRepo) ListByUserID(userID int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	// same ordering as the SQL: created_at DESC, id DESC
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	return out, nil
}

func (f *fakeMessageRepo) Delete(id uuid.UUID, userID int) (bool, error) {
	for i, m := range f.msgs {
		if m.ID == id && m.UserID == userID {
			f.msgs = append(f.msgs[:i], f.msgs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeEmailService struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	email    string
	username string
	code     string
}

func (f *fakeEmailService) SendVerificationEmail(email, username, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{email: email, username: username, code: code})
	return nil
}

type fakeNotifier struct {
	notified []int64
	err      error
}

func (f *fakeNotifier) NotifyNewMessage(chatID int64, username string) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, chatID)
	return nil
}
