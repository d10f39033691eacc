package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never serialized

	IsVerified bool       `json:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	// verification code storage; cleared after a successful verify
	VerifyCode          *string    `json:"-"`
	VerifyCodeExpiresAt *time.Time `json:"-"`

	AcceptMessages bool `json:"is_accepting_messages"`

	// optional Telegram notification link
	TelegramChatID int64 `json:"-"`
	NotifyTelegram bool  `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Identity is the projection carried in the session token. No secrets.
type Identity struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsVerified     bool   `json:"is_verified"`
	AcceptMessages bool   `json:"is_accepting_messages"`
}

func (u *User) Identity() Identity {
	return Identity{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		IsVerified:     u.IsVerified,
		AcceptMessages: u.AcceptMessages,
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}
