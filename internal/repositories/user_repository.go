package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"echobox/internal/models"
)

// Constraint names from the schema; used to map unique violations.
const (
	ConstraintUsername = "users_username_key"
	ConstraintEmail    = "users_email_key"
)

func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}

type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id int) error

	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIdentifier(identifier string) (*models.User, error)
	ExistsVerifiedUsername(username string) (bool, error)

	// verification helpers
	SetVerificationCode(userID int, code string, expiresAt time.Time) error
	MarkVerified(userID int) error

	// inbox flag; returns the updated row or nil if the user vanished
	SetAcceptMessages(userID int, accept bool) (*models.User, error)

	// Telegram helpers
	UpdateTelegramLink(userID int, chatID int64, enable bool) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, username, email, password_hash,
	is_verified, verified_at,
	verify_code, verify_code_expires_at,
	accept_messages,
	COALESCE(telegram_chat_id,0), COALESCE(notify_telegram,FALSE),
	created_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		verifiedAt sql.NullTime
		code       sql.NullString
		codeExp    sql.NullTime
		tgChatID   sql.NullInt64
		tgNotify   sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsVerified, &verifiedAt,
		&code, &codeExp,
		&u.AcceptMessages,
		&tgChatID, &tgNotify,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.VerifiedAt = &t
	}
	if code.Valid {
		s := code.String
		u.VerifyCode = &s
	}
	if codeExp.Valid {
		t := codeExp.Time
		u.VerifyCodeExpiresAt = &t
	}
	if tgChatID.Valid {
		u.TelegramChatID = tgChatID.Int64
	}
	if tgNotify.Valid {
		u.NotifyTelegram = tgNotify.Bool
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			username, email, password_hash,
			is_verified, verified_at,
			verify_code, verify_code_expires_at,
			accept_messages,
			telegram_chat_id, notify_telegram
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULL,FALSE)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.VerifiedAt,
		user.VerifyCode,
		user.VerifyCodeExpiresAt,
		user.AcceptMessages,
	).Scan(&user.ID, &user.CreatedAt)
}

// Update rewrites the mutable columns. Used when a new sign-up takes over an
// unverified placeholder row that holds the same email.
func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET
			username=$1,
			email=$2,
			password_hash=$3,
			is_verified=$4,
			verified_at=$5,
			verify_code=$6,
			verify_code_expires_at=$7,
			accept_messages=$8
		WHERE id=$9
	`
	_, err := r.DB.Exec(q,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.VerifiedAt,
		user.VerifyCode,
		user.VerifyCodeExpiresAt,
		user.AcceptMessages,
		user.ID,
	)
	return err
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByIdentifier matches by username OR email, exact match. Uniqueness of
// both columns guarantees at most one row.
func (r *userRepository) GetByIdentifier(identifier string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	return scanUser(r.DB.QueryRow(q, identifier))
}

func (r *userRepository) ExistsVerifiedUsername(username string) (bool, error) {
	const q = `SELECT 1 FROM users WHERE username = $1 AND is_verified = TRUE LIMIT 1`
	var dummy int
	err := r.DB.QueryRow(q, username).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verified username lookup: %w", err)
	}
	return true, nil
}

// ===== verification helpers =====

func (r *userRepository) SetVerificationCode(userID int, code string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET verify_code=$1, verify_code_expires_at=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, code, expiresAt, userID)
	return err
}

func (r *userRepository) MarkVerified(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_verified=TRUE, verified_at=NOW(),
		    verify_code=NULL, verify_code_expires_at=NULL
		WHERE id=$1
	`, userID)
	return err
}

// ===== inbox flag =====

func (r *userRepository) SetAcceptMessages(userID int, accept bool) (*models.User, error) {
	const q = `
		UPDATE users
		SET accept_messages=$1
		WHERE id=$2
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(q, accept, userID))
}

// ===== telegram helpers =====

func (r *userRepository) UpdateTelegramLink(userID int, chatID int64, enable bool) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET telegram_chat_id=$1, notify_telegram=$2
		WHERE id=$3
	`, chatID, enable, userID)
	return err
}
