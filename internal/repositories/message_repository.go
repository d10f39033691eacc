package repositories

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"echobox/internal/models"
)

type MessageRepository interface {
	// Create appends one message to the owner's inbox. A plain INSERT, so
	// concurrent sends to the same account never lose each other.
	Create(userID int, content string) (*models.Message, error)
	ListByUserID(userID int) ([]*models.Message, error)
	// Delete removes one message scoped to its owner; false when no row matched.
	Delete(id uuid.UUID, userID int) (bool, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) Create(userID int, content string) (*models.Message, error) {
	const q = `
		INSERT INTO messages (id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	msg := &models.Message{
		ID:      uuid.New(),
		UserID:  userID,
		Content: content,
	}
	if err := r.DB.QueryRow(q, msg.ID, userID, content).Scan(&msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("message create: %w", err)
	}
	return msg, nil
}

func (r *messageRepository) ListByUserID(userID int) ([]*models.Message, error) {
	// newest first; id as a deterministic tie-break for equal timestamps
	const q = `
		SELECT id, user_id, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("message list: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) Delete(id uuid.UUID, userID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM messages WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("message delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
