package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dvasava/portfolio/internal/model"
)

// ContactRepository persists contact messages in sqlite.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a ContactRepository on db.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Save inserts msg. ID and Timestamp must already be set.
func (r *ContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, timestamp, read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.Timestamp.UTC(), msg.Read,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// List returns messages newest first.
func (r *ContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	query := `SELECT id, name, email, message, timestamp, read FROM contact_messages`
	if opts.UnreadOnly {
		query += ` WHERE read = 0`
	}
	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Skip)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Timestamp, &m.Read); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// MarkRead flags the message as read. It returns ErrNotFound when no
// unread message has that id.
func (r *ContactRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET read = 1 WHERE id = ? AND read = 0`, id)
	if err != nil {
		return fmt.Errorf("mark contact message %s read: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the total and unread message counts.
func (r *ContactRepository) Counts(ctx context.Context) (total, unread int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN read = 0 THEN 1 ELSE 0 END), 0) FROM contact_messages`,
	).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("count contact messages: %w", err)
	}
	return total, unread, nil
}
