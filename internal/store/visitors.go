package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dvasava/portfolio/internal/model"
)

// VisitorRepository records page views with hashed client addresses.
type VisitorRepository struct {
	db   *sql.DB
	salt string
}

// NewVisitorRepository creates a VisitorRepository. salt is mixed into every
// IP hash so stored values cannot be reversed with a lookup table.
func NewVisitorRepository(db *sql.DB, salt string) *VisitorRepository {
	return &VisitorRepository{db: db, salt: salt}
}

// HashIP returns the truncated salted hash stored in place of ip. The same
// ip always maps to the same value for a given salt.
func (r *VisitorRepository) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + r.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores one page view.
func (r *VisitorRepository) Record(ctx context.Context, ip, userAgent, path string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		r.HashIP(ip), userAgent, path, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Counts returns total page views and distinct hashed visitors.
func (r *VisitorRepository) Counts(ctx context.Context) (views, unique int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT hashed_ip) FROM visitors`,
	).Scan(&views, &unique)
	if err != nil {
		return 0, 0, fmt.Errorf("count visitors: %w", err)
	}
	return views, unique, nil
}

// Recent returns the latest visits, newest first.
func (r *VisitorRepository) Recent(ctx context.Context, limit int) ([]model.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		 FROM visitors ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var visits []model.Visit
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Cleanup deletes visits older than now-retention and reports how many
// rows went.
func (r *VisitorRepository) Cleanup(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM visitors WHERE timestamp < ?`, now.Add(-retention).UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	return res.RowsAffected()
}
