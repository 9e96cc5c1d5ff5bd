package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dvasava/portfolio/internal/model"
)

// StatusCheckRepository keeps the legacy status ping records.
type StatusCheckRepository struct {
	db *sql.DB
}

func NewStatusCheckRepository(db *sql.DB) *StatusCheckRepository {
	return &StatusCheckRepository{db: db}
}

func (r *StatusCheckRepository) Save(ctx context.Context, sc *model.StatusCheck) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)`,
		sc.ID, sc.ClientName, sc.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

// List returns up to limit records in insertion order.
func (r *StatusCheckRepository) List(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_name, timestamp FROM status_checks ORDER BY timestamp ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list status checks: %w", err)
	}
	defer rows.Close()

	var checks []*model.StatusCheck
	for rows.Next() {
		var sc model.StatusCheck
		if err := rows.Scan(&sc.ID, &sc.ClientName, &sc.Timestamp); err != nil {
			return nil, fmt.Errorf("scan status check: %w", err)
		}
		checks = append(checks, &sc)
	}
	return checks, rows.Err()
}
