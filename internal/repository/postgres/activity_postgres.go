package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// ActivityPostgres is a PostgreSQL implementation of repository.ActivityRepository.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

// Append inserts the entry and trims older rows beyond keep in one transaction.
func (r *ActivityPostgres) Append(ctx context.Context, e *model.ActivityEntry, keep int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const qInsert = `
		INSERT INTO activity_log (id, action, details, actor, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, qInsert, e.ID, e.Action, e.Details, e.User, e.Timestamp); err != nil {
		return err
	}

	if keep > 0 {
		const qTrim = `
			DELETE FROM activity_log WHERE id IN (
				SELECT id FROM activity_log ORDER BY created_at DESC, id DESC OFFSET $1
			)`
		if _, err := tx.ExecContext(ctx, qTrim, keep); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns entries newest first.
func (r *ActivityPostgres) List(ctx context.Context, filter repository.ActivityFilter) ([]model.ActivityEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.User != "" {
		args = append(args, filter.User)
		where = append(where, fmt.Sprintf("actor = $%d", len(args)))
	}

	q := `SELECT id, action, details, actor, created_at FROM activity_log`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ActivityEntry, 0)
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.User, &e.Timestamp); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear deletes the whole log.
func (r *ActivityPostgres) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_log`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
