package postgres

import (
	"context"
	"database/sql"
	"time"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, company_id, subject, message, sent_at, read, read_at`

func scanNotification(s rowScanner) (*model.Notification, error) {
	var (
		n      model.Notification
		readAt sql.NullTime
	)
	if err := s.Scan(&n.ID, &n.CompanyID, &n.Subject, &n.Message, &n.SentAt, &n.Read, &readAt); err != nil {
		return nil, translate(err)
	}
	n.ReadAt = timePtr(readAt)
	return &n, nil
}

func (r *NotificationPostgres) queryList(ctx context.Context, q string, args ...any) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a single notification.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, company_id, subject, message, sent_at, read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q, n.ID, n.CompanyID, n.Subject, n.Message, n.SentAt))
}

// CreateForAll fans a broadcast out to every company that exists at send time.
func (r *NotificationPostgres) CreateForAll(ctx context.Context, subject, message string, sentAt time.Time) ([]model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, company_id, subject, message, sent_at, read)
		SELECT uuid_generate_v4(), c.id, $1, $2, $3, false FROM companies c
		RETURNING ` + notificationColumns
	return r.queryList(ctx, q, subject, message, sentAt)
}

// List returns notifications newest first, optionally for one company.
func (r *NotificationPostgres) List(ctx context.Context, companyID string) ([]model.Notification, error) {
	if companyID == "" {
		const q = `SELECT ` + notificationColumns + ` FROM notifications ORDER BY sent_at DESC, id DESC`
		return r.queryList(ctx, q)
	}
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE company_id = $1 ORDER BY sent_at DESC, id DESC`
	return r.queryList(ctx, q, companyID)
}

// MarkRead acknowledges one notification. The first read time is kept.
func (r *NotificationPostgres) MarkRead(ctx context.Context, id, companyID string, at time.Time) (*model.Notification, error) {
	const q = `
		UPDATE notifications SET read = true, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND company_id = $2
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q, id, companyID, at))
}

// MarkAllRead acknowledges every unread notification of a company.
func (r *NotificationPostgres) MarkAllRead(ctx context.Context, companyID string, at time.Time) (int64, error) {
	const q = `UPDATE notifications SET read = true, read_at = $2 WHERE company_id = $1 AND read = false`
	res, err := r.db.ExecContext(ctx, q, companyID, at)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}
