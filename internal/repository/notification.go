package repository

import (
	"context"
	"time"

	"docportal/internal/model"
)

// NotificationRepository defines persistence for notifications.
type NotificationRepository interface {
	// Create inserts one notification targeted at n.CompanyID.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// CreateForAll inserts one notification per existing company in a single statement.
	CreateForAll(ctx context.Context, subject, message string, sentAt time.Time) ([]model.Notification, error)

	// List returns notifications, newest first. An empty companyID lists all.
	List(ctx context.Context, companyID string) ([]model.Notification, error)

	// MarkRead flags one notification owned by companyID as read. ErrNotFound if it is not theirs.
	MarkRead(ctx context.Context, id, companyID string, at time.Time) (*model.Notification, error)

	// MarkAllRead flags every unread notification of companyID and returns how many changed.
	MarkAllRead(ctx context.Context, companyID string, at time.Time) (int64, error)
}
