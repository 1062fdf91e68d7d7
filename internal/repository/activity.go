package repository

import (
	"context"

	"docportal/internal/model"
)

// ActivityFilter narrows activity listings. Empty fields match everything.
type ActivityFilter struct {
	Limit  int
	Action string
	User   string
}

// ActivityRepository defines persistence for the capped activity log.
type ActivityRepository interface {
	// Append inserts an entry and trims the log to the newest keep rows.
	Append(ctx context.Context, e *model.ActivityEntry, keep int) error

	// List returns entries newest first.
	List(ctx context.Context, filter ActivityFilter) ([]model.ActivityEntry, error)

	// Clear removes every entry and returns how many were deleted.
	Clear(ctx context.Context) (int64, error)
}
