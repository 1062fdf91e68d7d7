package repository

import (
	"context"
	"time"

	"docportal/internal/model"
)

// FileFilter narrows file listings. Empty fields match everything.
type FileFilter struct {
	CompanyID string
	Category  model.Category
	Search    string
}

// FileRepository defines persistence for file metadata and the read-set.
type FileRepository interface {
	// Create inserts file metadata referencing an already stored object.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns file metadata with its read-set, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// List returns files matching the filter, newest first.
	List(ctx context.Context, filter FileFilter) ([]model.File, error)

	// CountByCompany returns the number of files per company id.
	CountByCompany(ctx context.Context) (map[string]int, error)

	// Delete removes a file row. Missing rows return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// MarkRead adds companyID to the file's read-set. It reports whether the set grew.
	MarkRead(ctx context.Context, fileID, companyID string, at time.Time) (bool, error)
}
