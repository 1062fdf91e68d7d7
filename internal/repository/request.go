package repository

import (
	"context"
	"time"

	"docportal/internal/model"
)

// RequestRepository defines persistence for document requests.
type RequestRepository interface {
	Create(ctx context.Context, r *model.DocumentRequest) (*model.DocumentRequest, error)

	FindByID(ctx context.Context, id string) (*model.DocumentRequest, error)

	// List returns requests, newest first. An empty companyID lists all.
	List(ctx context.Context, companyID string) ([]model.DocumentRequest, error)

	// Complete moves a pending request to completed. ErrNotFound if no pending row matched.
	Complete(ctx context.Context, id string, at time.Time) (*model.DocumentRequest, error)
}
