package repository

import (
	"context"

	"docportal/internal/model"
)

// CompanyRepository defines persistence for companies and their login credential.
type CompanyRepository interface {
	// Create inserts a company. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, c *model.Company) (*model.Company, error)

	// FindByID returns a company or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Company, error)

	// FindByEmail returns a company matched case-insensitively by email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.Company, error)

	// List returns all companies, newest first.
	List(ctx context.Context) ([]model.Company, error)

	// Update overwrites name, email and phone. Last write wins.
	Update(ctx context.Context, c *model.Company) (*model.Company, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Delete removes the company; files, read-set rows, notifications and requests cascade.
	Delete(ctx context.Context, id string) error
}
