package postgres

import (
	"context"
	"database/sql"
	"time"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// RequestPostgres is a PostgreSQL implementation of repository.RequestRepository.
type RequestPostgres struct {
	db *sql.DB
}

// NewRequestPostgres creates a new RequestPostgres repository.
func NewRequestPostgres(db *sql.DB) *RequestPostgres {
	return &RequestPostgres{db: db}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

const requestColumns = `id, company_id, doc_type, description, status, requested_at, completed_at`

func scanRequest(s rowScanner) (*model.DocumentRequest, error) {
	var (
		d         model.DocumentRequest
		status    string
		completed sql.NullTime
	)
	if err := s.Scan(&d.ID, &d.CompanyID, &d.DocType, &d.Description, &status, &d.RequestedAt, &completed); err != nil {
		return nil, translate(err)
	}
	d.Status = model.RequestStatus(status)
	d.CompletedAt = timePtr(completed)
	return &d, nil
}

// Create inserts a pending request.
func (r *RequestPostgres) Create(ctx context.Context, d *model.DocumentRequest) (*model.DocumentRequest, error) {
	const q = `
		INSERT INTO document_requests (id, company_id, doc_type, description, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + requestColumns
	row := r.db.QueryRowContext(ctx, q, d.ID, d.CompanyID, d.DocType, d.Description, string(d.Status), d.RequestedAt)
	return scanRequest(row)
}

// FindByID fetches a single request.
func (r *RequestPostgres) FindByID(ctx context.Context, id string) (*model.DocumentRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM document_requests WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

// List returns requests newest first, optionally for one company.
func (r *RequestPostgres) List(ctx context.Context, companyID string) ([]model.DocumentRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM document_requests`
	var args []any
	if companyID != "" {
		q += ` WHERE company_id = $1`
		args = append(args, companyID)
	}
	q += ` ORDER BY requested_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRequest, 0)
	for rows.Next() {
		d, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Complete transitions a pending request; completed rows are left untouched.
func (r *RequestPostgres) Complete(ctx context.Context, id string, at time.Time) (*model.DocumentRequest, error) {
	const q = `
		UPDATE document_requests SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns
	return scanRequest(r.db.QueryRowContext(ctx, q, id, at))
}
