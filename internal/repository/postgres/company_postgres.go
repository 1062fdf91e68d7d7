package postgres

import (
	"context"
	"database/sql"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// CompanyPostgres is a PostgreSQL implementation of repository.CompanyRepository.
type CompanyPostgres struct {
	db *sql.DB
}

// NewCompanyPostgres creates a new CompanyPostgres repository.
func NewCompanyPostgres(db *sql.DB) *CompanyPostgres {
	return &CompanyPostgres{db: db}
}

var _ repository.CompanyRepository = (*CompanyPostgres)(nil)

const companyColumns = `id, name, email, password_hash, phone, created_at`

func scanCompany(s rowScanner) (*model.Company, error) {
	var c model.Company
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Phone, &c.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Create inserts a new company row and returns the stored record.
func (r *CompanyPostgres) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		INSERT INTO companies (id, name, email, password_hash, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns
	row := r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Email, c.PasswordHash, c.Phone, c.CreatedAt)
	return scanCompany(row)
}

// FindByID fetches a single company by its ID.
func (r *CompanyPostgres) FindByID(ctx context.Context, id string) (*model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a company by login email, ignoring case.
func (r *CompanyPostgres) FindByEmail(ctx context.Context, email string) (*model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies WHERE lower(email) = lower($1)`
	return scanCompany(r.db.QueryRowContext(ctx, q, email))
}

// List returns every company, newest first.
func (r *CompanyPostgres) List(ctx context.Context) ([]model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites the profile fields of a company.
func (r *CompanyPostgres) Update(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		UPDATE companies SET name = $2, email = $3, phone = $4
		WHERE id = $1
		RETURNING ` + companyColumns
	return scanCompany(r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Email, c.Phone))
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *CompanyPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE companies SET password_hash = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, passwordHash)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

// Delete removes a company. Dependent rows are removed by ON DELETE CASCADE.
func (r *CompanyPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM companies WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}
