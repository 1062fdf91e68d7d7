package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// The read-set lives in file_reads and is aggregated into a comma separated list on read.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileSelect = `
		SELECT f.id, f.name, f.content_type, f.size, f.category, f.company_id, f.storage_path,
		       f.uploaded_at, f.expiry_date,
		       COALESCE(string_agg(r.company_id::text, ',' ORDER BY r.read_at), '') AS read_by
		FROM files f
		LEFT JOIN file_reads r ON r.file_id = f.id`

func scanFile(s rowScanner) (*model.File, error) {
	var (
		f      model.File
		cat    string
		expiry sql.NullTime
		readBy string
	)
	if err := s.Scan(&f.ID, &f.Name, &f.ContentType, &f.Size, &cat, &f.CompanyID, &f.StoragePath,
		&f.UploadedAt, &expiry, &readBy); err != nil {
		return nil, translate(err)
	}
	f.Category = model.Category(cat)
	f.ExpiryDate = timePtr(expiry)
	f.ReadBy = splitReadBy(readBy)
	return &f, nil
}

func splitReadBy(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Create inserts file metadata. A fresh file has an empty read-set.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, name, content_type, size, category, company_id, storage_path, uploaded_at, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, name, content_type, size, category, company_id, storage_path, uploaded_at, expiry_date, ''`
	var expiry any
	if f.ExpiryDate != nil {
		expiry = *f.ExpiryDate
	}
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		f.ContentType,
		f.Size,
		string(f.Category),
		f.CompanyID,
		f.StoragePath,
		f.UploadedAt,
		expiry,
	)
	return scanFile(row)
}

// FindByID fetches a single file and its read-set.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	q := fileSelect + `
		WHERE f.id = $1
		GROUP BY f.id`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// List returns files matching the filter, newest first.
func (r *FilePostgres) List(ctx context.Context, filter repository.FileFilter) ([]model.File, error) {
	var (
		where []string
		args  []any
	)
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		where = append(where, fmt.Sprintf("f.company_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where = append(where, fmt.Sprintf("f.category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		where = append(where, fmt.Sprintf("f.name ILIKE $%d", len(args)))
	}

	q := fileSelect
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += `
		GROUP BY f.id
		ORDER BY f.uploaded_at DESC, f.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByCompany returns file counts keyed by company id.
func (r *FilePostgres) CountByCompany(ctx context.Context) (map[string]int, error) {
	const q = `SELECT company_id, COUNT(*) FROM files GROUP BY company_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Delete removes a file row; its read-set rows cascade.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

// MarkRead inserts into the read-set; a repeated insert is a no-op.
func (r *FilePostgres) MarkRead(ctx context.Context, fileID, companyID string, at time.Time) (bool, error) {
	const q = `
		INSERT INTO file_reads (file_id, company_id, read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_id, company_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, fileID, companyID, at)
	if err != nil {
		return false, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
