package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/storage"
)

// CompanyInput is the payload for creating a company.
type CompanyInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// CompanyUpdate overwrites a company's profile. A non-empty Password resets the login.
type CompanyUpdate struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// CompanySummary is a company together with its file count.
type CompanySummary struct {
	model.Company
	FileCount int `json:"file_count"`
}

// CompanyService manages tenant accounts. Every mutation is admin only.
type CompanyService interface {
	Create(ctx context.Context, p *model.Principal, in CompanyInput) (*model.Company, error)
	Get(ctx context.Context, p *model.Principal, id string) (*model.Company, error)
	List(ctx context.Context, p *model.Principal) ([]CompanySummary, error)
	Update(ctx context.Context, p *model.Principal, id string, in CompanyUpdate) (*model.Company, error)

	// Delete removes the company row, letting files, notifications and requests cascade,
	// then removes its stored objects. Object cleanup failures are logged only.
	Delete(ctx context.Context, p *model.Principal, id string) error

	// Export writes every company as CSV: Name,Email,Phone,Files,Created.
	Export(ctx context.Context, p *model.Principal, w io.Writer) error
}

type companyService struct {
	repo     repository.CompanyRepository
	files    repository.FileRepository
	store    storage.Storage
	hasher   *auth.Hasher
	activity Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(
	repo repository.CompanyRepository,
	files repository.FileRepository,
	store storage.Storage,
	hasher *auth.Hasher,
	activity Recorder,
	logger zerolog.Logger,
) CompanyService {
	return &companyService{
		repo:     repo,
		files:    files,
		store:    store,
		hasher:   hasher,
		activity: activity,
		logger:   logger.With().Str("component", "company").Logger(),
		now:      time.Now,
	}
}

func validateProfile(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "must be a valid email address")
	}
	return nil
}

func (s *companyService) Create(ctx context.Context, p *model.Principal, in CompanyInput) (*model.Company, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	if err := validateProfile(in.Name, in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &model.Company{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	s.activity.Record(ctx, model.ActionCompany, "Created company "+created.Name, p.Email)
	return created, nil
}

func (s *companyService) Get(ctx context.Context, p *model.Principal, id string) (*model.Company, error) {
	if !visibleTo(p, id) {
		return nil, ErrNotFound
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *companyService) List(ctx context.Context, p *model.Principal) ([]CompanySummary, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.files.CountByCompany(ctx)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	out := make([]CompanySummary, 0, len(companies))
	for _, c := range companies {
		out = append(out, CompanySummary{Company: c, FileCount: counts[c.ID]})
	}
	return out, nil
}

func (s *companyService) Update(ctx context.Context, p *model.Principal, id string, in CompanyUpdate) (*model.Company, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	if err := validateProfile(in.Name, in.Email); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := validatePassword("password", in.Password); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, &model.Company{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Email: in.Email,
		Phone: strings.TrimSpace(in.Phone),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, translate(err)
	}

	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, translate(err)
		}
	}

	s.activity.Record(ctx, model.ActionCompany, "Updated company "+updated.Name, p.Email)
	return updated, nil
}

func (s *companyService) Delete(ctx context.Context, p *model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}

	removed, err := s.store.DeletePrefix(ctx, storage.CompanyPrefix(id))
	if err != nil {
		s.logger.Error().Err(err).Str("company_id", id).Int("removed", removed).Msg("object cleanup failed after company delete")
	}

	s.activity.Record(ctx, model.ActionCompany, "Deleted company "+c.Name, p.Email)
	return nil
}

func (s *companyService) Export(ctx context.Context, p *model.Principal, w io.Writer) error {
	items, err := s.List(ctx, p)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Phone", "Files", "Created"}); err != nil {
		return err
	}
	for _, c := range items {
		row := []string{c.Name, c.Email, c.Phone, strconv.Itoa(c.FileCount), c.CreatedAt.Format("2006-01-02")}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionExport, fmt.Sprintf("Exported %d companies", len(items)), p.Email)
	return nil
}
