package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/storage"
)

// UploadPart is one file of a multipart upload. Open is called once.
type UploadPart struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadRequest is a batch of files for one company and category.
type UploadRequest struct {
	CompanyID  string
	Category   model.Category
	ExpiryDate *time.Time
	Files      []UploadPart
}

// UploadFailure names a file that could not be stored.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// UploadResult reports each file of a batch as uploaded or failed.
type UploadResult struct {
	Uploaded []model.File    `json:"uploaded"`
	Failed   []UploadFailure `json:"failed"`
}

// FileQuery filters file listings. CompanyID is ignored for company callers.
type FileQuery struct {
	CompanyID string
	Category  model.Category
	Search    string
}

// DownloadLink is a short-lived presigned URL for one file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileService handles uploaded company files.
type FileService interface {
	// Upload validates the whole batch, then stores each file best-effort:
	// a failed store or metadata insert is reported per file and rolled back.
	Upload(ctx context.Context, p *model.Principal, req UploadRequest) (*UploadResult, error)

	// List returns files newest first, scoped to the caller's company for company callers.
	List(ctx context.Context, p *model.Principal, q FileQuery) ([]model.File, error)

	// Get returns one file. Files of other companies are reported as ErrNotFound.
	Get(ctx context.Context, p *model.Principal, id string) (*model.File, error)

	// Delete removes the object from storage, then its metadata. Admin only.
	Delete(ctx context.Context, p *model.Principal, id string) error

	// MarkRead adds the calling company to the file's read-set. Repeating it is a no-op.
	MarkRead(ctx context.Context, p *model.Principal, id string) (*model.File, error)

	// DownloadURL returns a presigned GET valid for the configured TTL.
	DownloadURL(ctx context.Context, p *model.Principal, id string) (*DownloadLink, error)

	// Open streams a file's bytes. The caller closes the reader.
	Open(ctx context.Context, p *model.Principal, id string) (io.ReadCloser, *model.File, error)
}

// FileOptions bounds uploads and presigned links.
type FileOptions struct {
	MaxFiles     int
	SignedURLTTL time.Duration
}

type fileService struct {
	repo      repository.FileRepository
	companies repository.CompanyRepository
	store     storage.Storage
	activity  Recorder
	opts      FileOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFileService constructs a FileService.
func NewFileService(
	repo repository.FileRepository,
	companies repository.CompanyRepository,
	store storage.Storage,
	activity Recorder,
	opts FileOptions,
	logger zerolog.Logger,
) FileService {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 20
	}
	if opts.SignedURLTTL <= 0 {
		opts.SignedURLTTL = 15 * time.Minute
	}
	return &fileService{
		repo:      repo,
		companies: companies,
		store:     store,
		activity:  activity,
		opts:      opts,
		logger:    logger.With().Str("component", "file").Logger(),
		now:       time.Now,
	}
}

func (s *fileService) validateUpload(ctx context.Context, req UploadRequest) (*model.Company, error) {
	if req.CompanyID == "" {
		return nil, invalid("company_id", "is required")
	}
	if !req.Category.Valid() {
		return nil, invalid("category", "must be one of Tax, GST, Financial, Legal, Audit, Other")
	}
	if len(req.Files) == 0 {
		return nil, invalid("files", "at least one file is required")
	}
	if len(req.Files) > s.opts.MaxFiles {
		return nil, invalid("files", fmt.Sprintf("at most %d files per upload", s.opts.MaxFiles))
	}
	for _, f := range req.Files {
		if f.Size <= 0 {
			return nil, invalid("files", fmt.Sprintf("%s is empty", f.Name))
		}
		if f.Open == nil {
			return nil, invalid("files", fmt.Sprintf("%s has no content", f.Name))
		}
	}

	c, err := s.companies.FindByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("company_id", "company not found")
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

func (s *fileService) Upload(ctx context.Context, p *model.Principal, req UploadRequest) (*UploadResult, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	company, err := s.validateUpload(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &UploadResult{Uploaded: []model.File{}, Failed: []UploadFailure{}}
	for _, part := range req.Files {
		f, err := s.storeOne(ctx, req, part)
		if err != nil {
			s.logger.Error().Err(err).Str("company_id", req.CompanyID).Str("file", part.Name).Msg("upload failed")
			res.Failed = append(res.Failed, UploadFailure{Name: part.Name, Error: uploadErrorMessage(err)})
			continue
		}
		res.Uploaded = append(res.Uploaded, *f)
	}

	details := fmt.Sprintf("Uploaded %d file(s) to %s (%s)", len(res.Uploaded), company.Name, req.Category)
	if len(res.Failed) > 0 {
		details += fmt.Sprintf(", %d failed", len(res.Failed))
	}
	s.activity.Record(ctx, model.ActionUpload, details, p.Email)
	return res, nil
}

var (
	errStore    = errors.New("storage upload failed")
	errMetadata = errors.New("metadata save failed")
)

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, errStore):
		return errStore.Error()
	case errors.Is(err, errMetadata):
		return errMetadata.Error()
	}
	return "upload failed"
}

func (s *fileService) storeOne(ctx context.Context, req UploadRequest, part UploadPart) (*model.File, error) {
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", errStore, err)
	}
	defer rc.Close()

	id := uuid.NewString()
	key := storage.ObjectKey(req.CompanyID, string(req.Category), id, part.Name)
	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.store.Put(ctx, key, rc, storage.PutObjectOptions{
		Size:        part.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": part.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errStore, err)
	}

	size := info.Size
	if size <= 0 {
		size = part.Size
	}
	stored, err := s.repo.Create(ctx, &model.File{
		ID:          id,
		Name:        part.Name,
		ContentType: contentType,
		Size:        size,
		Category:    req.Category,
		CompanyID:   req.CompanyID,
		StoragePath: key,
		UploadedAt:  s.now().UTC(),
		ExpiryDate:  req.ExpiryDate,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w: %v; rollback delete failed: %v", errMetadata, err, delErr)
		}
		return nil, fmt.Errorf("%w: %v", errMetadata, err)
	}
	return stored, nil
}

func (s *fileService) List(ctx context.Context, p *model.Principal, q FileQuery) ([]model.File, error) {
	if p == nil {
		return nil, ErrForbidden
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, invalid("category", "unknown category")
	}
	filter := repository.FileFilter{
		CompanyID: q.CompanyID,
		Category:  q.Category,
		Search:    strings.TrimSpace(q.Search),
	}
	if !p.IsAdmin() {
		if err := requireCompany(p); err != nil {
			return nil, err
		}
		filter.CompanyID = p.CompanyID
	}
	return s.repo.List(ctx, filter)
}

func (s *fileService) Get(ctx context.Context, p *model.Principal, id string) (*model.File, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !visibleTo(p, f.CompanyID) {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *fileService) Delete(ctx context.Context, p *model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	// Storage first; on failure the row stays so the object is not orphaned.
	if err := s.store.Delete(ctx, f.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.activity.Record(ctx, model.ActionDelete, "Deleted file "+f.Name, p.Email)
	return nil
}

func (s *fileService) MarkRead(ctx context.Context, p *model.Principal, id string) (*model.File, error) {
	if err := requireCompany(p); err != nil {
		return nil, err
	}
	f, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	added, err := s.repo.MarkRead(ctx, f.ID, p.CompanyID, s.now().UTC())
	if err != nil {
		return nil, translate(err)
	}
	if !added {
		return f, nil
	}

	s.activity.Record(ctx, model.ActionView, "Viewed file "+f.Name, p.Email)
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

func (s *fileService) DownloadURL(ctx context.Context, p *model.Principal, id string) (*DownloadLink, error) {
	f, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.opts.SignedURLTTL).UTC()
	u, err := s.store.PresignGet(ctx, f.StoragePath, s.opts.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &DownloadLink{URL: u, ExpiresAt: expires}, nil
}

func (s *fileService) Open(ctx context.Context, p *model.Principal, id string) (io.ReadCloser, *model.File, error) {
	f, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return rc, f, nil
}
