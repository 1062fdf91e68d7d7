package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// RequestService manages document requests raised by companies.
type RequestService interface {
	// Create opens a pending request for the calling company.
	Create(ctx context.Context, p *model.Principal, docType, description string) (*model.DocumentRequest, error)

	// List returns all requests for the admin, or the caller's own, newest first.
	List(ctx context.Context, p *model.Principal) ([]model.DocumentRequest, error)

	// UpdateStatus moves a request to status. Only pending → completed is allowed, exactly once.
	UpdateStatus(ctx context.Context, p *model.Principal, id string, status model.RequestStatus) (*model.DocumentRequest, error)
}

type requestService struct {
	repo     repository.RequestRepository
	activity Recorder
	now      func() time.Time
}

// NewRequestService constructs a RequestService.
func NewRequestService(repo repository.RequestRepository, activity Recorder) RequestService {
	return &requestService{repo: repo, activity: activity, now: time.Now}
}

func (s *requestService) Create(ctx context.Context, p *model.Principal, docType, description string) (*model.DocumentRequest, error) {
	if err := requireCompany(p); err != nil {
		return nil, err
	}
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, invalid("doc_type", "is required")
	}

	created, err := s.repo.Create(ctx, &model.DocumentRequest{
		ID:          uuid.NewString(),
		CompanyID:   p.CompanyID,
		DocType:     docType,
		Description: strings.TrimSpace(description),
		Status:      model.RequestPending,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, translate(err)
	}
	s.activity.Record(ctx, model.ActionRequest, "Requested "+docType, p.Email)
	return created, nil
}

func (s *requestService) List(ctx context.Context, p *model.Principal) ([]model.DocumentRequest, error) {
	if p.IsAdmin() {
		return s.repo.List(ctx, "")
	}
	if err := requireCompany(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p.CompanyID)
}

func (s *requestService) UpdateStatus(ctx context.Context, p *model.Principal, id string, status model.RequestStatus) (*model.DocumentRequest, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if status != model.RequestCompleted {
		return nil, invalid("status", `must be "completed"`)
	}

	done, err := s.repo.Complete(ctx, id, s.now().UTC())
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// No pending row matched: either missing or already completed.
		if _, ferr := s.repo.FindByID(ctx, id); ferr != nil {
			return nil, translate(ferr)
		}
		return nil, ErrAlreadyCompleted
	}
	s.activity.Record(ctx, model.ActionRequest, "Completed request for "+done.DocType, p.Email)
	return done, nil
}
