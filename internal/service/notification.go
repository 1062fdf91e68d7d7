package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// NotificationInput is an admin message. An empty CompanyID broadcasts to every company.
type NotificationInput struct {
	CompanyID string
	Subject   string
	Message   string
}

// NotificationService sends and acknowledges notifications.
type NotificationService interface {
	// Send stores one row for the target company, or one row per company for a broadcast.
	Send(ctx context.Context, p *model.Principal, in NotificationInput) ([]model.Notification, error)

	// List returns every notification for the admin, or the caller's own. It never mutates.
	List(ctx context.Context, p *model.Principal) ([]model.Notification, error)

	// MarkRead acknowledges one of the caller's notifications.
	MarkRead(ctx context.Context, p *model.Principal, id string) (*model.Notification, error)

	// MarkAllRead acknowledges every unread notification of the caller.
	MarkAllRead(ctx context.Context, p *model.Principal) (int64, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	companies repository.CompanyRepository
	activity  Recorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(
	repo repository.NotificationRepository,
	companies repository.CompanyRepository,
	activity Recorder,
	logger zerolog.Logger,
) NotificationService {
	return &notificationService{
		repo:      repo,
		companies: companies,
		activity:  activity,
		logger:    logger.With().Str("component", "notification").Logger(),
		now:       time.Now,
	}
}

func (s *notificationService) Send(ctx context.Context, p *model.Principal, in NotificationInput) ([]model.Notification, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if in.Subject == "" {
		return nil, invalid("subject", "is required")
	}
	if in.Message == "" {
		return nil, invalid("message", "is required")
	}
	sentAt := s.now().UTC()

	if in.CompanyID == "" {
		items, err := s.repo.CreateForAll(ctx, in.Subject, in.Message, sentAt)
		if err != nil {
			return nil, err
		}
		s.logger.Info().Int("recipients", len(items)).Msg("broadcast sent")
		s.activity.Record(ctx, model.ActionNotify, fmt.Sprintf("Broadcast %q to %d companies", in.Subject, len(items)), p.Email)
		return items, nil
	}

	c, err := s.companies.FindByID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("company_id", "company not found")
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	n, err := s.repo.Create(ctx, &model.Notification{
		ID:        uuid.NewString(),
		CompanyID: c.ID,
		Subject:   in.Subject,
		Message:   in.Message,
		SentAt:    sentAt,
	})
	if err != nil {
		return nil, translate(err)
	}
	s.activity.Record(ctx, model.ActionNotify, fmt.Sprintf("Sent %q to %s", in.Subject, c.Name), p.Email)
	return []model.Notification{*n}, nil
}

func (s *notificationService) List(ctx context.Context, p *model.Principal) ([]model.Notification, error) {
	if p.IsAdmin() {
		return s.repo.List(ctx, "")
	}
	if err := requireCompany(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p.CompanyID)
}

func (s *notificationService) MarkRead(ctx context.Context, p *model.Principal, id string) (*model.Notification, error) {
	if err := requireCompany(p); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkRead(ctx, id, p.CompanyID, s.now().UTC())
	if err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, p *model.Principal) (int64, error) {
	if err := requireCompany(p); err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, p.CompanyID, s.now().UTC())
}
