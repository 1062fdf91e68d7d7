package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// Recorder appends audit entries. Failures are logged and never surface to the caller.
type Recorder interface {
	Record(ctx context.Context, action, details, user string)
}

// ActivityService exposes the capped activity log.
type ActivityService interface {
	Recorder

	// List returns entries newest first. Company callers only see their own entries.
	// limit <= 0 or above the cap falls back to the cap.
	List(ctx context.Context, p *model.Principal, limit int, action string) ([]model.ActivityEntry, error)

	// Clear removes every entry. Admin only.
	Clear(ctx context.Context, p *model.Principal) (int64, error)
}

type activityService struct {
	repo   repository.ActivityRepository
	keep   int
	logger zerolog.Logger
	now    func() time.Time
}

// NewActivityService constructs an ActivityService that keeps the newest keep entries.
func NewActivityService(repo repository.ActivityRepository, keep int, logger zerolog.Logger) ActivityService {
	if keep <= 0 {
		keep = 100
	}
	return &activityService{
		repo:   repo,
		keep:   keep,
		logger: logger.With().Str("component", "activity").Logger(),
		now:    time.Now,
	}
}

func (s *activityService) Record(ctx context.Context, action, details, user string) {
	e := &model.ActivityEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Details:   details,
		User:      user,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.Append(ctx, e, s.keep); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Str("user", user).Msg("activity append failed")
	}
}

func (s *activityService) List(ctx context.Context, p *model.Principal, limit int, action string) ([]model.ActivityEntry, error) {
	if p == nil {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > s.keep {
		limit = s.keep
	}
	filter := repository.ActivityFilter{Limit: limit, Action: action}
	if !p.IsAdmin() {
		filter.User = p.Email
	}
	return s.repo.List(ctx, filter)
}

func (s *activityService) Clear(ctx context.Context, p *model.Principal) (int64, error) {
	if err := requireAdmin(p); err != nil {
		return 0, err
	}
	n, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("removed", n).Str("user", p.Email).Msg("activity log cleared")
	return n, nil
}
