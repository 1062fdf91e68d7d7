package service

import (
	"context"
	"sync"
	"time"

	"docportal/internal/model"
)

var (
	adminPrincipal   = &model.Principal{Subject: "admin", Role: model.RoleAdmin, Email: "a@x.com"}
	companyPrincipal = &model.Principal{Subject: "c1", Role: model.RoleCompany, CompanyID: "c1", Email: "c@acme.com", Name: "Acme"}
	otherPrincipal   = &model.Principal{Subject: "c2", Role: model.RoleCompany, CompanyID: "c2", Email: "b@beta.com", Name: "Beta"}

	fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

// recorderSpy captures activity entries in memory.
type recorderSpy struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
}

func (r *recorderSpy) Record(_ context.Context, action, details, user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, model.ActivityEntry{Action: action, Details: details, User: user})
}

func (r *recorderSpy) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}
