package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// LoadReport lists the collections that could not be fetched.
type LoadReport struct {
	Failed map[Kind]error
}

// OK reports whether every fetch succeeded.
func (r LoadReport) OK() bool { return len(r.Failed) == 0 }

// Err joins the per-resource failures, or returns nil.
func (r LoadReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for k, err := range r.Failed {
		errs = append(errs, fmt.Errorf("load %s: %w", k, err))
	}
	return errors.Join(errs...)
}

// Dashboard refreshes a Store from the API.
type Dashboard struct {
	Client *Client
	Store  *Store
}

func NewDashboard(c *Client, s *Store) *Dashboard {
	return &Dashboard{Client: c, Store: s}
}

type fetch struct {
	kind Kind
	run  func(ctx context.Context) error
}

// LoadAdmin fetches the five admin collections in parallel.
// A failed fetch leaves its collection untouched and does not cancel the others.
func (d *Dashboard) LoadAdmin(ctx context.Context) LoadReport {
	return d.load(ctx,
		d.companies(),
		d.files(),
		d.notifications(),
		d.requests(),
		d.activity(),
	)
}

// LoadCompany fetches the three collections a company sees.
func (d *Dashboard) LoadCompany(ctx context.Context) LoadReport {
	return d.load(ctx,
		d.files(),
		d.notifications(),
		d.requests(),
	)
}

func (d *Dashboard) load(ctx context.Context, fetches ...fetch) LoadReport {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep = LoadReport{Failed: map[Kind]error{}}
	)
	for _, f := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.run(ctx); err != nil {
				mu.Lock()
				rep.Failed[f.kind] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return rep
}

func (d *Dashboard) companies() fetch {
	return fetch{KindCompanies, func(ctx context.Context) error {
		v, err := d.Client.ListCompanies(ctx)
		if err != nil {
			return err
		}
		d.Store.ReplaceCompanies(v)
		return nil
	}}
}

func (d *Dashboard) files() fetch {
	return fetch{KindFiles, func(ctx context.Context) error {
		v, err := d.Client.ListFiles(ctx, FileQuery{})
		if err != nil {
			return err
		}
		d.Store.ReplaceFiles(v)
		return nil
	}}
}

func (d *Dashboard) notifications() fetch {
	return fetch{KindNotifications, func(ctx context.Context) error {
		v, err := d.Client.ListNotifications(ctx)
		if err != nil {
			return err
		}
		d.Store.ReplaceNotifications(v)
		return nil
	}}
}

func (d *Dashboard) requests() fetch {
	return fetch{KindRequests, func(ctx context.Context) error {
		v, err := d.Client.ListRequests(ctx)
		if err != nil {
			return err
		}
		d.Store.ReplaceRequests(v)
		return nil
	}}
}

func (d *Dashboard) activity() fetch {
	return fetch{KindActivity, func(ctx context.Context) error {
		v, err := d.Client.ListActivity(ctx, 0, "")
		if err != nil {
			return err
		}
		d.Store.ReplaceActivity(v)
		return nil
	}}
}
