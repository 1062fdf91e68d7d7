package portal

import (
	"context"
	"errors"
)

// Portal binds a Client, Store and Session. When the session ends, by logout
// or by idle expiry, the client's bearer token and the store are cleared too.
type Portal struct {
	Client    *Client
	Store     *Store
	Session   *Session
	Dashboard *Dashboard
}

// NewPortal builds a Portal around c. Session options apply to the session;
// an OnExpire callback among them runs after the client and store are cleared.
func NewPortal(c *Client, opts ...SessionOption) *Portal {
	p := &Portal{Client: c, Store: NewStore()}
	p.Dashboard = NewDashboard(c, p.Store)
	p.Session = NewSession(opts...)

	userExpire := p.Session.onExpire
	p.Session.onExpire = func(u User) {
		p.clear()
		if userExpire != nil {
			userExpire(u)
		}
	}
	return p
}

// Login authenticates, starts the session and loads the caller's dashboard.
func (p *Portal) Login(ctx context.Context, email, password string) (*LoginResult, LoadReport, error) {
	res, err := p.Client.Login(ctx, email, password)
	if err != nil {
		return nil, LoadReport{}, err
	}
	p.Session.Start(res)
	return res, p.Load(ctx), nil
}

// Restore resumes a persisted session and reloads its dashboard.
// It reports false when there was nothing to resume.
func (p *Portal) Restore(ctx context.Context) (bool, LoadReport, error) {
	ok, err := p.Session.Restore()
	if err != nil || !ok {
		return false, LoadReport{}, err
	}
	p.Client.SetToken(p.Session.Token())
	return true, p.Load(ctx), nil
}

// Load refreshes the collections visible to the current user.
func (p *Portal) Load(ctx context.Context) LoadReport {
	u, ok := p.Session.User()
	if !ok {
		return LoadReport{}
	}
	if u.IsAdmin() {
		return p.Dashboard.LoadAdmin(ctx)
	}
	return p.Dashboard.LoadCompany(ctx)
}

// Touch records user activity. It returns an error once the session is gone.
func (p *Portal) Touch() error {
	if !p.Session.Touch() {
		return ErrLoggedOut
	}
	return nil
}

// Logout tells the server, then clears local state even if that call failed.
func (p *Portal) Logout(ctx context.Context) error {
	err := p.Client.Logout(ctx)
	p.Session.End()
	p.clear()
	return err
}

// ErrLoggedOut is returned for activity after the session has ended.
var ErrLoggedOut = errors.New("portal: not logged in")

func (p *Portal) clear() {
	p.Client.SetToken("")
	p.Store.Reset()
}
