package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/repository"
)

// AdminAccount is the single admin login, taken from deployment config.
type AdminAccount struct {
	Email        string
	PasswordHash string
}

// Session is the bearer token handed out at login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LoginResult is returned by a successful login. It never carries a password.
type LoginResult struct {
	User    model.Principal `json:"user"`
	Session Session         `json:"session"`
}

// AuthService authenticates the admin and company accounts.
type AuthService interface {
	// Login checks credentials. Unknown email and wrong password both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout records the event. Tokens are not revoked server-side.
	Logout(ctx context.Context, p *model.Principal) error

	// ChangePassword replaces a company password after checking the current one.
	ChangePassword(ctx context.Context, p *model.Principal, current, next string) error

	// Authenticate resolves a bearer token into a principal.
	Authenticate(token string) (*model.Principal, error)
}

type authService struct {
	companies repository.CompanyRepository
	tokens    *auth.Tokens
	hasher    *auth.Hasher
	admin     AdminAccount
	activity  Recorder
	logger    zerolog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	companies repository.CompanyRepository,
	tokens *auth.Tokens,
	hasher *auth.Hasher,
	admin AdminAccount,
	activity Recorder,
	logger zerolog.Logger,
) AuthService {
	admin.Email = normalizeEmail(admin.Email)
	return &authService{
		companies: companies,
		tokens:    tokens,
		hasher:    hasher,
		admin:     admin,
		activity:  activity,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var p model.Principal
	if s.admin.Email != "" && email == s.admin.Email {
		if !s.hasher.Compare(s.admin.PasswordHash, password) {
			s.logger.Info().Str("email", email).Msg("admin login rejected")
			return nil, ErrInvalidCredentials
		}
		p = model.Principal{Subject: "admin", Role: model.RoleAdmin, Email: s.admin.Email}
	} else {
		c, err := s.companies.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("find company: %w", err)
		}
		if !s.hasher.Compare(c.PasswordHash, password) {
			s.logger.Info().Str("email", email).Str("company_id", c.ID).Msg("company login rejected")
			return nil, ErrInvalidCredentials
		}
		p = model.Principal{Subject: c.ID, Role: model.RoleCompany, CompanyID: c.ID, Email: c.Email, Name: c.Name}
	}

	token, exp, err := s.tokens.Issue(p)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.activity.Record(ctx, model.ActionLogin, loginDetails(p), p.Email)
	return &LoginResult{
		User:    p,
		Session: Session{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp},
	}, nil
}

func loginDetails(p model.Principal) string {
	if p.IsAdmin() {
		return "Admin logged in"
	}
	return fmt.Sprintf("Company %s logged in", p.Name)
}

func (s *authService) Logout(ctx context.Context, p *model.Principal) error {
	if p == nil {
		return ErrForbidden
	}
	s.activity.Record(ctx, model.ActionLogout, "Logged out", p.Email)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, p *model.Principal, current, next string) error {
	if err := requireCompany(p); err != nil {
		return err
	}
	if err := validatePassword("new_password", next); err != nil {
		return err
	}

	c, err := s.companies.FindByID(ctx, p.CompanyID)
	if err != nil {
		return translate(err)
	}
	if !s.hasher.Compare(c.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.companies.UpdatePassword(ctx, c.ID, hash); err != nil {
		return translate(err)
	}

	s.activity.Record(ctx, model.ActionSecurity, "Password changed", c.Email)
	return nil
}

func (s *authService) Authenticate(token string) (*model.Principal, error) {
	return s.tokens.Verify(token)
}
