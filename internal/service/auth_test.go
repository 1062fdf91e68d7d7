package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/repository"
	repoMocks "docportal/internal/repository/mocks"
)

type authFixture struct {
	svc       AuthService
	companies *repoMocks.MockCompanyRepository
	hasher    *auth.Hasher
	tokens    *auth.Tokens
	rec       *recorderSpy
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokens("test-secret", "docportal", time.Hour)
	require.NoError(t, err)
	adminHash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	f := &authFixture{
		companies: new(repoMocks.MockCompanyRepository),
		hasher:    hasher,
		tokens:    tokens,
		rec:       &recorderSpy{},
	}
	f.svc = NewAuthService(f.companies, tokens, hasher, AdminAccount{Email: "A@x.com", PasswordHash: adminHash}, f.rec, zerolog.Nop())
	return f
}

func (f *authFixture) company(t *testing.T, password string) *model.Company {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &model.Company{ID: "c1", Name: "Acme", Email: "c@acme.com", PasswordHash: hash}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		f := newAuthFixture(t)

		res, err := f.svc.Login(ctx, " a@X.com ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, res.User.Role)
		assert.Equal(t, "a@x.com", res.User.Email)
		assert.Equal(t, "Bearer", res.Session.TokenType)

		p, err := f.tokens.Verify(res.Session.AccessToken)
		require.NoError(t, err)
		assert.True(t, p.IsAdmin())
		assert.Equal(t, []string{model.ActionLogin}, f.rec.actions())
		f.companies.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("admin wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, "a@x.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, f.rec.actions())
	})

	t.Run("company", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByEmail", ctx, "c@acme.com").Return(f.company(t, "pass123"), nil)

		res, err := f.svc.Login(ctx, "c@acme.com", "pass123")
		require.NoError(t, err)
		assert.Equal(t, model.Principal{Subject: "c1", Role: model.RoleCompany, CompanyID: "c1", Email: "c@acme.com", Name: "Acme"}, res.User)
	})

	t.Run("company wrong password and unknown email look the same", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByEmail", ctx, "c@acme.com").Return(f.company(t, "pass123"), nil)
		f.companies.On("FindByEmail", ctx, "ghost@x.com").Return(nil, repository.ErrNotFound)

		_, errWrong := f.svc.Login(ctx, "c@acme.com", "wrong1")
		_, errUnknown := f.svc.Login(ctx, "ghost@x.com", "pass123")
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errWrong, errUnknown)
	})

	t.Run("empty credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByEmail", ctx, "c@acme.com").Return(nil, errors.New("db down"))

		_, err := f.svc.Login(ctx, "c@acme.com", "pass123")
		assert.EqualError(t, err, "find company: db down")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("admin is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.ChangePassword(ctx, adminPrincipal, "secret1", "secret22")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("short password rejected before lookup", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.ChangePassword(ctx, companyPrincipal, "pass123", "abc")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "new_password", vErr.Field)
		f.companies.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByID", ctx, "c1").Return(f.company(t, "pass123"), nil)

		err := f.svc.ChangePassword(ctx, companyPrincipal, "bad", "newpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		f.companies.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByID", ctx, "c1").Return(f.company(t, "pass123"), nil)
		f.companies.On("UpdatePassword", ctx, "c1", mock.MatchedBy(func(hash string) bool {
			return f.hasher.Compare(hash, "newpass1")
		})).Return(nil)

		require.NoError(t, f.svc.ChangePassword(ctx, companyPrincipal, "pass123", "newpass1"))
		assert.Equal(t, []string{model.ActionSecurity}, f.rec.actions())
		f.companies.AssertExpectations(t)
	})
}

func TestAuthService_LogoutAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	require.NoError(t, f.svc.Logout(ctx, companyPrincipal))
	assert.Equal(t, []string{model.ActionLogout}, f.rec.actions())
	assert.ErrorIs(t, f.svc.Logout(ctx, nil), ErrForbidden)

	tok, _, err := f.tokens.Issue(*companyPrincipal)
	require.NoError(t, err)
	p, err := f.svc.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, "c1", p.CompanyID)

	_, err = f.svc.Authenticate("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
