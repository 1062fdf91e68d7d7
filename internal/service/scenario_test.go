package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/storage"
)

// memCompanies and memFiles are in-memory repositories honoring the cascade.
type memCompanies struct {
	mu    sync.Mutex
	rows  map[string]model.Company
	files *memFiles
}

func (m *memCompanies) Create(_ context.Context, c *model.Company) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if strings.EqualFold(row.Email, c.Email) {
			return nil, repository.ErrDuplicate
		}
	}
	m.rows[c.ID] = *c
	cp := *c
	return &cp, nil
}

func (m *memCompanies) FindByID(_ context.Context, id string) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memCompanies) FindByEmail(_ context.Context, email string) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCompanies) List(context.Context) ([]model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Company, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCompanies) Update(_ context.Context, c *model.Company) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[c.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row.Name, row.Email, row.Phone = c.Name, c.Email, c.Phone
	m.rows[c.ID] = row
	return &row, nil
}

func (m *memCompanies) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.PasswordHash = hash
	m.rows[id] = row
	return nil
}

func (m *memCompanies) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	m.files.deleteCompany(id)
	return nil
}

type memFiles struct {
	mu   sync.Mutex
	rows map[string]model.File
}

func (m *memFiles) deleteCompany(companyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.rows {
		if f.CompanyID == companyID {
			delete(m.rows, id)
		}
	}
}

func (m *memFiles) Create(_ context.Context, f *model.File) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	cp.ReadBy = []string{}
	m.rows[f.ID] = cp
	return &cp, nil
}

func (m *memFiles) FindByID(_ context.Context, id string) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.ReadBy = append([]string{}, f.ReadBy...)
	return &f, nil
}

func (m *memFiles) List(_ context.Context, filter repository.FileFilter) ([]model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.File{}
	for _, f := range m.rows {
		if filter.CompanyID != "" && f.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFiles) CountByCompany(context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, f := range m.rows {
		counts[f.CompanyID]++
	}
	return counts, nil
}

func (m *memFiles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memFiles) MarkRead(_ context.Context, fileID, companyID string, _ time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.rows[fileID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if f.ReadByCompany(companyID) {
		return false, nil
	}
	f.ReadBy = append(f.ReadBy, companyID)
	m.rows[fileID] = f
	return true, nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opt.ContentType}, nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), storage.ObjectInfo{Key: key, Size: int64(len(b))}, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
			n++
		}
	}
	return n, nil
}

func (m *memStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.test/" + key + "?sig=x", nil
}

type portalServices struct {
	auth      AuthService
	companies CompanyService
	files     FileService
	store     *memStore
}

func newPortalServices(t *testing.T) *portalServices {
	t.Helper()
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokens("scenario-secret", "docportal", time.Hour)
	require.NoError(t, err)
	adminHash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	files := &memFiles{rows: map[string]model.File{}}
	companies := &memCompanies{rows: map[string]model.Company{}, files: files}
	store := &memStore{objects: map[string][]byte{}}
	rec := &recorderSpy{}
	log := zerolog.Nop()

	return &portalServices{
		auth:      NewAuthService(companies, tokens, hasher, AdminAccount{Email: "a@x.com", PasswordHash: adminHash}, rec, log),
		companies: NewCompanyService(companies, files, store, hasher, rec, log),
		files:     NewFileService(files, companies, store, rec, FileOptions{MaxFiles: 20}, log),
		store:     store,
	}
}

func (s *portalServices) login(t *testing.T, email, password string) *model.Principal {
	t.Helper()
	res, err := s.auth.Login(context.Background(), email, password)
	require.NoError(t, err)
	p, err := s.auth.Authenticate(res.Session.AccessToken)
	require.NoError(t, err)
	return p
}

func TestScenario_AdminUploadsCompanySees(t *testing.T) {
	ctx := context.Background()
	s := newPortalServices(t)

	admin := s.login(t, "a@x.com", "secret1")
	acme, err := s.companies.Create(ctx, admin, CompanyInput{Name: "Acme", Email: "c@acme.com", Password: "pass123"})
	require.NoError(t, err)
	beta, err := s.companies.Create(ctx, admin, CompanyInput{Name: "Beta", Email: "b@beta.com", Password: "pass456"})
	require.NoError(t, err)

	res, err := s.files.Upload(ctx, admin, UploadRequest{
		CompanyID: acme.ID,
		Category:  model.CategoryTax,
		Files:     []UploadPart{part("return.pdf", "%PDF-1.7")},
	})
	require.NoError(t, err)
	require.Len(t, res.Uploaded, 1)
	_, err = s.files.Upload(ctx, admin, UploadRequest{
		CompanyID: beta.ID,
		Category:  model.CategoryAudit,
		Files:     []UploadPart{part("audit.pdf", "%PDF-1.4")},
	})
	require.NoError(t, err)

	company := s.login(t, "c@acme.com", "pass123")
	files, err := s.files.List(ctx, company, FileQuery{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, model.CategoryTax, files[0].Category)
	assert.Equal(t, acme.ID, files[0].CompanyID)

	// Marking twice leaves the read-set at one entry.
	_, err = s.files.MarkRead(ctx, company, files[0].ID)
	require.NoError(t, err)
	again, err := s.files.MarkRead(ctx, company, files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{acme.ID}, again.ReadBy)

	// Deleting the company takes its files and objects with it.
	require.NoError(t, s.companies.Delete(ctx, admin, acme.ID))
	left, err := s.files.List(ctx, admin, FileQuery{CompanyID: acme.ID})
	require.NoError(t, err)
	assert.Empty(t, left)
	for key := range s.store.objects {
		assert.False(t, strings.HasPrefix(key, acme.ID+"/"), key)
	}
	_, err = s.auth.Login(ctx, "c@acme.com", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
