package portal

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Session.AccessToken)
	return &res, nil
}

// Logout records the logout server-side and always forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetToken("")
	return c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	in := map[string]string{"current_password": current, "new_password": next}
	return c.call(ctx, http.MethodPost, "/api/auth/change-password", in, nil)
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := c.call(ctx, http.MethodGet, "/api/companies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	var out Company
	if err := c.call(ctx, http.MethodGet, "/api/companies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (*Company, error) {
	var out Company
	if err := c.call(ctx, http.MethodPost, "/api/companies", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, in CompanyInput) (*Company, error) {
	var out Company
	if err := c.call(ctx, http.MethodPut, "/api/companies/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/companies/"+url.PathEscape(id), nil, nil)
}

// ExportCompanies returns the CSV export.
func (c *Client) ExportCompanies(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/companies/export", nil, "")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.raw(req, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileQuery filters ListFiles. CompanyID is ignored by the server for company callers.
type FileQuery struct {
	CompanyID string
	Category  string
	Search    string
}

func (c *Client) ListFiles(ctx context.Context, q FileQuery) ([]File, error) {
	path := withQuery("/api/files", url.Values{
		"company_id": {q.CompanyID},
		"category":   {q.Category},
		"q":          {q.Search},
	})
	var out []File
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// UploadInput is a batch for one company. ExpiryDate is YYYY-MM-DD or RFC 3339.
type UploadInput struct {
	CompanyID  string
	Category   string
	ExpiryDate string
	Files      []UploadFile
}

// UploadFiles sends the batch as multipart form data. A partial failure (207)
// returns the result without error; when every file failed the result is
// returned together with the *APIError.
func (c *Client) UploadFiles(ctx context.Context, in UploadInput) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{{"company_id", in.CompanyID}, {"category", in.Category}, {"expiry_date", in.ExpiryDate}}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	for _, f := range in.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+escapeQuotes(f.Name)+`"`)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/files/upload", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out UploadResult
	if err := c.send(req, &out); err != nil {
		if len(out.Failed) > 0 {
			return &out, err
		}
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	var out File
	if err := c.call(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, nil)
}

// MarkFileRead adds the caller to the read-set and returns the updated file.
func (c *Client) MarkFileRead(ctx context.Context, id string) (*File, error) {
	var out File
	if err := c.call(ctx, http.MethodPost, "/api/files/"+url.PathEscape(id)+"/mark-read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DownloadURL(ctx context.Context, id string) (*DownloadLink, error) {
	var out DownloadLink
	if err := c.call(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id)+"/download-url", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download copies the file's bytes to w.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id)+"/content", nil, "")
	if err != nil {
		return 0, err
	}
	return c.raw(req, w)
}

func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.call(ctx, http.MethodGet, "/api/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendNotification returns one stored row per recipient.
func (c *Client) SendNotification(ctx context.Context, in NotificationInput) ([]Notification, error) {
	var out []Notification
	if err := c.call(ctx, http.MethodPost, "/api/notifications", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*Notification, error) {
	var out Notification
	if err := c.call(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllNotificationsRead returns how many notifications changed.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	err := c.call(ctx, http.MethodPost, "/api/notifications/read-all", nil, &out)
	return out.Updated, err
}

func (c *Client) ListRequests(ctx context.Context) ([]DocumentRequest, error) {
	var out []DocumentRequest
	if err := c.call(ctx, http.MethodGet, "/api/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRequest(ctx context.Context, docType, description string) (*DocumentRequest, error) {
	var out DocumentRequest
	in := map[string]string{"doc_type": docType, "description": description}
	if err := c.call(ctx, http.MethodPost, "/api/requests", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteRequest marks a pending request completed. Completing twice is a 409.
func (c *Client) CompleteRequest(ctx context.Context, id string) (*DocumentRequest, error) {
	var out DocumentRequest
	in := map[string]string{"status": StatusCompleted}
	if err := c.call(ctx, http.MethodPut, "/api/requests/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActivity returns the newest entries. limit <= 0 uses the server default.
func (c *Client) ListActivity(ctx context.Context, limit int, action string) ([]ActivityEntry, error) {
	q := url.Values{"action": {action}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []ActivityEntry
	if err := c.call(ctx, http.MethodGet, withQuery("/api/activity", q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ClearActivity(ctx context.Context) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	err := c.call(ctx, http.MethodDelete, "/api/activity", nil, &out)
	return out.Deleted, err
}
