package portal

import (
	"slices"
	"time"
)

// Roles reported in User.Role.
const (
	RoleAdmin   = "admin"
	RoleCompany = "company"
)

// User is the logged-in identity returned by the API. It never carries a password.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Token is the bearer token handed out at login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LoginResult struct {
	User    User  `json:"user"`
	Session Token `json:"session"`
}

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	FileCount int       `json:"file_count"`
}

// CompanyInput creates or updates a company. Password may be empty on update.
type CompanyInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone"`
}

type File struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"type"`
	Size        int64      `json:"size"`
	Category    string     `json:"category"`
	CompanyID   string     `json:"company_id"`
	StoragePath string     `json:"storage_path"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	ReadBy      []string   `json:"read_by"`
}

// ReadByCompany reports whether companyID has viewed the file.
func (f File) ReadByCompany(companyID string) bool {
	return slices.Contains(f.ReadBy, companyID)
}

type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type UploadResult struct {
	Uploaded []File          `json:"uploaded"`
	Failed   []UploadFailure `json:"failed"`
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Notification struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	SentAt    time.Time  `json:"sent_at"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NotificationInput with an empty CompanyID is a broadcast.
type NotificationInput struct {
	CompanyID string `json:"company_id,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Request statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type DocumentRequest struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	DocType     string     `json:"doc_type"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}
