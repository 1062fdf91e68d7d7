package model

// Role is the caller's privilege level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCompany Role = "company"
)

// Principal is the authenticated caller resolved from a bearer token.
// CompanyID is set only for company callers and equals the company's id.
type Principal struct {
	Subject   string `json:"id"`
	Role      Role   `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"company_name,omitempty"`
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
