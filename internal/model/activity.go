package model

import "time"

// Activity actions recorded by the services.
const (
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionCompany  = "company"
	ActionUpload   = "upload"
	ActionDelete   = "delete"
	ActionView     = "view"
	ActionNotify   = "notification"
	ActionRequest  = "request"
	ActionSecurity = "security"
	ActionExport   = "export"
)

// ActivityEntry is one line of the audit trail. User is the actor's email.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}
