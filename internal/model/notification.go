package model

import "time"

// Notification is a message from the admin to one company.
// A broadcast is stored as one Notification per company.
type Notification struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	SentAt    time.Time  `json:"sent_at"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
