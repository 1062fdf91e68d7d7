package model

import "time"

// RequestStatus is the lifecycle state of a DocumentRequest.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
)

// DocumentRequest is a company-initiated ticket asking the admin for a document type.
type DocumentRequest struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"company_id"`
	DocType     string        `json:"doc_type"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
