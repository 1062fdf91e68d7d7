package model

import (
	"slices"
	"time"
)

// Category classifies a file's document type.
type Category string

const (
	CategoryTax       Category = "Tax"
	CategoryGST       Category = "GST"
	CategoryFinancial Category = "Financial"
	CategoryLegal     Category = "Legal"
	CategoryAudit     Category = "Audit"
	CategoryOther     Category = "Other"
)

// Categories lists every accepted category in display order.
func Categories() []Category {
	return []Category{CategoryTax, CategoryGST, CategoryFinancial, CategoryLegal, CategoryAudit, CategoryOther}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// File is the metadata of an object stored for exactly one company.
// ReadBy is the read-set: ids of companies that have viewed the file.
type File struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"type"`
	Size        int64      `json:"size"`
	Category    Category   `json:"category"`
	CompanyID   string     `json:"company_id"`
	StoragePath string     `json:"storage_path"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	ReadBy      []string   `json:"read_by"`
}

// ReadByCompany reports whether companyID is in the read-set.
func (f File) ReadByCompany(companyID string) bool {
	return slices.Contains(f.ReadBy, companyID)
}

// Expired reports whether the expiry date has passed at now.
func (f File) Expired(now time.Time) bool {
	return f.ExpiryDate != nil && f.ExpiryDate.Before(now)
}
