package handler

// Request bodies. Legacy camelCase aliases are accepted on input only and
// folded into the snake_case field by normalize.

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`

	LegacyCurrent string `json:"currentPassword" validate:"-"`
	LegacyNew     string `json:"newPassword" validate:"-"`
}

func (r *changePasswordRequest) normalize() {
	r.CurrentPassword = firstNonEmpty(r.CurrentPassword, r.LegacyCurrent)
	r.NewPassword = firstNonEmpty(r.NewPassword, r.LegacyNew)
}

type companyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"max=50"`
}

type companyUpdateRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Password string `json:"password"`
}

type notificationRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Message   string `json:"message" validate:"required"`

	LegacyCompanyID string `json:"companyId" validate:"-"`
}

func (r *notificationRequest) normalize() {
	r.CompanyID = firstNonEmpty(r.CompanyID, r.LegacyCompanyID)
}

type documentRequestRequest struct {
	DocType     string `json:"doc_type" validate:"required,max=200"`
	Description string `json:"description"`

	LegacyDocType string `json:"docType" validate:"-"`
}

func (r *documentRequestRequest) normalize() {
	r.DocType = firstNonEmpty(r.DocType, r.LegacyDocType)
}

type requestStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
