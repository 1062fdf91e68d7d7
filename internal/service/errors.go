package service

import (
	"errors"
	"fmt"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// MinPasswordLength is the shortest accepted company password.
const MinPasswordLength = 6

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyCompleted   = fmt.Errorf("%w: request already completed", ErrConflict)
)

// ValidationError reports a rejected input field. It is returned before any persistence call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// translate maps repository sentinels onto service sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	}
	return err
}

func requireAdmin(p *model.Principal) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func requireCompany(p *model.Principal) error {
	if p == nil || p.Role != model.RoleCompany || p.CompanyID == "" {
		return ErrForbidden
	}
	return nil
}

// visibleTo reports whether a row owned by companyID may be shown to p.
func visibleTo(p *model.Principal, companyID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p != nil && p.Role == model.RoleCompany && p.CompanyID == companyID
}

func validatePassword(field, password string) error {
	if len(password) < MinPasswordLength {
		return invalid(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}
