package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)
