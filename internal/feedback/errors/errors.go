// Package errors defines the sentinel error conditions shared between the
// service layer and the HTTP handlers.
package errors

import (
	"fmt"
)

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrDuplicateName  = fmt.Errorf("duplicate name")
	ErrDuplicateEmail = fmt.Errorf("duplicate email")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrForbidden      = fmt.Errorf("forbidden")
	// ErrNoTenant means no company context could be resolved for the caller.
	ErrNoTenant = fmt.Errorf("no tenant context")
	// ErrQuotaExceeded means the company's plan ceiling blocks the operation.
	ErrQuotaExceeded = fmt.Errorf("plan quota exceeded")
)
