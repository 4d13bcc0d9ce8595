package models

import "errors"

// Sentinel errors for restore inputs.
var (
	ErrMissingTargets   = errors.New("at least one target identity is required")
	ErrMissingCompanyID = errors.New("company id is required")
	ErrMissingUserID    = errors.New("user id is required")
	ErrMissingFile      = errors.New("input file is missing")
	ErrMissingTargetID  = errors.New("target id is required")
	ErrDuplicateTarget  = errors.New("duplicate target id")
)

// Sentinel errors for entity lookups.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrAddressNotFound = errors.New("address not found")
)

// ErrClientInOtherCompany is returned when a target id is already used by a
// client of a different company.
var ErrClientInOtherCompany = errors.New("client id belongs to another company")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrRestoreInProgress is returned when a restore is requested while another one runs.
var ErrRestoreInProgress = errors.New("restore already in progress")

// ErrPrincipalNotFound is returned when an API key does not resolve to a user.
var ErrPrincipalNotFound = errors.New("principal not found")
