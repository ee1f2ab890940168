package service

import "errors"

var (
	ErrIDRequired     = errors.New("id is required")
	ErrUserRequired   = errors.New("user id is required")
	ErrNotFound       = errors.New("document not found")
	ErrNameRequired   = errors.New("document name is required")
	ErrTypeRequired   = errors.New("document type is required")
	ErrInvalidExpiry  = errors.New("invalid expiry date")
	ErrInvalidIssue   = errors.New("invalid issue date")
	ErrSearchDisabled = errors.New("document search is not configured")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidFilter        = errors.New("invalid notification filter")

	ErrInvalidDay      = errors.New("invalid day, expected YYYY-MM-DD")
	ErrExportNotFound  = errors.New("ledger export not found")
	ErrStorageDisabled = errors.New("object storage is not configured")
)
