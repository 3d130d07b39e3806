package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNoCompany          = errors.New("no company associated with identity")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrConversationCreate = errors.New("failed to create conversation")
	ErrInvalidRole        = errors.New("invalid role")
)
