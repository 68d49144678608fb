package constants

// Context keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyConference = "conference"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8
