package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
)

// Authentication
const (
	MinPasswordLength = 8
	BearerScheme      = "Bearer"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Story identifiers
const (
	DefaultStoryPrefix = "US"
	DefaultStoryBase   = 234567
)

// Uploads
const DefaultMaxUploadBytes = 20 << 20

// AI suggestions
const MaxAIGeneratedTasks = 20

// Password reset
const ResetTokenBytes = 32
