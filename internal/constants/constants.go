package constants

import "time"

// Session and context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "goal_session"
	HeaderRequestID     = "X-Request-ID"
)

// Account rules
const (
	MinPasswordLength = 8
	MaxUsernameLength = 150
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Field limits shared by boards, categories, goals and comments
const (
	MaxTitleLength   = 255
	MaxCommentLength = 255
)

// AI suggestions
const (
	MaxAIGeneratedGoals = 10
)

// Telegram bot
const (
	VerificationCodeLength = 6
	DefaultBotPollTimeout  = 60 * time.Second
	DefaultBotStateTTL     = 24 * time.Hour
)
