package session

// SessionError is a custom error type for session-related errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound   SessionError = "session not found"
	ErrSessionExists     SessionError = "session already exists"
	ErrSessionFull       SessionError = "session is at maximum capacity"
	ErrSessionPrivate    SessionError = "session is private"
	ErrAlreadyMember     SessionError = "user is already in the session"
	ErrNotMember         SessionError = "user is not in the session"
	ErrWrongGuild        SessionError = "session belongs to another guild"
	ErrNotSessionChannel SessionError = "channel is not bound to a session"
	ErrChannelGone       SessionError = "session channel no longer exists"
	ErrCategoryNotFound  SessionError = "nightreign category not found"
	ErrMemberNotFound    SessionError = "guild member not found"
	ErrInvalidDay        SessionError = "day must be 1 or 2"
	ErrNilConfig         SessionError = "config cannot be nil"
	ErrNilRepo           SessionError = "session repository cannot be nil"
	ErrNilGuildConfigs   SessionError = "guild config service cannot be nil"
	ErrNilChat           SessionError = "chat client cannot be nil"
	ErrNilClock          SessionError = "clock cannot be nil"
	ErrNilUUIDGenerator  SessionError = "UUID generator cannot be nil"
)
