// Package chat is the boundary to the chat platform. The session service
// only ever talks to the Client interface; every method is fallible I/O and
// a "resource no longer exists" error is a normal condition for callers.
package chat

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/fromcord/fromcord/internal/chat Client

// Guild is the slice of a chat guild the core needs.
type Guild struct {
	ID   string
	Name string
}

// Channel is the slice of a chat channel the core needs.
type Channel struct {
	ID      string
	Name    string
	GuildID string

	// ParentID is the channel category, empty for top-level channels
	ParentID string

	// IsCategory is true when the channel is itself a category
	IsCategory bool
}

// Client defines the chat-platform operations consumed by the core.
type Client interface {
	// Guild looks up a guild by ID
	Guild(guildID string) (*Guild, error)

	// Channel looks up a channel by ID
	Channel(channelID string) (*Channel, error)

	// MemberName resolves a guild member's display name
	MemberName(guildID, userID string) (string, error)

	// CreateSessionChannel creates a restricted text channel under the
	// category: the default role is denied, the bot and the creator granted
	CreateSessionChannel(guildID, name, categoryID, creatorID string) (*Channel, error)

	// SendMessage posts content and returns the new message's ID
	SendMessage(channelID, content string) (string, error)

	// MessageContent fetches the current content of a message
	MessageContent(channelID, messageID string) (string, error)

	// EditMessage replaces a message's content in place
	EditMessage(channelID, messageID, content string) error

	// GrantAccess lets the user read and write the channel
	GrantAccess(channelID, userID string) error

	// RevokeAccess removes the user's read and write access
	RevokeAccess(channelID, userID string) error

	// DeleteChannel deletes the channel outright
	DeleteChannel(channelID string) error
}
