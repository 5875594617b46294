package session

import (
	"github.com/fromcord/fromcord/internal/chat"
	"github.com/fromcord/fromcord/internal/common/clock"
	"github.com/fromcord/fromcord/internal/common/uuid"
	"github.com/fromcord/fromcord/internal/models"
	sessionRepo "github.com/fromcord/fromcord/internal/repositories/session"
	"github.com/fromcord/fromcord/internal/services/guildconfig"
)

// Config holds the configuration for the session service
type Config struct {
	// Repo persists the session map
	Repo sessionRepo.Repository

	// GuildConfigs resolves per-guild nightreign categories
	GuildConfigs guildconfig.Service

	// Chat is the chat-platform client
	Chat chat.Client

	// Clock tells the time; injected so tests can move it
	Clock clock.Clock

	// UUID generates session passwords and fallback session IDs
	UUID uuid.UUID

	// MaxMembers caps session membership; defaults to 3
	MaxMembers int
}

type CreateInput struct {
	GuildID   string
	UserID    string
	SessionID string
	Privacy   models.Privacy
}

type CreateOutput struct {
	Session *models.Session
}

type JoinInput struct {
	GuildID   string
	UserID    string
	SessionID string
}

type JoinOutput struct {
	Session *models.Session
}

type AddInput struct {
	GuildID string
	// ChannelID is the channel the command was invoked in; it must be the
	// session's bound channel
	ChannelID string
	UserID    string
}

type AddOutput struct {
	Session    *models.Session
	MemberName string
}

type LeaveInput struct {
	GuildID   string
	ChannelID string
	UserID    string
}

type LeaveOutput struct {
	SessionID string
}

type RemoveInput struct {
	GuildID   string
	ChannelID string
	UserID    string
}

type RemoveOutput struct {
	MemberName string
}

type CloseInput struct {
	GuildID   string
	ChannelID string
	UserID    string
}

type CloseOutput struct {
	SessionID string
}

type StartInput struct {
	GuildID   string
	ChannelID string
	UserID    string
	Day       int
}

type StartOutput struct {
	Session *models.Session
}

type SetBossInput struct {
	GuildID   string
	ChannelID string
	UserID    string
	Boss      models.Boss
}

type ListInput struct {
	GuildID string
}

type ListOutput struct {
	// Table is the rendered session listing, or a placeholder when the
	// guild has no public sessions
	Table string
}
