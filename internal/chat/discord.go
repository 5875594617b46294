package chat

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Config holds the configuration for the Discord-backed client.
type Config struct {
	// Session is an opened discordgo session
	Session *discordgo.Session
}

// discordClient implements the Client interface on top of discordgo.
type discordClient struct {
	session *discordgo.Session
}

// NewDiscord creates a new Discord-backed chat client.
func NewDiscord(cfg *Config) (*discordClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}
	return &discordClient{session: cfg.Session}, nil
}

// Guild looks the guild up in the state cache first and falls back to the
// REST API.
func (c *discordClient) Guild(guildID string) (*Guild, error) {
	guild, err := c.session.State.Guild(guildID)
	if err != nil {
		guild, err = c.session.Guild(guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild %s: %w", guildID, err)
		}
	}
	return &Guild{ID: guild.ID, Name: guild.Name}, nil
}

// Channel looks the channel up in the state cache first and falls back to
// the REST API.
func (c *discordClient) Channel(channelID string) (*Channel, error) {
	channel, err := c.session.State.Channel(channelID)
	if err != nil {
		channel, err = c.session.Channel(channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
		}
	}
	return &Channel{
		ID:         channel.ID,
		Name:       channel.Name,
		GuildID:    channel.GuildID,
		ParentID:   channel.ParentID,
		IsCategory: channel.Type == discordgo.ChannelTypeGuildCategory,
	}, nil
}

// MemberName resolves a guild member's username.
func (c *discordClient) MemberName(guildID, userID string) (string, error) {
	member, err := c.session.State.Member(guildID, userID)
	if err != nil {
		member, err = c.session.GuildMember(guildID, userID)
		if err != nil {
			return "", fmt.Errorf("failed to get member %s: %w", userID, err)
		}
	}
	if member.Nick != "" {
		return member.Nick, nil
	}
	return member.User.Username, nil
}

// CreateSessionChannel creates the restricted session channel: @everyone is
// denied, the bot and the creator can read and send.
func (c *discordClient) CreateSessionChannel(guildID, name, categoryID, creatorID string) (*Channel, error) {
	allow := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)

	channel, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				// the default role shares its ID with the guild
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: int64(discordgo.PermissionViewChannel),
			},
			{
				ID:    c.session.State.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: allow,
			},
			{
				ID:    creatorID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: allow,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create channel %s: %w", name, err)
	}
	return &Channel{
		ID:       channel.ID,
		Name:     channel.Name,
		GuildID:  channel.GuildID,
		ParentID: channel.ParentID,
	}, nil
}

// SendMessage posts content and returns the new message's ID.
func (c *discordClient) SendMessage(channelID, content string) (string, error) {
	message, err := c.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return message.ID, nil
}

// MessageContent fetches a message's current content.
func (c *discordClient) MessageContent(channelID, messageID string) (string, error) {
	message, err := c.session.ChannelMessage(channelID, messageID)
	if err != nil {
		return "", fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return message.Content, nil
}

// EditMessage replaces a message's content in place.
func (c *discordClient) EditMessage(channelID, messageID, content string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, content); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

// GrantAccess lets the user read and write the channel.
func (c *discordClient) GrantAccess(channelID, userID string) error {
	err := c.session.ChannelPermissionSet(
		channelID, userID, discordgo.PermissionOverwriteTypeMember,
		int64(discordgo.PermissionViewChannel|discordgo.PermissionSendMessages), 0,
	)
	if err != nil {
		return fmt.Errorf("failed to grant access to channel %s: %w", channelID, err)
	}
	return nil
}

// RevokeAccess removes the user's read and write access.
func (c *discordClient) RevokeAccess(channelID, userID string) error {
	err := c.session.ChannelPermissionSet(
		channelID, userID, discordgo.PermissionOverwriteTypeMember,
		0, int64(discordgo.PermissionViewChannel|discordgo.PermissionSendMessages),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke access to channel %s: %w", channelID, err)
	}
	return nil
}

// DeleteChannel deletes the channel outright.
func (c *discordClient) DeleteChannel(channelID string) error {
	if _, err := c.session.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("failed to delete channel %s: %w", channelID, err)
	}
	return nil
}
