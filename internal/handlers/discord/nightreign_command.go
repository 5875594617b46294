package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/fromcord/fromcord/internal/models"
	sessionService "github.com/fromcord/fromcord/internal/services/session"
)

const (
	guildFailureMessage     = "FAILURE: Could not determine the guild."
	categoryFailureMessage  = "FAILURE: Could not determine the category."
	notASessionMessage      = "FAILURE: This is not a nightreign session."
	genericFailureMessage   = "FAILURE: Something went wrong."
	sessionNotFoundMessage  = "FAILURE: Could not find the session."
	sessionExistsMessage    = "FAILURE: A session with that ID already exists."
	sessionFullMessage      = "FAILURE: This session is full."
	sessionPrivateMessage   = "FAILURE: This session is private."
	alreadyInSessionMessage = "FAILURE: You are already in this session."
	userInSessionMessage    = "FAILURE: This user is already in the session."
	notInSessionMessage     = "FAILURE: You are not in this session."
	userNotInSessionMessage = "FAILURE: This user is not in the session."
	userFailureMessage      = "FAILURE: Could not determine the user."
)

// NightreignCommandConfig holds the configuration for the nightreign command
type NightreignCommandConfig struct {
	// Sessions is the session service
	Sessions sessionService.Service
}

// NightreignCommand handles the /nightreign command group
type NightreignCommand struct {
	BaseCommand
	sessions sessionService.Service
}

// NewNightreignCommand creates a new nightreign command handler
func NewNightreignCommand(cfg *NightreignCommandConfig) *NightreignCommand {
	bossChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Bosses))
	for _, boss := range models.Bosses {
		bossChoices = append(bossChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(boss),
			Value: string(boss),
		})
	}

	return &NightreignCommand{
		BaseCommand: BaseCommand{
			Name:        "nightreign",
			Description: "Commands for elden ring nightreign.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new session and channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "session_id",
							Description: "ID for the session, generated when omitted",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "privacy",
							Description: "Who may join the session",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "public", Value: string(models.PrivacyPublic)},
								{Name: "private", Value: string(models.PrivacyPrivate)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join a public session by ID",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "session_id",
							Description: "ID of the session to join",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a user to this session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to add",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave this session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a user from this session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the public sessions in this guild",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the run",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "day",
							Description: "Which day of the run you are on",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "1", Value: 1},
								{Name: "2", Value: 2},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close",
					Description: "Close this session and delete its channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "boss",
					Description: "Set the nightlord for the run",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "boss",
							Description: "The nightlord you are fighting",
							Required:    true,
							Choices:     bossChoices,
						},
					},
				},
			},
		},
		sessions: cfg.Sessions,
	}
}

// Handle processes a /nightreign interaction
func (c *NightreignCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" {
		return RespondWithMessage(s, i, guildFailureMessage)
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return RespondWithMessage(s, i, genericFailureMessage)
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)
	ctx := context.Background()

	switch sub.Name {
	case "create":
		return c.handleCreate(ctx, s, i, opts)
	case "join":
		return c.handleJoin(ctx, s, i, opts)
	case "add":
		return c.handleAdd(ctx, s, i, opts)
	case "leave":
		return c.handleLeave(ctx, s, i)
	case "remove":
		return c.handleRemove(ctx, s, i, opts)
	case "list":
		return c.handleList(ctx, s, i)
	case "start":
		return c.handleStart(ctx, s, i, opts)
	case "close":
		return c.handleClose(ctx, s, i)
	case "boss":
		return c.handleBoss(ctx, s, i, opts)
	default:
		return RespondWithMessage(s, i, genericFailureMessage)
	}
}

func (c *NightreignCommand) handleCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	privacy := models.PrivacyPublic
	if value := opts.String("privacy"); value != "" {
		privacy = models.Privacy(value)
	}

	// channel creation is a couple of API round trips, too slow to respond
	// inline
	if err := RespondDeferred(s, i); err != nil {
		return err
	}

	output, err := c.sessions.Create(ctx, &sessionService.CreateInput{
		GuildID:   i.GuildID,
		UserID:    interactionUserID(i),
		SessionID: opts.String("session_id"),
		Privacy:   privacy,
	})
	if err != nil {
		return EditResponse(s, i, createFailureMessage(err))
	}

	return EditResponse(s, i, fmt.Sprintf(
		"Created Nightreign Session %s: <#%s>",
		output.Session.SessionID, output.Session.ChannelID,
	))
}

func (c *NightreignCommand) handleJoin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	_, err := c.sessions.Join(ctx, &sessionService.JoinInput{
		GuildID:   i.GuildID,
		UserID:    interactionUserID(i),
		SessionID: opts.String("session_id"),
	})
	if err != nil {
		return RespondWithMessage(s, i, joinFailureMessage(err))
	}
	return RespondWithMessage(s, i, "You have joined the session.")
}

func (c *NightreignCommand) handleAdd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	output, err := c.sessions.Add(ctx, &sessionService.AddInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    opts.String("user"),
	})
	if err != nil {
		return RespondWithMessage(s, i, addFailureMessage(err))
	}
	return RespondWithMessage(s, i, fmt.Sprintf("%s has been added to the session.", output.MemberName))
}

func (c *NightreignCommand) handleLeave(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.sessions.Leave(ctx, &sessionService.LeaveInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
	})
	if err != nil {
		return RespondWithMessage(s, i, channelFailureMessage(err))
	}
	return RespondWithMessage(s, i, fmt.Sprintf("You have left session %s.", output.SessionID))
}

func (c *NightreignCommand) handleRemove(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	output, err := c.sessions.Remove(ctx, &sessionService.RemoveInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    opts.String("user"),
	})
	if err != nil {
		return RespondWithMessage(s, i, removeFailureMessage(err))
	}
	return RespondWithMessage(s, i, fmt.Sprintf("%s has been removed from the session.", output.MemberName))
}

func (c *NightreignCommand) handleList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.sessions.List(ctx, &sessionService.ListInput{GuildID: i.GuildID})
	if err != nil {
		return RespondWithMessage(s, i, genericFailureMessage)
	}
	if output.Table == "No sessions found." {
		return RespondWithMessage(s, i, output.Table)
	}
	return RespondWithMessage(s, i, fmt.Sprintf("```\n%s\n```", output.Table))
}

func (c *NightreignCommand) handleStart(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	_, err := c.sessions.Start(ctx, &sessionService.StartInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
		Day:       opts.Int("day"),
	})
	if err != nil {
		return RespondWithMessage(s, i, channelFailureMessage(err))
	}
	return RespondWithMessage(s, i, "Starting the fight against the nightlords!\nGood luck and have fun!\n")
}

func (c *NightreignCommand) handleClose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.sessions.Close(ctx, &sessionService.CloseInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
	})
	if err != nil {
		return RespondWithMessage(s, i, channelFailureMessage(err))
	}

	// the invoking channel is gone, tell the closer in a DM
	dm, err := s.UserChannelCreate(interactionUserID(i))
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSend(dm.ID, fmt.Sprintf("Nightreign session %s closed.", output.SessionID))
	return err
}

func (c *NightreignCommand) handleBoss(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts optionValues) error {
	boss := models.Boss(opts.String("boss"))
	err := c.sessions.SetBoss(ctx, &sessionService.SetBossInput{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
		Boss:      boss,
	})
	if err != nil {
		return RespondWithMessage(s, i, channelFailureMessage(err))
	}
	return RespondWithMessage(s, i, fmt.Sprintf("Boss set to %s.", boss))
}

func createFailureMessage(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrCategoryNotFound):
		return categoryFailureMessage
	case errors.Is(err, sessionService.ErrSessionExists):
		return sessionExistsMessage
	default:
		return genericFailureMessage
	}
}

func joinFailureMessage(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound),
		errors.Is(err, sessionService.ErrWrongGuild):
		return sessionNotFoundMessage
	case errors.Is(err, sessionService.ErrSessionPrivate):
		return sessionPrivateMessage
	case errors.Is(err, sessionService.ErrAlreadyMember):
		return alreadyInSessionMessage
	case errors.Is(err, sessionService.ErrSessionFull):
		return sessionFullMessage
	case errors.Is(err, sessionService.ErrChannelGone):
		return categoryFailureMessage
	default:
		return genericFailureMessage
	}
}

func addFailureMessage(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrAlreadyMember):
		return userInSessionMessage
	case errors.Is(err, sessionService.ErrSessionFull):
		return sessionFullMessage
	case errors.Is(err, sessionService.ErrMemberNotFound):
		return userFailureMessage
	default:
		return channelFailureMessage(err)
	}
}

func removeFailureMessage(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrNotMember):
		return userNotInSessionMessage
	case errors.Is(err, sessionService.ErrMemberNotFound):
		return userFailureMessage
	default:
		return channelFailureMessage(err)
	}
}

// channelFailureMessage covers the errors shared by every command that is
// resolved through the invoking channel.
func channelFailureMessage(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrChannelGone):
		return categoryFailureMessage
	case errors.Is(err, sessionService.ErrNotSessionChannel),
		errors.Is(err, sessionService.ErrWrongGuild):
		return notASessionMessage
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return sessionNotFoundMessage
	case errors.Is(err, sessionService.ErrNotMember):
		return notInSessionMessage
	case errors.Is(err, sessionService.ErrInvalidDay):
		return "FAILURE: Day must be 1 or 2."
	default:
		return genericFailureMessage
	}
}
