// Package session is the core of the bot: the session state machine, its
// lifecycle operations, the timed-event evaluator and the periodic sweeps.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fromcord/fromcord/internal/chat"
	"github.com/fromcord/fromcord/internal/common/clock"
	"github.com/fromcord/fromcord/internal/common/uuid"
	"github.com/fromcord/fromcord/internal/metrics"
	"github.com/fromcord/fromcord/internal/models"
	sessionRepo "github.com/fromcord/fromcord/internal/repositories/session"
	"github.com/fromcord/fromcord/internal/schedule"
	"github.com/fromcord/fromcord/internal/services/guildconfig"
)

// channelPrefix is the naming scheme binding channels to sessions; the
// session ID is the suffix after the last dash.
const channelPrefix = "nightreign-"

var eventLogHeaders = []string{"Day", "Type", "Event", "Timestamp"}

// service implements the Service interface
type service struct {
	repo         sessionRepo.Repository
	guildConfigs guildconfig.Service
	chat         chat.Client
	clock        clock.Clock
	uuid         uuid.UUID
	maxMembers   int

	mu       sync.Mutex
	sessions map[string]*models.Session
}

// New creates a new session service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Repo == nil {
		return nil, ErrNilRepo
	}
	if cfg.GuildConfigs == nil {
		return nil, ErrNilGuildConfigs
	}
	if cfg.Chat == nil {
		return nil, ErrNilChat
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	maxMembers := cfg.MaxMembers
	if maxMembers == 0 {
		maxMembers = 3
	}

	return &service{
		repo:         cfg.Repo,
		guildConfigs: cfg.GuildConfigs,
		chat:         cfg.Chat,
		clock:        cfg.Clock,
		uuid:         cfg.UUID,
		maxMembers:   maxMembers,
		sessions:     make(map[string]*models.Session),
	}, nil
}

// Load reads the session store into memory. A malformed store degrades to
// an empty map; that is loud in the logs because the next save overwrites
// whatever the file held.
func (s *service) Load(ctx context.Context) error {
	output, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, sessionRepo.ErrBadFormat) {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		slog.Error("session store is malformed, starting from an empty map; the next save will overwrite it", "error", err)
	}

	s.mu.Lock()
	s.sessions = output.Sessions
	for _, session := range s.sessions {
		// reshape records persisted by older builds
		session.Flags = schedule.Normalize(session.Flags)
		if session.Members == nil {
			session.Members = []string{}
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.updateGauges()
	slog.Info("sessions loaded", "sessions", count)
	return nil
}

// Save flushes a deep snapshot of the in-memory map to the store.
func (s *service) Save(ctx context.Context) error {
	s.mu.Lock()
	snapshot := make(map[string]*models.Session, len(s.sessions))
	for sessionID, session := range s.sessions {
		snapshot[sessionID] = session.Clone()
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, &sessionRepo.SaveInput{Sessions: snapshot}); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	return nil
}

// Get returns a session by ID.
func (s *service) Get(sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Create allocates a restricted channel under the guild's nightreign
// category and registers a fresh, inactive session bound to it.
func (s *service) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	guildConfig, err := s.guildConfigs.Get(input.GuildID)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	category, err := s.chat.Channel(guildConfig.NightreignCategoryID)
	if err != nil || !category.IsCategory {
		return nil, ErrCategoryNotFound
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = s.uuid.NewUUID()
	}

	s.mu.Lock()
	_, exists := s.sessions[sessionID]
	s.mu.Unlock()
	if exists {
		return nil, ErrSessionExists
	}

	channel, err := s.chat.CreateSessionChannel(
		input.GuildID, channelPrefix+sessionID, category.ID, input.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session channel: %w", err)
	}

	session := &models.Session{
		SessionID: sessionID,
		SessionPW: s.uuid.NewUUID(),
		Privacy:   input.Privacy,
		Members:   []string{input.UserID},
		Active:    false,
		Day:       0,
		Timestamp: 0,
		ChannelID: channel.ID,
		GuildID:   input.GuildID,
		EventLog:  []models.EventLogEntry{},
		Flags:     schedule.Flags(),
	}

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()
	s.updateGauges()

	welcome := fmt.Sprintf(
		"Welcome to the Nightreign session!\nID: %s\nPrivacy: %s\nChannel: <#%s>\nMembers: [<@%s>]",
		sessionID, input.Privacy, channel.ID, input.UserID,
	)
	if _, err := s.chat.SendMessage(channel.ID, welcome); err != nil {
		slog.Warn("can't send welcome message", "session", sessionID, "error", err)
	}

	return &CreateOutput{Session: session.Clone()}, nil
}

// Join adds the caller to a public session.
func (s *service) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	s.mu.Lock()
	session, ok := s.sessions[input.SessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	switch {
	case session.GuildID != input.GuildID:
		s.mu.Unlock()
		return nil, ErrWrongGuild
	case session.Privacy == models.PrivacyPrivate:
		s.mu.Unlock()
		return nil, ErrSessionPrivate
	case session.HasMember(input.UserID):
		s.mu.Unlock()
		return nil, ErrAlreadyMember
	case len(session.Members) >= s.maxMembers:
		s.mu.Unlock()
		return nil, ErrSessionFull
	}
	channelID := session.ChannelID
	s.mu.Unlock()

	if _, err := s.chat.Channel(channelID); err != nil {
		return nil, ErrChannelGone
	}
	if err := s.chat.GrantAccess(channelID, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to grant channel access: %w", err)
	}

	s.mu.Lock()
	// re-validate: the map may have moved while we were talking to Discord
	session, ok = s.sessions[input.SessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.HasMember(input.UserID) {
		s.mu.Unlock()
		return nil, ErrAlreadyMember
	}
	if len(session.Members) >= s.maxMembers {
		s.mu.Unlock()
		return nil, ErrSessionFull
	}
	session.Members = append(session.Members, input.UserID)
	members := append([]string(nil), session.Members...)
	clone := session.Clone()
	s.mu.Unlock()

	announcement := fmt.Sprintf(
		"<@%s> joined the session.\nMembers: %s",
		input.UserID, s.memberNames(input.GuildID, members),
	)
	if _, err := s.chat.SendMessage(channelID, announcement); err != nil {
		slog.Warn("can't announce join", "session", input.SessionID, "error", err)
	}

	return &JoinOutput{Session: clone}, nil
}

// Add invites a user into the session bound to the invoking channel. The
// privacy gate does not apply; this is the only way into a private session.
func (s *service) Add(ctx context.Context, input *AddInput) (*AddOutput, error) {
	sessionID, channelID, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	memberName, err := s.chat.MemberName(input.GuildID, input.UserID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	switch {
	case session.HasMember(input.UserID):
		s.mu.Unlock()
		return nil, ErrAlreadyMember
	case len(session.Members) >= s.maxMembers:
		s.mu.Unlock()
		return nil, ErrSessionFull
	}
	existing := append([]string(nil), session.Members...)
	s.mu.Unlock()

	if err := s.chat.GrantAccess(channelID, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to grant channel access: %w", err)
	}

	// the announcement lists the members as they were before the add, same
	// as it always has
	announcement := fmt.Sprintf(
		"<@%s> added to the session.\nMembers: %s",
		input.UserID, s.memberNames(input.GuildID, existing),
	)
	if _, err := s.chat.SendMessage(channelID, announcement); err != nil {
		slog.Warn("can't announce add", "session", sessionID, "error", err)
	}

	s.mu.Lock()
	session, ok = s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		if len(session.Members) >= s.maxMembers {
			s.mu.Unlock()
			return nil, ErrSessionFull
		}
		session.Members = append(session.Members, input.UserID)
	}
	clone := session.Clone()
	s.mu.Unlock()

	return &AddOutput{Session: clone, MemberName: memberName}, nil
}

// Leave removes the caller from the session bound to the invoking channel
// and revokes their channel access. The channel stays; an emptied session
// is collected by the reconciliation sweep.
func (s *service) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	sessionID, channelID, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		s.mu.Unlock()
		return nil, ErrNotMember
	}
	s.mu.Unlock()

	if err := s.chat.RevokeAccess(channelID, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to revoke channel access: %w", err)
	}

	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok {
		session.RemoveMember(input.UserID)
	}
	s.mu.Unlock()

	return &LeaveOutput{SessionID: sessionID}, nil
}

// Remove kicks a user from the session bound to the invoking channel.
func (s *service) Remove(ctx context.Context, input *RemoveInput) (*RemoveOutput, error) {
	sessionID, channelID, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		s.mu.Unlock()
		return nil, ErrNotMember
	}
	s.mu.Unlock()

	memberName, err := s.chat.MemberName(input.GuildID, input.UserID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if err := s.chat.RevokeAccess(channelID, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to revoke channel access: %w", err)
	}

	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok {
		session.RemoveMember(input.UserID)
	}
	s.mu.Unlock()

	return &RemoveOutput{MemberName: memberName}, nil
}

// Close deletes the channel and drops the session, regardless of run state.
func (s *service) Close(ctx context.Context, input *CloseInput) (*CloseOutput, error) {
	sessionID, channelID, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		s.mu.Unlock()
		return nil, ErrNotMember
	}
	s.mu.Unlock()

	if err := s.chat.DeleteChannel(channelID); err != nil {
		return nil, fmt.Errorf("failed to delete session channel: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	s.updateGauges()

	return &CloseOutput{SessionID: sessionID}, nil
}

// Start timestamps the run, posts the opening announcement, and creates the
// tracked log-table message the evaluator will keep editing.
func (s *service) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input.Day != 1 && input.Day != 2 {
		return nil, ErrInvalidDay
	}

	sessionID, channelID, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		s.mu.Unlock()
		return nil, ErrNotMember
	}
	session.Day = input.Day
	session.Timestamp = now.Unix()
	session.Active = true
	session.EventLog = append(session.EventLog, models.EventLogEntry{
		Day:       strconv.Itoa(input.Day),
		Category:  string(schedule.CategoryInfo),
		Message:   "Started the run",
		Timestamp: now.Format(isoTimestamp),
	})
	table := renderEventLog(session.EventLog)
	s.mu.Unlock()
	s.updateGauges()

	messageID, err := s.chat.SendMessage(channelID, codeBlock(table))
	if err != nil {
		slog.Warn("can't post event log message", "session", sessionID, "error", err)
	} else {
		s.mu.Lock()
		if session, ok := s.sessions[sessionID]; ok {
			session.EventLogID = messageID
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	session, ok = s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	clone := session.Clone()
	s.mu.Unlock()
	return &StartOutput{Session: clone}, nil
}

// SetBoss records the nightlord for the run.
func (s *service) SetBoss(ctx context.Context, input *SetBossInput) error {
	sessionID, _, err := s.resolveChannel(input.GuildID, input.ChannelID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if !session.HasMember(input.UserID) {
		return ErrNotMember
	}
	session.Boss = input.Boss
	return nil
}

// List renders the guild's public sessions as a table.
func (s *service) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	s.mu.Lock()
	type listing struct {
		sessionID string
		members   []string
	}
	listings := make([]listing, 0)
	for _, session := range s.sessions {
		if session.GuildID != input.GuildID || session.Privacy == models.PrivacyPrivate {
			continue
		}
		listings = append(listings, listing{
			sessionID: session.SessionID,
			members:   append([]string(nil), session.Members...),
		})
	}
	s.mu.Unlock()

	if len(listings) == 0 {
		return &ListOutput{Table: "No sessions found."}, nil
	}

	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			l.sessionID,
			"Members: " + s.memberNames(input.GuildID, l.members),
		})
	}
	return &ListOutput{Table: renderGrid([]string{"Session ID", "Members"}, rows)}, nil
}

// resolveChannel derives the session ID from the invoking channel's name and
// checks the channel really is the session's bound channel.
func (s *service) resolveChannel(guildID, channelID string) (sessionID, boundChannelID string, err error) {
	channel, err := s.chat.Channel(channelID)
	if err != nil {
		return "", "", ErrChannelGone
	}
	if !strings.HasPrefix(channel.Name, channelPrefix) {
		return "", "", ErrNotSessionChannel
	}
	parts := strings.Split(channel.Name, "-")
	sessionID = parts[len(parts)-1]

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return "", "", ErrSessionNotFound
	}
	if session.GuildID != guildID {
		return "", "", ErrWrongGuild
	}
	if session.ChannelID != channelID {
		return "", "", ErrNotSessionChannel
	}
	return sessionID, session.ChannelID, nil
}

// memberNames resolves member display names, quietly skipping users the
// guild no longer knows.
func (s *service) memberNames(guildID string, userIDs []string) string {
	names := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		name, err := s.chat.MemberName(guildID, userID)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// updateGauges refreshes the session metrics.
func (s *service) updateGauges() {
	s.mu.Lock()
	tracked := len(s.sessions)
	active := 0
	for _, session := range s.sessions {
		if session.Active {
			active++
		}
	}
	s.mu.Unlock()
	metrics.TrackedSessions.Set(float64(tracked))
	metrics.ActiveSessions.Set(float64(active))
}
