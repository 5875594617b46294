package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fromcord/fromcord/internal/metrics"
	"github.com/fromcord/fromcord/internal/models"
	"github.com/fromcord/fromcord/internal/schedule"
)

// Sweep runs one evaluator cycle: retire sessions whose eligible events
// have all fired, then evaluate the rest concurrently. The call returns
// only after every worker has finished, so cycles never overlap and a
// session has at most one in-flight evaluation.
func (s *service) Sweep(ctx context.Context) {
	started := time.Now()

	s.mu.Lock()
	pending := make([]*models.Session, 0)
	for sessionID, session := range s.sessions {
		if !session.Active || session.Day == 0 {
			continue
		}
		if schedule.Complete(session.Flags, session.Day, session.Boss) {
			slog.Info("run complete, marking session inactive", "session", sessionID)
			session.Active = false
			session.Timestamp = 0
			session.Flags = schedule.Flags()
			continue
		}
		// workers evaluate a private clone; writeBack merges results
		pending = append(pending, session.Clone())
	}
	s.mu.Unlock()

	if len(pending) > 0 {
		slog.Debug("dispatching session evaluations", "count", len(pending))
	}

	var wg sync.WaitGroup
	for _, snapshot := range pending {
		wg.Add(1)
		go func(snapshot *models.Session) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					metrics.SweepErrors.Inc()
					slog.Error("session evaluation panicked",
						"session", snapshot.SessionID, "panic", r)
				}
			}()

			if err := s.evaluate(snapshot); err != nil {
				metrics.SweepErrors.Inc()
				slog.Error("failed to evaluate session",
					"session", snapshot.SessionID, "error", err)
				slog.Warn("session skipped, will retry on the next sweep",
					"session", snapshot.SessionID)
				return
			}
			s.writeBack(snapshot)
		}(snapshot)
	}
	wg.Wait()

	metrics.SweepDuration.Set(float64(time.Since(started).Microseconds()))
	s.updateGauges()
}

// Reconcile prunes sessions whose backing chat resources no longer hold:
// dead guild, dead channel, channel moved out of the configured category,
// or empty membership. Channels are deleted where the session is dropped
// for category or membership reasons; a failed delete still drops the
// session.
func (s *service) Reconcile(ctx context.Context) {
	s.mu.Lock()
	snapshot := make([]*models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		snapshot = append(snapshot, session.Clone())
	}
	s.mu.Unlock()

	for _, session := range snapshot {
		if _, err := s.chat.Guild(session.GuildID); err != nil {
			slog.Info("dropping session, guild is gone",
				"session", session.SessionID, "guild", session.GuildID)
			s.drop(session.SessionID)
			continue
		}

		channel, err := s.chat.Channel(session.ChannelID)
		if err != nil {
			slog.Info("dropping session, channel is gone",
				"session", session.SessionID, "channel", session.ChannelID)
			s.drop(session.SessionID)
			continue
		}

		guildConfig, err := s.guildConfigs.Get(session.GuildID)
		if err != nil {
			slog.Warn("guild has sessions but no nightreign configuration, leaving it alone",
				"session", session.SessionID, "guild", session.GuildID)
			continue
		}

		if channel.ParentID == "" || channel.ParentID != guildConfig.NightreignCategoryID {
			slog.Info("dropping session, channel left the nightreign category",
				"session", session.SessionID, "channel", session.ChannelID)
			s.deleteChannel(session)
			s.drop(session.SessionID)
			continue
		}

		if len(session.Members) == 0 {
			slog.Info("dropping session, no members left", "session", session.SessionID)
			s.deleteChannel(session)
			s.drop(session.SessionID)
		}
	}

	s.updateGauges()
}

func (s *service) drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *service) deleteChannel(session *models.Session) {
	if err := s.chat.DeleteChannel(session.ChannelID); err != nil {
		slog.Warn("can't delete session channel",
			"session", session.SessionID, "channel", session.ChannelID, "error", err)
	}
}
