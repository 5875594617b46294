package session

import (
	"strings"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/fromcord/fromcord/internal/models"
)

// startedSession builds an active day-1 run that began elapsed ago, with the
// tracked log message already posted.
func (s *SessionServiceTestSuite) startedSession(elapsed time.Duration) *models.Session {
	session := s.testSession()
	session.Active = true
	session.Day = 1
	session.Timestamp = s.testTime.Add(-elapsed).Unix()
	session.EventLogID = "log-1"
	return session
}

func (s *SessionServiceTestSuite) TestSweep_FiresOldestDueEntry() {
	s.seedSessions(map[string]*models.Session{
		s.testSessionID: s.startedSession(5 * time.Minute),
	})

	s.mockChat.EXPECT().MessageContent(s.testChannelID, "log-1").Return("short", nil)

	var edited string
	s.mockChat.EXPECT().
		EditMessage(s.testChannelID, "log-1", gomock.Any()).
		DoAndReturn(func(_, _, content string) error {
			edited = content
			return nil
		})

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.True(current.Flags.IsSet("ROUND_1_WARNING_1"))
	s.False(current.Flags.IsSet("ROUND_1_WARNING_2"), "one entry per sweep")
	s.Require().Len(current.EventLog, 1)
	s.Equal("Round 1 will start closing in 1 minute.", current.EventLog[0].Message)
	s.Contains(edited, "Round 1 will start closing in 1 minute.")
}

func (s *SessionServiceTestSuite) TestSweep_ConsecutiveSweepsWalkTheBacklog() {
	s.seedSessions(map[string]*models.Session{
		s.testSessionID: s.startedSession(5 * time.Minute),
	})

	s.mockChat.EXPECT().MessageContent(s.testChannelID, "log-1").Return("short", nil).Times(4)
	s.mockChat.EXPECT().EditMessage(s.testChannelID, "log-1", gomock.Any()).Return(nil).Times(4)

	// 3.5, 4.0, 4.25 and 4.5 are all overdue at 5 minutes in
	expected := []string{
		"ROUND_1_WARNING_1",
		"ROUND_1_WARNING_2",
		"ROUND_1_WARNING_3",
		"ROUND_1_ANNOUNCEMENT",
	}
	for i := range expected {
		s.service.Sweep(s.ctx)

		current, err := s.service.Get(s.testSessionID)
		s.Require().NoError(err)
		for j, flag := range expected {
			s.Equal(j <= i, current.Flags.IsSet(flag),
				"flag %s after sweep %d", flag, i+1)
		}
	}

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.False(current.Flags.IsSet("ROUND_1_CLOSED"), "7.5 minutes is not due yet")
	s.Len(current.EventLog, 4)
}

func (s *SessionServiceTestSuite) TestSweep_NothingDue() {
	s.seedSessions(map[string]*models.Session{
		s.testSessionID: s.startedSession(3 * time.Minute),
	})

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	for flag, fired := range current.Flags {
		s.False(fired, "flag %s fired early", flag)
	}
	s.Empty(current.EventLog)
}

func (s *SessionServiceTestSuite) TestSweep_SkipsInactiveSessions() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.False(current.Active)
	s.Empty(current.EventLog)
}

func (s *SessionServiceTestSuite) TestSweep_BossLoreFiresForChosenBossOnly() {
	session := s.startedSession(1 * time.Minute)
	session.Boss = models.BossTricephalos
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.mockChat.EXPECT().MessageContent(s.testChannelID, "log-1").Return("short", nil).Times(2)
	s.mockChat.EXPECT().EditMessage(s.testChannelID, "log-1", gomock.Any()).Return(nil).Times(2)

	s.service.Sweep(s.ctx)
	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.True(current.Flags.IsSet("TRICEPHALOS_LORE"))
	s.True(current.Flags.IsSet("TRICEPHALOS_GUIDANCE"))
	s.False(current.Flags.IsSet("GAPING_JAW_LORE"))
}

func (s *SessionServiceTestSuite) TestSweep_NoBossMeansNoLore() {
	s.seedSessions(map[string]*models.Session{
		s.testSessionID: s.startedSession(1 * time.Minute),
	})

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.False(current.Flags.IsSet("TRICEPHALOS_LORE"))
}

func (s *SessionServiceTestSuite) TestSweep_RotatesOversizedLogMessage() {
	session := s.startedSession(4 * time.Minute)
	session.EventLog = []models.EventLogEntry{
		{Day: "1", Category: "INFO", Message: "Started the run", Timestamp: "2026-09-01T11:56:00Z"},
	}
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.mockChat.EXPECT().
		MessageContent(s.testChannelID, "log-1").
		Return(strings.Repeat("x", 1800), nil)
	s.mockChat.EXPECT().SendMessage(s.testChannelID, "LOADING...").Return("log-2", nil)
	s.mockChat.EXPECT().EditMessage(s.testChannelID, "log-2", gomock.Any()).Return(nil)

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.Equal("log-2", current.EventLogID)
	s.Require().Len(current.EventLog, 1, "rotation clears the old rows")
	s.Equal("Round 1 will start closing in 1 minute.", current.EventLog[0].Message)
}

func (s *SessionServiceTestSuite) TestSweep_FetchFailureStillConsumesTheEntry() {
	s.seedSessions(map[string]*models.Session{
		s.testSessionID: s.startedSession(4 * time.Minute),
	})

	s.mockChat.EXPECT().
		MessageContent(s.testChannelID, "log-1").
		Return("", ErrChannelGone)

	s.service.Sweep(s.ctx)

	// the flag committed before the fetch; the event is never re-sent
	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.True(current.Flags.IsSet("ROUND_1_WARNING_1"))
	s.Empty(current.EventLog)
}

func (s *SessionServiceTestSuite) TestSweep_RetiresCompletedRun() {
	session := s.startedSession(20 * time.Minute)
	for flag := range session.Flags {
		session.Flags[flag] = true
	}
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.service.Sweep(s.ctx)

	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.False(current.Active)
	s.Zero(current.Timestamp)
	for flag, fired := range current.Flags {
		s.False(fired, "flag %s should reset for the next run", flag)
	}
}

func (s *SessionServiceTestSuite) TestSweep_MissingTimestampIsIsolated() {
	session := s.testSession()
	session.Active = true
	session.Day = 1
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.service.Sweep(s.ctx)

	// the broken session is skipped, not mutated
	current, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
	s.True(current.Active)
	for _, fired := range current.Flags {
		s.False(fired)
	}
}
