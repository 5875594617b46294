package session

import (
	"errors"

	"github.com/fromcord/fromcord/internal/chat"
	"github.com/fromcord/fromcord/internal/models"
)

func (s *SessionServiceTestSuite) testGuild() *chat.Guild {
	return &chat.Guild{ID: s.testGuildID, Name: "Test Guild"}
}

func (s *SessionServiceTestSuite) TestReconcile_KeepsHealthySession() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(s.testChannel, nil)
	s.mockGuildConfigs.EXPECT().Get(s.testGuildID).Return(s.testGuildConfig, nil)

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
}

func (s *SessionServiceTestSuite) TestReconcile_DropsSessionWhenGuildGone() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(nil, errors.New("unknown guild"))

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReconcile_DropsSessionWhenChannelGone() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(nil, errors.New("unknown channel"))

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReconcile_DeletesChannelThatLeftTheCategory() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	moved := &chat.Channel{
		ID:       s.testChannelID,
		Name:     "nightreign-" + s.testSessionID,
		GuildID:  s.testGuildID,
		ParentID: "somewhere-else",
	}
	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(moved, nil)
	s.mockGuildConfigs.EXPECT().Get(s.testGuildID).Return(s.testGuildConfig, nil)
	s.mockChat.EXPECT().DeleteChannel(s.testChannelID).Return(nil)

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReconcile_DropsEmptySession() {
	session := s.testSession()
	session.Members = []string{}
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(s.testChannel, nil)
	s.mockGuildConfigs.EXPECT().Get(s.testGuildID).Return(s.testGuildConfig, nil)
	s.mockChat.EXPECT().DeleteChannel(s.testChannelID).Return(nil)

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReconcile_FailedDeleteStillDropsSession() {
	session := s.testSession()
	session.Members = []string{}
	s.seedSessions(map[string]*models.Session{s.testSessionID: session})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(s.testChannel, nil)
	s.mockGuildConfigs.EXPECT().Get(s.testGuildID).Return(s.testGuildConfig, nil)
	s.mockChat.EXPECT().DeleteChannel(s.testChannelID).Return(errors.New("missing permissions"))

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionServiceTestSuite) TestReconcile_LeavesUnconfiguredGuildAlone() {
	s.seedSessions(map[string]*models.Session{s.testSessionID: s.testSession()})

	s.mockChat.EXPECT().Guild(s.testGuildID).Return(s.testGuild(), nil)
	s.mockChat.EXPECT().Channel(s.testChannelID).Return(s.testChannel, nil)
	s.mockGuildConfigs.EXPECT().Get(s.testGuildID).Return(nil, errors.New("no configuration"))

	s.service.Reconcile(s.ctx)

	_, err := s.service.Get(s.testSessionID)
	s.Require().NoError(err)
}
