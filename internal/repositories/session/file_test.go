package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fromcord/fromcord/internal/models"
)

type FileRepositoryTestSuite struct {
	suite.Suite
	repo Repository
	path string
	ctx  context.Context

	testSession *models.Session
}

func (s *FileRepositoryTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "sessions.json")
	s.ctx = context.Background()

	repo, err := NewFile(&Config{Path: s.path})
	s.Require().NoError(err)
	s.repo = repo

	s.testSession = &models.Session{
		SessionID: "abc123",
		SessionPW: "pw456",
		Privacy:   models.PrivacyPublic,
		Members:   []string{"user-1", "user-2"},
		Active:    true,
		Day:       1,
		Timestamp: 1756700000,
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		EventLog: []models.EventLogEntry{
			{Day: "1", Category: "INFO", Message: "Started the run", Timestamp: "2026-09-01T12:00:00Z"},
		},
		EventLogID: "msg-1",
		Flags: models.SessionFlags{
			"ROUND_1_WARNING_1": true,
			"ROUND_1_WARNING_2": false,
		},
		Boss: models.BossGapingJaw,
	}
}

func (s *FileRepositoryTestSuite) TestNewFileRequiresPath() {
	_, err := NewFile(&Config{})
	s.Require().Error(err)

	_, err = NewFile(nil)
	s.Require().Error(err)
}

func (s *FileRepositoryTestSuite) TestLoadMissingFileIsEmptyStore() {
	output, err := s.repo.Load(s.ctx)

	s.Require().NoError(err)
	s.Require().NotNil(output)
	s.Empty(output.Sessions)
}

func (s *FileRepositoryTestSuite) TestSaveThenLoadRoundTrips() {
	err := s.repo.Save(s.ctx, &SaveInput{
		Sessions: map[string]*models.Session{"abc123": s.testSession},
	})
	s.Require().NoError(err)

	output, err := s.repo.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(output.Sessions, 1)

	loaded := output.Sessions["abc123"]
	s.Require().NotNil(loaded)
	s.Equal(s.testSession, loaded)
}

func (s *FileRepositoryTestSuite) TestSaveWritesEventLogAsRowArrays() {
	err := s.repo.Save(s.ctx, &SaveInput{
		Sessions: map[string]*models.Session{"abc123": s.testSession},
	})
	s.Require().NoError(err)

	raw, err := os.ReadFile(s.path)
	s.Require().NoError(err)

	// rows are 4-element string arrays, not objects
	s.Contains(string(raw), `"1",`)
	s.Contains(string(raw), `"Started the run"`)
	s.NotContains(string(raw), `"Message"`)
}

func (s *FileRepositoryTestSuite) TestSaveIndentsWithFourSpaces() {
	err := s.repo.Save(s.ctx, &SaveInput{
		Sessions: map[string]*models.Session{"abc123": s.testSession},
	})
	s.Require().NoError(err)

	raw, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.True(strings.Contains(string(raw), "\n    \"abc123\""))
}

func (s *FileRepositoryTestSuite) TestSaveLeavesNoTempFile() {
	err := s.repo.Save(s.ctx, &SaveInput{
		Sessions: map[string]*models.Session{"abc123": s.testSession},
	})
	s.Require().NoError(err)

	_, err = os.Stat(s.path + ".tmp")
	s.Require().True(os.IsNotExist(err))
}

func (s *FileRepositoryTestSuite) TestLoadMalformedFileDegradesToEmpty() {
	s.Require().NoError(os.WriteFile(s.path, []byte("[not a map]"), 0o644))

	output, err := s.repo.Load(s.ctx)

	s.Require().Error(err)
	s.Require().ErrorIs(err, ErrBadFormat)
	s.Require().NotNil(output)
	s.Empty(output.Sessions)
}

func (s *FileRepositoryTestSuite) TestSaveRejectsNilInput() {
	s.Require().Error(s.repo.Save(s.ctx, nil))
	s.Require().Error(s.repo.Save(s.ctx, &SaveInput{}))
}

func TestFileRepositorySuite(t *testing.T) {
	suite.Run(t, new(FileRepositoryTestSuite))
}
