package guildconfig

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/fromcord/fromcord/internal/models"
	guildRepo "github.com/fromcord/fromcord/internal/repositories/guildconfig"
	repoMocks "github.com/fromcord/fromcord/internal/repositories/guildconfig/mocks"
)

type GuildConfigServiceTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockRepo *repoMocks.MockRepository
	service  Service
	ctx      context.Context
}

func (s *GuildConfigServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = repoMocks.NewMockRepository(s.mockCtrl)
	s.ctx = context.Background()

	svc, err := New(&Config{
		Repo:              s.mockRepo,
		PrimaryGuildID:    "guild-1",
		PrimaryCategoryID: "category-1",
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *GuildConfigServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *GuildConfigServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Require().Error(err)

	_, err = New(&Config{Repo: s.mockRepo})
	s.Require().Error(err)

	_, err = New(&Config{PrimaryGuildID: "guild-1", PrimaryCategoryID: "category-1"})
	s.Require().Error(err)
}

func (s *GuildConfigServiceTestSuite) TestLoadSeedsPrimaryGuild() {
	s.mockRepo.EXPECT().
		Load(gomock.Any()).
		Return(&guildRepo.LoadOutput{Configs: map[string]*models.GuildConfig{}}, nil)

	s.Require().NoError(s.service.Load(s.ctx))

	config, err := s.service.Get("guild-1")
	s.Require().NoError(err)
	s.Equal("category-1", config.NightreignCategoryID)
}

func (s *GuildConfigServiceTestSuite) TestLoadPrimarySeedOverridesStoredValue() {
	s.mockRepo.EXPECT().
		Load(gomock.Any()).
		Return(&guildRepo.LoadOutput{Configs: map[string]*models.GuildConfig{
			"guild-1": {GuildID: "guild-1", NightreignCategoryID: "stale-category"},
			"guild-2": {GuildID: "guild-2", NightreignCategoryID: "category-2"},
		}}, nil)

	s.Require().NoError(s.service.Load(s.ctx))

	config, err := s.service.Get("guild-1")
	s.Require().NoError(err)
	s.Equal("category-1", config.NightreignCategoryID)

	config, err = s.service.Get("guild-2")
	s.Require().NoError(err)
	s.Equal("category-2", config.NightreignCategoryID)
}

func (s *GuildConfigServiceTestSuite) TestLoadToleratesMalformedStore() {
	s.mockRepo.EXPECT().
		Load(gomock.Any()).
		Return(&guildRepo.LoadOutput{Configs: map[string]*models.GuildConfig{}},
			fmt.Errorf("%w: boom", guildRepo.ErrBadFormat))

	s.Require().NoError(s.service.Load(s.ctx))

	_, err := s.service.Get("guild-1")
	s.Require().NoError(err)
}

func (s *GuildConfigServiceTestSuite) TestLoadFailsOnReadError() {
	s.mockRepo.EXPECT().
		Load(gomock.Any()).
		Return(nil, errors.New("disk on fire"))

	s.Require().Error(s.service.Load(s.ctx))
}

func (s *GuildConfigServiceTestSuite) TestGetUnknownGuild() {
	_, err := s.service.Get("guild-9")
	s.Require().ErrorIs(err, ErrNotConfigured)
}

func (s *GuildConfigServiceTestSuite) TestSetThenGet() {
	s.service.Set("guild-2", "category-2")

	config, err := s.service.Get("guild-2")
	s.Require().NoError(err)
	s.Equal("guild-2", config.GuildID)
	s.Equal("category-2", config.NightreignCategoryID)
}

func (s *GuildConfigServiceTestSuite) TestGetReturnsACopy() {
	s.service.Set("guild-2", "category-2")

	config, err := s.service.Get("guild-2")
	s.Require().NoError(err)
	config.NightreignCategoryID = "mangled"

	fresh, err := s.service.Get("guild-2")
	s.Require().NoError(err)
	s.Equal("category-2", fresh.NightreignCategoryID)
}

func (s *GuildConfigServiceTestSuite) TestSaveFlushesConfigs() {
	s.service.Set("guild-2", "category-2")

	s.mockRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *guildRepo.SaveInput) error {
			s.Require().Contains(input.Configs, "guild-2")
			return nil
		})

	s.Require().NoError(s.service.Save(s.ctx))
}

func TestGuildConfigServiceSuite(t *testing.T) {
	suite.Run(t, new(GuildConfigServiceTestSuite))
}
