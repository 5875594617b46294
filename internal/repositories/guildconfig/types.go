package guildconfig

import "github.com/fromcord/fromcord/internal/models"

type LoadOutput struct {
	Configs map[string]*models.GuildConfig
}

type SaveInput struct {
	Configs map[string]*models.GuildConfig
}
