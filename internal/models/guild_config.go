package models

// GuildConfig holds the per-guild settings for the nightreign feature.
type GuildConfig struct {
	// GuildID is the Discord guild this configuration belongs to
	GuildID string `json:"guild_id"`

	// NightreignCategoryID is the channel category session channels live
	// under; channels found outside it are reclaimed by the cleanup sweep
	NightreignCategoryID string `json:"nightreign_category_id"`
}
