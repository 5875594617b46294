package discord

import (
	"github.com/bwmarrin/discordgo"
)

// optionValues indexes a subcommand's options by name
type optionValues map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) optionValues {
	values := make(optionValues, len(options))
	for _, option := range options {
		values[option.Name] = option
	}
	return values
}

// String returns the named option as a string, or "" when absent. User
// options also resolve here since their raw value is the user's ID.
func (v optionValues) String(name string) string {
	option, ok := v[name]
	if !ok {
		return ""
	}
	value, ok := option.Value.(string)
	if !ok {
		return ""
	}
	return value
}

// Int returns the named option as an int, or 0 when absent
func (v optionValues) Int(name string) int {
	option, ok := v[name]
	if !ok {
		return 0
	}
	value, ok := option.Value.(float64)
	if !ok {
		return 0
	}
	return int(value)
}
