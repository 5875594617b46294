package models

import (
	"encoding/json"
	"fmt"
)

// Privacy controls who may join a session.
type Privacy string

const (
	// PrivacyPublic sessions are joinable by anyone who knows the session ID
	PrivacyPublic Privacy = "public"

	// PrivacyPrivate sessions can only be entered through an explicit add
	PrivacyPrivate Privacy = "private"
)

// Boss names a nightlord encounter. The empty value means no boss has been
// chosen for the run.
type Boss string

const (
	BossTricephalos       Boss = "Tricephalos"
	BossGapingJaw         Boss = "Gaping Jaw"
	BossSentientPest      Boss = "Sentient Pest"
	BossAugur             Boss = "Augur"
	BossEquilibriousBeast Boss = "Equilibrious Beast"
	BossDarkdriftKnight   Boss = "Darkdrift Knight"
	BossFissureInTheFog   Boss = "Fissure In The Fog"
	BossNightAspect       Boss = "Night Aspect"
)

// Bosses lists every nightlord in encounter order.
var Bosses = []Boss{
	BossTricephalos,
	BossGapingJaw,
	BossSentientPest,
	BossAugur,
	BossEquilibriousBeast,
	BossDarkdriftKnight,
	BossFissureInTheFog,
	BossNightAspect,
}

// SessionFlags records which schedule entries have already fired for a run.
// The key set is fixed at construction; flags only ever flip false to true
// until the whole set is reset at the end of a run.
type SessionFlags map[string]bool

// IsSet reports whether the named flag has fired.
func (f SessionFlags) IsSet(name string) bool {
	return f[name]
}

// Set marks the named flag as fired.
func (f SessionFlags) Set(name string) {
	f[name] = true
}

// EventLogEntry is one row of a session's event log. It serializes as the
// 4-element string array [day, category, message, timestamp] the sessions
// document has always used.
type EventLogEntry struct {
	Day       string
	Category  string
	Message   string
	Timestamp string
}

// MarshalJSON implements json.Marshaler.
func (e EventLogEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]string{e.Day, e.Category, e.Message, e.Timestamp})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EventLogEntry) UnmarshalJSON(data []byte) error {
	var row [4]string
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("event log entry: %w", err)
	}
	e.Day = row[0]
	e.Category = row[1]
	e.Message = row[2]
	e.Timestamp = row[3]
	return nil
}

// Session represents one group's run, bound to a dedicated channel.
type Session struct {
	// SessionID is the unique identifier for this session; immutable after
	// creation
	SessionID string `json:"session_id"`

	// SessionPW is generated at creation; reserved, not yet checked anywhere
	SessionPW string `json:"session_pw"`

	// Privacy controls whether the session is joinable by ID
	Privacy Privacy `json:"privacy"`

	// Members holds the Discord user IDs in the session, at most three
	Members []string `json:"members"`

	// Active is true while a timed run is in progress
	Active bool `json:"active"`

	// Day is 0 when no run is active, otherwise 1 or 2
	Day int `json:"day"`

	// Timestamp is the run start in unix seconds; 0 when inactive
	Timestamp int64 `json:"timestamp"`

	// ChannelID is the bound text channel; set once at creation
	ChannelID string `json:"channel_id"`

	// GuildID is the guild the session belongs to; set once at creation
	GuildID string `json:"guild_id"`

	// EventLog is the append-only log of fired events for the current run
	EventLog []EventLogEntry `json:"event_log"`

	// EventLogID is the message currently rendering the event log table
	EventLogID string `json:"event_log_id"`

	// Flags marks which schedule entries have fired
	Flags SessionFlags `json:"flags"`

	// Boss is the chosen nightlord, gating boss lore entries
	Boss Boss `json:"boss,omitempty"`
}

// HasMember reports whether the user is part of the session.
func (s *Session) HasMember(userID string) bool {
	for _, m := range s.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// RemoveMember drops the user from the member list. It reports whether the
// user was a member.
func (s *Session) RemoveMember(userID string) bool {
	for i, m := range s.Members {
		if m == userID {
			s.Members = append(s.Members[:i], s.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session. Sweep workers evaluate a clone
// and write it back so a half-updated record is never visible in the map.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Members = append([]string(nil), s.Members...)
	clone.EventLog = append([]EventLogEntry(nil), s.EventLog...)
	clone.Flags = make(SessionFlags, len(s.Flags))
	for name, fired := range s.Flags {
		clone.Flags[name] = fired
	}
	return &clone
}
