// Package schedule holds the static event table for a nightreign run: which
// message fires how many minutes after the run starts, and under which day
// and boss gates. The table is pure data; the session service walks it in
// order and the entry order is the priority order when several entries are
// due at once.
package schedule

import (
	"github.com/fromcord/fromcord/internal/models"
)

// Category classifies an event row in the session log.
type Category string

const (
	CategoryTimer     Category = "TIMER"
	CategoryGuideline Category = "GUIDELINE"
	CategoryInfo      Category = "INFO"
)

// Entry is one schedulable event. Flag doubles as the key into a session's
// flag set.
type Entry struct {
	// Flag names the entry and its fired marker on the session
	Flag string

	// Offset is minutes since run start before the entry becomes due
	Offset float64

	// Message is posted into the session channel's log table
	Message string

	// Category classifies the row
	Category Category

	// Day gates the entry to one in-game day; 0 fires on any day
	Day int

	// Boss gates the entry to one nightlord; empty fires for any boss
	Boss models.Boss
}

// Eligible reports whether the entry may fire for a run on the given day
// against the given boss.
func (e Entry) Eligible(day int, boss models.Boss) bool {
	if e.Day != 0 && e.Day != day {
		return false
	}
	if e.Boss != "" && e.Boss != boss {
		return false
	}
	return true
}

// Ring timers are cumulative: each offset is defined relative to the
// previous one, matching the in-game pacing.
const (
	firstEvent   = 3.5
	secondEvent  = firstEvent + 0.5
	thirdEvent   = secondEvent + 0.25
	fourthEvent  = thirdEvent + 0.25
	fifthEvent   = fourthEvent + 3
	sixthEvent   = fifthEvent + 2.5
	seventhEvent = sixthEvent + 0.5
	eighthEvent  = seventhEvent + 0.25
	ninthEvent   = eighthEvent + 0.25
	tenthEvent   = ninthEvent + 3
)

// Boss lore runs on its own short track right after the run starts,
// independent of the ring timers.
const (
	loreEvent     = 0.25
	guidanceEvent = 0.5
)

// The table is ordered by offset so that walking it front to back always
// yields the lowest-offset unset entry among those matching the gates: the
// boss lore track first, then the ring timers, then the level guidance.
var entries = []Entry{
	{Flag: "TRICEPHALOS_LORE", Offset: loreEvent, Message: "Gladius, Beast of Night, hunts as three hounds bound by burning chains.", Category: CategoryInfo, Boss: models.BossTricephalos},
	{Flag: "GAPING_JAW_LORE", Offset: loreEvent, Message: "Adel's hunger swallowed a kingdom; the jaw never closes for long.", Category: CategoryInfo, Boss: models.BossGapingJaw},
	{Flag: "SENTIENT_PEST_LORE", Offset: loreEvent, Message: "The pest is not one creature but a choir of them, thinking as one.", Category: CategoryInfo, Boss: models.BossSentientPest},
	{Flag: "AUGUR_LORE", Offset: loreEvent, Message: "Maris dreams beneath the water, and the arena drowns with it.", Category: CategoryInfo, Boss: models.BossAugur},
	{Flag: "EQUILIBRIOUS_BEAST_LORE", Offset: loreEvent, Message: "Libra offers a bargain before the fight. Every answer has a price.", Category: CategoryInfo, Boss: models.BossEquilibriousBeast},
	{Flag: "DARKDRIFT_KNIGHT_LORE", Offset: loreEvent, Message: "Fulghor rides without a steed and cuts without a pause.", Category: CategoryInfo, Boss: models.BossDarkdriftKnight},
	{Flag: "FISSURE_IN_THE_FOG_LORE", Offset: loreEvent, Message: "Caligo is the cold inside the fog; the fog is only its breath.", Category: CategoryInfo, Boss: models.BossFissureInTheFog},
	{Flag: "NIGHT_ASPECT_LORE", Offset: loreEvent, Message: "Heolstor wears the night itself. This is the last of them.", Category: CategoryInfo, Boss: models.BossNightAspect},
	{Flag: "TRICEPHALOS_GUIDANCE", Offset: guidanceEvent, Message: "Split up when the beast does; holy damage staggers the heads.", Category: CategoryGuideline, Boss: models.BossTricephalos},
	{Flag: "GAPING_JAW_GUIDANCE", Offset: guidanceEvent, Message: "Fight from the flanks and bring poison; the lunging bite outranges you.", Category: CategoryGuideline, Boss: models.BossGapingJaw},
	{Flag: "SENTIENT_PEST_GUIDANCE", Offset: guidanceEvent, Message: "Fire clears the swarm phases; stay off the silk on the ground.", Category: CategoryGuideline, Boss: models.BossSentientPest},
	{Flag: "AUGUR_GUIDANCE", Offset: guidanceEvent, Message: "Lightning carries through the flooded floor; keep a ranged option ready.", Category: CategoryGuideline, Boss: models.BossAugur},
	{Flag: "EQUILIBRIOUS_BEAST_GUIDANCE", Offset: guidanceEvent, Message: "Cleanse madness buildup immediately; the gold zones on the floor stack it fast.", Category: CategoryGuideline, Boss: models.BossEquilibriousBeast},
	{Flag: "DARKDRIFT_KNIGHT_GUIDANCE", Offset: guidanceEvent, Message: "Dodge through the long combos, not away from them; punish the landing.", Category: CategoryGuideline, Boss: models.BossDarkdriftKnight},
	{Flag: "FISSURE_IN_THE_FOG_GUIDANCE", Offset: guidanceEvent, Message: "Carry fire and keep moving; standing in the mist stacks frostbite.", Category: CategoryGuideline, Boss: models.BossFissureInTheFog},
	{Flag: "NIGHT_ASPECT_GUIDANCE", Offset: guidanceEvent, Message: "Save your strongest cooldowns for the second phase; holy damage lands hardest.", Category: CategoryGuideline, Boss: models.BossNightAspect},

	{Flag: "ROUND_1_WARNING_1", Offset: firstEvent, Message: "Round 1 will start closing in 1 minute.", Category: CategoryTimer},
	{Flag: "ROUND_1_WARNING_2", Offset: secondEvent, Message: "Round 1 will start closing in 30 seconds.", Category: CategoryTimer},
	{Flag: "ROUND_1_WARNING_3", Offset: thirdEvent, Message: "Round 1 will start closing in 15 seconds.", Category: CategoryTimer},
	{Flag: "ROUND_1_ANNOUNCEMENT", Offset: fourthEvent, Message: "Round 1 has started closing.", Category: CategoryTimer},
	{Flag: "ROUND_1_CLOSED", Offset: fifthEvent, Message: "Round 1 has closed.", Category: CategoryTimer},
	{Flag: "ROUND_2_WARNING_1", Offset: sixthEvent, Message: "Round 2 will start closing in 1 minute.", Category: CategoryTimer},
	{Flag: "ROUND_2_WARNING_2", Offset: seventhEvent, Message: "Round 2 will start closing in 30 seconds.", Category: CategoryTimer},
	{Flag: "ROUND_2_WARNING_3", Offset: eighthEvent, Message: "Round 2 will start closing in 15 seconds.", Category: CategoryTimer},
	{Flag: "ROUND_2_ANNOUNCEMENT", Offset: ninthEvent, Message: "Round 2 has started closing.", Category: CategoryTimer},
	{Flag: "ROUND_2_CLOSED", Offset: tenthEvent, Message: "Round 2 has closed.\nGood luck and have fun!", Category: CategoryTimer},
	{Flag: "LEVEL_5_7", Offset: tenthEvent + 0.5, Message: "You should now be level 5-7.", Category: CategoryGuideline, Day: 1},
	{Flag: "LEVEL_10_12", Offset: tenthEvent + 0.5, Message: "You should now be level 10-12.", Category: CategoryGuideline, Day: 2},
}

// Entries returns the full table in firing-priority order.
func Entries() []Entry {
	return entries
}

// Flags builds the fixed-shape flag set for a new session, one entry per
// schedulable event, all unset.
func Flags() models.SessionFlags {
	flags := make(models.SessionFlags, len(entries))
	for _, entry := range entries {
		flags[entry.Flag] = false
	}
	return flags
}

// Normalize returns flags reshaped to the current table: missing entries
// default to unset, and keys the table no longer knows are dropped. Used
// when loading sessions persisted by an older build.
func Normalize(flags models.SessionFlags) models.SessionFlags {
	normalized := Flags()
	for _, entry := range entries {
		if flags.IsSet(entry.Flag) {
			normalized.Set(entry.Flag)
		}
	}
	return normalized
}

// Complete reports whether every entry eligible under the given gates has
// fired. Entries locked behind another day or an unchosen boss cannot fire
// within this run and so do not count against completion.
func Complete(flags models.SessionFlags, day int, boss models.Boss) bool {
	for _, entry := range entries {
		if !entry.Eligible(day, boss) {
			continue
		}
		if !flags.IsSet(entry.Flag) {
			return false
		}
	}
	return true
}
