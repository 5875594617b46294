package session

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fromcord/fromcord/internal/metrics"
	"github.com/fromcord/fromcord/internal/models"
	"github.com/fromcord/fromcord/internal/render"
	"github.com/fromcord/fromcord/internal/schedule"
)

// logRotateThreshold is the rendered-log size, in characters, past which the
// tracked message is abandoned and a fresh one started. Discord caps message
// content at 2000; this leaves headroom for the code fence and one row.
const logRotateThreshold = 1750

// isoTimestamp is the event-log timestamp layout.
const isoTimestamp = time.RFC3339

// evaluate walks the schedule for one session and fires at most one due,
// not-yet-fired entry: set its flag, append a log row, refresh the tracked
// log message. The session passed in is the worker's private clone; the
// caller writes it back after a clean return.
//
// The flag flips before any channel I/O. If rendering then fails the event
// text is lost, never re-sent; that is the at-most-once contract.
func (s *service) evaluate(session *models.Session) error {
	if session.Timestamp <= 0 {
		return fmt.Errorf("session %s has no start timestamp", session.SessionID)
	}

	now := s.clock.Now()
	elapsed := now.Sub(time.Unix(session.Timestamp, 0)).Minutes()

	for _, entry := range schedule.Entries() {
		if !entry.Eligible(session.Day, session.Boss) {
			continue
		}
		if session.Flags.IsSet(entry.Flag) {
			continue
		}
		if elapsed < entry.Offset {
			continue
		}

		session.Flags.Set(entry.Flag)
		metrics.EventsFired.WithLabelValues(string(entry.Category)).Inc()
		slog.Info("event fired",
			"session", session.SessionID,
			"event", entry.Flag,
			"elapsed_minutes", elapsed,
		)

		s.renderEvent(session, entry, now)
		break
	}
	return nil
}

// renderEvent appends the fired entry to the session's event log and edits
// the tracked log message in place, rotating to a fresh message when the
// rendered table has outgrown the threshold. Chat failures are logged and
// swallowed; the fired flag already committed.
func (s *service) renderEvent(session *models.Session, entry schedule.Entry, now time.Time) {
	content, err := s.chat.MessageContent(session.ChannelID, session.EventLogID)
	if err != nil {
		slog.Warn("can't fetch event log message",
			"session", session.SessionID, "event", entry.Flag, "error", err)
		return
	}

	if len(content) > logRotateThreshold {
		session.EventLog = []models.EventLogEntry{}
		messageID, err := s.chat.SendMessage(session.ChannelID, "LOADING...")
		if err != nil {
			slog.Warn("can't start a fresh event log message",
				"session", session.SessionID, "event", entry.Flag, "error", err)
			return
		}
		session.EventLogID = messageID
	}

	session.EventLog = append(session.EventLog, models.EventLogEntry{
		Day:       strconv.Itoa(session.Day),
		Category:  string(entry.Category),
		Message:   entry.Message,
		Timestamp: now.Format(isoTimestamp),
	})

	table := renderEventLog(session.EventLog)
	if err := s.chat.EditMessage(session.ChannelID, session.EventLogID, codeBlock(table)); err != nil {
		slog.Warn("can't edit event log message",
			"session", session.SessionID, "event", entry.Flag, "error", err)
	}
}

// writeBack merges a worker's clone into the authoritative map. Only the
// fields the evaluator owns are merged, so a lifecycle operation that ran
// during the evaluation keeps its membership or run-state changes.
func (s *service) writeBack(snapshot *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[snapshot.SessionID]
	if !ok {
		// closed mid-evaluation
		return
	}
	current.Flags = snapshot.Flags
	current.EventLog = snapshot.EventLog
	current.EventLogID = snapshot.EventLogID
}

func renderEventLog(log []models.EventLogEntry) string {
	rows := make([][]string, 0, len(log))
	for _, entry := range log {
		rows = append(rows, []string{entry.Day, entry.Category, entry.Message, entry.Timestamp})
	}
	return renderGrid(eventLogHeaders, rows)
}

func renderGrid(headers []string, rows [][]string) string {
	return render.Grid(headers, rows)
}

func codeBlock(body string) string {
	return "```\n" + body + "\n```"
}
