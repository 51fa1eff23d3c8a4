package models

import "time"

// Tool identifies which timing widget produced a session.
type Tool string

const (
	ToolStopwatch Tool = "stopwatch"
	ToolCountdown Tool = "countdown"
	ToolLapTimer  Tool = "laptimer"
	ToolInterval  Tool = "interval"
	ToolChess     Tool = "chess"
)

// Tools lists every known tool tag.
var Tools = []Tool{ToolStopwatch, ToolCountdown, ToolLapTimer, ToolInterval, ToolChess}

// ValidTool reports whether s is one of the enumerated tool tags.
func ValidTool(s string) bool {
	for _, t := range Tools {
		if string(t) == s {
			return true
		}
	}
	return false
}

// TimerSession is one completed (or abandoned) run of a timing tool.
// Records are immutable once written; there is no update or delete path.
//
// StartedAt is stamped at the moment of recording, not at true session
// start. A run that spans midnight therefore buckets into the day it
// ended on.
type TimerSession struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"index;size:64" json:"user_id,omitempty"`
	Tool      Tool      `gorm:"size:16;index;not null" json:"tool"`
	Duration  int64     `gorm:"not null" json:"duration"` // milliseconds, >= 1000 once stored
	StartedAt time.Time `gorm:"index;not null" json:"started_at"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"` // JSON, schema depends on Tool
}

// Meta decodes the serialized metadata into the payload type for the
// session's tool. Missing fields decode to their zero values.
func (s *TimerSession) Meta() (ToolMeta, error) {
	return DecodeMeta(s.Tool, s.Metadata)
}
