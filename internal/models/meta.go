package models

import (
	"encoding/json"
	"fmt"
)

// ToolMeta is the tool-specific metadata payload of a TimerSession.
// No two tools share a schema, so consumers switch on the concrete type
// instead of probing field names.
type ToolMeta interface {
	ToolName() Tool
}

// StopwatchMeta carries nothing; a plain stopwatch run has no extra detail.
type StopwatchMeta struct{}

func (StopwatchMeta) ToolName() Tool { return ToolStopwatch }

// LapTimerMeta summarizes the laps of a single run. Durations are in
// milliseconds; Consistency is the population standard deviation of the
// per-lap durations.
type LapTimerMeta struct {
	LapCount    int     `json:"lapCount"`
	AverageLap  float64 `json:"averageLap"`
	Consistency float64 `json:"consistency"`
	FastestLap  float64 `json:"fastestLap"`
	SlowestLap  float64 `json:"slowestLap"`
}

func (LapTimerMeta) ToolName() Tool { return ToolLapTimer }

// CountdownMeta records whether the countdown ran to zero, how often it
// was paused, and the originally configured target in milliseconds.
type CountdownMeta struct {
	Completed      bool  `json:"completed"`
	Pauses         int   `json:"pauses"`
	TargetDuration int64 `json:"target_duration"`
}

func (CountdownMeta) ToolName() Tool { return ToolCountdown }

// IntervalMeta records an interval-timer workout. Work and rest settings
// are in seconds, as configured.
type IntervalMeta struct {
	RoundsCompleted int  `json:"rounds_completed"`
	WorkSetting     int  `json:"work_setting"`
	RestSetting     int  `json:"rest_setting"`
	Completed       bool `json:"completed"`
}

func (IntervalMeta) ToolName() Tool { return ToolInterval }

// ChessMeta records how a chess-clock game ended: "player_<n>_won" or "reset".
type ChessMeta struct {
	Result string `json:"result"`
}

func (ChessMeta) ToolName() Tool { return ToolChess }

// EncodeMeta serializes a payload to the JSON text stored on the session.
// A nil payload encodes as an empty object.
func EncodeMeta(meta ToolMeta) (string, error) {
	if meta == nil {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

// DecodeMeta parses raw JSON into the payload type for tool. Absent
// numeric fields come back as zero and absent booleans as false, so
// malformed or partial metadata degrades instead of failing aggregation.
func DecodeMeta(tool Tool, raw string) (ToolMeta, error) {
	if raw == "" {
		raw = "{}"
	}
	switch tool {
	case ToolStopwatch:
		return StopwatchMeta{}, nil
	case ToolLapTimer:
		var m LapTimerMeta
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return LapTimerMeta{}, nil
		}
		return m, nil
	case ToolCountdown:
		var m CountdownMeta
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return CountdownMeta{}, nil
		}
		return m, nil
	case ToolInterval:
		var m IntervalMeta
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return IntervalMeta{}, nil
		}
		return m, nil
	case ToolChess:
		var m ChessMeta
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return ChessMeta{}, nil
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
}
