package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/store"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/sirupsen/logrus"
)

// AllTools selects every tool in Aggregate and Filter.
const AllTools = "all"

// epochFallback anchors the all-time preset when no sessions exist yet.
var epochFallback = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.Local)

// Aggregator reads the full session history and shapes it for the
// dashboard. It is stateless between calls; every invocation recomputes
// from the stores.
type Aggregator struct {
	remote store.SessionStore
	local  *store.LocalCache
	log    *logrus.Logger
}

func NewAggregator(remote store.SessionStore, local *store.LocalCache, log *logrus.Logger) *Aggregator {
	return &Aggregator{remote: remote, local: local, log: log}
}

// SessionsResult is the best-available history plus an explicit degradation
// tag, so callers (and tests) can see the fallback path instead of relying
// on log side effects.
type SessionsResult struct {
	Sessions []models.TimerSession
	Degraded bool
	Reason   string
}

// Sessions returns all available records sorted newest-first. Authenticated
// callers get their remote history merged with the local cache; on remote
// failure the result degrades to local-only and says so. This never fails
// outward.
func (a *Aggregator) Sessions(ctx context.Context, ownerID string) SessionsResult {
	local := a.local.All()

	if ownerID == "" {
		return SessionsResult{Sessions: sortNewestFirst(local)}
	}

	remote, err := a.remote.ByOwner(ctx, ownerID)
	if err != nil {
		a.log.WithError(err).Warn("session fetch failed, falling back to local cache")
		return SessionsResult{
			Sessions: sortNewestFirst(local),
			Degraded: true,
			Reason:   "showing local history only",
		}
	}

	// remote records win on id collisions; local entries are never
	// filtered by identity
	seen := make(map[string]bool, len(remote))
	merged := make([]models.TimerSession, 0, len(remote)+len(local))
	for _, s := range remote {
		seen[s.ID] = true
		merged = append(merged, s)
	}
	for _, s := range local {
		if !seen[s.ID] {
			merged = append(merged, s)
		}
	}
	return SessionsResult{Sessions: sortNewestFirst(merged)}
}

func sortNewestFirst(sessions []models.TimerSession) []models.TimerSession {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions
}

// Filter keeps sessions matching the tool selector (AllTools matches
// everything) whose timestamp falls within [start, endOfDay(end)], sorted
// newest-first. The end date's time is forced to 23:59:59.999 so the whole
// end day counts.
func Filter(sessions []models.TimerSession, tool string, start, end time.Time) []models.TimerSession {
	from := startOfDay(start)
	to := endOfDay(end)

	var out []models.TimerSession
	for _, s := range sessions {
		if tool != AllTools && string(s.Tool) != tool {
			continue
		}
		if s.StartedAt.Before(from) || s.StartedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return sortNewestFirst(out)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// ChartPoint is one calendar-day bucket of the chart series. The per-tool
// fields are populated only when a single tool is selected.
type ChartPoint struct {
	Date           string  `json:"date"` // YYYY-MM-DD bucket key
	Name           string  `json:"name"` // short display label, e.g. "Jun 2"
	Sessions       int     `json:"sessions"`
	Hours          float64 `json:"hours"` // total duration, 2 decimals
	ConversionRate float64 `json:"conversion_rate"`
	AvgLapSeconds  float64 `json:"avg_lap_seconds"`
	TotalRounds    int     `json:"total_rounds"`
}

// Summary is the headline stat row of the dashboard.
type Summary struct {
	TotalSessions int    `json:"total_sessions"`
	TotalTime     string `json:"total_time"` // H:MM:SS
	AvgTime       string `json:"avg_time"`   // H:MM:SS, zero when empty
}

// Metric is one tool-specific headline figure.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is everything the dashboard renders for one filter/range choice.
type Report struct {
	ChartSeries []ChartPoint `json:"chart_series"`
	Summary     Summary      `json:"summary"`
	Metrics     []Metric     `json:"metrics"`
	Brief       string       `json:"brief"`
}

// briefPlaceholder is returned when no sessions match the filter.
const briefPlaceholder = "Ready to start tracking? Complete a session to see your performance summary here."

type dayBucket struct {
	point      ChartPoint
	durationMs int64
	completed  int
	pauses     int
	lapCount   int
	avgLapSum  float64
	consSum    float64
	rounds     int
}

// Aggregate buckets the session history by calendar day over
// [start, end] and derives chart series, summary stats, per-tool metrics
// and a natural-language brief. Empty days still get a bucket; a start
// after end yields an empty series and zeroed stats, not an error.
func Aggregate(sessions []models.TimerSession, tool string, start, end time.Time) Report {
	filtered := Filter(sessions, tool, start, end)

	// one bucket per day, inclusive on both ends
	keys := make([]string, 0)
	buckets := make(map[string]*dayBucket)
	for d := startOfDay(start); !d.After(startOfDay(end)); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		keys = append(keys, key)
		buckets[key] = &dayBucket{point: ChartPoint{Date: key, Name: d.Format("Jan 2")}}
	}

	var (
		totalDuration int64
		totalCount    int
		totalDone     int
		totalPauses   int
		totalLaps     int
		totalRounds   int
		avgLapSum     float64
		consSum       float64
		toolOrder     []models.Tool
		toolUsage     = make(map[models.Tool]int)
	)

	for _, s := range filtered {
		b, ok := buckets[s.StartedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		b.point.Sessions++
		b.durationMs += s.Duration
		totalDuration += s.Duration
		totalCount++
		if toolUsage[s.Tool] == 0 {
			toolOrder = append(toolOrder, s.Tool)
		}
		toolUsage[s.Tool]++

		if tool == AllTools {
			continue
		}
		meta, err := s.Meta()
		if err != nil {
			continue
		}
		switch m := meta.(type) {
		case models.CountdownMeta:
			if m.Completed {
				b.completed++
				totalDone++
			}
			b.pauses += m.Pauses
			totalPauses += m.Pauses
		case models.LapTimerMeta:
			b.lapCount += m.LapCount
			totalLaps += m.LapCount
			b.avgLapSum += m.AverageLap
			b.consSum += m.Consistency
			avgLapSum += m.AverageLap
			consSum += m.Consistency
		case models.IntervalMeta:
			b.rounds += m.RoundsCompleted
			totalRounds += m.RoundsCompleted
		}
	}

	series := make([]ChartPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		b.point.Hours = round2(float64(b.durationMs) / 3600000)
		if b.point.Sessions > 0 {
			b.point.ConversionRate = round1(float64(b.completed) / float64(b.point.Sessions) * 100)
			b.point.AvgLapSeconds = round2(b.avgLapSum / float64(b.point.Sessions) / 1000)
		}
		b.point.TotalRounds = b.rounds
		series = append(series, b.point)
	}

	totalTime := util.FormatDurationHMS(totalDuration)
	summary := Summary{
		TotalSessions: totalCount,
		TotalTime:     totalTime,
		AvgTime:       util.FormatDurationHMS(0),
	}
	if totalCount > 0 {
		summary.AvgTime = util.FormatDurationHMS(totalDuration / int64(totalCount))
	}

	brief := briefPlaceholder
	if totalCount > 0 {
		top := toolOrder[0]
		for _, t := range toolOrder {
			if toolUsage[t] > toolUsage[top] {
				top = t
			}
		}
		hours := float64(totalDuration) / 3600000
		intensity := "Light"
		if hours > 10 {
			intensity = "High Intensity"
		} else if hours > 2 {
			intensity = "Moderate"
		}
		brief = fmt.Sprintf("You've had a %s period with %d sessions. Your primary focus was the %s, averaging %s per session.",
			intensity, totalCount, top, summary.AvgTime)
	}

	return Report{
		ChartSeries: series,
		Summary:     summary,
		Metrics: toolMetrics(tool, totalCount, totalDuration, totalTime,
			totalDone, totalPauses, totalLaps, totalRounds, avgLapSum, consSum),
		Brief: brief,
	}
}

// toolMetrics mirrors the per-tool stat cards of the dashboard. The
// all-tools view has no tool-specific cards.
func toolMetrics(tool string, count int, duration int64, totalTime string,
	done, pauses, laps, rounds int, avgLapSum, consSum float64) []Metric {

	avg := func(sum float64) string {
		if count == 0 {
			return util.FormatDurationHMS(0)
		}
		return util.FormatDurationHMS(int64(sum / float64(count)))
	}
	avgDuration := util.FormatDurationHMS(0)
	if count > 0 {
		avgDuration = util.FormatDurationHMS(duration / int64(count))
	}

	switch models.Tool(tool) {
	case models.ToolStopwatch:
		return []Metric{
			{Label: "Total Frequency", Value: fmt.Sprintf("%d", count)},
			{Label: "Accumulated Time", Value: totalTime},
			{Label: "Avg Duration", Value: avgDuration},
		}
	case models.ToolCountdown:
		rate := "0%"
		interruptions := "0"
		if count > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(done)/float64(count)*100)
			interruptions = fmt.Sprintf("%.1f", float64(pauses)/float64(count))
		}
		return []Metric{
			{Label: "Completion Rate", Value: rate},
			{Label: "Avg Interruptions", Value: interruptions},
			{Label: "Focused Time", Value: totalTime},
		}
	case models.ToolLapTimer:
		return []Metric{
			{Label: "Avg Lap Time", Value: avg(avgLapSum)},
			{Label: "Consistency", Value: avg(consSum)},
			{Label: "Total Laps", Value: fmt.Sprintf("%d", laps)},
		}
	case models.ToolInterval:
		return []Metric{
			{Label: "Total Rounds", Value: fmt.Sprintf("%d", rounds)},
			{Label: "Workouts", Value: fmt.Sprintf("%d", count)},
			{Label: "Active Time", Value: totalTime},
		}
	case models.ToolChess:
		return []Metric{
			{Label: "Games Played", Value: fmt.Sprintf("%d", count)},
			{Label: "Total Playtime", Value: totalTime},
			{Label: "Avg Game Length", Value: avgDuration},
		}
	default:
		return nil
	}
}

// RangeForPreset resolves a date-range preset to [start, end]. Week and
// month look back from now; all-time starts at the earliest session (or a
// fixed epoch when none exist). Unknown presets behave like week.
func RangeForPreset(preset string, sessions []models.TimerSession, now time.Time) (time.Time, time.Time) {
	switch preset {
	case "month":
		return now.AddDate(0, 0, -30), now
	case "all-time":
		earliest := epochFallback
		for i, s := range sessions {
			if i == 0 || s.StartedAt.Before(earliest) {
				earliest = s.StartedAt
			}
		}
		return earliest, now
	default: // week
		return now.AddDate(0, 0, -7), now
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
