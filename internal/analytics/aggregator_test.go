package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/store"
)

func mustMeta(t *testing.T, meta models.ToolMeta) string {
	t.Helper()
	raw, err := models.EncodeMeta(meta)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func session(id string, tool models.Tool, durationMs int64, startedAt time.Time) models.TimerSession {
	return models.TimerSession{
		ID:        id,
		Tool:      tool,
		Duration:  durationMs,
		StartedAt: startedAt,
		Metadata:  "{}",
	}
}

func TestAggregator_MergesRemoteAndLocalNewestFirst(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	remote := &fakeRemote{sessions: []models.TimerSession{
		func() models.TimerSession {
			s := session("r1", models.ToolStopwatch, 5000, day.Add(10*time.Hour))
			s.UserID = "user-1"
			return s
		}(),
	}}
	local := store.NewLocalCache(store.NewMemKV())
	if err := local.Append(session("l1", models.ToolCountdown, 7000, day.Add(12*time.Hour))); err != nil {
		t.Fatal(err)
	}
	agg := NewAggregator(remote, local, quietLogger())

	res := agg.Sessions(context.Background(), "user-1")

	if res.Degraded {
		t.Errorf("Degraded = true, want false")
	}
	if len(res.Sessions) != 2 {
		t.Fatalf("Sessions() = %d records, want 2", len(res.Sessions))
	}
	if res.Sessions[0].ID != "l1" || res.Sessions[1].ID != "r1" {
		t.Errorf("order = [%s %s], want [l1 r1]", res.Sessions[0].ID, res.Sessions[1].ID)
	}
}

func TestAggregator_DuplicateIDKeepsRemoteCopy(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	remote := &fakeRemote{sessions: []models.TimerSession{
		func() models.TimerSession {
			s := session("dup", models.ToolStopwatch, 5000, day.Add(10*time.Hour))
			s.UserID = "user-1"
			return s
		}(),
	}}
	local := store.NewLocalCache(store.NewMemKV())
	// stale local copy of the same record: different duration, no owner
	if err := local.Append(session("dup", models.ToolStopwatch, 9999, day.Add(10*time.Hour))); err != nil {
		t.Fatal(err)
	}
	agg := NewAggregator(remote, local, quietLogger())

	res := agg.Sessions(context.Background(), "user-1")

	if len(res.Sessions) != 1 {
		t.Fatalf("Sessions() = %d records, want 1", len(res.Sessions))
	}
	got := res.Sessions[0]
	if got.ID != "dup" || got.UserID != "user-1" || got.Duration != 5000 {
		t.Errorf("surviving record = %+v, want the hosted copy", got)
	}
}

func TestAggregator_RemoteFailureDegradesToLocal(t *testing.T) {
	remote := &fakeRemote{failQuery: errors.New("offline")}
	local := store.NewLocalCache(store.NewMemKV())
	if err := local.Append(session("l1", models.ToolStopwatch, 5000, time.Now())); err != nil {
		t.Fatal(err)
	}
	agg := NewAggregator(remote, local, quietLogger())

	res := agg.Sessions(context.Background(), "user-1")

	if !res.Degraded {
		t.Error("Degraded = false, want true")
	}
	if res.Reason == "" {
		t.Error("degraded result has empty reason")
	}
	if len(res.Sessions) != 1 {
		t.Errorf("Sessions() = %d records, want 1", len(res.Sessions))
	}
}

func TestAggregator_AnonymousIsLocalOnly(t *testing.T) {
	remote := &fakeRemote{failQuery: errors.New("must not be called")}
	local := store.NewLocalCache(store.NewMemKV())
	if err := local.Append(session("l1", models.ToolStopwatch, 5000, time.Now())); err != nil {
		t.Fatal(err)
	}
	agg := NewAggregator(remote, local, quietLogger())

	res := agg.Sessions(context.Background(), "")

	if res.Degraded {
		t.Error("anonymous read reported degraded")
	}
	if len(res.Sessions) != 1 {
		t.Errorf("Sessions() = %d records, want 1", len(res.Sessions))
	}
}

func TestAggregate_SingleDayBucket(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sessions := []models.TimerSession{
		session("a", models.ToolStopwatch, 3600000, day.Add(9*time.Hour)),
		session("b", models.ToolStopwatch, 1800000, day.Add(23*time.Hour+30*time.Minute)), // late evening still counts
		session("c", models.ToolStopwatch, 5000, day.AddDate(0, 0, 1)),                    // next day, excluded
		session("d", models.ToolStopwatch, 5000, day.AddDate(0, 0, -1)),                   // previous day, excluded
	}

	report := Aggregate(sessions, AllTools, day, day)

	if len(report.ChartSeries) != 1 {
		t.Fatalf("chart has %d points, want 1", len(report.ChartSeries))
	}
	p := report.ChartSeries[0]
	if p.Date != "2025-06-10" {
		t.Errorf("bucket key = %q, want 2025-06-10", p.Date)
	}
	if p.Name != "Jun 10" {
		t.Errorf("bucket label = %q, want %q", p.Name, "Jun 10")
	}
	if p.Sessions != 2 {
		t.Errorf("bucket sessions = %d, want 2", p.Sessions)
	}
	if p.Hours != 1.5 {
		t.Errorf("bucket hours = %v, want 1.5", p.Hours)
	}
	if report.Summary.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", report.Summary.TotalSessions)
	}
}

func TestAggregate_EmptyDaysGetBuckets(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	report := Aggregate(nil, AllTools, start, end)

	if len(report.ChartSeries) != 7 {
		t.Fatalf("chart has %d points, want 7", len(report.ChartSeries))
	}
	for _, p := range report.ChartSeries {
		if p.Sessions != 0 || p.Hours != 0 {
			t.Errorf("empty bucket %s not zeroed: %+v", p.Date, p)
		}
	}
	if report.Summary.TotalTime != "0:00:00" || report.Summary.AvgTime != "0:00:00" {
		t.Errorf("empty summary = %+v, want zeroed times", report.Summary)
	}
}

func TestAggregate_StartAfterEndIsEmptyNotError(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sessions := []models.TimerSession{session("a", models.ToolStopwatch, 5000, day)}

	report := Aggregate(sessions, AllTools, day.AddDate(0, 0, 5), day)

	if len(report.ChartSeries) != 0 {
		t.Errorf("chart has %d points, want 0", len(report.ChartSeries))
	}
	if report.Summary.TotalSessions != 0 {
		t.Errorf("TotalSessions = %d, want 0", report.Summary.TotalSessions)
	}
	if report.Brief != briefPlaceholder {
		t.Errorf("Brief = %q, want placeholder", report.Brief)
	}
}

func TestAggregate_ToolFilter(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sessions := []models.TimerSession{
		session("a", models.ToolStopwatch, 5000, day.Add(time.Hour)),
		session("b", models.ToolCountdown, 7000, day.Add(2*time.Hour)),
	}

	report := Aggregate(sessions, "countdown", day, day)

	if report.Summary.TotalSessions != 1 {
		t.Errorf("TotalSessions = %d, want 1", report.Summary.TotalSessions)
	}
}

func TestAggregate_BriefMentionsCountAndTopTool(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sessions := []models.TimerSession{
		session("a", models.ToolCountdown, 5000, day.Add(1*time.Hour)),
		session("b", models.ToolCountdown, 5000, day.Add(2*time.Hour)),
		session("c", models.ToolStopwatch, 5000, day.Add(3*time.Hour)),
	}

	report := Aggregate(sessions, AllTools, day, day)

	if !strings.Contains(report.Brief, "3 sessions") {
		t.Errorf("Brief %q does not mention the session count", report.Brief)
	}
	if !strings.Contains(report.Brief, "countdown") {
		t.Errorf("Brief %q does not mention the dominant tool", report.Brief)
	}
	if !strings.Contains(report.Brief, "Light") {
		t.Errorf("Brief %q does not carry the Light intensity tier", report.Brief)
	}
}

func TestAggregate_IntensityTiers(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		durationMs int64
		want       string
	}{
		{30 * 60 * 1000, "Light"},
		{3 * 3600 * 1000, "Moderate"},
		{11 * 3600 * 1000, "High Intensity"},
	}

	for _, tc := range testCases {
		sessions := []models.TimerSession{session("a", models.ToolStopwatch, tc.durationMs, day.Add(time.Hour))}
		report := Aggregate(sessions, AllTools, day, day)
		if !strings.Contains(report.Brief, tc.want) {
			t.Errorf("Brief for %dms = %q, want tier %q", tc.durationMs, report.Brief, tc.want)
		}
	}
}

func TestAggregate_CountdownMetrics(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	done := session("a", models.ToolCountdown, 5000, day.Add(time.Hour))
	done.Metadata = mustMeta(t, models.CountdownMeta{Completed: true, Pauses: 3, TargetDuration: 10000})
	abandoned := session("b", models.ToolCountdown, 5000, day.Add(2*time.Hour))
	abandoned.Metadata = mustMeta(t, models.CountdownMeta{Completed: false, Pauses: 1, TargetDuration: 10000})

	report := Aggregate([]models.TimerSession{done, abandoned}, "countdown", day, day)

	if len(report.Metrics) != 3 {
		t.Fatalf("metrics = %d entries, want 3", len(report.Metrics))
	}
	if report.Metrics[0].Label != "Completion Rate" || report.Metrics[0].Value != "50.0%" {
		t.Errorf("completion metric = %+v, want 50.0%%", report.Metrics[0])
	}
	if report.Metrics[1].Value != "2.0" {
		t.Errorf("interruption metric = %+v, want 2.0", report.Metrics[1])
	}
}

func TestAggregate_LapTimerMetrics(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	run := session("a", models.ToolLapTimer, 60000, day.Add(time.Hour))
	run.Metadata = mustMeta(t, models.LapTimerMeta{LapCount: 4, AverageLap: 15000, Consistency: 2000})

	report := Aggregate([]models.TimerSession{run}, "laptimer", day, day)

	if report.Metrics[2].Label != "Total Laps" || report.Metrics[2].Value != "4" {
		t.Errorf("lap metric = %+v, want 4 laps", report.Metrics[2])
	}
	if report.ChartSeries[0].AvgLapSeconds != 15 {
		t.Errorf("AvgLapSeconds = %v, want 15", report.ChartSeries[0].AvgLapSeconds)
	}
}

func TestAggregate_MalformedMetadataCountsAsZero(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	run := session("a", models.ToolInterval, 60000, day.Add(time.Hour))
	run.Metadata = "{broken json"

	report := Aggregate([]models.TimerSession{run}, "interval", day, day)

	if report.Summary.TotalSessions != 1 {
		t.Errorf("TotalSessions = %d, want 1", report.Summary.TotalSessions)
	}
	if report.Metrics[0].Value != "0" {
		t.Errorf("rounds metric = %+v, want 0", report.Metrics[0])
	}
}

func TestAggregate_EndToEndLocalScenario(t *testing.T) {
	// record three stopwatch sessions on the same day with no identity,
	// read them back and aggregate over that single day
	remote := &fakeRemote{failAdd: errors.New("must not be called"), failQuery: errors.New("must not be called")}
	local := store.NewLocalCache(store.NewMemKV())
	rec := NewRecorder(remote, local, quietLogger())
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)
	stamp := day.Add(9 * time.Hour)
	rec.now = func() time.Time {
		stamp = stamp.Add(time.Minute)
		return stamp
	}

	for _, ms := range []int64{5000, 10000, 15000} {
		rec.Record(context.Background(), "", models.ToolStopwatch, ms, models.StopwatchMeta{})
	}

	agg := NewAggregator(remote, local, quietLogger())
	res := agg.Sessions(context.Background(), "")
	if len(res.Sessions) != 3 {
		t.Fatalf("Sessions() = %d records, want 3", len(res.Sessions))
	}
	for i := 1; i < len(res.Sessions); i++ {
		if res.Sessions[i-1].StartedAt.Before(res.Sessions[i].StartedAt) {
			t.Errorf("sessions not sorted newest-first at index %d", i)
		}
	}

	report := Aggregate(res.Sessions, AllTools, day, day)
	if report.Summary.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", report.Summary.TotalSessions)
	}
	if report.Summary.TotalTime != "0:00:30" {
		t.Errorf("TotalTime = %q, want 0:00:30", report.Summary.TotalTime)
	}
	if report.Summary.AvgTime != "0:00:10" {
		t.Errorf("AvgTime = %q, want 0:00:10", report.Summary.AvgTime)
	}
}

func TestRangeForPreset(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	start, end := RangeForPreset("week", nil, now)
	if !end.Equal(now) || !start.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("week preset = [%v, %v]", start, end)
	}

	start, _ = RangeForPreset("month", nil, now)
	if !start.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("month preset start = %v", start)
	}

	earliest := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	sessions := []models.TimerSession{
		session("a", models.ToolStopwatch, 5000, now.AddDate(0, 0, -2)),
		session("b", models.ToolStopwatch, 5000, earliest),
	}
	start, _ = RangeForPreset("all-time", sessions, now)
	if !start.Equal(earliest) {
		t.Errorf("all-time preset start = %v, want %v", start, earliest)
	}

	start, _ = RangeForPreset("all-time", nil, now)
	if start.Year() != 2020 {
		t.Errorf("all-time fallback start = %v, want 2020 epoch", start)
	}
}

func TestSeedMockData_Idempotent(t *testing.T) {
	local := store.NewLocalCache(store.NewMemKV())
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if err := SeedMockData(local, now); err != nil {
		t.Fatalf("SeedMockData() error = %v", err)
	}
	first := len(local.All())
	if first == 0 {
		t.Fatal("seeder produced no sessions")
	}

	if err := SeedMockData(local, now); err != nil {
		t.Fatalf("second SeedMockData() error = %v", err)
	}
	if got := len(local.All()); got != first {
		t.Errorf("second seed changed count: %d -> %d", first, got)
	}
}

func TestSeedMockData_SkipsNonEmptyCache(t *testing.T) {
	local := store.NewLocalCache(store.NewMemKV())
	if err := local.Append(session("a", models.ToolStopwatch, 5000, time.Now())); err != nil {
		t.Fatal(err)
	}

	if err := SeedMockData(local, time.Now()); err != nil {
		t.Fatalf("SeedMockData() error = %v", err)
	}
	if got := len(local.All()); got != 1 {
		t.Errorf("cache has %d sessions after seed, want the 1 real record", got)
	}
}

func TestSeedMockData_SchemaMatchesCatalogue(t *testing.T) {
	local := store.NewLocalCache(store.NewMemKV())
	if err := SeedMockData(local, time.Now()); err != nil {
		t.Fatal(err)
	}

	for _, s := range local.All() {
		if s.Duration < 1000 {
			t.Errorf("seeded session %s under threshold: %d", s.ID, s.Duration)
		}
		meta, err := s.Meta()
		if err != nil {
			t.Fatalf("Meta() for %s error = %v", s.Tool, err)
		}
		if meta.ToolName() != s.Tool {
			t.Errorf("meta tool %q != session tool %q", meta.ToolName(), s.Tool)
		}
	}
}
