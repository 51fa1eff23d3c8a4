package analytics

import (
	"math"
	"math/rand"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/store"

	"github.com/google/uuid"
)

const mockSessionCount = 70

// SeedMockData fills an empty local cache with synthetic history spread
// over the last 30 days, so a first-time dashboard has something to show.
// Idempotent: it does nothing once any local session exists or a previous
// seed ran.
func SeedMockData(local *store.LocalCache, now time.Time) error {
	if local.Seeded() || len(local.All()) > 0 {
		return nil
	}

	tools := []models.Tool{models.ToolStopwatch, models.ToolCountdown, models.ToolInterval, models.ToolLapTimer}
	sessions := make([]models.TimerSession, 0, mockSessionCount)

	for i := 0; i < mockSessionCount; i++ {
		startedAt := now.AddDate(0, 0, -rand.Intn(30))
		tool := tools[rand.Intn(len(tools))]
		duration := int64(rand.Intn(45*60*1000)) + 5000

		var meta models.ToolMeta = models.StopwatchMeta{}
		switch tool {
		case models.ToolInterval:
			meta = models.IntervalMeta{
				RoundsCompleted: rand.Intn(8) + 1,
				WorkSetting:     20,
				RestSetting:     10,
				Completed:       rand.Float64() > 0.4,
			}
		case models.ToolCountdown:
			meta = models.CountdownMeta{
				Completed:      rand.Float64() > 0.4,
				Pauses:         rand.Intn(5),
				TargetDuration: 300000,
			}
		case models.ToolLapTimer:
			lapCount := rand.Intn(10) + 1
			avg := float64(rand.Intn(50000) + 20000)
			meta = models.LapTimerMeta{
				LapCount:    lapCount,
				AverageLap:  avg,
				Consistency: math.Sqrt(float64(rand.Intn(2000000))),
				FastestLap:  avg - 5000,
				SlowestLap:  avg + 5000,
			}
			duration = int64(lapCount) * int64(avg)
		}

		raw, err := models.EncodeMeta(meta)
		if err != nil {
			return err
		}
		sessions = append(sessions, models.TimerSession{
			ID:        uuid.NewString(),
			Tool:      tool,
			Duration:  duration,
			StartedAt: startedAt,
			Metadata:  raw,
		})
	}

	if err := local.Replace(sessions); err != nil {
		return err
	}
	return local.MarkSeeded()
}
