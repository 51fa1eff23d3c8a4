package analytics

import (
	"math"

	"github.com/Parthajit/Timer-Tools/internal/models"
)

// LapAnalytics derives per-run lap statistics from cumulative lap marks.
// Marks arrive most-recent-first, each being the total elapsed time at the
// moment of the lap press: [lap3_end, lap2_end, lap1_end]. The first
// chronological lap's duration equals its raw mark; every later lap is the
// difference from the previous mark. Consistency is the population standard
// deviation of the per-lap durations.
func LapAnalytics(cumulativeMs []int64) models.LapTimerMeta {
	if len(cumulativeMs) == 0 {
		return models.LapTimerMeta{}
	}

	// reverse to chronological order, then diff
	durations := make([]float64, len(cumulativeMs))
	for i := range cumulativeMs {
		durations[i] = float64(cumulativeMs[len(cumulativeMs)-1-i])
	}
	for i := len(durations) - 1; i > 0; i-- {
		durations[i] -= durations[i-1]
	}

	var sum float64
	fastest, slowest := durations[0], durations[0]
	for _, d := range durations {
		sum += d
		if d < fastest {
			fastest = d
		}
		if d > slowest {
			slowest = d
		}
	}
	avg := sum / float64(len(durations))

	var variance float64
	for _, d := range durations {
		variance += (d - avg) * (d - avg)
	}
	variance /= float64(len(durations))

	return models.LapTimerMeta{
		LapCount:    len(durations),
		AverageLap:  avg,
		Consistency: math.Sqrt(variance),
		FastestLap:  fastest,
		SlowestLap:  slowest,
	}
}
