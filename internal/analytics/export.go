package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/util"
)

// csvHeader is the fixed export header row.
var csvHeader = []string{"ID", "Date", "Time", "Tool", "Duration (ms)", "Duration (formatted)", "Metadata"}

// ExportCSV renders the filtered, sorted session list as CSV text. The
// header row is plain; every session value is double-quoted with embedded
// quotes doubled, so the metadata JSON survives spreadsheet import intact.
// Pure function of its input.
func ExportCSV(sessions []models.TimerSession) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')
	for _, s := range sessions {
		meta := s.Metadata
		if meta == "" {
			meta = "{}"
		}
		writeRow(&b, []string{
			s.ID,
			s.StartedAt.Format("2006-01-02"),
			s.StartedAt.Format("15:04:05"),
			string(s.Tool),
			fmt.Sprintf("%d", s.Duration),
			util.FormatDurationHMS(s.Duration),
			meta,
		})
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportFilename builds the download name: <prefix>_<toolFilter>_<date>.csv.
func ExportFilename(prefix, tool string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", prefix, tool, now.Format("2006-01-02"))
}
