package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/analytics"
	"github.com/Parthajit/Timer-Tools/internal/middleware"
	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves session-history downloads, filtered the same way
// the dashboard is.
type ExportHandler struct {
	Aggregator *analytics.Aggregator
	Prefix     string
}

func NewExportHandler(agg *analytics.Aggregator, prefix string) *ExportHandler {
	if prefix == "" {
		prefix = "timer_data"
	}
	return &ExportHandler{Aggregator: agg, Prefix: prefix}
}

// filteredSessions applies the shared tool/range query parameters.
func (h *ExportHandler) filteredSessions(c *gin.Context) ([]models.TimerSession, string, bool) {
	tool := c.DefaultQuery("tool", analytics.AllTools)
	if tool != analytics.AllTools && !models.ValidTool(tool) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown tool")
		return nil, "", false
	}

	ownerID := ""
	if user := middleware.CurrentUser(c); user != nil {
		ownerID = user.ID
	}
	res := h.Aggregator.Sessions(c.Request.Context(), ownerID)

	start, end, ok := resolveRange(c, res.Sessions)
	if !ok {
		return nil, "", false
	}

	return analytics.Filter(res.Sessions, tool, start, end), tool, true
}

// ExportCSV streams the filtered history as a CSV download.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	sessions, tool, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	filename := analytics.ExportFilename(h.Prefix, tool, time.Now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	c.String(http.StatusOK, analytics.ExportCSV(sessions))
}

// ExportXLSX streams the filtered history as a spreadsheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	sessions, tool, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Date", "Time", "Tool", "Duration (ms)", "Duration (formatted)", "Metadata"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx, s := range sessions {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.StartedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.StartedAt.Format("15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(s.Tool))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.Duration)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), util.FormatDurationHMS(s.Duration))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.Metadata)
	}

	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 40)

	filename := fmt.Sprintf("%s_%s_%s.xlsx", h.Prefix, tool, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
