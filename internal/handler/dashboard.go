package handler

import (
	"net/http"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/analytics"
	"github.com/Parthajit/Timer-Tools/internal/middleware"
	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregated analytics view.
type DashboardHandler struct {
	Aggregator *analytics.Aggregator
}

func NewDashboardHandler(agg *analytics.Aggregator) *DashboardHandler {
	return &DashboardHandler{Aggregator: agg}
}

// resolveRange turns the query parameters into a concrete [start, end].
// Presets: week (default), month, all-time. Custom ranges come from
// start/end and are not ordering-checked; start after end yields an
// empty report, not an error.
func resolveRange(c *gin.Context, sessions []models.TimerSession) (time.Time, time.Time, bool) {
	preset := c.DefaultQuery("range", "week")
	if preset != "custom" {
		start, end := analytics.RangeForPreset(preset, sessions, time.Now())
		return start, end, true
	}

	start, err := util.ValidateDate(c.Query("start"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := util.ValidateDate(c.Query("end"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// GetDashboard returns chart series, summary stats, per-tool metrics and
// the performance brief for the requested tool and date range.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	tool := c.DefaultQuery("tool", analytics.AllTools)
	if tool != analytics.AllTools && !models.ValidTool(tool) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown tool")
		return
	}

	ownerID := ""
	if user := middleware.CurrentUser(c); user != nil {
		ownerID = user.ID
	}

	res := h.Aggregator.Sessions(c.Request.Context(), ownerID)

	start, end, ok := resolveRange(c, res.Sessions)
	if !ok {
		return
	}

	report := analytics.Aggregate(res.Sessions, tool, start, end)

	data := util.Response{
		"chart_series": report.ChartSeries,
		"summary":      report.Summary,
		"metrics":      report.Metrics,
		"brief":        report.Brief,
		"tool":         tool,
		"start":        start.Format("2006-01-02"),
		"end":          end.Format("2006-01-02"),
	}
	if res.Degraded {
		data["degraded"] = true
		data["notice"] = res.Reason
	}
	util.Success(c, data)
}
