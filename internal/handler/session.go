package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Parthajit/Timer-Tools/internal/analytics"
	"github.com/Parthajit/Timer-Tools/internal/middleware"
	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionHandler records finished timing runs and lists the history.
// Anonymous callers are served from the local cache.
type SessionHandler struct {
	Recorder   *analytics.Recorder
	Aggregator *analytics.Aggregator
}

func NewSessionHandler(rec *analytics.Recorder, agg *analytics.Aggregator) *SessionHandler {
	return &SessionHandler{Recorder: rec, Aggregator: agg}
}

type recordSessionReq struct {
	Tool     string          `json:"tool" binding:"required"`
	Duration int64           `json:"duration"`
	Metadata json.RawMessage `json:"metadata"`
	// Laps carries raw cumulative lap marks (most-recent-first) for the
	// lap timer; when present the server derives the lap statistics.
	Laps []int64 `json:"laps"`
}

// RecordSession accepts one finished run. Sub-second runs are acknowledged
// and silently dropped, mirroring the recorder's accidental-tap guard.
func (h *SessionHandler) RecordSession(c *gin.Context) {
	var req recordSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if !models.ValidTool(req.Tool) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown tool")
		return
	}
	if err := util.ValidateDuration(req.Duration); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid duration")
		return
	}

	tool := models.Tool(req.Tool)
	var meta models.ToolMeta
	if tool == models.ToolLapTimer && len(req.Laps) > 0 {
		meta = analytics.LapAnalytics(req.Laps)
	} else {
		decoded, err := models.DecodeMeta(tool, string(req.Metadata))
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid metadata")
			return
		}
		meta = decoded
	}

	ownerID := ""
	if user := middleware.CurrentUser(c); user != nil {
		ownerID = user.ID
	}

	h.Recorder.Record(c.Request.Context(), ownerID, tool, req.Duration, meta)

	util.Success(c, util.Response{
		"recorded": req.Duration >= analytics.MinSessionMs,
	})
}

// ListSessions returns the merged history newest-first, with an advisory
// notice when remote access is degraded.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	ownerID := ""
	if user := middleware.CurrentUser(c); user != nil {
		ownerID = user.ID
	}

	res := h.Aggregator.Sessions(c.Request.Context(), ownerID)

	data := util.Response{
		"sessions": res.Sessions,
		"total":    len(res.Sessions),
	}
	if res.Degraded {
		data["degraded"] = true
		data["notice"] = res.Reason
	}
	util.Success(c, data)
}
