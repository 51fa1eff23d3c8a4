// Package analytics is the session pipeline: recording completed timing
// runs, aggregating the history into dashboard data, and exporting it.
package analytics

import (
	"context"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MinSessionMs is the recording threshold. Runs shorter than this are
// treated as accidental taps and dropped without error.
const MinSessionMs = 1000

// Recorder turns an in-progress timing run into zero or one durable
// TimerSession records. Stores are injected so tests can substitute fakes.
type Recorder struct {
	remote store.SessionStore
	local  *store.LocalCache
	log    *logrus.Logger
	now    func() time.Time
}

func NewRecorder(remote store.SessionStore, local *store.LocalCache, log *logrus.Logger) *Recorder {
	return &Recorder{
		remote: remote,
		local:  local,
		log:    log,
		now:    time.Now,
	}
}

// Record persists one session for the given owner. ownerID empty means
// anonymous: the record goes straight to the local cache. Authenticated
// records get a single remote attempt; on failure they fall back to the
// local cache (without the owner tag, matching cache semantics). Exactly
// one durable write happens per accepted call, and store failures never
// reach the caller.
//
// StartedAt is stamped here, at recording time, not at true session start.
func (r *Recorder) Record(ctx context.Context, ownerID string, tool models.Tool, elapsedMs int64, meta models.ToolMeta) {
	if elapsedMs < MinSessionMs {
		return
	}

	raw, err := models.EncodeMeta(meta)
	if err != nil {
		r.log.WithError(err).WithField("tool", tool).Warn("dropping session: bad metadata")
		return
	}

	session := models.TimerSession{
		ID:        uuid.NewString(),
		Tool:      tool,
		Duration:  elapsedMs,
		StartedAt: r.now(),
		Metadata:  raw,
	}

	if ownerID != "" {
		session.UserID = ownerID
		err := r.remote.Add(ctx, &session)
		if err == nil {
			return
		}
		r.log.WithError(err).Warn("remote session write failed, saving locally")
		// local cache entries carry no owner and get a fresh id
		session.UserID = ""
		session.ID = uuid.NewString()
	}

	if err := r.local.Append(session); err != nil {
		// best-effort persistence: the record is lost, but the caller is not
		r.log.WithError(err).Error("local session write failed, record dropped")
	}
}
