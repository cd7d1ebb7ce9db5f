package batch

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	recomputer *Recomputer
}

func NewHandler(recomputer *Recomputer) *Handler {
	return &Handler{
		recomputer: recomputer,
	}
}

// HandleRecompute triggers a batch recompute, defaulting to today. The
// external scheduler calls this nightly; re-running it is safe.
func (handler *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.batch.recompute")
	defer span.End()

	day := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse(time.DateOnly, dateParam)
		if err != nil {
			http.Error(w, "error, invalid date param, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	summary, err := handler.recomputer.Run(ctx, day)
	if err != nil {
		log.Errorf("batch recompute failed: %s", err)
		http.Error(w, "batch recompute failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal batch summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
