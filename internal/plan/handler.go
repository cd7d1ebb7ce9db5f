package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type planRepo interface {
	AddWorkout(ctx context.Context, workout Workout) (*Workout, error)
	PendingModifications(ctx context.Context, athleteID string, minAction Action) ([]Modification, error)
	Review(ctx context.Context, modificationID int, approve bool, coachNote string) (*Modification, error)
	UpdateWorkoutStatus(ctx context.Context, workoutID int, status WorkoutStatus) error
}

type Handler struct {
	repo planRepo
}

func NewHandler(repo planRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleAddWorkout schedules a workout.
func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.addWorkout")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if workout.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}
	if workout.Date.IsZero() {
		workout.Date = time.Now()
	}

	added, err := handler.repo.AddWorkout(ctx, workout)
	if err != nil {
		log.Errorf("failed to store workout for %s: %s", workout.AthleteID, err)
		http.Error(w, "error, failed to store workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

// HandlePending lists unreviewed workout modifications for the coach,
// optionally narrowed to one athlete or to actions of a minimum severity.
func (handler *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.pending")
	defer span.End()

	minAction := Action(r.URL.Query().Get("minAction"))
	if minAction != "" && !minAction.Known() {
		http.Error(w, "error, unknown action", http.StatusBadRequest)
		return
	}

	pending, err := handler.repo.PendingModifications(ctx, r.URL.Query().Get("athleteId"), minAction)
	if err != nil {
		log.Errorf("failed to get pending modifications: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pending == nil {
		pending = []Modification{}
	}

	respJson, err := json.Marshal(pending)
	if err != nil {
		log.Errorf("failed to marshal pending modifications: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

type reviewRequest struct {
	Approve   bool   `json:"approve"`
	CoachNote string `json:"coachNote,omitempty"`
}

// HandleReview records the coach decision on a modification. Rejecting
// reverts the workout to its original planned state.
func (handler *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.review")
	defer span.End()

	vars := mux.Vars(r)
	modificationID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid modification id", http.StatusBadRequest)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("review modification, unmarshal json params: %s", err)
		http.Error(w, "review failed", http.StatusBadRequest)
		return
	}

	modification, err := handler.repo.Review(ctx, modificationID, req.Approve, req.CoachNote)
	if err != nil {
		if errors.Is(err, ErrModificationNotFound) {
			http.Error(w, "modification not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to review modification %d: %s", modificationID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !req.Approve && !modification.NeedsManualReview {
		if err := handler.repo.UpdateWorkoutStatus(ctx, modification.WorkoutID, StatusPlanned); err != nil {
			log.Errorf("failed to revert workout %d after rejection: %s", modification.WorkoutID, err)
		}
	}

	respJson, err := json.Marshal(modification)
	if err != nil {
		log.Errorf("failed to marshal modification: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
