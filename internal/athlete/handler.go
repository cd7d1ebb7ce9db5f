package athlete

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type athletesRepo interface {
	Add(ctx context.Context, a Athlete) (*Athlete, error)
	Get(ctx context.Context, id string) (*Athlete, error)
	AddRace(ctx context.Context, race RaceResult) (*RaceResult, error)
}

type Handler struct {
	repo athletesRepo
}

func NewHandler(repo athletesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleAdd registers an athlete. An empty id gets a generated one.
func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.athlete.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var a Athlete
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		log.Tracef("new athlete, unmarshal json params: %s", err)
		http.Error(w, "add athlete failed", http.StatusBadRequest)
		return
	}

	if a.Name == "" {
		http.Error(w, "error, athlete name empty", http.StatusBadRequest)
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	added, err := handler.repo.Add(ctx, a)
	if err != nil {
		log.Errorf("failed to store athlete %s: %s", a.ID, err)
		http.Error(w, "error, failed to store athlete", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal athlete: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.athlete.get")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	a, err := handler.repo.Get(ctx, athleteID)
	if err != nil {
		if errors.Is(err, ErrAthleteNotFound) {
			http.Error(w, "athlete not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get athlete %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(a)
	if err != nil {
		log.Errorf("failed to marshal athlete: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleAddRace records a race performance, the top pace source.
func (handler *Handler) HandleAddRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.athlete.addRace")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var race RaceResult
	if err := json.NewDecoder(r.Body).Decode(&race); err != nil {
		log.Tracef("new race result, unmarshal json params: %s", err)
		http.Error(w, "add race result failed", http.StatusBadRequest)
		return
	}

	if race.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}
	if race.DistanceMeters <= 0 || race.DurationSeconds <= 0 {
		http.Error(w, "error, race distance and duration must be positive", http.StatusBadRequest)
		return
	}
	if race.RacedAt.After(time.Now()) {
		http.Error(w, "error, race date in the future", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.AddRace(ctx, race)
	if err != nil {
		log.Errorf("failed to store race result for %s: %s", race.AthleteID, err)
		http.Error(w, "error, failed to store race result", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal race result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}
