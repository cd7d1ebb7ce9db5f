package paces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=paces_test

type paceSynthesizer interface {
	Synthesize(ctx context.Context, athleteID string, preferredSource SourceKind) (*Selection, error)
}

type fieldTestsRepo interface {
	AddFieldTest(ctx context.Context, test FieldTest) (*FieldTest, error)
}

type selectionCache interface {
	Get(athleteID string, source SourceKind) (*Selection, bool)
	Set(athleteID string, source SourceKind, selection Selection)
	Invalidate(athleteID string)
}

type Handler struct {
	synthesizer paceSynthesizer
	fieldTests  fieldTestsRepo
	cache       selectionCache
}

func NewHandler(synthesizer paceSynthesizer, fieldTests fieldTestsRepo, cache selectionCache) *Handler {
	return &Handler{
		synthesizer: synthesizer,
		fieldTests:  fieldTests,
		cache:       cache,
	}
}

var validSourceOverrides = map[SourceKind]bool{
	SourceNone:      true,
	SourceRace:      true,
	SourceLactate:   true,
	SourceFieldTest: true,
	SourceProfile:   true,
}

// HandleGet returns the current pace/zone projection for an athlete.
// An optional ?source= query pins a specific source instead of the
// priority hierarchy.
func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.paces.get")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	source := SourceKind(r.URL.Query().Get("source"))
	if !validSourceOverrides[source] {
		http.Error(w, "error, unknown pace source", http.StatusBadRequest)
		return
	}

	if cached, ok := handler.cache.Get(athleteID, source); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, marshalSelection(cached))
		return
	}

	selection, err := handler.synthesizer.Synthesize(ctx, athleteID, source)
	if err != nil {
		if errors.Is(err, athlete.ErrAthleteNotFound) {
			http.Error(w, "athlete not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrNoSources) {
			http.Error(w, "no pace sources available", http.StatusNotFound)
			return
		}
		log.Errorf("failed to synthesize paces for %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.cache.Set(athleteID, source, *selection)

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, marshalSelection(selection))
}

// HandleAddFieldTest stores a field test and returns the refreshed
// projection so the coach immediately sees the effect.
func (handler *Handler) HandleAddFieldTest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.paces.addFieldTest")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var test FieldTest
	if err := json.NewDecoder(r.Body).Decode(&test); err != nil {
		log.Tracef("new field test, unmarshal json params: %s", err)
		http.Error(w, "add field test failed", http.StatusBadRequest)
		return
	}

	if test.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}
	if len(test.Trials) == 0 {
		http.Error(w, "error, field test needs at least one trial", http.StatusBadRequest)
		return
	}
	for _, trial := range test.Trials {
		if trial.DistanceMeters <= 0 || trial.DurationSeconds <= 0 {
			http.Error(w, "error, trial distance and duration must be positive", http.StatusBadRequest)
			return
		}
	}

	if _, err := handler.fieldTests.AddFieldTest(ctx, test); err != nil {
		log.Errorf("failed to store field test for %s: %s", test.AthleteID, err)
		http.Error(w, "error, failed to store field test", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(test.AthleteID)

	selection, err := handler.synthesizer.Synthesize(ctx, test.AthleteID, SourceNone)
	if err != nil {
		log.Errorf("failed to synthesize paces after field test for %s: %s", test.AthleteID, err)
		http.Error(w, "field test stored, pace projection failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, marshalSelection(selection), http.StatusCreated)
}

func marshalSelection(selection *Selection) []byte {
	respJson, err := json.Marshal(selection)
	if err != nil {
		// Selection has no unmarshalable fields, this cannot happen in practice
		log.Errorf("failed to marshal pace selection: %s", err)
		return []byte("{}")
	}
	return respJson
}
