package threshold

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=threshold_test

type testsRepo interface {
	Add(ctx context.Context, test Test, result Result) (*Test, error)
	LatestByAthlete(ctx context.Context, athleteID string) (*Test, *Result, error)
}

type paceCacheInvalidator interface {
	Invalidate(athleteID string)
}

type AnalyzeTestResponse struct {
	Test   Test   `json:"test"`
	Result Result `json:"result"`
}

type Handler struct {
	repo       testsRepo
	calculator *Calculator
	paceCache  paceCacheInvalidator
}

func NewHandler(repo testsRepo, paceCache paceCacheInvalidator) *Handler {
	return &Handler{
		repo:       repo,
		calculator: NewCalculator(),
		paceCache:  paceCache,
	}
}

// HandleAdd analyzes a submitted lab test and stores test + result.
func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.threshold.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var test Test
	if err := json.NewDecoder(r.Body).Decode(&test); err != nil {
		log.Tracef("new threshold test, unmarshal json params: %s", err)
		http.Error(w, "add threshold test failed", http.StatusBadRequest)
		return
	}

	if test.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	result, err := handler.calculator.Analyze(test)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Errorf("failed to analyze threshold test for %s: %s", test.AthleteID, err)
		http.Error(w, "error, failed to analyze threshold test", http.StatusInternalServerError)
		return
	}

	addedTest, err := handler.repo.Add(ctx, test, *result)
	if err != nil {
		log.Errorf("failed to store threshold test for %s: %s", test.AthleteID, err)
		http.Error(w, "error, failed to store threshold test", http.StatusInternalServerError)
		return
	}

	// a new test changes the pace projection inputs
	handler.paceCache.Invalidate(test.AthleteID)

	respJson, err := json.Marshal(AnalyzeTestResponse{
		Test:   *addedTest,
		Result: *result,
	})
	if err != nil {
		log.Errorf("failed to marshal threshold test response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

// HandleLatest returns the most recent test and derived result for an athlete.
func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.threshold.latest")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteId"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	test, result, err := handler.repo.LatestByAthlete(ctx, athleteID)
	if err != nil {
		if errors.Is(err, ErrTestNotFound) {
			http.Error(w, "threshold test not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get latest threshold test for %s: %s", athleteID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(AnalyzeTestResponse{
		Test:   *test,
		Result: *result,
	})
	if err != nil {
		log.Errorf("failed to marshal threshold test response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
