package strength_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/strideworks/coachengine/internal/config"
	"github.com/strideworks/coachengine/internal/strength"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHandler_HandleAddSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockstrengthRepo(ctrl)
	h := strength.NewHandler(repo, strength.NewAnalyzer(config.DefaultEngineConfig()))

	session := strength.Session{
		AthleteID: "athlete-1",
		Exercise:  "back-squat",
		Date:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Sets:      4,
		Reps:      5,
		LoadKg:    110,
	}
	stored := session
	stored.ID = 1
	repo.EXPECT().
		AddSession(gomock.Any(), session).
		Return(&stored, nil)

	body, err := json.Marshal(session)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleAddSession(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added strength.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 1, added.ID)
}

func TestHandler_HandleAddSession_RejectsNonPositiveLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockstrengthRepo(ctrl)
	h := strength.NewHandler(repo, strength.NewAnalyzer(config.DefaultEngineConfig()))

	body, err := json.Marshal(strength.Session{
		AthleteID: "athlete-1", Exercise: "back-squat", Sets: 4, Reps: 5, LoadKg: 0,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleAddSession(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockstrengthRepo(ctrl)
	h := strength.NewHandler(repo, strength.NewAnalyzer(config.DefaultEngineConfig()))

	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	var sessions []strength.Session
	for i, load := range []float64{140, 140, 140, 140} {
		sessions = append(sessions, strength.Session{
			ID: i + 1, AthleteID: "athlete-1", Exercise: "deadlift",
			Date: start.AddDate(0, 0, i*7),
			Sets: 4, Reps: 5, LoadKg: load,
		})
	}
	repo.EXPECT().
		SessionsForExercise(gomock.Any(), "athlete-1", "deadlift", gomock.Any()).
		Return(sessions, nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"athleteId": "athlete-1", "exercise": "deadlift"})

	h.HandleAnalysis(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis strength.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.True(t, analysis.Plateau)
	assert.Equal(t, strength.RecommendVariation, analysis.Recommendation)
}

func TestHandler_HandleOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockstrengthRepo(ctrl)
	h := strength.NewHandler(repo, strength.NewAnalyzer(config.DefaultEngineConfig()))

	repo.EXPECT().
		Exercises(gomock.Any(), "athlete-1").
		Return([]string{"back-squat", "deadlift"}, nil)
	repo.EXPECT().
		SessionsForExercise(gomock.Any(), "athlete-1", "back-squat", gomock.Any()).
		Return(nil, nil)
	repo.EXPECT().
		SessionsForExercise(gomock.Any(), "athlete-1", "deadlift", gomock.Any()).
		Return(nil, nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"athleteId": "athlete-1"})

	h.HandleOverview(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var analyses []strength.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analyses))
	require.Len(t, analyses, 2)
	assert.True(t, analyses[0].InsufficientData)
	assert.True(t, analyses[1].InsufficientData)
}
