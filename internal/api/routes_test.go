package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/sports-library/internal/config"
	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	lib    *service.Library
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	lib, err := service.Open(ctx, config.StoreConfig{Backend: config.BackendMemory, SeedCatalog: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close(ctx) })

	router := gin.New()
	SetupRoutes(router, zap.NewNop(),
		service.NewUserService(lib),
		service.NewPlanService(lib),
		service.NewTrackService(lib),
		service.NewBackupService(lib, nil, nil),
	)
	return &testServer{router: router, lib: lib}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestPing(t *testing.T) {
	w := newTestServer(t).do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestMe(t *testing.T) {
	s := newTestServer(t)

	first := decode[UserResponse](t, s.do(t, http.MethodGet, "/api/v1/me", nil))
	second := decode[UserResponse](t, s.do(t, http.MethodGet, "/api/v1/me", nil))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)

	w := s.do(t, http.MethodPut, "/api/v1/me", gin.H{"firstName": "Grace", "maxPulse": 178, "birthday": "1990-04-12"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[UserResponse](t, w)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, 178, updated.MaxPulse)
	assert.Equal(t, "1990-04-12", updated.Birthday)

	w = s.do(t, http.MethodPut, "/api/v1/me", gin.H{"birthday": "12.04.1990"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPut, "/api/v1/me", gin.H{"emailAddress": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlans(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	run, found, err := s.lib.ResolveCatalogID(ctx, domain.MovementRunning)
	require.NoError(t, err)
	require.True(t, found)

	unit := domain.NewRunningUnit(30, run)
	plan := domain.NewRunningPlan("First 5k", "", 1, []*domain.RunningPlanEntry{
		domain.NewRunningPlanEntry(2, 3, nil),
		domain.NewRunningPlanEntry(1, 2, []*domain.RunningUnit{unit}),
	}, false)
	require.NoError(t, s.lib.Add(ctx, plan))
	planPath := "/api/v1/plans/" + plan.ID().String()

	list := decode[[]RunningPlanResponse](t, s.do(t, http.MethodGet, "/api/v1/plans", nil))
	require.Len(t, list, 1)
	assert.Empty(t, decode[[]RunningPlanResponse](t, s.do(t, http.MethodGet, "/api/v1/plans?templates=true", nil)))

	got := decode[RunningPlanResponse](t, s.do(t, http.MethodGet, planPath, nil))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 1, got.Entries[0].Week)
	assert.Equal(t, 2, got.Entries[0].Day)
	assert.Equal(t, int64(30), got.Duration)
	assert.False(t, got.Completed)

	w := s.do(t, http.MethodPut, planPath+"/start-date", gin.H{"startDate": "2024-05-02"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode[RunningPlanResponse](t, w)
	assert.Equal(t, "2024-05-06", got.StartDate)
	assert.Equal(t, "2024-05-07", got.Entries[0].Date)
	assert.Equal(t, time.Monday, mustParse(t, got.StartDate).Weekday())

	w = s.do(t, http.MethodPut, planPath+"/start-date", gin.H{"startDate": "May 2nd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, planPath+"/units/"+unit.ID().String()+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode[RunningPlanResponse](t, w)
	assert.True(t, got.Entries[0].Completed)
	assert.True(t, got.Completed)
	assert.Equal(t, 100, got.PercentCompleted)

	w = s.do(t, http.MethodPost, planPath+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, plan.ID().String(), decode[UserResponse](t, w).ActiveRunningPlanID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, planPath+"/units/missing/complete", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, planPath, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, planPath, nil).Code)
}

func mustParse(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, date)
	require.NoError(t, err)
	return d
}

func TestTracksAndCatalog(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	start := time.Date(2024, time.May, 4, 8, 0, 0, 0, time.UTC)
	track := domain.NewRecordedTrack("Park", "", start, start.Add(30*time.Minute), 4200, []*domain.LocationData{
		domain.NewLocationData(start, 52.5, 13.4),
	})
	require.NoError(t, s.lib.Add(ctx, track))
	trackPath := "/api/v1/tracks/" + track.ID().String()

	list := decode[[]TrackResponse](t, s.do(t, http.MethodGet, "/api/v1/tracks", nil))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].LocationCount)
	assert.Empty(t, list[0].Locations)

	got := decode[TrackResponse](t, s.do(t, http.MethodGet, trackPath, nil))
	assert.Len(t, got.Locations, 1)
	assert.Equal(t, int64(30), got.Duration)
	assert.InDelta(t, 8.4, got.AverageSpeed, 0.001)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, trackPath, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, trackPath, nil).Code)

	types := decode[[]TrainingTypeResponse](t, s.do(t, http.MethodGet, "/api/v1/catalog/training-types", nil))
	assert.Len(t, types, 3)
	movements := decode[[]MovementTypeResponse](t, s.do(t, http.MethodGet, "/api/v1/catalog/movement-types", nil))
	require.Len(t, movements, 3)
	assert.Equal(t, "L", movements[0].ID)
}

func TestBackupsDisabled(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodPost, "/api/v1/backups", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/backups/restore", gin.H{}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodDelete, "/api/v1/backups/backups/x.bson", nil).Code)
}
