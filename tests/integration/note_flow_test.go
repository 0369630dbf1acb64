package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cmdhandlers "vitae-backend/application/commands/handlers"
	queryhandlers "vitae-backend/application/queries/handlers"
	"vitae-backend/application/services"
	"vitae-backend/infrastructure/backend"
	"vitae-backend/infrastructure/config"
	"vitae-backend/infrastructure/di"
	"vitae-backend/infrastructure/persistence/memory"
	"vitae-backend/interfaces/http/rest"
	"vitae-backend/pkg/observability"
)

// stubEventBus swallows events; the integration flow only cares that
// publishing does not break the request path.
type stubEventBus struct{}

func (stubEventBus) PublishChapterCompleted(ctx context.Context, userID, courseID string, chapterIndex, percent int) error {
	return nil
}

// newTestApp stands up the full HTTP stack against a scripted remote
// backend, configured as if deployed behind the API Gateway Lambda
// adapter. Auth uses the gateway-injected claims path.
func newTestApp(t *testing.T, remote http.HandlerFunc) (http.Handler, *httptest.Server) {
	return newTestAppDeployed(t, true, remote)
}

func newTestAppDeployed(t *testing.T, lambdaFronted bool, remote http.HandlerFunc) (http.Handler, *httptest.Server) {
	t.Helper()

	remoteSrv := httptest.NewServer(remote)
	t.Cleanup(remoteSrv.Close)

	cfg := &config.Config{
		Environment:      "development",
		RemoteBaseURL:    remoteSrv.URL,
		RemoteTimeout:    5 * time.Second,
		RemoteMaxRetries: 1,
		EnableCORS:       false,
		IsLambda:         lambdaFronted,
		LogLevel:         "error",
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics(nil, "test", logger, false)
	gateway := backend.NewClient(cfg, logger)
	repo := memory.NewProgressRepository()

	container := &di.Container{
		Config:          cfg,
		Logger:          logger,
		Metrics:         metrics,
		NoteHandler:     cmdhandlers.NewNoteMutationHandler(gateway, metrics, logger),
		ProgressHandler: cmdhandlers.NewProgressHandler(repo, stubEventBus{}, metrics, logger),
		CourseHandler:   cmdhandlers.NewCourseHandler(gateway, logger),
		SearchHandler:   queryhandlers.NewSearchCoursesHandler(gateway, metrics, logger),
		GetProgress:     queryhandlers.NewGetProgressHandler(repo, logger),
		QuizService:     services.NewQuizService(logger),
	}

	return rest.NewRouter(container).Setup(), remoteSrv
}

func authedRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Gateway-Authorized", "true")
	req.Header.Set("X-User-ID", "u-1")
	return req
}

func TestCreateNoteFlowReconciled(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"notes":[{"id":"n-1","title":"Nueva nota"}]}`))
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/records/b-1/notes", map[string]interface{}{
		"title": "Nueva nota",
		"kind":  2,
	}))

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Records []map[string]interface{} `json:"records"`
		} `json:"data"`
		Meta struct {
			Provenance string `json:"provenance"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "reconciled", envelope.Meta.Provenance)
	require.Len(t, envelope.Data.Records, 1)
	assert.Equal(t, "n-1", envelope.Data.Records[0]["id"])
}

func TestCreateNoteFlowOptimisticFallback(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"accepted"}`))
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/records/b-1/notes", map[string]interface{}{
		"title": "Nota local",
	}))

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data struct {
			Records []map[string]interface{} `json:"records"`
		} `json:"data"`
		Meta struct {
			Provenance string `json:"provenance"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "optimistic", envelope.Meta.Provenance)
	require.Len(t, envelope.Data.Records, 1)
	assert.Equal(t, "Nota local", envelope.Data.Records[0]["title"])
}

func TestSearchFlowEmptyResultIsNotAnError(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"courses":[]}`))
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/search?q=rust", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Meta    struct {
			Message string `json:"message"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Meta.Message)
}

func TestProgressFlowMarkAndRead(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, idx := range []int{0, 1} {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, authedRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/courses/c-1/chapters/%d/complete", idx),
			map[string]interface{}{"totalChapters": 4},
		))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/courses/c-1/progress?totalChapters=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			CompletedChapters []int `json:"completedChapters"`
			Percent           int   `json:"percent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []int{0, 1}, envelope.Data.CompletedChapters)
	assert.Equal(t, 50, envelope.Data.Percent)
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=go", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatewayHeadersSpoofedOnPlainHTTPAreRejected(t *testing.T) {
	// On the plain HTTP deployment nothing strips caller-sent identity
	// headers, so they must never authenticate a request.
	app, _ := newTestAppDeployed(t, false, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/courses/c-1/progress", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
