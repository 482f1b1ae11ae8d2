package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/analyzer"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/auth"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/httpapi"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "analyses.json"))
	require.NoError(t, err)

	testLogger := logger.NewTextLogger()
	analyses := service.NewAnalysisService(
		model.DefaultCatalog(),
		model.DefaultPatterns(),
		0,
		testLogger,
		store,
	)
	sessions := auth.NewManager([]model.Account{
		{Name: "lab1", Password: "lab123", Role: model.RoleLab},
		{Name: "doctor1", Password: "doc123", Role: model.RoleDoctor},
	}, time.Hour)

	server := httptest.NewServer(httpapi.NewServer(testLogger, analyses, sessions).Handler())
	t.Cleanup(server.Close)
	return server
}

func login(t *testing.T, server *httptest.Server, username, password string) *http.Cookie {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == httpapi.SessionCookie {
			return cookie
		}
	}
	t.Fatal("login response carries no session cookie")
	return nil
}

func do(t *testing.T, method, url string, cookie *http.Cookie, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	resp, body := do(t, http.MethodGet, server.URL+"/ping", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	resp, _ := do(t, http.MethodPost, server.URL+"/api/login", nil,
		map[string]string{"username": "lab1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	server := newTestServer(t)

	// unauthenticated
	resp, _ := do(t, http.MethodGet, server.URL+"/api/queue", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// lab account cannot read the doctor queue
	labCookie := login(t, server, "lab1", "lab123")
	resp, _ = do(t, http.MethodGet, server.URL+"/api/queue", labCookie, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// doctor account cannot submit analyses
	doctorCookie := login(t, server, "doctor1", "doc123")
	resp, _ = do(t, http.MethodPost, server.URL+"/api/analyses", doctorCookie, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	server := newTestServer(t)
	labCookie := login(t, server, "lab1", "lab123")

	resp, _ := do(t, http.MethodPost, server.URL+"/api/logout", labCookie, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, server.URL+"/api/analyses", labCookie, map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitValidationFailure(t *testing.T) {
	server := newTestServer(t)
	labCookie := login(t, server, "lab1", "lab123")

	resp, body := do(t, http.MethodPost, server.URL+"/api/analyses", labCookie,
		map[string]interface{}{
			"patientId": "P-1",
			"requested": []string{"glucose", "creatinine"},
			"results":   map[string]float64{"glucose": 5.0},
		})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "validation failed", payload.Error)
	require.Len(t, payload.Problems, 1)
	assert.Contains(t, payload.Problems[0], "creatinine")
}

func TestSubmitQueueReportAnalyticsFlow(t *testing.T) {
	server := newTestServer(t)
	labCookie := login(t, server, "lab1", "lab123")

	resp, body := do(t, http.MethodPost, server.URL+"/api/analyses", labCookie,
		map[string]interface{}{
			"patientId":   "P-1",
			"patientName": "Test Patient",
			"gender":      "male",
			"age":         45,
			"stat":        true,
			"results": map[string]float64{
				"glucose":    26.0, // critically high
				"hemoglobin": 140,
			},
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var submitted struct {
		Analysis struct {
			ID       string `json:"id"`
			Priority string `json:"priority"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(body, &submitted))
	require.NotEmpty(t, submitted.Analysis.ID)
	assert.Equal(t, "stat", submitted.Analysis.Priority)

	doctorCookie := login(t, server, "doctor1", "doc123")

	resp, body = do(t, http.MethodGet, server.URL+"/api/queue", doctorCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var queue struct {
		Queue []struct {
			AnalysisID    string `json:"analysisId"`
			CriticalCount int    `json:"criticalCount"`
		} `json:"queue"`
	}
	require.NoError(t, json.Unmarshal(body, &queue))
	require.Len(t, queue.Queue, 1)
	assert.Equal(t, submitted.Analysis.ID, queue.Queue[0].AnalysisID)
	assert.Equal(t, 1, queue.Queue[0].CriticalCount)

	resp, body = do(t, http.MethodGet, server.URL+"/api/patients/P-1/analyses", doctorCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Analyses []struct {
			ID string `json:"id"`
		} `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history.Analyses, 1)

	resp, body = do(t, http.MethodGet,
		server.URL+"/api/analyses/"+submitted.Analysis.ID+"/report", doctorCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Rows []struct {
			Parameter string `json:"parameter"`
			Severity  string `json:"severity"`
		} `json:"rows"`
		Patterns []struct {
			Name string `json:"name"`
		} `json:"patterns"`
		Insights      []string `json:"insights"`
		CriticalCount int      `json:"criticalCount"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Len(t, report.Rows, 2)
	assert.Equal(t, 1, report.CriticalCount)
	require.Len(t, report.Patterns, 1)
	assert.Equal(t, "Diabetes", report.Patterns[0].Name)
	require.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights[0], "CRITICAL: Glucose")

	resp, body = do(t, http.MethodGet, server.URL+"/api/analytics", doctorCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics struct {
		TotalAnalyses  int `json:"totalAnalyses"`
		StatCount      int `json:"statCount"`
		CriticalValues int `json:"criticalValues"`
	}
	require.NoError(t, json.Unmarshal(body, &analytics))
	assert.Equal(t, 1, analytics.TotalAnalyses)
	assert.Equal(t, 1, analytics.StatCount)
	assert.Equal(t, 1, analytics.CriticalValues)
}

func TestPatientHistoryWithEscapedID(t *testing.T) {
	server := newTestServer(t)
	labCookie := login(t, server, "lab1", "lab123")

	resp, body := do(t, http.MethodPost, server.URL+"/api/analyses", labCookie,
		map[string]interface{}{
			"patientId": "P/1",
			"results":   map[string]float64{"glucose": 5.0},
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	doctorCookie := login(t, server, "doctor1", "doc123")
	resp, body = do(t, http.MethodGet, server.URL+"/api/patients/P%2F1/analyses", doctorCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history struct {
		Analyses []struct {
			PatientID string `json:"patientId"`
		} `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history.Analyses, 1)
	assert.Equal(t, "P/1", history.Analyses[0].PatientID)
}

type failingAnalyses struct {
	service.Analyses
}

func (failingAnalyses) Report(context.Context, model.AnalysisID) (model.Report, error) {
	return model.Report{}, errors.New("store file unreadable")
}

func TestReportStoreFailureIsInternal(t *testing.T) {
	sessions := auth.NewManager([]model.Account{
		{Name: "doctor1", Password: "doc123", Role: model.RoleDoctor},
	}, time.Hour)
	server := httptest.NewServer(httpapi.NewServer(logger.NewTextLogger(), failingAnalyses{}, sessions).Handler())
	t.Cleanup(server.Close)

	doctorCookie := login(t, server, "doctor1", "doc123")
	resp, _ := do(t, http.MethodGet, server.URL+"/api/analyses/a1/report", doctorCookie, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestReportUnknownAnalysis(t *testing.T) {
	server := newTestServer(t)
	doctorCookie := login(t, server, "doctor1", "doc123")

	resp, _ := do(t, http.MethodGet, server.URL+"/api/analyses/unknown/report", doctorCookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitRejectsWrongMethod(t *testing.T) {
	server := newTestServer(t)
	labCookie := login(t, server, "lab1", "lab123")

	resp, _ := do(t, http.MethodGet, server.URL+"/api/analyses", labCookie, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAnalyzerFeed(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	client, err := analyzer.DialFeed(ctx, server.URL, "lab1", "lab123")
	require.NoError(t, err)
	defer client.Close()

	ack, err := client.Push(httpapi.FeedBatch{
		PatientID:   "P-1",
		PatientName: "Feed Patient",
		Gender:      "male",
		Results:     map[string]float64{"glucose": 5.0},
	})
	require.NoError(t, err)
	assert.True(t, ack.Accepted)
	assert.NotEmpty(t, ack.AnalysisID)

	// batches without a patient id are rejected but keep the connection open
	ack, err = client.Push(httpapi.FeedBatch{
		Results: map[string]float64{"glucose": 5.0},
	})
	require.NoError(t, err)
	assert.False(t, ack.Accepted)
	assert.NotEmpty(t, ack.Error)

	ack, err = client.Push(httpapi.FeedBatch{
		PatientID: "P-2",
		Results:   map[string]float64{"glucose": 6.5},
	})
	require.NoError(t, err)
	assert.True(t, ack.Accepted)
}

func TestAnalyzerFeedRequiresLabRole(t *testing.T) {
	server := newTestServer(t)

	_, err := analyzer.DialFeed(context.Background(), server.URL, "doctor1", "doc123")
	assert.Error(t, err)
}
