package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/adapters/store/memory"
	"tabprep/app"
	"tabprep/domain/profile"
	"tabprep/internal/config"
	"tabprep/internal/logging"
)

func newTestApp() *App {
	store := memory.NewStore()
	log := logging.NewLogger(logging.LogLevelError)
	cfg := config.ServerConfig{
		Port:            "0",
		MaxConcurrent:   2,
		ShutdownTimeout: time.Second,
	}
	return NewApp(cfg, app.NewProfileService(store, log), app.NewPrepService(store, log), log)
}

const uploadBody = `{
	"name": "orders",
	"records": [
		{"amount": 10, "color": "red"},
		{"amount": 20, "color": "blue"},
		{"amount": 30, "color": "red"},
		{"amount": 40, "color": "red"},
		{"amount": 50, "color": "blue"}
	]
}`

func uploadFixture(t *testing.T, a *App) profileResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader(uploadBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp profileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestUpload_JSONBody(t *testing.T) {
	a := newTestApp()

	resp := uploadFixture(t, a)

	assert.NotEmpty(t, resp.SnapshotID)
	assert.NotEmpty(t, resp.Fingerprint)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, 5, resp.Analysis.RowCount)
	assert.Equal(t, 2, resp.Analysis.ColumnCount)
	assert.Equal(t, profile.TypeNumeric, resp.Analysis.TypeOf("amount"))
	assert.Equal(t, profile.TypeCategorical, resp.Analysis.TypeOf("color"))
}

func TestUpload_MultipartCSV(t *testing.T) {
	a := newTestApp()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	fw.Write([]byte("amount,color\n10,red\n20,blue\n30,red\n40,red\n50,blue\n"))
	require.NoError(t, mw.WriteField("name", "orders-from-csv"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp profileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 5, resp.Analysis.RowCount)

	listReq := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	listRR := httptest.NewRecorder()
	a.Handler().ServeHTTP(listRR, listReq)

	require.Equal(t, http.StatusOK, listRR.Code)
	assert.Contains(t, listRR.Body.String(), "orders-from-csv")
}

func TestUpload_EmptyRecordsRejected(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader(`{"name":"x","records":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMPTY_DATASET")
}

func TestGet_IncludesDataOnRequest(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID, nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"records"`)

	req = httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID+"?include=data", nil)
	rr = httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"records"`)
	assert.Contains(t, rr.Body.String(), `"color":"red"`)
}

func TestGet_UnknownSnapshotIs404(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/nope", nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_FOUND")
}

func TestPreprocess_CreatesNewSnapshot(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	body := `{"options":{"normalizationMethod":"minmax"},"saveAs":"orders scaled"}`
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+created.SnapshotID+"/preprocess", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp profileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotEmpty(t, resp.SnapshotID)
	assert.NotEqual(t, created.SnapshotID, resp.SnapshotID)

	// The scaled snapshot holds min-max normalized amounts.
	dataReq := httptest.NewRequest(http.MethodGet, "/api/datasets/"+resp.SnapshotID+"?include=data", nil)
	dataRR := httptest.NewRecorder()
	a.Handler().ServeHTTP(dataRR, dataReq)

	require.Equal(t, http.StatusOK, dataRR.Code)
	assert.Contains(t, dataRR.Body.String(), `"amount":0`)
	assert.Contains(t, dataRR.Body.String(), `"amount":0.25`)
	assert.Contains(t, dataRR.Body.String(), `"amount":1`)
	assert.Contains(t, dataRR.Body.String(), "orders scaled")
}

func TestReanalyze_RefreshesStoredAnalysis(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+created.SnapshotID+"/analyze", nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp profileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, created.SnapshotID, resp.SnapshotID)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, 5, resp.Analysis.RowCount)
}

func TestPreprocess_InvalidOptionIs400(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	body := `{"options":{"missingValueMethod":"fillMagic"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+created.SnapshotID+"/preprocess", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_OPTION")
}

func TestReport_Formats(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID+"/report", nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rr.Body.String(), "# Data Profile: orders")

	req = httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID+"/report?format=html", nil)
	rr = httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "<html")
}

func TestExport_StreamsCSV(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID+"/export", nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "amount,color\n"))
	assert.Contains(t, rr.Body.String(), "10,red\n")
}

func TestDelete_RemovesSnapshot(t *testing.T) {
	a := newTestApp()
	created := uploadFixture(t, a)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/"+created.SnapshotID, nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.SnapshotID, nil)
	getRR := httptest.NewRecorder()
	a.Handler().ServeHTTP(getRR, getReq)

	assert.Equal(t, http.StatusNotFound, getRR.Code)
}

func TestHealthz(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}
