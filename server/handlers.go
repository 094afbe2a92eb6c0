package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tabprep/adapters/ingest"
	"tabprep/app"
	"tabprep/domain/core"
	"tabprep/domain/profile"
	"tabprep/domain/table"
	"tabprep/internal/errors"
	"tabprep/internal/prep"
	"tabprep/internal/report"
	"tabprep/ports"
)

type uploadRequest struct {
	Name    string        `json:"name"`
	Source  string        `json:"source"`
	Records table.Dataset `json:"records"`
}

type profileResponse struct {
	SnapshotID  string                  `json:"snapshotId"`
	Fingerprint string                  `json:"fingerprint,omitempty"`
	Analysis    *profile.AnalysisResult `json:"analysis"`
	RuntimeMs   int64                   `json:"runtimeMs,omitempty"`
}

type preprocessRequest struct {
	Options prep.Options `json:"options"`
	SaveAs  string       `json:"saveAs"`
}

type snapshotSummaryResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Source      string         `json:"source,omitempty"`
	Fingerprint string         `json:"fingerprint"`
	RowCount    int            `json:"rowCount"`
	ColumnCount int            `json:"columnCount"`
	CreatedAt   core.Timestamp `json:"createdAt"`
}

type snapshotResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Source      string                  `json:"source,omitempty"`
	Fingerprint string                  `json:"fingerprint"`
	CreatedAt   core.Timestamp          `json:"createdAt"`
	Analysis    *profile.AnalysisResult `json:"analysis"`
	Records     *table.Dataset          `json:"records,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a dataset as a multipart file (CSV or XLSX) or as
// a JSON body with inline records, profiles it and stores the snapshot.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := a.sem.Acquire(r.Context(), 1); err != nil {
		a.writeError(w, errors.InternalError("server is shutting down"))
		return
	}
	defer a.sem.Release(1)

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadBytes)

	req, err := a.decodeUpload(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.profiles.Profile(r.Context(), app.ProfileRequest{
		Name:    req.Name,
		Source:  req.Source,
		Dataset: req.Records,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, profileResponse{
		SnapshotID:  result.SnapshotID.String(),
		Fingerprint: result.Fingerprint.String(),
		Analysis:    result.Analysis,
		RuntimeMs:   result.RuntimeMs,
	})
}

func (a *App) decodeUpload(r *http.Request) (*uploadRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(a.cfg.MaxUploadBytes); err != nil {
			return nil, errors.InvalidInput("failed to parse upload form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errors.InvalidInput("upload requires a \"file\" form field")
		}
		defer file.Close()

		reader, err := ingest.ReaderFor(header.Filename)
		if err != nil {
			return nil, err
		}
		ds, err := reader.Read(r.Context(), file)
		if err != nil {
			return nil, err
		}

		name := r.FormValue("name")
		if name == "" {
			name = header.Filename
		}
		return &uploadRequest{Name: name, Source: header.Filename, Records: ds}, nil
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.InvalidInput("invalid JSON body")
	}
	return &req, nil
}

func (a *App) handleList(w http.ResponseWriter, r *http.Request) {
	filters := ports.SnapshotFilters{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	summaries, err := a.profiles.List(r.Context(), filters)
	if err != nil {
		a.writeError(w, err)
		return
	}

	out := make([]snapshotSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = snapshotSummaryResponse{
			ID:          s.ID.String(),
			Name:        s.Name,
			Source:      s.Source,
			Fingerprint: s.Fingerprint.String(),
			RowCount:    s.RowCount,
			ColumnCount: s.ColumnCount,
			CreatedAt:   s.CreatedAt,
		}
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": out,
		"count":    len(out),
	})
}

func (a *App) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := a.profiles.Get(r.Context(), core.SnapshotID(chi.URLParam(r, "id")))
	if err != nil {
		a.writeError(w, err)
		return
	}

	resp := snapshotResponse{
		ID:          snap.ID.String(),
		Name:        snap.Name,
		Source:      snap.Source,
		Fingerprint: snap.Fingerprint.String(),
		CreatedAt:   snap.CreatedAt,
		Analysis:    snap.Analysis,
	}
	if r.URL.Query().Get("include") == "data" {
		resp.Records = &snap.Dataset
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.profiles.Delete(r.Context(), core.SnapshotID(chi.URLParam(r, "id"))); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReanalyze recomputes the analysis for a stored snapshot
func (a *App) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	if err := a.sem.Acquire(r.Context(), 1); err != nil {
		a.writeError(w, errors.InternalError("server is shutting down"))
		return
	}
	defer a.sem.Release(1)

	id := core.SnapshotID(chi.URLParam(r, "id"))
	result, err := a.profiles.Reanalyze(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, profileResponse{
		SnapshotID: id.String(),
		Analysis:   result,
	})
}

// handlePreprocess runs the operator pipeline against a stored snapshot
// and stores the transformed result as a new snapshot.
func (a *App) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	if err := a.sem.Acquire(r.Context(), 1); err != nil {
		a.writeError(w, errors.InternalError("server is shutting down"))
		return
	}
	defer a.sem.Release(1)

	var req preprocessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}

	result, err := a.prep.Preprocess(r.Context(), app.PreprocessRequest{
		SnapshotID: core.SnapshotID(chi.URLParam(r, "id")),
		Options:    req.Options,
		SaveAs:     req.SaveAs,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, profileResponse{
		SnapshotID: result.SnapshotID.String(),
		Analysis:   result.Analysis,
		RuntimeMs:  result.RuntimeMs,
	})
}

// handleReport renders the stored analysis as markdown, HTML or plain
// text, chosen by the format query parameter.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, err := a.profiles.Get(r.Context(), core.SnapshotID(chi.URLParam(r, "id")))
	if err != nil {
		a.writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.HTML(snap.Name, snap.Analysis))
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(report.Text(snap.Name, snap.Analysis)))
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Markdown(snap.Name, snap.Analysis)))
	}
}

// handleExport streams the snapshot's records as a CSV download
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := a.profiles.Get(r.Context(), core.SnapshotID(chi.URLParam(r, "id")))
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+snap.Name+`.csv"`)
	if err := ingest.NewCSVWriter().Write(r.Context(), w, snap.Dataset); err != nil {
		a.log.Error("csv export failed: %v", err)
	}
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("response encoding failed: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
