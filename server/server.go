// Package server exposes the query helper over HTTP for the report portal:
// POST /query runs SQL against a project's warehouse, GET /healthz probes
// connectivity.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/minereport/dwquery"
	"github.com/minereport/dwquery/pkg/config"
)

// EngineSource hands out engines by project name. *dwquery.Registry
// satisfies it.
type EngineSource interface {
	Engine(project string) (*dwquery.Engine, error)
}

// QueryRequest is the POST /query body. Params are passed to the driver
// verbatim; ChunkSize > 0 switches the response to one JSON object per chunk.
type QueryRequest struct {
	Query     string        `json:"query"`
	Params    []interface{} `json:"params,omitempty"`
	Project   string        `json:"project,omitempty"`
	ChunkSize int           `json:"chunksize,omitempty"`
}

// QueryResponse is one result payload: the whole result set, or one chunk of
// it when chunked execution was requested.
type QueryResponse struct {
	Status     string          `json:"status"`
	RowCount   int             `json:"rowCount"`
	Columns    []string        `json:"columns"`
	Rows       [][]interface{} `json:"rows"`
	DurationMs int64           `json:"durationMs"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Server routes portal HTTP traffic onto the engine registry.
type Server struct {
	engines EngineSource
	log     *zap.Logger
}

func New(engines EngineSource, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engines: engines, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	project := req.Project
	if project == "" {
		project = config.DefaultProject
	}
	eng, err := s.engines.Engine(project)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	if req.ChunkSize > 0 {
		s.streamChunks(w, r, eng, req, start)
		return
	}

	f, err := eng.QueryFrame(r.Context(), req.Query, req.Params...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, QueryResponse{
		Status:     "ok",
		RowCount:   f.Len(),
		Columns:    f.Columns,
		Rows:       f.Rows,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// streamChunks writes newline-delimited JSON, one QueryResponse per chunk.
func (s *Server) streamChunks(w http.ResponseWriter, r *http.Request, eng *dwquery.Engine, req QueryRequest, start time.Time) {
	chunks, err := eng.QueryChunks(r.Context(), req.Query, req.ChunkSize, req.Params...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer chunks.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	for chunks.Next() {
		f := chunks.Frame()
		enc.Encode(QueryResponse{
			Status:     "ok",
			RowCount:   f.Len(),
			Columns:    f.Columns,
			Rows:       f.Rows,
			DurationMs: time.Since(start).Milliseconds(),
		})
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
	}
	if err := chunks.Err(); err != nil {
		// Headers are gone; all we can do is append an error record.
		enc.Encode(errorResponse{Status: "error", Error: err.Error()})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		project = config.DefaultProject
	}
	eng, err := s.engines.Engine(project)
	if err == nil {
		err = eng.Ping(r.Context())
	}
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "project": project})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.log.Error("request failed", zap.Int("code", code), zap.String("error", msg))
	s.writeJSON(w, code, errorResponse{Status: "error", Error: msg})
}
