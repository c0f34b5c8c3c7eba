package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/editor"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

const maxBodyBytes = 1 << 20

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidParam = errors.New("invalid parameter")
)

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed and validated API document.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			swaggerErr = fmt.Errorf("load api document: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			swaggerErr = fmt.Errorf("validate api document: %w", err)
			return
		}
		swagger = doc
	})
	return swagger, swaggerErr
}

// Grid is the part of a lattice grid the server drives.
type Grid interface {
	ID() string
	State() lattice.State
	Rows(visibleOnly bool) []lattice.RowState
	HandleKey(stroke string) (domain.Action, error)
	Dispatch(a domain.Action) error
	FocusCell(key domain.RowKey, column string)
	Blur()
	Value(key domain.RowKey, column string) (any, error)
	SetValue(key domain.RowKey, column string, v any) error
	Expand(key domain.RowKey, recursive bool) error
	Collapse(key domain.RowKey, recursive bool) error
	RemoveRow(key domain.RowKey) error
}

// Server serializes requests onto one grid. The grid itself is not safe for
// concurrent use, so every handler holds mu while it touches it.
type Server struct {
	mu        sync.Mutex
	grid      Grid
	streams   *StreamManager
	metrics   http.Handler
	logger    *slog.Logger
	published []byte
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the grid.
func NewHandler(grid Grid, opts ...Option) http.Handler {
	s := &Server{
		grid:   grid,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/keys", s.PressKeys)
	r.Post("/actions", s.DispatchAction)
	r.Post("/focus", s.FocusCell)
	r.Delete("/focus", s.Blur)
	r.Route("/rows", func(r chi.Router) {
		r.Get("/", s.ListRows)
		r.Route("/{rowKey}", func(r chi.Router) {
			r.Delete("/", s.RemoveRow)
			r.Post("/expand", s.ExpandRow)
			r.Post("/collapse", s.CollapseRow)
			r.Get("/values/{column}", s.GetValue)
			r.Put("/values/{column}", s.SetValue)
		})
	})
	return r
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Lattice API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.mu.Lock()
	id := s.grid.ID()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "lattice-http",
		"version":     strings.TrimSpace(lattice.Version),
		"api_version": apiVersion,
		"grid":        id,
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.grid.State()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, st)
}

// ListRows handles the GET /rows request.
func (s *Server) ListRows(w http.ResponseWriter, r *http.Request) {
	var visible bool
	if err := runtime.BindQueryParameter("form", true, false, "visible", r.URL.Query(), &visible); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInvalidParam, err))
		return
	}

	s.mu.Lock()
	rows := s.grid.Rows(visible)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, rows)
}

type keysRequest struct {
	Keys []string `json:"keys"`
}

type keysResponse struct {
	Actions []domain.Action `json:"actions"`
	State   lattice.State   `json:"state"`
}

// PressKeys handles the POST /keys request. Strokes are applied in order; the
// first unknown stroke stops the batch and earlier strokes stay applied.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	var body keysRequest
	if err := decodeBody(r, "KeysRequest", &body); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actions := make([]domain.Action, 0, len(body.Keys))
	for i, stroke := range body.Keys {
		a, err := s.grid.HandleKey(stroke)
		if err != nil {
			s.publish()
			s.writeError(w, fmt.Errorf("keys[%d]: %w", i, err))
			return
		}
		actions = append(actions, a)
	}
	s.publish()
	s.writeJSON(w, http.StatusOK, keysResponse{Actions: actions, State: s.grid.State()})
}

// DispatchAction handles the POST /actions request.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var a domain.Action
	if err := decodeBody(r, "Action", &a); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.Dispatch(a); err != nil {
		s.writeError(w, err)
		return
	}
	s.publish()
	s.writeJSON(w, http.StatusOK, s.grid.State())
}

type focusRequest struct {
	RowKey     domain.RowKey `json:"rowKey"`
	ColumnName string        `json:"columnName"`
}

// FocusCell handles the POST /focus request.
func (s *Server) FocusCell(w http.ResponseWriter, r *http.Request) {
	var body focusRequest
	if err := decodeBody(r, "FocusRequest", &body); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.grid.Value(body.RowKey, body.ColumnName); err != nil {
		s.writeError(w, err)
		return
	}
	s.grid.FocusCell(body.RowKey, body.ColumnName)
	s.publish()
	s.writeJSON(w, http.StatusOK, s.grid.State())
}

// Blur handles the DELETE /focus request.
func (s *Server) Blur(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Blur()
	s.publish()
	s.writeJSON(w, http.StatusOK, s.grid.State())
}

// ExpandRow handles the POST /rows/{rowKey}/expand request.
func (s *Server) ExpandRow(w http.ResponseWriter, r *http.Request) {
	s.toggleRow(w, r, s.grid.Expand)
}

// CollapseRow handles the POST /rows/{rowKey}/collapse request.
func (s *Server) CollapseRow(w http.ResponseWriter, r *http.Request) {
	s.toggleRow(w, r, s.grid.Collapse)
}

func (s *Server) toggleRow(w http.ResponseWriter, r *http.Request, apply func(domain.RowKey, bool) error) {
	key, err := rowKeyParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var recursive bool
	if err := runtime.BindQueryParameter("form", true, false, "recursive", r.URL.Query(), &recursive); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInvalidParam, err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := apply(key, recursive); err != nil {
		s.writeError(w, err)
		return
	}
	s.publish()
	s.writeJSON(w, http.StatusOK, s.grid.State())
}

// RemoveRow handles the DELETE /rows/{rowKey} request.
func (s *Server) RemoveRow(w http.ResponseWriter, r *http.Request) {
	key, err := rowKeyParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.RemoveRow(key); err != nil {
		s.writeError(w, err)
		return
	}
	s.publish()
	w.WriteHeader(http.StatusNoContent)
}

type cellValue struct {
	Value any `json:"value"`
}

// GetValue handles the GET /rows/{rowKey}/values/{column} request.
func (s *Server) GetValue(w http.ResponseWriter, r *http.Request) {
	key, column, err := cellParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	v, err := s.grid.Value(key, column)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cellValue{Value: v})
}

// SetValue handles the PUT /rows/{rowKey}/values/{column} request.
func (s *Server) SetValue(w http.ResponseWriter, r *http.Request) {
	key, column, err := cellParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body cellValue
	if err := decodeBody(r, "CellValue", &body); err != nil {
		s.writeError(w, err)
		return
	}
	value, err := editor.SanitizeValue(body.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.SetValue(key, column, value); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE). Each message is a
// JSON state snapshot, sent whenever a request changes the state.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	s.mu.Lock()
	initial, err := json.Marshal(s.grid.State())
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("SubscribeEvents: encode failed", "err", err)
		return
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// publish broadcasts the state when it differs from the last broadcast.
// Callers hold s.mu.
func (s *Server) publish() {
	msg, err := json.Marshal(s.grid.State())
	if err != nil {
		s.logger.Error("publish: encode failed", "err", err)
		return
	}
	if bytes.Equal(msg, s.published) {
		return
	}
	s.published = msg
	s.streams.Broadcast(string(msg))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "err", err, "status", status)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRowNotFound), errors.Is(err, domain.ErrUnknownColumn):
		return http.StatusNotFound
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidParam),
		errors.Is(err, editor.ErrValueTooLarge),
		errors.Is(err, editor.ErrInvalidUTF8),
		errors.Is(err, domain.ErrUnknownKey),
		errors.Is(err, domain.ErrUnknownActionType),
		errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody checks the body against the named component schema before
// decoding it into dst.
func decodeBody(r *http.Request, schema string, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	ref, ok := doc.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found in api document", schema)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func rowKeyParam(r *http.Request) (domain.RowKey, error) {
	var key int
	err := runtime.BindStyledParameterWithLocation("simple", false, "rowKey",
		runtime.ParamLocationPath, chi.URLParam(r, "rowKey"), &key)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidParam, err)
	}
	return domain.RowKey(key), nil
}

func cellParams(r *http.Request) (domain.RowKey, string, error) {
	key, err := rowKeyParam(r)
	if err != nil {
		return 0, "", err
	}
	var column string
	err = runtime.BindStyledParameterWithLocation("simple", false, "column",
		runtime.ParamLocationPath, chi.URLParam(r, "column"), &column)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", errInvalidParam, err)
	}
	return key, column, nil
}
