package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/keymap"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const stateURI = "lattice://state"

// Grid is the part of a lattice grid exposed as tools.
type Grid interface {
	State() lattice.State
	Rows(visibleOnly bool) []lattice.RowState
	HandleKey(stroke string) (domain.Action, error)
	Dispatch(a domain.Action) error
	FocusCell(key domain.RowKey, column string)
	Value(key domain.RowKey, column string) (any, error)
	Expand(key domain.RowKey, recursive bool) error
	Collapse(key domain.RowKey, recursive bool) error
}

// Cell is a focused cell in tool results.
type Cell struct {
	RowKey     int    `json:"rowKey" jsonschema_description:"Key of the focused row"`
	ColumnName string `json:"columnName" jsonschema_description:"Name of the focused column"`
	RowIndex   int    `json:"rowIndex" jsonschema_description:"Viewport index of the focused row, -1 when hidden"`
	Editing    bool   `json:"editing" jsonschema_description:"Whether an editor is open on the cell"`
}

// GridResponse is the structured result shared by the grid tools.
type GridResponse struct {
	Actions   []string               `json:"actions,omitempty" jsonschema_description:"Resolved actions in type:command form"`
	Focus     *Cell                  `json:"focus,omitempty" jsonschema_description:"Focused cell, absent when the grid is blurred"`
	Selection *domain.SelectionRange `json:"selection,omitempty" jsonschema_description:"Selected range in viewport rows and data columns"`
	RowCount  int                    `json:"rowCount" jsonschema_description:"Number of rows in the grid"`
	ViewCount int                    `json:"viewCount" jsonschema_description:"Number of visible rows"`
}

// RowsResponse is the result of list_rows.
type RowsResponse struct {
	Rows []lattice.RowState `json:"rows"`
}

// Server wraps a grid and exposes it as an MCP Server.
type Server struct {
	mu        sync.Mutex
	grid      Grid
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(grid Grid, opts ...Option) *Server {
	s := &Server{
		grid:      grid,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: get_state
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the focused cell, the selection and the row counts."),
		mcp.WithOutputSchema[GridResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: press_keys
	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press key strokes in order, e.g. [\"down\", \"shift-right\", \"enter\"]."),
		mcp.WithArray("keys", mcp.Required(), mcp.WithStringItems(), mcp.Description("Key strokes such as up, tab, ctrl-home, shift-down")),
		mcp.WithOutputSchema[GridResponse](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	// TOOL: dispatch_action
	s.mcpServer.AddTool(mcp.NewTool("dispatch_action",
		mcp.WithDescription("Dispatch a command without a key binding."),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action in type:command form, e.g. move:nextCell, select:all, remove")),
		mcp.WithOutputSchema[GridResponse](),
	), mcp.NewStructuredToolHandler(s.handleDispatchAction))

	// TOOL: focus_cell
	s.mcpServer.AddTool(mcp.NewTool("focus_cell",
		mcp.WithDescription("Focus a cell directly, as a pointer click would."),
		mcp.WithNumber("row_key", mcp.Required(), mcp.Description("Key of the row")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Name of the column")),
		mcp.WithOutputSchema[GridResponse](),
	), mcp.NewStructuredToolHandler(s.handleFocusCell))

	// TOOL: expand_row / collapse_row
	for _, t := range []struct {
		name, desc string
		expand     bool
	}{
		{"expand_row", "Expand a tree row, showing its children.", true},
		{"collapse_row", "Collapse a tree row, hiding its children.", false},
	} {
		expand := t.expand
		s.mcpServer.AddTool(mcp.NewTool(t.name,
			mcp.WithDescription(t.desc),
			mcp.WithNumber("row_key", mcp.Required(), mcp.Description("Key of the row")),
			mcp.WithBoolean("recursive", mcp.Description("Apply to every descendant too")),
			mcp.WithOutputSchema[GridResponse](),
		), mcp.NewStructuredToolHandler(func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
			return s.handleToggleRow(args, expand)
		}))
	}

	// TOOL: list_rows
	s.mcpServer.AddTool(mcp.NewTool("list_rows",
		mcp.WithDescription("List rows in document order with their values and tree state."),
		mcp.WithBoolean("visible_only", mcp.Description("Only rows not hidden by a collapsed ancestor")),
	), mcp.NewStructuredToolHandler(s.handleListRows))
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://state
	s.mcpServer.AddResource(mcp.NewResource(stateURI, "Current Grid State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		st := s.grid.State()
		s.mu.Unlock()
		jsonBytes, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      stateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// Handler methods for structured tools

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response(nil), nil
}

func (s *Server) handleListRows(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RowsResponse, error) {
	visibleOnly, _ := args["visible_only"].(bool)

	s.mu.Lock()
	defer s.mu.Unlock()
	return RowsResponse{Rows: s.grid.Rows(visibleOnly)}, nil
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
	keys, err := stringList(args["keys"])
	if err != nil {
		return GridResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var actions []string
	for i, stroke := range keys {
		a, err := s.grid.HandleKey(stroke)
		if err != nil {
			s.logger.Warn("MCP press_keys: stroke rejected", "index", i, "err", err)
			return GridResponse{}, fmt.Errorf("keys[%d]: %w", i, err)
		}
		actions = append(actions, a.String())
	}
	return s.response(actions), nil
}

func (s *Server) handleDispatchAction(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
	raw, _ := args["action"].(string)
	a, err := keymap.ParseAction(raw)
	if err != nil {
		return GridResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.Dispatch(a); err != nil {
		return GridResponse{}, err
	}
	return s.response([]string{a.String()}), nil
}

func (s *Server) handleFocusCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GridResponse, error) {
	key, err := rowKeyArg(args)
	if err != nil {
		return GridResponse{}, err
	}
	column, _ := args["column"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.grid.Value(key, column); err != nil {
		return GridResponse{}, err
	}
	s.grid.FocusCell(key, column)
	return s.response(nil), nil
}

func (s *Server) handleToggleRow(args map[string]interface{}, expand bool) (GridResponse, error) {
	key, err := rowKeyArg(args)
	if err != nil {
		return GridResponse{}, err
	}
	recursive, _ := args["recursive"].(bool)

	s.mu.Lock()
	defer s.mu.Unlock()
	apply := s.grid.Collapse
	if expand {
		apply = s.grid.Expand
	}
	if err := apply(key, recursive); err != nil {
		return GridResponse{}, err
	}
	return s.response(nil), nil
}

// response builds a GridResponse. Callers hold s.mu.
func (s *Server) response(actions []string) GridResponse {
	st := s.grid.State()
	resp := GridResponse{
		Actions:   actions,
		Selection: st.Selection,
		RowCount:  st.RowCount,
		ViewCount: st.ViewCount,
	}
	if f := st.Focus; f.RowKey.Valid && f.ColumnName != "" {
		resp.Focus = &Cell{
			RowKey:     int(f.RowKey.Key),
			ColumnName: f.ColumnName,
			RowIndex:   f.RowIndex,
			Editing:    f.EditingAddress != nil,
		}
	}
	return resp
}

var errInvalidArgument = errors.New("invalid argument")

func rowKeyArg(args map[string]interface{}) (domain.RowKey, error) {
	v, ok := args["row_key"].(float64)
	if !ok || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: row_key must be an integer", errInvalidArgument)
	}
	return domain.RowKey(v), nil
}

// stringList accepts a JSON array of strings or a single comma-separated
// string.
func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: keys[%d] is not a string", errInvalidArgument, i)
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: keys is empty", errInvalidArgument)
		}
		return out, nil
	case string:
		var out []string
		for _, p := range strings.Split(t, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: keys is empty", errInvalidArgument)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: keys must be an array of strings", errInvalidArgument)
}
