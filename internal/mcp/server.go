package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/fcat/internal/config"
	"github.com/nickcecere/fcat/internal/search"
)

const (
	// MCPVersion is the protocol version we support.
	MCPVersion = "2024-11-05"

	// ServerName is the name of this MCP server.
	ServerName = "fcat"
)

// ServerVersion is reported during initialization. The CLI sets it from the
// build version.
var ServerVersion = "dev"

// Server is the MCP server for a catalog.
type Server struct {
	searcher *search.Searcher
	cfg      *config.Config

	reader *bufio.Reader
	writer io.Writer

	// State
	initialized bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) ServerOption {
	return func(s *Server) {
		s.reader = bufio.NewReader(r)
		s.writer = w
	}
}

// NewServer creates a new MCP server over a searcher.
func NewServer(searcher *search.Searcher, cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		searcher: searcher,
		cfg:      cfg,
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes requests until EOF or until the context is cancelled.
// Requests are handled one at a time.
func (s *Server) Run(ctx context.Context) error {
	log.Info("MCP server starting", "records", s.searcher.Store().Len())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read request: %w", err)
		}
		eof := err != nil

		if line = strings.TrimSpace(line); line != "" {
			s.handleLine(ctx, line)
		}

		if eof {
			log.Info("MCP server received EOF, shutting down")
			return nil
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line string) {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.send(errorResponse(nil, ErrorCodeParse, "Parse error", err.Error()))
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		s.send(errorResponse(req.ID, ErrorCodeInvalidRequest, "Invalid request", ""))
		return
	}
	s.handleRequest(ctx, req)
}

// handleRequest processes a single MCP request.
func (s *Server) handleRequest(ctx context.Context, req Request) {
	log.Debug("Received request", "method", req.Method, "id", string(req.ID))

	var result any
	var err error

	switch req.Method {
	case "initialize":
		result, err = s.handleInitialize(req.Params)
	case "initialized", "notifications/initialized":
		s.initialized = true
		log.Info("MCP server initialized")
		return
	case "tools/list":
		result = &ListToolsResult{Tools: tools()}
	case "tools/call":
		result, err = s.handleCallTool(ctx, req.Params)
	case "ping":
		result = map[string]any{}
	default:
		if req.IsNotification() {
			// Unknown notifications are ignored
			return
		}
		s.send(errorResponse(req.ID, ErrorCodeMethodNotFound, "Method not found", req.Method))
		return
	}

	var paramErr *paramError
	switch {
	case errors.As(err, &paramErr):
		s.send(errorResponse(req.ID, ErrorCodeInvalidParams, "Invalid params", err.Error()))
	case err != nil:
		s.send(errorResponse(req.ID, ErrorCodeInternal, "Internal error", err.Error()))
	default:
		s.send(resultResponse(req.ID, result))
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(params json.RawMessage) (*InitializeResult, error) {
	var p InitializeParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &paramError{err: err}
		}
	}

	log.Info("Initializing MCP server",
		"clientName", p.ClientInfo.Name,
		"clientVersion", p.ClientInfo.Version,
		"protocolVersion", p.ProtocolVersion,
	)

	return &InitializeResult{
		ProtocolVersion: MCPVersion,
		Capabilities: Capabilities{
			Tools: &struct{}{},
		},
		ServerInfo: Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

// handleCallTool executes a tool and returns the result.
func (s *Server) handleCallTool(ctx context.Context, params json.RawMessage) (*CallToolResult, error) {
	var p CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &paramError{err: err}
	}

	log.Debug("Calling tool", "name", p.Name, "arguments", p.Arguments)

	var (
		text string
		err  error
	)
	switch p.Name {
	case ToolSearch:
		text, err = s.toolSearch(ctx, p.Arguments)
	case ToolGet:
		text, err = s.toolGet(p.Arguments)
	case ToolReport:
		text, err = s.toolReport()
	case ToolUpdateTags:
		text, err = s.toolUpdateTags(p.Arguments)
	default:
		return textResult(fmt.Sprintf("Unknown tool: %s", p.Name), true), nil
	}

	// Tool failures are reported to the model, not as protocol errors
	if err != nil {
		return textResult("Error: "+err.Error(), true), nil
	}
	return textResult(text, false), nil
}

// send writes a response line.
func (s *Server) send(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error("Failed to marshal response", "error", err)
		return
	}
	fmt.Fprintln(s.writer, string(data))
}

// paramError marks malformed request parameters.
type paramError struct {
	err error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid params: %v", e.err)
}

func (e *paramError) Unwrap() error {
	return e.err
}
