package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// SubjectsURI is the resource holding the registry snapshot.
const SubjectsURI = "anilink://subjects"

// Registry defines what the MCP server needs from the core.
type Registry interface {
	ports.Registry
	ports.Lister
}

// StateResponse is the structured result of the state tools.
type StateResponse struct {
	ID    string `json:"id" jsonschema_description:"The subject ID"`
	State string `json:"state" jsonschema_description:"The current state value of the subject"`
}

// AckResponse is the structured result of connect and disconnect.
type AckResponse struct {
	ID string `json:"id" jsonschema_description:"The subject ID"`
	OK bool   `json:"ok"`
}

// ListResponse is the structured result of list_subjects.
type ListResponse struct {
	Subjects []domain.Subject `json:"subjects" jsonschema_description:"Every connected subject, sorted by ID"`
}

type subjectArgs struct {
	ID     string `mapstructure:"id"`
	Action string `mapstructure:"action"`
	State  string `mapstructure:"state"`
}

// Server wraps a Registry and exposes it as an MCP Server.
type Server struct {
	registry  Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(reg Registry) *Server {
	s := &Server{
		registry:  reg,
		mcpServer: server.NewMCPServer("anilink-mcp", anilink.Version),
	}
	s.mcpServer.AddTools(s.tools()...)
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
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("connect",
				mcp.WithDescription("Register a subject with its action label. The subject starts dormant; an existing subject is reset."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Subject ID")),
				mcp.WithString("action", mcp.Required(), mcp.Description("The subject's action label, e.g. barks")),
				mcp.WithOutputSchema[AckResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleConnect),
		},
		{
			Tool: mcp.NewTool("disconnect",
				mcp.WithDescription("Remove a subject. Unknown subjects are ignored."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Subject ID")),
				mcp.WithOutputSchema[AckResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleDisconnect),
		},
		{
			Tool: mcp.NewTool("get_state",
				mcp.WithDescription("Read the current state value of a subject."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Subject ID")),
				mcp.WithOutputSchema[StateResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleGetState),
		},
		{
			Tool: mcp.NewTool("set_state",
				mcp.WithDescription("Request a state change. Accepts dormant, idle, the subject's action label or the alias 'action'."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Subject ID")),
				mcp.WithString("state", mcp.Required(), mcp.Description("Requested state value")),
				mcp.WithOutputSchema[StateResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleSetState),
		},
		{
			Tool: mcp.NewTool("list_subjects",
				mcp.WithDescription("List every connected subject with its action label and state."),
				mcp.WithOutputSchema[ListResponse](),
			),
			Handler: mcp.NewStructuredToolHandler(s.handleList),
		},
	}
}

func decodeArgs(raw map[string]any) (subjectArgs, error) {
	var args subjectArgs
	if err := mapstructure.Decode(raw, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

func requireID(args subjectArgs) error {
	if args.ID == "" {
		return errors.New("missing required argument: id")
	}
	return nil
}

func (s *Server) handleConnect(ctx context.Context, _ mcp.CallToolRequest, raw map[string]any) (AckResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return AckResponse{}, err
	}
	if err := requireID(args); err != nil {
		return AckResponse{}, err
	}
	if args.Action == "" {
		return AckResponse{}, errors.New("missing required argument: action")
	}
	if err := s.registry.Connect(ctx, args.ID, args.Action); err != nil {
		return AckResponse{}, fmt.Errorf("connect failed: %w", err)
	}
	return AckResponse{ID: args.ID, OK: true}, nil
}

func (s *Server) handleDisconnect(ctx context.Context, _ mcp.CallToolRequest, raw map[string]any) (AckResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return AckResponse{}, err
	}
	if err := requireID(args); err != nil {
		return AckResponse{}, err
	}
	if err := s.registry.Disconnect(ctx, args.ID); err != nil {
		return AckResponse{}, fmt.Errorf("disconnect failed: %w", err)
	}
	return AckResponse{ID: args.ID, OK: true}, nil
}

func (s *Server) handleGetState(ctx context.Context, _ mcp.CallToolRequest, raw map[string]any) (StateResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return StateResponse{}, err
	}
	if err := requireID(args); err != nil {
		return StateResponse{}, err
	}
	state, err := s.registry.GetState(ctx, args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	return StateResponse{ID: args.ID, State: state}, nil
}

func (s *Server) handleSetState(ctx context.Context, _ mcp.CallToolRequest, raw map[string]any) (StateResponse, error) {
	args, err := decodeArgs(raw)
	if err != nil {
		return StateResponse{}, err
	}
	if err := requireID(args); err != nil {
		return StateResponse{}, err
	}
	state, err := s.registry.SetState(ctx, args.ID, args.State)
	if err != nil {
		slog.Debug("MCP SetState rejected", "subject_id", args.ID, "requested", args.State, "error", err)
		return StateResponse{}, err
	}
	return StateResponse{ID: args.ID, State: state}, nil
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (ListResponse, error) {
	subjects, err := s.registry.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	return ListResponse{Subjects: subjects}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SubjectsURI, "Connected Subjects",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		subjects, err := s.registry.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list subjects: %w", err)
		}
		jsonBytes, _ := json.Marshal(subjects)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SubjectsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
