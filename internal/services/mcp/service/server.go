package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/sheetkeeper/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "sheetkeeper MCP"
	serverVersion = "0.1.0"
)

// Config configures the MCP server.
type Config struct {
	// Locale renders domain errors when a call does not name one.
	Locale string
	Logger *log.Logger
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	logger    *log.Logger
}

type toolRegistration struct {
	name     string
	register func(*mcp.Server)
}

// New creates an MCP server exposing sheet tools backed by sheet.
func New(sheet domain.SheetService, cfg Config) (*Server, error) {
	if sheet == nil {
		return nil, errors.New("sheet service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	for _, registration := range toolRegistrations(sheet, cfg.Locale) {
		registration.register(mcpServer)
	}
	return &Server{mcpServer: mcpServer, logger: logger}, nil
}

func toolRegistrations(sheet domain.SheetService, locale string) []toolRegistration {
	return []toolRegistration{
		{
			name: domain.ComputeDerivedTool().Name,
			register: func(s *mcp.Server) {
				mcp.AddTool(s, domain.ComputeDerivedTool(), domain.ComputeDerivedHandler(sheet, locale))
			},
		},
		{
			name: domain.ListNationalitiesTool().Name,
			register: func(s *mcp.Server) {
				mcp.AddTool(s, domain.ListNationalitiesTool(), domain.ListNationalitiesHandler(sheet))
			},
		},
		{
			name: domain.ListClassesTool().Name,
			register: func(s *mcp.Server) {
				mcp.AddTool(s, domain.ListClassesTool(), domain.ListClassesHandler(sheet))
			},
		},
	}
}

// ToolNames lists the registered tool names in registration order.
func ToolNames() []string {
	registrations := toolRegistrations(nil, "")
	names := make([]string, 0, len(registrations))
	for _, registration := range registrations {
		names = append(names, registration.name)
	}
	return names
}

// Serve runs the server over stdio until ctx is canceled or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.logger.Printf("serving %d tools over %T", len(ToolNames()), transport)
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
