package mcp

import (
	"fmt"

	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"
	"lorekeeper/internal/vault"

	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName identifies the MCP server to clients.
	ServerName = "lorekeeper"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the vault lookup components.
type Server struct {
	logger     *logging.AppLogger
	locations  *vault.LocationCatalog
	characters *vault.CharacterDirectory
	sessions   *vault.SessionLog
	mcp        *server.MCPServer
}

// NewServer validates the configured vault roots, builds the lookup
// components and registers the tools. The returned server is ready to
// Serve.
func NewServer(cfg *config.Config, logger *logging.AppLogger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vault validation failed: %w", err)
	}

	s := &Server{
		logger:     logger,
		locations:  vault.NewLocationCatalog(cfg.LocationsRoot()),
		characters: vault.NewCharacterDirectory(cfg.CharactersRoot()),
		sessions:   vault.NewSessionLog(cfg.SessionsRoot()),
	}

	s.mcp = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)
	s.registerTools()

	logger.Info("MCP server initialized",
		"locations", cfg.LocationsRoot(),
		"characters", cfg.CharactersRoot(),
		"sessions", cfg.SessionsRoot(),
	)
	return s, nil
}

// Serve runs the server on stdio and blocks until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("Serving MCP over stdio")
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listLocationsTool(), s.handleListLocations)
	s.mcp.AddTool(getLocationTool(), s.handleGetLocation)
	s.mcp.AddTool(listCharactersTool(), s.handleListCharacters)
	s.mcp.AddTool(getCharacterTool(), s.handleGetCharacter)
	s.mcp.AddTool(getStorySoFarTool(), s.handleGetStorySoFar)
}
