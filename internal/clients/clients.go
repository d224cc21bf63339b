// Package clients holds the registry of MCP clients the server can be
// installed into, and renders the JSON configuration snippet each client
// expects.
package clients

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"lorekeeper/pkg/fileops"
)

// ClientConfig describes one MCP client and where its server
// configuration lives.
type ClientConfig struct {
	// Name of the client application.
	Name string

	// Explanation shown when picking a client.
	Explanation string

	// ConfigPath is the client's MCP configuration file, home-relative
	// (~/...) or relative to the project directory.
	ConfigPath string

	// ServersKey is the JSON key the client uses for its server map.
	// Almost always "mcpServers"; VS Code uses "servers".
	ServersKey string
}

var ClientConfigs = []ClientConfig{
	{
		// https://modelcontextprotocol.io/quickstart/user
		Name:        "Claude Desktop",
		Explanation: "Adds the server to Claude Desktop's global configuration.\nFor more information, see https://modelcontextprotocol.io/quickstart/user",
		ConfigPath:  "~/Library/Application Support/Claude/claude_desktop_config.json",
		ServersKey:  "mcpServers",
	},
	{
		// https://docs.anthropic.com/en/docs/claude-code/mcp
		Name:        "Claude Code",
		Explanation: "Adds the server to the project's .mcp.json so it is shared with the repository.\nFor more information, see https://docs.anthropic.com/en/docs/claude-code/mcp",
		ConfigPath:  ".mcp.json",
		ServersKey:  "mcpServers",
	},
	{
		// https://docs.cursor.com/en/context/mcp
		Name:        "Cursor",
		Explanation: "Adds the server to Cursor's global MCP configuration.\nFor more information, see https://docs.cursor.com/en/context/mcp",
		ConfigPath:  "~/.cursor/mcp.json",
		ServersKey:  "mcpServers",
	},
	{
		// https://docs.windsurf.com/windsurf/cascade/mcp
		Name:        "Windsurf",
		Explanation: "Adds the server to Windsurf's Cascade MCP configuration.\nFor more information, see https://docs.windsurf.com/windsurf/cascade/mcp",
		ConfigPath:  "~/.codeium/windsurf/mcp_config.json",
		ServersKey:  "mcpServers",
	},
	{
		// https://code.visualstudio.com/docs/copilot/chat/mcp-servers
		Name:        "VS Code",
		Explanation: "Adds the server to the workspace's .vscode/mcp.json.\nFor more information, see https://code.visualstudio.com/docs/copilot/chat/mcp-servers",
		ConfigPath:  ".vscode/mcp.json",
		ServersKey:  "servers",
	},
}

// Interface that is compatible with bubble list components
func (c ClientConfig) Title() string       { return c.Name }
func (c ClientConfig) Description() string { return c.Explanation }
func (c ClientConfig) FilterValue() string {
	return c.Name + " " + c.Explanation + " " + c.ConfigPath
}

func GetAllClientConfigs() []ClientConfig {
	return ClientConfigs
}

// FindClientConfig looks up a client by its exact name.
func FindClientConfig(name string) (ClientConfig, bool) {
	for _, c := range ClientConfigs {
		if c.Name == name {
			return c, true
		}
	}
	return ClientConfig{}, false
}

// serverEntry is the per-server object inside the client's server map.
type serverEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Snippet renders the JSON block the user pastes into the client's
// configuration file to register this server.
//
// binaryPath is the lorekeeper executable; env carries the vault
// location variables the server should start with.
func (c ClientConfig) Snippet(binaryPath string, env map[string]string) (string, error) {
	if binaryPath == "" {
		return "", fmt.Errorf("binary path cannot be empty")
	}

	snippet := map[string]any{
		c.ServersKey: map[string]serverEntry{
			"lorekeeper": {
				Command: binaryPath,
				Args:    []string{"serve"},
				Env:     env,
			},
		},
	}

	out, err := json.MarshalIndent(snippet, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode client snippet: %w", err)
	}
	return string(out), nil
}

// ResolvedConfigPath expands the home-relative config path for display.
func (c ClientConfig) ResolvedConfigPath() string {
	return fileops.ExpandPath(c.ConfigPath)
}

// DisplayConfigPath returns the config path for terminal output. Paths
// inside the home directory are abbreviated back to the ~/ form; project
// and out-of-home paths come back unchanged.
func (c ClientConfig) DisplayConfigPath() string {
	expanded := c.ResolvedConfigPath()
	if !filepath.IsAbs(expanded) {
		return expanded
	}
	rel, err := fileops.ValidatePathInHome(expanded)
	if err != nil || rel == "." {
		return expanded
	}
	return filepath.Join("~", rel)
}
