package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lorekeeper/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
)

func listLocationsTool() mcp.Tool {
	return mcp.NewTool("list_locations",
		mcp.WithDescription("List the names of all known locations in the campaign vault."),
	)
}

func getLocationTool() mcp.Tool {
	return mcp.NewTool("get_location",
		mcp.WithDescription("Get the full markdown notes for a single location."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact location name, without the .md extension"),
		),
	)
}

func listCharactersTool() mcp.Tool {
	return mcp.NewTool("list_characters",
		mcp.WithDescription("List all characters grouped by the organization they belong to."),
	)
}

func getCharacterTool() mcp.Tool {
	return mcp.NewTool("get_character",
		mcp.WithDescription("Get the full markdown notes for a single character."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact character name, without the .md extension"),
		),
		mcp.WithString("organizationPath",
			mcp.Required(),
			mcp.Description("Slash-separated organization path, e.g. \"Harpers\" or \"Zhentarim/Agents\""),
		),
	)
}

func getStorySoFarTool() mcp.Tool {
	return mcp.NewTool("get_story_so_far",
		mcp.WithDescription("Get the running story-so-far summary of the campaign sessions."),
	)
}

func (s *Server) handleListLocations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.locations.List()
	if err != nil {
		s.logger.Error("Listing locations failed", "error", err)
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No locations found in the vault."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available locations (%d):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.locations.Get(name)
	if vault.IsNotFound(err) {
		return mcp.NewToolResultError(s.unknownLocationMessage(name)), nil
	}
	if vault.IsInvalidArgument(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		s.logger.Error("Reading location failed", "name", name, "error", err)
		return nil, fmt.Errorf("failed to read location %q: %w", name, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", name, content)), nil
}

// unknownLocationMessage lists the available locations so the client can
// self-correct a misspelled name without a second round trip.
func (s *Server) unknownLocationMessage(name string) string {
	msg := fmt.Sprintf("Location %q not found.", name)
	names, err := s.locations.List()
	if err != nil || len(names) == 0 {
		return msg
	}
	return fmt.Sprintf("%s Available locations: %s", msg, strings.Join(names, ", "))
}

func (s *Server) handleListCharacters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.characters.List()
	if err != nil {
		s.logger.Error("Listing characters failed", "error", err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	if len(groups) == 0 {
		return mcp.NewToolResultText("No characters found in the vault."), nil
	}

	out, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode character listing: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleGetCharacter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	orgPath, err := req.RequireString("organizationPath")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.characters.Get(name, orgPath)
	if vault.IsNotFound(err) {
		return mcp.NewToolResultError(
			fmt.Sprintf("Character %q not found under organization %q.", name, orgPath)), nil
	}
	if vault.IsInvalidArgument(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		s.logger.Error("Reading character failed", "name", name, "org", orgPath, "error", err)
		return nil, fmt.Errorf("failed to read character %q: %w", name, err)
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleGetStorySoFar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := s.sessions.StorySoFar()
	if vault.IsNotFound(err) {
		return mcp.NewToolResultError(
			fmt.Sprintf("No story summary found. Expected %s in the sessions directory.", vault.StoryFileName)), nil
	}
	if err != nil {
		s.logger.Error("Reading story summary failed", "error", err)
		return nil, fmt.Errorf("failed to read story summary: %w", err)
	}
	return mcp.NewToolResultText(content), nil
}
