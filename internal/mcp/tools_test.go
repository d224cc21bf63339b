package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a Server over a throwaway vault populated with a
// couple of locations, characters and a story summary.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	locations := filepath.Join(root, "Locations")
	characters := filepath.Join(root, "Characters")
	sessions := filepath.Join(root, "Sessions")

	require.NoError(t, os.MkdirAll(locations, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(characters, "Harpers"), 0o755))
	require.NoError(t, os.MkdirAll(sessions, 0o755))

	writeFile(t, filepath.Join(locations, "Waterdeep.md"), "City of Splendors.")
	writeFile(t, filepath.Join(locations, "Baldur's Gate.md"), "Port city on the Sword Coast.")
	writeFile(t, filepath.Join(characters, "Harpers", "Mirt.md"), "Retired adventurer and moneylender.")
	writeFile(t, filepath.Join(sessions, vault.StoryFileName), "The party met in a tavern.")

	logger, _ := logging.NewTestLogger()
	return &Server{
		logger:     logger,
		locations:  vault.NewLocationCatalog(locations),
		characters: vault.NewCharacterDirectory(characters),
		sessions:   vault.NewSessionLog(sessions),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the single text content block from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandleListLocations(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListLocations(context.Background(), callRequest("list_locations", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Equal(t, "Available locations (2):\n- Baldur's Gate\n- Waterdeep\n", text)
}

func TestHandleListLocationsEmpty(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := &Server{
		logger:     logger,
		locations:  vault.NewLocationCatalog(filepath.Join(t.TempDir(), "missing")),
		characters: vault.NewCharacterDirectory(t.TempDir()),
		sessions:   vault.NewSessionLog(t.TempDir()),
	}

	result, err := s.handleListLocations(context.Background(), callRequest("list_locations", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No locations found")
}

func TestHandleGetLocation(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetLocation(context.Background(),
		callRequest("get_location", map[string]any{"name": "Waterdeep"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "# Waterdeep\n\nCity of Splendors.", resultText(t, result))
}

func TestHandleGetLocationNotFound(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetLocation(context.Background(),
		callRequest("get_location", map[string]any{"name": "Neverwinter"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, `"Neverwinter" not found`)
	assert.Contains(t, text, "Waterdeep")
}

func TestHandleGetLocationMissingArgument(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetLocation(context.Background(),
		callRequest("get_location", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetLocationInvalidName(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetLocation(context.Background(),
		callRequest("get_location", map[string]any{"name": "../secrets"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListCharacters(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListCharacters(context.Background(), callRequest("list_characters", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var groups map[string][]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &groups))
	assert.Equal(t, map[string][]string{"Harpers": {"Mirt"}}, groups)
}

func TestHandleGetCharacter(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetCharacter(context.Background(),
		callRequest("get_character", map[string]any{
			"name":             "Mirt",
			"organizationPath": "Harpers",
		}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Retired adventurer and moneylender.", resultText(t, result))
}

func TestHandleGetCharacterNotFound(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetCharacter(context.Background(),
		callRequest("get_character", map[string]any{
			"name":             "Mirt",
			"organizationPath": "Zhentarim",
		}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"Zhentarim"`)
}

func TestHandleGetCharacterInvalidOrgPath(t *testing.T) {
	s := newTestServer(t)

	for _, orgPath := range []string{"", "..", "a/../b", "a//b"} {
		result, err := s.handleGetCharacter(context.Background(),
			callRequest("get_character", map[string]any{
				"name":             "Mirt",
				"organizationPath": orgPath,
			}))
		require.NoError(t, err, "orgPath %q", orgPath)
		assert.True(t, result.IsError, "orgPath %q should be rejected", orgPath)
	}
}

func TestHandleGetStorySoFar(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetStorySoFar(context.Background(), callRequest("get_story_so_far", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "The party met in a tavern.", resultText(t, result))
}

func TestHandleGetStorySoFarMissing(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := &Server{
		logger:   logger,
		sessions: vault.NewSessionLog(t.TempDir()),
	}

	result, err := s.handleGetStorySoFar(context.Background(), callRequest("get_story_so_far", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), vault.StoryFileName)
}
