package vault

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
)

// NoteMeta is the optional YAML frontmatter a vault note may carry. Only
// presentation layers (browse, doctor) look at it; tool results always pass
// note content through untouched.
type NoteMeta struct {
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags,omitempty"`
}

// Summarize returns a one-line description for the note at path: the
// frontmatter description when present, otherwise the first non-empty line
// of the body. Unreadable or empty notes get a placeholder.
func Summarize(path string) string {
	const fallback = "(no description)"

	content, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	var meta NoteMeta
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		// Malformed frontmatter; fall back to the raw content.
		body = content
	}
	if meta.Description != "" {
		return meta.Description
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimLeft(scanner.Text(), "# "))
		if line != "" {
			return line
		}
	}
	return fallback
}
