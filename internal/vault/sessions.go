package vault

import (
	"fmt"
	"path/filepath"
)

// StoryFileName is the reserved-name note holding the campaign's running
// session summary. The "__" prefix keeps it out of any note listing.
const StoryFileName = ReservedPrefix + "story_so_far" + MarkdownExt

// SessionLog reads the single story-so-far note from the sessions root.
// It has no listing and no parameters: one vault, one running summary.
type SessionLog struct {
	dir string
}

// NewSessionLog returns a session log over dir.
func NewSessionLog(dir string) *SessionLog {
	return &SessionLog{dir: dir}
}

// Dir returns the configured sessions root.
func (s *SessionLog) Dir() string { return s.dir }

// StorySoFar returns the story note's content exactly as stored, with no
// trimming or reformatting. A missing sessions directory or note fails with
// ErrNotFound.
func (s *SessionLog) StorySoFar() (string, error) {
	content, err := readNote(filepath.Join(s.dir, StoryFileName))
	if err != nil {
		return "", fmt.Errorf("story so far: %w", err)
	}
	return content, nil
}
