package vault

// NoteItem is a listable vault entry, shaped to satisfy the bubbles list
// item interface used by the browse view.
type NoteItem struct {
	Name string // display name (filename stem)
	Org  string // organization path, empty for locations and sessions
	Path string // absolute path to the backing file
	Desc string // one-line summary for list rendering
}

func (i NoteItem) Title() string { return i.Name }

func (i NoteItem) Description() string {
	if i.Org != "" {
		return i.Org + ": " + i.Desc
	}
	return i.Desc
}

func (i NoteItem) FilterValue() string { return i.Name + " " + i.Org }
