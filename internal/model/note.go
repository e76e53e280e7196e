package model

import "time"

// NoteID is a note's primary key in the underlying store. It is stable for
// the note's lifetime and is the identifier used for joins and lookups.
type NoteID int64

// TagID is a tag's primary key in the underlying store.
type TagID int64

// Note is a note read through the normalized entities relation.
type Note struct {
	ID       NoteID    `json:"id"`
	UniqueID string    `json:"uniqueId"`
	Title    string    `json:"title"`
	Content  *string   `json:"content,omitempty"` // nil for empty notes
	Modified time.Time `json:"modified"`
	Created  time.Time `json:"created"`
	IsPinned bool      `json:"isPinned"`
}

// Tag is a tag read through the normalized labels relation. Names can be
// hierarchical ("work/projects"). A nil name or modified timestamp is
// unusual but possible in the store.
type Tag struct {
	ID       TagID      `json:"id"`
	Name     *string    `json:"name,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
}
