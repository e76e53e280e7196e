package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/utils"
)

// ErrNoteNotFound is returned when a note lookup matches nothing.
var ErrNoteNotFound = errors.New("note not found")

// sqliteTimeLayout is the text form produced by the views' datetime()
// conversion (UTC, no zone designator).
const sqliteTimeLayout = "2006-01-02 15:04:05"

// NotesQuery selects which notes to list.
type NotesQuery struct {
	// Limit caps the result; <= 0 means no limit
	Limit int
	// IncludeTrashed includes notes in the trash
	IncludeTrashed bool
	// IncludeArchived includes archived notes
	IncludeArchived bool
}

// DefaultNotesQuery matches the application's "recent notes" view: the ten
// most recently modified notes, trash and archive excluded.
func DefaultNotesQuery() NotesQuery {
	return NotesQuery{Limit: 10}
}

const noteColumns = "id, unique_id, title, content, modified, created, is_pinned"

// Notes lists notes ordered by most recently modified first.
func (s *Store) Notes(ctx context.Context, q NotesQuery) ([]model.Note, error) {
	var conditions []string
	if !q.IncludeTrashed {
		conditions = append(conditions, "is_trashed <> 1")
	}
	if !q.IncludeArchived {
		conditions = append(conditions, "is_archived <> 1")
	}

	query := "SELECT " + noteColumns + " FROM entities"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY modified DESC"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return s.queryNotes(ctx, query)
}

// NoteByID looks up a single note by its primary key. Returns
// ErrNoteNotFound when no such note exists.
func (s *Store) NoteByID(ctx context.Context, id model.NoteID) (*model.Note, error) {
	notes, err := s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM entities WHERE id = ?", int64(id))
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return &notes[0], nil
}

// NoteByUniqueID looks up a single note by its sync identifier, a UUID
// stable across devices. Returns ErrNoteNotFound when no such note exists.
func (s *Store) NoteByUniqueID(ctx context.Context, uid string) (*model.Note, error) {
	if !utils.IsValidUUID(uid) {
		return nil, ErrNoteNotFound
	}
	notes, err := s.queryNotes(ctx,
		"SELECT "+noteColumns+" FROM entities WHERE unique_id = ?", uid)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return &notes[0], nil
}

// SearchNotes lists non-trashed, non-archived notes whose title or content
// contains the term, most recently modified first.
func (s *Store) SearchNotes(ctx context.Context, term string, limit int) ([]model.Note, error) {
	query := "SELECT " + noteColumns + ` FROM entities
		WHERE (title LIKE ? OR content LIKE ?)
		  AND is_trashed <> 1 AND is_archived <> 1
		ORDER BY modified DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	pattern := "%" + term + "%"
	return s.queryNotes(ctx, query, pattern, pattern)
}

// NoteLinks lists the notes linked from the given note, most recently
// modified first. Trashed and archived targets are excluded.
func (s *Store) NoteLinks(ctx context.Context, from model.NoteID) ([]model.Note, error) {
	query := `SELECT e.id, e.unique_id, e.title, e.content, e.modified, e.created, e.is_pinned
		FROM entities e
		JOIN entity_links l ON l.to_id = e.id
		WHERE l.from_id = ? AND e.is_trashed <> 1 AND e.is_archived <> 1
		ORDER BY e.modified DESC`
	return s.queryNotes(ctx, query, int64(from))
}

// NoteTags lists the IDs of the tags attached to the given note.
func (s *Store) NoteTags(ctx context.Context, id model.NoteID) ([]model.TagID, error) {
	rows, err := s.gateway.Query(ctx,
		"SELECT label_id FROM entity_labels WHERE entity_id = ?", int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tagIDs []model.TagID
	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return nil, fmt.Errorf("failed to scan tag id: %w", err)
		}
		tagIDs = append(tagIDs, model.TagID(tagID))
	}
	return tagIDs, rows.Err()
}

// Tags lists all tags ordered by name.
func (s *Store) Tags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.gateway.Query(ctx,
		"SELECT id, name, modified FROM labels ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var (
			id       int64
			name     sql.NullString
			modified sql.NullString
		)
		if err := rows.Scan(&id, &name, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tag := model.Tag{ID: model.TagID(id)}
		if name.Valid {
			tag.Name = &name.String
		}
		if modified.Valid {
			t, err := parseStoreTime(modified.String)
			if err != nil {
				return nil, err
			}
			tag.Modified = &t
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// queryNotes runs a query selecting noteColumns and scans the results.
func (s *Store) queryNotes(ctx context.Context, query string, args ...interface{}) ([]model.Note, error) {
	rows, err := s.gateway.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func scanNote(rows *sql.Rows) (model.Note, error) {
	var (
		id       int64
		uniqueID string
		title    sql.NullString
		content  sql.NullString
		modified string
		created  string
		isPinned int64
	)
	if err := rows.Scan(&id, &uniqueID, &title, &content, &modified, &created, &isPinned); err != nil {
		return model.Note{}, fmt.Errorf("failed to scan note: %w", err)
	}

	modifiedAt, err := parseStoreTime(modified)
	if err != nil {
		return model.Note{}, err
	}
	createdAt, err := parseStoreTime(created)
	if err != nil {
		return model.Note{}, err
	}

	note := model.Note{
		ID:       model.NoteID(id),
		UniqueID: uniqueID,
		Title:    title.String,
		Modified: modifiedAt,
		Created:  createdAt,
		IsPinned: isPinned != 0,
	}
	if content.Valid {
		note.Content = &content.String
	}
	return note, nil
}

func parseStoreTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
