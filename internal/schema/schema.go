// Package schema discovers the variable parts of the note store's Core Data
// schema. The junction table linking notes to tags is numbered by the
// application (e.g. Z_5TAGS) and its number drifts across releases, so the
// table and its column names are located at startup instead of being
// hardcoded.
package schema

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Metadata captures the discovered names. It is computed once when the store
// is constructed and never mutated afterwards.
type Metadata struct {
	// JunctionTable is the note/tag junction table (e.g. "Z_5TAGS")
	JunctionTable string
	// EntityColumn is the junction column referencing notes (e.g. "Z_5NOTES")
	EntityColumn string
	// LabelColumn is the junction column referencing tags (e.g. "Z_13TAGS")
	LabelColumn string
}

// Catalog enumerates tables and columns of a live connection.
type Catalog interface {
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]string, error)
}

// DiscoveryError reports that the versioned junction table or one of its
// columns could not be located. It is fatal to store construction.
type DiscoveryError struct {
	Missing string // "junction table", "entity column" or "label column"
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema discovery failed: %s: %v", e.Missing, e.Cause)
	}
	return fmt.Sprintf("schema discovery failed: no matching %s found", e.Missing)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

var junctionTablePattern = regexp.MustCompile(`^Z_[0-9]+TAGS$`)

const (
	entityColumnSuffix = "NOTES"
	labelColumnSuffix  = "TAGS"
)

// MatchJunctionTable selects the junction table from an enumerated list of
// table names. When several tables match the versioned pattern, the first in
// lexical order wins; zero matches is an error.
func MatchJunctionTable(tables []string) (string, error) {
	candidates := make([]string, 0, 1)
	for _, name := range tables {
		if junctionTablePattern.MatchString(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", &DiscoveryError{Missing: "junction table"}
	}
	sort.Strings(candidates)
	return candidates[0], nil
}

// MatchJunctionColumns selects the note-referencing and tag-referencing
// columns from an enumerated list of the junction table's column names.
// The sides are distinguished by suffix; first match wins.
func MatchJunctionColumns(columns []string) (entityCol, labelCol string, err error) {
	for _, name := range columns {
		if entityCol == "" && strings.HasSuffix(name, entityColumnSuffix) {
			entityCol = name
		}
	}
	if entityCol == "" {
		return "", "", &DiscoveryError{Missing: "entity column"}
	}
	for _, name := range columns {
		if labelCol == "" && name != entityCol && strings.HasSuffix(name, labelColumnSuffix) {
			labelCol = name
		}
	}
	if labelCol == "" {
		return "", "", &DiscoveryError{Missing: "label column"}
	}
	return entityCol, labelCol, nil
}

// Discover inspects the catalog and produces Metadata. Matching is pure
// (MatchJunctionTable / MatchJunctionColumns); this function only adds the
// catalog access around it.
func Discover(ctx context.Context, catalog Catalog) (Metadata, error) {
	tables, err := catalog.Tables(ctx)
	if err != nil {
		return Metadata{}, &DiscoveryError{Missing: "junction table", Cause: err}
	}

	junction, err := MatchJunctionTable(tables)
	if err != nil {
		return Metadata{}, err
	}

	columns, err := catalog.Columns(ctx, junction)
	if err != nil {
		return Metadata{}, &DiscoveryError{Missing: "entity column", Cause: err}
	}

	entityCol, labelCol, err := MatchJunctionColumns(columns)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		JunctionTable: junction,
		EntityColumn:  entityCol,
		LabelColumn:   labelCol,
	}, nil
}
