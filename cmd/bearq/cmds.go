package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakeswenson/bear-query/internal/database"
	"github.com/jakeswenson/bear-query/internal/mcp"
	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/store"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// Represents the state used when processing a command.
type Action struct {
	cmd   *cobra.Command
	quiet bool
	store *store.Store
}

func newAction(cmd *cobra.Command) *Action {
	result := &Action{cmd: cmd}
	result.quiet = result.getBool("quiet")
	return result
}

func (a *Action) Store() *store.Store {
	if a.store == nil {
		a.store = a.newStore()
	}
	return a.store
}

func (a *Action) Context() context.Context {
	return a.cmd.Context()
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) newStore() *store.Store {
	cfg := database.Config{Path: a.getString("db")}
	db, err := database.OpenConfig(cfg)
	if err != nil {
		fatal("opening database: %s", err)
	}
	st, err := store.New(a.Context(), db)
	if err != nil {
		db.Close()
		fatal("initializing store: %s", err)
	}
	return st
}

func (a *Action) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// Print the given value as JSON on stdout.
func (a *Action) Show(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("%s", err)
	}
	fmt.Println(string(data))
}

func noteID(arg string) model.NoteID {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fatal("invalid note ID: %s", arg)
	}
	return model.NoteID(id)
}

func listNotes(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	q := store.DefaultNotesQuery()
	q.Limit = action.getInt("limit")
	q.IncludeTrashed = action.getBool("trashed")
	q.IncludeArchived = action.getBool("archived")

	notes, err := action.Store().Notes(action.Context(), q)
	if err != nil {
		fatal("%s", err)
	}
	action.Show(notes)
}

func getNote(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	// Accept either the numeric primary key or the sync UUID.
	var note *model.Note
	var err error
	if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
		note, err = action.Store().NoteByID(action.Context(), model.NoteID(id))
	} else {
		note, err = action.Store().NoteByUniqueID(action.Context(), args[0])
	}
	if err != nil {
		fatal("%s", err)
	}
	action.Show(note)
}

func searchNotes(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	notes, err := action.Store().SearchNotes(action.Context(), args[0], action.getInt("limit"))
	if err != nil {
		fatal("%s", err)
	}
	action.Show(notes)
}

func noteLinks(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	notes, err := action.Store().NoteLinks(action.Context(), noteID(args[0]))
	if err != nil {
		fatal("%s", err)
	}
	action.Show(notes)
}

func noteTags(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	tags, err := action.Store().NoteTags(action.Context(), noteID(args[0]))
	if err != nil {
		fatal("%s", err)
	}
	action.Show(tags)
}

func listTags(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	tags, err := action.Store().Tags(action.Context())
	if err != nil {
		fatal("%s", err)
	}
	action.Show(tags)
}

func runQuery(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	result, err := action.Store().Query(action.Context(), args[0])
	if err != nil {
		fatal("%s", err)
	}

	out := struct {
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}{
		Columns: result.ColumnNames(),
		Rows:    result.Rows(),
	}
	action.Show(out)
}

func showSchema(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	md := action.Store().Metadata()
	action.Show(model.SchemaInfo{
		JunctionTable: md.JunctionTable,
		EntityColumn:  md.EntityColumn,
		LabelColumn:   md.LabelColumn,
	})
}

func serveMCP(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	defer action.Close()

	srv := mcp.NewMCPServer(action.Store())
	if err := srv.StartStdio(); err != nil {
		fatal("%s", err)
	}
}
