package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	// Notes
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List the most recently modified notes",
		Run:   listNotes}
	cmd.Flags().Int("limit", 10, "maximum number of notes to return")
	cmd.Flags().Bool("trashed", false, "include trashed notes")
	cmd.Flags().Bool("archived", false, "include archived notes")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "note id-or-uuid",
		Short: "Show a single note by primary key or sync UUID",
		Args:  cobra.ExactArgs(1),
		Run:   getNote}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "search term",
		Short: "Search notes by title or content",
		Args:  cobra.ExactArgs(1),
		Run:   searchNotes}
	cmd.Flags().Int("limit", 10, "maximum number of notes to return")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "note-links id",
		Short: "List notes linked from the given note",
		Args:  cobra.ExactArgs(1),
		Run:   noteLinks}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "note-tags id",
		Short: "List the tag IDs attached to a note",
		Args:  cobra.ExactArgs(1),
		Run:   noteTags}
	root.AddCommand(cmd)

	// Tags
	cmd = &cobra.Command{
		Use:   "tags",
		Short: "List all tags",
		Run:   listTags}
	root.AddCommand(cmd)

	// Queries
	cmd = &cobra.Command{
		Use:   "query sql",
		Short: "Run a read-only SQL query against the stable relations",
		Args:  cobra.ExactArgs(1),
		Run:   runQuery}
	root.AddCommand(cmd)

	// MCP
	cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the note store to MCP clients over stdio",
		Run:   serveMCP}
	root.AddCommand(cmd)

	// Schema
	cmd = &cobra.Command{
		Use:   "schema",
		Short: "Show the discovered schema metadata",
		Run:   showSchema}
	root.AddCommand(cmd)
}

func main() {
	root := &cobra.Command{
		Use:   "bearq",
		Short: "Query Bear notes through version-stable relations",
	}
	root.PersistentFlags().String("db", "", "path to the note database (default: the per-user Bear location)")
	root.PersistentFlags().Bool("quiet", false, "suppress informational output")
	addCommands(root)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
