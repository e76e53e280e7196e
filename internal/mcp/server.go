package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/security"
	"github.com/jakeswenson/bear-query/internal/store"
)

// MCPServer exposes the note store to LLM clients over the Model Context Protocol.
type MCPServer struct {
	store     *store.Store
	validator *security.SQLValidator
	server    *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(st *store.Store) *MCPServer {
	s := server.NewMCPServer(
		"bear-query",
		"1.0.0",
	)

	mcpServer := &MCPServer{
		store:     st,
		validator: security.NewSQLValidator(security.DefaultMaxQueryLength),
		server:    s,
	}

	// Register tools that will be available to LLMs
	mcpServer.registerTools()

	return mcpServer
}

// registerTools registers all available tools with the MCP server
func (m *MCPServer) registerTools() {
	queryTool := mcp.NewTool("query_notes",
		mcp.WithDescription("Execute a read-only SQL query against the note database. "+
			"Stable relations: entities (notes), labels (tags), entity_labels (note-tag pairs), entity_links (backlinks)."),
		mcp.WithString("sql", mcp.Required(), mcp.Description("The SQL query to execute")))
	m.server.AddTool(queryTool, m.handleQueryNotes)

	listNotesTool := mcp.NewTool("list_notes",
		mcp.WithDescription("List the most recently modified notes"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of notes to return, default 10")))
	m.server.AddTool(listNotesTool, m.handleListNotes)

	getNoteTool := mcp.NewTool("get_note",
		mcp.WithDescription("Get a single note including its content"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("The note ID")))
	m.server.AddTool(getNoteTool, m.handleGetNote)

	searchNotesTool := mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by title or content"),
		mcp.WithString("term", mcp.Required(), mcp.Description("The search term")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of notes to return, default 10")))
	m.server.AddTool(searchNotesTool, m.handleSearchNotes)

	listTagsTool := mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags"))
	m.server.AddTool(listTagsTool, m.handleListTags)

	schemaTool := mcp.NewTool("get_schema_info",
		mcp.WithDescription("Show the discovered schema metadata for the note database"))
	m.server.AddTool(schemaTool, m.handleGetSchemaInfo)
}

// handleQueryNotes handles the query_notes tool call
func (m *MCPServer) handleQueryNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := mcp.ParseString(request, "sql", "")

	if err := m.validator.ValidateStatement(sql); err != nil {
		return nil, fmt.Errorf("query rejected: %w", err)
	}

	result, err := m.store.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	response := map[string]interface{}{
		"columns": result.ColumnNames(),
		"rows":    result.Rows(),
		"count":   result.Height(),
	}

	return jsonResult(response)
}

// handleListNotes handles the list_notes tool call
func (m *MCPServer) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := store.DefaultNotesQuery()
	q.Limit = int(mcp.ParseInt(request, "limit", 10))

	notes, err := m.store.Notes(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	response := map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	}

	return jsonResult(response)
}

// handleGetNote handles the get_note tool call
func (m *MCPServer) handleGetNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseInt(request, "id", 0)
	if id == 0 {
		return nil, fmt.Errorf("note ID is required")
	}

	note, err := m.store.NoteByID(ctx, model.NoteID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return jsonResult(note)
}

// handleSearchNotes handles the search_notes tool call
func (m *MCPServer) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := mcp.ParseString(request, "term", "")
	if term == "" {
		return nil, fmt.Errorf("search term is required")
	}
	limit := int(mcp.ParseInt(request, "limit", 10))

	notes, err := m.store.SearchNotes(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	response := map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	}

	return jsonResult(response)
}

// handleListTags handles the list_tags tool call
func (m *MCPServer) handleListTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := m.store.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	response := map[string]interface{}{
		"tags":  tags,
		"count": len(tags),
	}

	return jsonResult(response)
}

// handleGetSchemaInfo handles the get_schema_info tool call
func (m *MCPServer) handleGetSchemaInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md := m.store.Metadata()
	return jsonResult(model.SchemaInfo{
		JunctionTable: md.JunctionTable,
		EntityColumn:  md.EntityColumn,
		LabelColumn:   md.LabelColumn,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonResp, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(jsonResp)),
		},
	}, nil
}

// StartStdio starts the MCP server using stdio transport
func (m *MCPServer) StartStdio() error {
	return server.ServeStdio(m.server)
}
