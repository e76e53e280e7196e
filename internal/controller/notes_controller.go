package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/store"
	"github.com/jakeswenson/bear-query/internal/utils"
	"github.com/jakeswenson/bear-query/pkg/response"
)

const maxListLimit = 1000

type NotesController struct {
	store *store.Store
}

func NewNotesController(st *store.Store) *NotesController {
	return &NotesController{store: st}
}

// ListNotes godoc
// @Summary List notes
// @Description Returns the most recently modified notes. Trashed and archived
// notes are excluded unless explicitly requested.
// @Tags notes
// @Produce json
// @Param limit query int false "Maximum number of notes to return" default(10)
// @Param include_trashed query bool false "Include trashed notes"
// @Param include_archived query bool false "Include archived notes"
// @Success 200 {object} response.StandardResponse{data=[]model.Note}
// @Router /api/v1/notes [get]
func (nc *NotesController) ListNotes(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	q := store.DefaultNotesQuery()
	if limit, ok := parseLimitParam(c, correlationID); ok {
		q.Limit = limit
	} else {
		return
	}
	q.IncludeTrashed = c.Query("include_trashed") == "true"
	q.IncludeArchived = c.Query("include_archived") == "true"

	notes, err := nc.store.Notes(c.Request.Context(), q)
	if err != nil {
		nc.storeError(c, correlationID, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(notes, correlationID))
}

// GetNote godoc
// @Summary Get a note by ID
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} response.StandardResponse{data=model.Note}
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/notes/{id} [get]
func (nc *NotesController) GetNote(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, ok := nc.parseNoteID(c, correlationID)
	if !ok {
		return
	}

	note, err := nc.store.NoteByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, response.NotFoundResponse("Note not found", correlationID))
			return
		}
		nc.storeError(c, correlationID, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(note, correlationID))
}

// SearchNotes godoc
// @Summary Search notes by title or content
// @Tags notes
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Maximum number of notes to return" default(10)
// @Success 200 {object} response.StandardResponse{data=[]model.Note}
// @Router /api/v1/notes/search [get]
func (nc *NotesController) SearchNotes(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Query parameter 'q' is required",
			"",
			correlationID,
		))
		return
	}

	limit, ok := parseLimitParam(c, correlationID)
	if !ok {
		return
	}

	notes, err := nc.store.SearchNotes(c.Request.Context(), term, limit)
	if err != nil {
		nc.storeError(c, correlationID, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(notes, correlationID))
}

// GetNoteLinks godoc
// @Summary List notes linked from the given note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} response.StandardResponse{data=[]model.Note}
// @Router /api/v1/notes/{id}/links [get]
func (nc *NotesController) GetNoteLinks(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, ok := nc.parseNoteID(c, correlationID)
	if !ok {
		return
	}

	notes, err := nc.store.NoteLinks(c.Request.Context(), id)
	if err != nil {
		nc.storeError(c, correlationID, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(notes, correlationID))
}

// GetNoteTags godoc
// @Summary List the tag IDs attached to a note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} response.StandardResponse{data=[]model.TagID}
// @Router /api/v1/notes/{id}/tags [get]
func (nc *NotesController) GetNoteTags(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	id, ok := nc.parseNoteID(c, correlationID)
	if !ok {
		return
	}

	tags, err := nc.store.NoteTags(c.Request.Context(), id)
	if err != nil {
		nc.storeError(c, correlationID, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(tags, correlationID))
}

func (nc *NotesController) parseNoteID(c *gin.Context, correlationID string) (model.NoteID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid note ID: "+c.Param("id"),
			"",
			correlationID,
		))
		return 0, false
	}
	return model.NoteID(id), true
}

func (nc *NotesController) storeError(c *gin.Context, correlationID string, err error) {
	appErr := utils.FromError(err)
	c.JSON(utils.StatusFor(appErr.Code), response.ErrorResponseFromAppError(appErr, correlationID))
}

func parseLimitParam(c *gin.Context, correlationID string) (int, bool) {
	raw := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid limit: must be an integer between 1 and "+strconv.Itoa(maxListLimit),
			"",
			correlationID,
		))
		return 0, false
	}
	return limit, true
}
