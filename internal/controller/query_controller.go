package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/service"
	"github.com/jakeswenson/bear-query/internal/utils"
	"github.com/jakeswenson/bear-query/pkg/response"
)

type QueryController struct {
	queryService service.QueryService
	validator    *validator.Validate
}

func NewQueryController(queryService service.QueryService) *QueryController {
	return &QueryController{
		queryService: queryService,
		validator:    validator.New(),
	}
}

// ExecuteQuery godoc
// @Summary Execute a SQL query
// @Description Executes a read-only SQL query against the note store. The query
// runs against the stable relations (entities, labels, entity_labels, entity_links)
// rather than the raw underlying tables, so it keeps working across schema versions.
// @Tags queries
// @Accept json
// @Produce json
// @Param request body model.QueryRequest true "Query execution request"
// @Success 200 {object} response.StandardResponse{data=model.QueryResponse}
// @Failure 400 {object} response.StandardResponse
// @Failure 422 {object} response.StandardResponse
// @Failure 500 {object} response.StandardResponse
// @Router /api/v1/query [post]
func (qc *QueryController) ExecuteQuery(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid request body: "+err.Error(),
			"",
			correlationID,
		))
		return
	}

	req.ApplyDefaults()

	if err := qc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationErrorResponse(err.Error(), correlationID))
		return
	}

	result, err := qc.queryService.ExecuteQuery(c.Request.Context(), &req)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			c.JSON(utils.StatusFor(appErr.Code), response.ErrorResponseFromAppError(appErr, correlationID))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalServerErrorResponse(correlationID))
		return
	}

	// Query-level failures (rejected or failed SQL) map their code to the
	// HTTP status; the offending SQL travels in the details field.
	if result.Error != nil {
		c.JSON(utils.StatusFor(result.Error.Code), response.ErrorResponse(
			result.Error.Code,
			result.Error.Message,
			result.Error.SQL,
			correlationID,
		))
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(result, correlationID))
}

// ValidateQuery godoc
// @Summary Validate a SQL query
// @Description Checks that a query is read-only and well-formed without executing it
// @Tags queries
// @Accept json
// @Produce json
// @Param request body model.QueryRequest true "Query validation request"
// @Success 200 {object} response.StandardResponse
// @Failure 400 {object} response.StandardResponse
// @Router /api/v1/query/validate [post]
func (qc *QueryController) ValidateQuery(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid request body: "+err.Error(),
			"",
			correlationID,
		))
		return
	}

	if err := qc.queryService.ValidateQuery(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeQueryRejected,
			err.Error(),
			"",
			correlationID,
		))
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessageResponse("Query is valid", correlationID))
}

// GetQueryStats godoc
// @Summary Get query execution statistics
// @Tags queries
// @Produce json
// @Success 200 {object} response.StandardResponse{data=model.QueryStats}
// @Router /api/v1/query/stats [get]
func (qc *QueryController) GetQueryStats(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	stats, err := qc.queryService.GetQueryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalServerErrorResponse(correlationID))
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(stats, correlationID))
}
