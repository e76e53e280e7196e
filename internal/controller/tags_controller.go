package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/store"
	"github.com/jakeswenson/bear-query/internal/utils"
	"github.com/jakeswenson/bear-query/pkg/response"
)

type TagsController struct {
	store *store.Store
}

func NewTagsController(st *store.Store) *TagsController {
	return &TagsController{store: st}
}

// ListTags godoc
// @Summary List all tags
// @Tags tags
// @Produce json
// @Success 200 {object} response.StandardResponse{data=[]model.Tag}
// @Router /api/v1/tags [get]
func (tc *TagsController) ListTags(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	tags, err := tc.store.Tags(c.Request.Context())
	if err != nil {
		appErr := utils.FromError(err)
		c.JSON(utils.StatusFor(appErr.Code), response.ErrorResponseFromAppError(appErr, correlationID))
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(tags, correlationID))
}
