// Package handlers adapts HTTP requests to the application services.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/utils"
)

// bindJSON decodes the body into obj. Syntax and type errors are malformed_request.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		dto.SendError(c, errors.ErrMalformedRequest("Request body is not valid JSON for this endpoint").WithCause(err))
		return false
	}
	return true
}

// listLimit reads ?limit=, defaulting to 10 and rejecting values outside 1..100.
func listLimit(c *gin.Context) (int, bool) {
	q := dto.ListQuery{Limit: constants.DefaultListLimit}
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest("limit must be an integer").WithCause(err))
		return 0, false
	}
	if err := utils.ValidateStruct(&q); err != nil {
		dto.SendError(c, err)
		return 0, false
	}
	return q.Limit, true
}
