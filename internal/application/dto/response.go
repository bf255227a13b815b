// Package dto provides the request and response bodies of the HTTP API
// and the helpers that write them.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
)

// SendError writes err as {"error": code, "error_description": text}.
// Errors that are not AppErrors become a generic 500 so driver or parser
// messages never reach the client. 401 and 440 carry a Bearer challenge.
func SendError(c *gin.Context, err error) {
	status, body := errors.ToGenericErrorResponse(err)
	if status == http.StatusUnauthorized || status == constants.StatusTokenExpired {
		c.Header("WWW-Authenticate", constants.BearerScheme)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// SendSuccess writes data with the given status. 204 responses carry no body.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, data)
}
