package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/application/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
)

// UserHandler serves /user.
type UserHandler struct {
	auth  service.AuthAppService
	users service.UserAppService
}

func NewUserHandler(auth service.AuthAppService, users service.UserAppService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// Login accepts an OAuth2 password form or the same fields as JSON.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.SendError(c, errors.ErrMalformedRequest("username and password are required").WithCause(err))
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, resp)
}

// Logout answers 400 without an Authorization header.
func (h *UserHandler) Logout(c *gin.Context) {
	resp, err := h.auth.Logout(c.Request.Context(), c.GetHeader(constants.AuthorizationHeader))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, resp)
}

func (h *UserHandler) CreateMany(c *gin.Context) {
	var reqs []*dto.UserCreateRequest
	if !bindJSON(c, &reqs) {
		return
	}
	resp, err := h.users.CreateMany(c.Request.Context(), reqs)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, resp)
}

func (h *UserHandler) List(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	resp, err := h.users.List(c.Request.Context(), limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	resp, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}
