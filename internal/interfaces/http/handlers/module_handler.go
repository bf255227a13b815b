package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/application/service"
)

// ModuleHandler serves /modules.
type ModuleHandler struct {
	modules service.ModuleAppService
}

func NewModuleHandler(modules service.ModuleAppService) *ModuleHandler {
	return &ModuleHandler{modules: modules}
}

func (h *ModuleHandler) List(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	modules, err := h.modules.List(c.Request.Context(), limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, modules)
}

func (h *ModuleHandler) Get(c *gin.Context) {
	module, err := h.modules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, module)
}

func (h *ModuleHandler) Create(c *gin.Context) {
	var req dto.ModuleCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	module, err := h.modules.Create(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, module)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	var req dto.ModuleUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	module, err := h.modules.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusAccepted, module)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	if err := h.modules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusNoContent, nil)
}
