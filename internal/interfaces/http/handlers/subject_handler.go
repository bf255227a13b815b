package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/application/service"
)

// SubjectHandler serves /subjects.
type SubjectHandler struct {
	subjects service.SubjectAppService
}

func NewSubjectHandler(subjects service.SubjectAppService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

func (h *SubjectHandler) List(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	subjects, err := h.subjects.List(c.Request.Context(), limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, subjects)
}

func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, subject)
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.SubjectCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, subject)
}

func (h *SubjectHandler) Update(c *gin.Context) {
	var req dto.SubjectUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusAccepted, subject)
}

func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusNoContent, nil)
}
