package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/application/service"
)

// CourseHandler serves /courses.
type CourseHandler struct {
	courses service.CourseAppService
}

func NewCourseHandler(courses service.CourseAppService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func (h *CourseHandler) List(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		return
	}
	courses, err := h.courses.List(c.Request.Context(), limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CourseCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, course)
}

func (h *CourseHandler) CreateMany(c *gin.Context) {
	var reqs []*dto.CourseCreateRequest
	if !bindJSON(c, &reqs) {
		return
	}
	courses, err := h.courses.CreateMany(c.Request.Context(), reqs)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, courses)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.CourseUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusAccepted, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusNoContent, nil)
}
