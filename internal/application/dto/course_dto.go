package dto

import (
	"time"
)

// ModuleCreateRequest creates a module.
type ModuleCreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

// ModuleUpdateRequest changes only the non-empty fields.
type ModuleUpdateRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description"`
}

// SubjectCreateRequest creates a subject.
type SubjectCreateRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

// SubjectUpdateRequest changes only the non-empty fields.
type SubjectUpdateRequest struct {
	Title string `json:"title" validate:"max=200"`
	Slug  string `json:"slug" validate:"max=200"`
}

// CourseCreateRequest creates a course with a new module and subject.
// Created defaults to the current UTC time.
type CourseCreateRequest struct {
	Owner    string               `json:"owner" validate:"required"`
	Title    string               `json:"title" validate:"required,max=200"`
	Slug     string               `json:"slug" validate:"required,max=200"`
	Overview string               `json:"overview" validate:"required"`
	Created  *time.Time           `json:"created"`
	Module   ModuleCreateRequest  `json:"module"`
	Subject  SubjectCreateRequest `json:"subject"`
}

// CourseUpdateRequest changes only the non-empty fields, nested ones included.
type CourseUpdateRequest struct {
	Owner    string               `json:"owner"`
	Title    string               `json:"title" validate:"max=200"`
	Slug     string               `json:"slug" validate:"max=200"`
	Overview string               `json:"overview"`
	Created  *time.Time           `json:"created"`
	Module   ModuleUpdateRequest  `json:"module"`
	Subject  SubjectUpdateRequest `json:"subject"`
}

// ListQuery is the shared ?limit= parameter.
type ListQuery struct {
	Limit int `form:"limit,default=10" validate:"min=1,max=100"`
}
