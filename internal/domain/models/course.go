package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module is a unit of course content.
type Module struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"not null;default:''" json:"description"`
}

func (Module) TableName() string { return "module" }

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Subject is the topic a course belongs to.
type Subject struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title string `gorm:"size:200;not null" json:"title"`
	Slug  string `gorm:"size:200;not null" json:"slug"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Course joins one module and one subject. Deleting either removes the course.
type Course struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ModuleID  string    `gorm:"type:varchar(36);index" json:"-"`
	SubjectID string    `gorm:"type:varchar(36);index" json:"-"`
	Owner     string    `gorm:"not null" json:"owner"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Slug      string    `gorm:"not null" json:"slug"`
	Overview  string    `gorm:"not null" json:"overview"`
	Created   time.Time `gorm:"not null" json:"created"`

	Module  Module  `gorm:"constraint:OnDelete:CASCADE" json:"module"`
	Subject Subject `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
