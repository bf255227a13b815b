package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can log in. IsSuperUser is the single privilege flag
// checked before any mutation.
type User struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    string    `gorm:"size:255;not null" json:"last_name"`
	Email       string    `gorm:"not null;uniqueIndex" json:"email"`
	Password    string    `json:"-"`
	JobTitle    string    `gorm:"size:150;not null" json:"job_title"`
	IsSuperUser bool      `gorm:"not null;default:false" json:"is_super_user"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName keeps the table name used by the original schema.
func (User) TableName() string { return "user" }

// NewUser creates a user with a fresh id. passwordHash must already be hashed.
func NewUser(firstName, lastName, email, passwordHash, jobTitle string, superUser bool) *User {
	return &User{
		ID:          uuid.NewString(),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Password:    passwordHash,
		JobTitle:    jobTitle,
		IsSuperUser: superUser,
		CreatedAt:   time.Now().UTC(),
	}
}

// BeforeCreate assigns an id when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
