package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleEngineer UserRole = "ENGINEER"
	UserRoleField    UserRole = "FIELD"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Principal is the authenticated caller extracted from the bearer token.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsEngineer() bool {
	return p.Role == UserRoleEngineer
}

func (p Principal) IsField() bool {
	return p.Role == UserRoleField
}

// CanReview reports whether the caller may approve, reject or consolidate
// reports.
func (p Principal) CanReview() bool {
	return p.Role == UserRoleAdmin || p.Role == UserRoleEngineer
}
