package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskModel mirrors the 'tasks' table. CreatorID is immutable after
// insert; AssignedToID is nullable.
type TaskModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string     `gorm:"type:varchar(100);not null"`
	Description  string     `gorm:"type:text;not null"`
	DueDate      time.Time  `gorm:"not null;index"`
	Priority     string     `gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	Status       string     `gorm:"type:varchar(20);not null;default:'TODO';index"`
	CreatorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Creator    *UserModel `gorm:"foreignKey:CreatorID"`
	AssignedTo *UserModel `gorm:"foreignKey:AssignedToID"`
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
