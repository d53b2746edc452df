// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. The password hash never leaves
// the persistence layer through this entity's JSON form.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the minimal user projection embedded in task payloads
// (e.g. creator and assignee summaries pushed to connected clients).
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Ref reduces a full user to its embeddable projection.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}

	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
