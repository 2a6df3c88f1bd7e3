package model

import (
	"time"

	"github.com/google/uuid"
)

// Project is a grouping container for related tasks.
// Deleting a project cascades to every task that belongs to it.
type Project struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewProject creates a project with a fresh identifier.
func NewProject(name, color string) Project {
	return Project{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
}
