package models

import "time"

// Project represents a single portfolio entry and its associated metadata.
type Project struct {
	// ID is the unique identifier for the project record.
	ID int64
	// Name is the display name of the project.
	Name string
	// LiveURL points to the deployed version of the project.
	LiveURL string
	// Description is a short summary of what the project does.
	Description string
	// TechStack lists the technologies used, trimmed and in submission order.
	TechStack []string
	// CreatedAt is the timestamp indicating when the project was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the project was last updated.
	UpdatedAt time.Time
}

// ProjectPatch carries the fields of a partial project update.
// Nil fields are left untouched.
type ProjectPatch struct {
	Name        *string
	LiveURL     *string
	Description *string
	TechStack   []string
}

// ProjectPage is a single page of the project listing.
type ProjectPage struct {
	Projects      []Project
	CurrentPage   int
	TotalPages    int
	TotalProjects int64
}
