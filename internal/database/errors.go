package database

import "errors"

var (
	// ErrProjectNotFound is returned when an attempt is made to retrieve
	// a project using an id that doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrShareNotFound is returned when a share id doesn't exist or the
	// share has already passed its expiry window.
	ErrShareNotFound = errors.New("share not found")
	// ErrShareIDExists is returned when an attempt is made to create
	// a share with a public id that already exists.
	ErrShareIDExists = errors.New("share id exists")
)
