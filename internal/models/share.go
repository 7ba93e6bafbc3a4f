package models

import "time"

// Share is a time-limited, publicly resolvable pointer to a set of projects.
// The ShareID is the only identifier ever exposed outside the service.
type Share struct {
	ID         int64
	ShareID    string
	ProjectIDs []int64
	ViewCount  int64
	LastViewed time.Time
	CreatedAt  time.Time
}
