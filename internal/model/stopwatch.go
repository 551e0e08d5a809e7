package model

import "time"

// Stopwatch is a named timing session owned by a user. Its event sequence is
// stored separately and loaded on demand.
type Stopwatch struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Lap       *UnitValue `json:"lap,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
