package entity

import "time"

// Store has a lifecycle independent of the products that reference it.
type Store struct {
	ID        string
	Name      string
	Blocked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
