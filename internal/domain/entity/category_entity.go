package entity

import "time"

// Category is referenced by products through its identity only; products
// never own or embed it.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
