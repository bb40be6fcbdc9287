package entity

// Address is a value object owned by the entity that embeds it.
// Assignment copies it; there are no cross-field invariants.
type Address struct {
	Line       string
	Detail     string
	PostalCode int
}
