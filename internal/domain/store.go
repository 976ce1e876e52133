package domain

import "time"

// Store is a venue that hosts league events.
type Store struct {
	ID        string
	Name      string
	Address   string
	City      string
	State     string
	Zip       string
	Website   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreSummary is the slice of a store embedded in an event.
type StoreSummary struct {
	ID    string
	Name  string
	City  string
	State string
}

// Summary returns the embedded form of s.
func (s Store) Summary() StoreSummary {
	return StoreSummary{ID: s.ID, Name: s.Name, City: s.City, State: s.State}
}
