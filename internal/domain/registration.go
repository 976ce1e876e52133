package domain

import "time"

// Registration records a user signed up for an event.
type Registration struct {
	ID          string
	EventID     string
	UserID      string
	DisplayName string
	CreatedAt   time.Time
}
