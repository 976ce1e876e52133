package domain

import "time"

// Format is a play format an event can be run in.
type Format string

const (
	FormatStandard Format = "standard"
	FormatExpanded Format = "expanded"
	FormatLimited  Format = "limited"
	FormatCasual   Format = "casual"
)

// Formats lists every known format in display order.
var Formats = []Format{FormatStandard, FormatExpanded, FormatLimited, FormatCasual}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Event is a league event hosted at a store.
type Event struct {
	ID              string
	Name            string
	Description     string
	StoreID         string
	Store           StoreSummary
	StartsAt        time.Time
	Formats         []Format
	EntryFeeCents   int
	Capacity        int
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	RegisteredCount int
}

// HasFormat reports whether the event runs any of the given formats.
func (e Event) HasFormat(formats ...Format) bool {
	for _, want := range formats {
		for _, have := range e.Formats {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Unlimited reports whether the event accepts any number of registrations.
func (e Event) Unlimited() bool {
	return e.Capacity == 0
}

// Full reports whether no more registrations fit.
func (e Event) Full() bool {
	return !e.Unlimited() && e.RegisteredCount >= e.Capacity
}
