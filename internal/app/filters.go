package app

import (
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

// EventFilter narrows an event listing. Zero fields do not filter.
type EventFilter struct {
	Query   string
	StoreID string
	State   string
	From    *time.Time
	To      *time.Time

	// Formats matches events running any of the listed formats.
	Formats []domain.Format

	// IncludePast keeps events that started before now.
	IncludePast bool
}

func (f EventFilter) predicate(now time.Time) listing.Predicate[domain.Event] {
	preds := []listing.Predicate[domain.Event]{
		func(e domain.Event) bool {
			return listing.ContainsFold(f.Query, e.Name, e.Description, e.Store.Name, e.Store.City)
		},
		func(e domain.Event) bool { return listing.EqualFold(f.State, e.Store.State) },
	}
	if f.StoreID != "" {
		preds = append(preds, func(e domain.Event) bool { return e.StoreID == f.StoreID })
	}
	if len(f.Formats) > 0 {
		preds = append(preds, func(e domain.Event) bool { return e.HasFormat(f.Formats...) })
	}
	if f.From != nil {
		from := *f.From
		preds = append(preds, func(e domain.Event) bool { return !e.StartsAt.Before(from) })
	}
	if f.To != nil {
		to := *f.To
		preds = append(preds, func(e domain.Event) bool { return !e.StartsAt.After(to) })
	}
	if !f.IncludePast {
		preds = append(preds, func(e domain.Event) bool { return !e.StartsAt.Before(now) })
	}
	return listing.All(preds...)
}

var eventSorter = listing.NewSorter(listing.SortKey{Field: "starts_at"}, map[string]listing.Less[domain.Event]{
	"starts_at":  func(a, b domain.Event) bool { return a.StartsAt.Before(b.StartsAt) },
	"name":       func(a, b domain.Event) bool { return listing.FoldLess(a.Name, b.Name) },
	"created_at": func(a, b domain.Event) bool { return a.CreatedAt.Before(b.CreatedAt) },
})

// StoreFilter narrows a store listing.
type StoreFilter struct {
	Query string
	City  string
	State string
}

func (f StoreFilter) predicate() listing.Predicate[domain.Store] {
	return listing.All(
		func(s domain.Store) bool { return listing.ContainsFold(f.Query, s.Name, s.Address, s.City) },
		func(s domain.Store) bool { return listing.EqualFold(f.City, s.City) },
		func(s domain.Store) bool { return listing.EqualFold(f.State, s.State) },
	)
}

var storeSorter = listing.NewSorter(listing.SortKey{Field: "name"}, map[string]listing.Less[domain.Store]{
	"name":       func(a, b domain.Store) bool { return listing.FoldLess(a.Name, b.Name) },
	"city":       func(a, b domain.Store) bool { return listing.FoldLess(a.City, b.City) },
	"state":      func(a, b domain.Store) bool { return a.State < b.State },
	"created_at": func(a, b domain.Store) bool { return a.CreatedAt.Before(b.CreatedAt) },
})

// UserFilter narrows a user listing.
type UserFilter struct {
	Query string
	Role  domain.Role
}

func (f UserFilter) predicate() listing.Predicate[domain.User] {
	preds := []listing.Predicate[domain.User]{
		func(u domain.User) bool { return listing.ContainsFold(f.Query, u.Email, u.DisplayName) },
	}
	if f.Role != "" {
		preds = append(preds, func(u domain.User) bool { return u.Role == f.Role })
	}
	return listing.All(preds...)
}

var userSorter = listing.NewSorter(listing.SortKey{Field: "display_name"}, map[string]listing.Less[domain.User]{
	"display_name": func(a, b domain.User) bool { return listing.FoldLess(a.DisplayName, b.DisplayName) },
	"email":        func(a, b domain.User) bool { return a.Email < b.Email },
	"created_at":   func(a, b domain.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"role":         func(a, b domain.User) bool { return roleRank(a.Role) < roleRank(b.Role) },
})

func roleRank(r domain.Role) int {
	switch r {
	case domain.RoleAdmin:
		return 0
	case domain.RoleOrganizer:
		return 1
	default:
		return 2
	}
}

// applyListing filters, sorts and pages items in one pass.
func applyListing[T any](items []T, pred listing.Predicate[T], sorter listing.Sorter[T], rawSort string, req listing.Request) (listing.Page[T], error) {
	key, err := sorter.Parse(rawSort)
	if err != nil {
		return listing.Page[T]{}, err
	}
	kept := listing.Filter(items, pred)
	sorter.Sort(kept, key)
	return listing.Paginate(kept, req.Page, req.Size()), nil
}
