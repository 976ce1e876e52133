package app

import "github.com/JustinCWang/NNPL-Website-sub000/internal/domain"

// Actor is the signed-in user performing an operation. The zero value is an
// anonymous caller.
type Actor = domain.User

func requireSignedIn(actor Actor) error {
	if actor.ID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(actor Actor) error {
	if err := requireSignedIn(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func requireSelfOrAdmin(actor Actor, userID string) error {
	if err := requireSignedIn(actor); err != nil {
		return err
	}
	if actor.ID != userID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// canManageEvent reports whether actor may edit or delete e.
func canManageEvent(actor Actor, e domain.Event) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.CanOrganize() && actor.ID != "" && e.CreatedBy == actor.ID
}
