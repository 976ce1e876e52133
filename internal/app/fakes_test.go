package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
)

type fakeEventRepo struct {
	events        map[string]domain.Event
	registrations []domain.Registration
	txCalls       int
	txAborted     bool

	createErr       error
	createRegErr    error
	racedRegistrant *domain.Registration
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[string]domain.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

type fakeTxKey struct{}

var errTxAborted = errors.New("current transaction is aborted")

// WithTx mimics Postgres: after a failed statement the transaction rejects
// further reads until it ends.
func (f *fakeEventRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCalls++
	f.txAborted = false
	err := fn(context.WithValue(ctx, fakeTxKey{}, true))
	f.txAborted = false
	return err
}

func (f *fakeEventRepo) inAbortedTx(ctx context.Context) bool {
	return f.txAborted && ctx.Value(fakeTxKey{}) != nil
}

func (f *fakeEventRepo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, f.withCount(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return f.withCount(e), nil
}

func (f *fakeEventRepo) GetEventForUpdate(ctx context.Context, id string) (domain.Event, error) {
	return f.GetEvent(ctx, id)
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, event domain.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) FindRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	if f.inAbortedTx(ctx) {
		return nil, errTxAborted
	}
	for _, r := range f.registrations {
		if r.EventID == eventID && r.UserID == userID {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	if f.racedRegistrant != nil {
		// Simulates a concurrent insert landing first.
		f.registrations = append(f.registrations, *f.racedRegistrant)
		f.racedRegistrant = nil
		f.txAborted = true
		return domain.ErrAlreadyRegistered
	}
	if f.createRegErr != nil {
		f.txAborted = true
		return f.createRegErr
	}
	f.registrations = append(f.registrations, reg)
	return nil
}

func (f *fakeEventRepo) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	for i, r := range f.registrations {
		if r.EventID == eventID && r.UserID == userID {
			f.registrations = append(f.registrations[:i], f.registrations[i+1:]...)
			return nil
		}
	}
	return domain.ErrRegistrationNotFound
}

func (f *fakeEventRepo) ListRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, r := range f.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) withCount(e domain.Event) domain.Event {
	e.RegisteredCount = 0
	for _, r := range f.registrations {
		if r.EventID == e.ID {
			e.RegisteredCount++
		}
	}
	return e
}

type fakeStoreRepo struct {
	stores    map[string]domain.Store
	deleteErr error
}

func newFakeStoreRepo(stores ...domain.Store) *fakeStoreRepo {
	repo := &fakeStoreRepo{stores: make(map[string]domain.Store)}
	for _, s := range stores {
		repo.stores[s.ID] = s
	}
	return repo
}

func (f *fakeStoreRepo) ListStores(ctx context.Context) ([]domain.Store, error) {
	out := make([]domain.Store, 0, len(f.stores))
	for _, s := range f.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStoreRepo) GetStore(ctx context.Context, id string) (domain.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return domain.Store{}, domain.ErrStoreNotFound
	}
	return s, nil
}

func (f *fakeStoreRepo) CreateStore(ctx context.Context, store domain.Store) error {
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) UpdateStore(ctx context.Context, store domain.Store) error {
	if _, ok := f.stores[store.ID]; !ok {
		return domain.ErrStoreNotFound
	}
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) DeleteStore(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.stores[id]; !ok {
		return domain.ErrStoreNotFound
	}
	delete(f.stores, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]domain.Session)}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, session domain.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) GetSession(ctx context.Context, token string) (domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return s, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

var (
	testAdmin     = domain.User{ID: "admin-1", Email: "admin@nnpl.test", DisplayName: "Ada", Role: domain.RoleAdmin}
	testOrganizer = domain.User{ID: "org-1", Email: "org@nnpl.test", DisplayName: "Olive", Role: domain.RoleOrganizer}
	testMember    = domain.User{ID: "member-1", Email: "member@nnpl.test", DisplayName: "Milo", Role: domain.RoleMember}
)
