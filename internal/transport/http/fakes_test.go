package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

var (
	adminUser  = domain.User{ID: "admin-1", Email: "admin@nnpl.test", DisplayName: "Ada", Role: domain.RoleAdmin}
	memberUser = domain.User{ID: "member-1", Email: "member@nnpl.test", DisplayName: "Milo", Role: domain.RoleMember}
)

// fakeAuth accepts the tokens in users and reports expired for "stale".
type fakeAuth struct {
	users map[string]domain.User

	registerFn func(app.RegisterInput) (domain.User, error)
	loginFn    func(app.LoginInput) (app.LoginResult, error)
	loggedOut  []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]domain.User{
		"admin-token":  adminUser,
		"member-token": memberUser,
	}}
}

func (f *fakeAuth) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "stale" {
		return domain.User{}, domain.ErrSessionExpired
	}
	u, ok := f.users[token]
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return u, nil
}

func (f *fakeAuth) Register(ctx context.Context, in app.RegisterInput) (domain.User, error) {
	return f.registerFn(in)
}

func (f *fakeAuth) Login(ctx context.Context, in app.LoginInput) (app.LoginResult, error) {
	return f.loginFn(in)
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

type fakeEvents struct {
	listFn     func(app.EventQuery) (listing.Page[domain.Event], error)
	getFn      func(id string) (domain.Event, error)
	createFn   func(app.Actor, app.EventInput) (domain.Event, error)
	updateFn   func(app.Actor, string, app.EventInput) (domain.Event, error)
	deleteFn   func(app.Actor, string) error
	registerFn func(app.Actor, string) (app.RegistrationResult, error)
	withdrawFn func(app.Actor, string) error
	regsFn     func(app.Actor, string) ([]domain.Registration, error)
}

func (f *fakeEvents) ListEvents(ctx context.Context, q app.EventQuery) (listing.Page[domain.Event], error) {
	return f.listFn(q)
}

func (f *fakeEvents) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return f.getFn(id)
}

func (f *fakeEvents) CreateEvent(ctx context.Context, actor app.Actor, in app.EventInput) (domain.Event, error) {
	return f.createFn(actor, in)
}

func (f *fakeEvents) UpdateEvent(ctx context.Context, actor app.Actor, id string, in app.EventInput) (domain.Event, error) {
	return f.updateFn(actor, id, in)
}

func (f *fakeEvents) DeleteEvent(ctx context.Context, actor app.Actor, id string) error {
	return f.deleteFn(actor, id)
}

func (f *fakeEvents) Register(ctx context.Context, actor app.Actor, eventID string) (app.RegistrationResult, error) {
	return f.registerFn(actor, eventID)
}

func (f *fakeEvents) Withdraw(ctx context.Context, actor app.Actor, eventID string) error {
	return f.withdrawFn(actor, eventID)
}

func (f *fakeEvents) ListRegistrations(ctx context.Context, actor app.Actor, eventID string) ([]domain.Registration, error) {
	return f.regsFn(actor, eventID)
}

type fakeStores struct {
	listFn   func(app.StoreQuery) (listing.Page[domain.Store], error)
	getFn    func(string) (domain.Store, error)
	createFn func(app.Actor, app.StoreInput) (domain.Store, error)
	updateFn func(app.Actor, string, app.StoreInput) (domain.Store, error)
	deleteFn func(app.Actor, string) error
}

func (f *fakeStores) ListStores(ctx context.Context, q app.StoreQuery) (listing.Page[domain.Store], error) {
	return f.listFn(q)
}

func (f *fakeStores) GetStore(ctx context.Context, id string) (domain.Store, error) {
	return f.getFn(id)
}

func (f *fakeStores) CreateStore(ctx context.Context, actor app.Actor, in app.StoreInput) (domain.Store, error) {
	return f.createFn(actor, in)
}

func (f *fakeStores) UpdateStore(ctx context.Context, actor app.Actor, id string, in app.StoreInput) (domain.Store, error) {
	return f.updateFn(actor, id, in)
}

func (f *fakeStores) DeleteStore(ctx context.Context, actor app.Actor, id string) error {
	return f.deleteFn(actor, id)
}

type fakeUsers struct {
	listFn    func(app.Actor, app.UserQuery) (listing.Page[domain.User], error)
	getFn     func(app.Actor, string) (domain.User, error)
	profileFn func(app.Actor, string, app.ProfileInput) (domain.User, error)
	roleFn    func(app.Actor, string, domain.Role) (domain.User, error)
	deleteFn  func(app.Actor, string) error
}

func (f *fakeUsers) ListUsers(ctx context.Context, actor app.Actor, q app.UserQuery) (listing.Page[domain.User], error) {
	return f.listFn(actor, q)
}

func (f *fakeUsers) GetUser(ctx context.Context, actor app.Actor, id string) (domain.User, error) {
	return f.getFn(actor, id)
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, actor app.Actor, id string, in app.ProfileInput) (domain.User, error) {
	return f.profileFn(actor, id, in)
}

func (f *fakeUsers) SetRole(ctx context.Context, actor app.Actor, id string, role domain.Role) (domain.User, error) {
	return f.roleFn(actor, id, role)
}

func (f *fakeUsers) DeleteUser(ctx context.Context, actor app.Actor, id string) error {
	return f.deleteFn(actor, id)
}

type testServer struct {
	auth   *fakeAuth
	events *fakeEvents
	stores *fakeStores
	users  *fakeUsers
	router http.Handler
}

func newTestServer() *testServer {
	ts := &testServer{
		auth:   newFakeAuth(),
		events: &fakeEvents{},
		stores: &fakeStores{},
		users:  &fakeUsers{},
	}
	ts.router = NewRouter(RouterConfig{
		Auth:        ts.auth,
		Events:      ts.events,
		Stores:      ts.stores,
		Users:       ts.users,
		CORSOrigins: []string{"http://localhost:5173"},
	})
	return ts
}

// do sends a request through the full router. token, when set, is sent as
// a bearer token.
func (ts *testServer) do(method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}
