package http

import (
	"net/http"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/metrics"
	"go.uber.org/zap"
)

// RouterConfig wires the services and middleware the API is built from.
type RouterConfig struct {
	Auth   AuthManager
	Events EventManager
	Stores StoreManager
	Users  UserManager

	DB             Pinger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         *zap.SugaredLogger
	CORSOrigins    []string
}

// NewRouter returns the complete API handler.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	mux := http.NewServeMux()
	handle := func(pattern, name string, h http.Handler) {
		mux.Handle(pattern, Instrument(cfg.Metrics, name, h))
	}

	handle("/health", "health", HandleHealth(cfg.DB, log))
	if cfg.MetricsHandler != nil {
		mux.Handle("/metrics", cfg.MetricsHandler)
	}

	handle("/auth/register", "auth_register", HandleRegister(cfg.Auth, log))
	handle("/auth/login", "auth_login", HandleLogin(cfg.Auth, log))
	handle("/auth/logout", "auth_logout", HandleLogout(cfg.Auth, log))
	handle("/auth/me", "auth_me", HandleMe())

	handle("/events", "events", HandleEvents(cfg.Events, log))
	handle("/events/", "event", HandleEvent(cfg.Events, log))
	handle("/stores", "stores", HandleStores(cfg.Stores, log))
	handle("/stores/", "store", HandleStore(cfg.Stores, log))
	handle("/users", "users", HandleUsers(cfg.Users, log))
	handle("/users/", "user", HandleUser(cfg.Users, log))

	mux.Handle("/", NotFoundHandler())

	var h http.Handler = mux
	h = Authenticate(cfg.Auth, log, h)
	h = CORS(cfg.CORSOrigins, h)
	return RequestLogger(h, log)
}
