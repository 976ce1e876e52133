package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/auth"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"go.uber.org/zap"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// AuthManager is the minimal interface needed for the /auth endpoints.
type AuthManager interface {
	Authenticator
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
	Login(ctx context.Context, in app.LoginInput) (app.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type actorKey struct{}

type actorState struct {
	actor app.Actor
	err   error
}

// Authenticate attaches the caller to the request context. Requests without
// a valid session continue anonymously; handlers that need a user reject them.
func Authenticate(svc Authenticator, log *zap.SugaredLogger, next http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		var state actorState
		user, err := svc.Authenticate(r.Context(), token)
		switch {
		case err == nil:
			state.actor = user
		case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionExpired):
			state.err = err
		default:
			log.Errorw("authenticate request", "error", err)
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, state)))
	})
}

// requireActor writes a 401 and reports false when the request is anonymous.
func requireActor(w http.ResponseWriter, r *http.Request) (app.Actor, bool) {
	state, _ := r.Context().Value(actorKey{}).(actorState)
	if state.actor.ID != "" {
		return state.actor, true
	}
	if errors.Is(state.err, domain.ErrSessionExpired) {
		writeError(w, http.StatusUnauthorized, "session_expired", domain.ErrSessionExpired.Error())
		return app.Actor{}, false
	}
	writeError(w, http.StatusUnauthorized, codeUnauthenticated, domain.ErrUnauthenticated.Error())
	return app.Actor{}, false
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// HandleRegister creates a member account.
func HandleRegister(svc AuthManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		user, err := svc.Register(r.Context(), app.RegisterInput{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
		})
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(user))
	}
}

// HandleLogin opens a session and returns its token in the body and the
// session cookie.
func HandleLogin(svc AuthManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := svc.Login(r.Context(), app.LoginInput{
			Email:      req.Email,
			Password:   req.Password,
			RemoteAddr: remoteHost(r),
		})
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    res.Session.Token,
			Path:     "/",
			Expires:  res.Session.ExpiresAt,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, loginResponse{
			Token:     res.Session.Token,
			ExpiresAt: res.Session.ExpiresAt,
			User:      toUserResponse(res.User),
		})
	}
}

// HandleLogout ends the caller's session and clears the cookie.
func HandleLogout(svc AuthManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		if err := svc.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
			writeServiceError(w, log, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleMe returns the signed-in user.
func HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(actor))
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
