package http

import (
	"context"
	"net/http"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
	"go.uber.org/zap"
)

// UserManager is the minimal interface needed for the /users endpoints.
type UserManager interface {
	ListUsers(ctx context.Context, actor app.Actor, q app.UserQuery) (listing.Page[domain.User], error)
	GetUser(ctx context.Context, actor app.Actor, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, actor app.Actor, id string, in app.ProfileInput) (domain.User, error)
	SetRole(ctx context.Context, actor app.Actor, id string, role domain.Role) (domain.User, error)
	DeleteUser(ctx context.Context, actor app.Actor, id string) error
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// HandleUsers lists users for admins.
func HandleUsers(svc UserManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		q, err := userQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
			return
		}
		page, err := svc.ListUsers(r.Context(), actor, q)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, newPageResponse(page, toUserResponse))
	}
}

// HandleUser serves /users/{id} and /users/{id}/role.
func HandleUser(svc UserManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		if len(parts) < 2 || len(parts) > 3 || parts[0] != "users" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if len(parts) == 3 && parts[2] != "role" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		id := parts[1]

		if len(parts) == 3 {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			var req roleRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			user, err := svc.SetRole(r.Context(), actor, id, domain.Role(req.Role))
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, toUserResponse(user))
			return
		}

		switch r.Method {
		case http.MethodGet:
			user, err := svc.GetUser(r.Context(), actor, id)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, toUserResponse(user))
		case http.MethodPut:
			var req profileRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			user, err := svc.UpdateProfile(r.Context(), actor, id, app.ProfileInput{DisplayName: req.DisplayName})
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, toUserResponse(user))
		case http.MethodDelete:
			if err := svc.DeleteUser(r.Context(), actor, id); err != nil {
				writeServiceError(w, log, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w, "GET, PUT, DELETE")
		}
	}
}
