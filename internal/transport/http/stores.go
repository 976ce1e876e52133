package http

import (
	"context"
	"net/http"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
	"go.uber.org/zap"
)

// StoreManager is the minimal interface needed for the /stores endpoints.
type StoreManager interface {
	ListStores(ctx context.Context, q app.StoreQuery) (listing.Page[domain.Store], error)
	GetStore(ctx context.Context, id string) (domain.Store, error)
	CreateStore(ctx context.Context, actor app.Actor, in app.StoreInput) (domain.Store, error)
	UpdateStore(ctx context.Context, actor app.Actor, id string, in app.StoreInput) (domain.Store, error)
	DeleteStore(ctx context.Context, actor app.Actor, id string) error
}

type storeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Website string `json:"website"`
	Phone   string `json:"phone"`
}

func (req storeRequest) input() app.StoreInput {
	return app.StoreInput{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Website: req.Website,
		Phone:   req.Phone,
	}
}

// HandleStores serves the store collection.
func HandleStores(svc StoreManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q, err := storeQuery(r.URL.Query())
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
				return
			}
			page, err := svc.ListStores(r.Context(), q)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, newPageResponse(page, toStoreResponse))
		case http.MethodPost:
			actor, ok := requireActor(w, r)
			if !ok {
				return
			}
			var req storeRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			store, err := svc.CreateStore(r.Context(), actor, req.input())
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusCreated, toStoreResponse(store))
		default:
			methodNotAllowed(w, "GET, POST")
		}
	}
}

// HandleStore serves /stores/{id}.
func HandleStore(svc StoreManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		if len(parts) != 2 || parts[0] != "stores" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id := parts[1]

		switch r.Method {
		case http.MethodGet:
			store, err := svc.GetStore(r.Context(), id)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, toStoreResponse(store))
		case http.MethodPut:
			actor, ok := requireActor(w, r)
			if !ok {
				return
			}
			var req storeRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			store, err := svc.UpdateStore(r.Context(), actor, id, req.input())
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, toStoreResponse(store))
		case http.MethodDelete:
			actor, ok := requireActor(w, r)
			if !ok {
				return
			}
			if err := svc.DeleteStore(r.Context(), actor, id); err != nil {
				writeServiceError(w, log, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w, "GET, PUT, DELETE")
		}
	}
}
