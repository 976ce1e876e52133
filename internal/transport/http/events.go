package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
	"go.uber.org/zap"
)

// EventManager is the minimal interface needed for the /events endpoints.
type EventManager interface {
	ListEvents(ctx context.Context, q app.EventQuery) (listing.Page[domain.Event], error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	CreateEvent(ctx context.Context, actor app.Actor, in app.EventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, actor app.Actor, id string, in app.EventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, actor app.Actor, id string) error
	Register(ctx context.Context, actor app.Actor, eventID string) (app.RegistrationResult, error)
	Withdraw(ctx context.Context, actor app.Actor, eventID string) error
	ListRegistrations(ctx context.Context, actor app.Actor, eventID string) ([]domain.Registration, error)
}

type eventRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	StoreID       string   `json:"store_id"`
	StartsAt      string   `json:"starts_at"`
	Formats       []string `json:"formats"`
	EntryFeeCents int      `json:"entry_fee_cents"`
	Capacity      int      `json:"capacity"`
}

func (req eventRequest) input() (app.EventInput, bool) {
	in := app.EventInput{
		Name:          req.Name,
		Description:   req.Description,
		StoreID:       req.StoreID,
		EntryFeeCents: req.EntryFeeCents,
		Capacity:      req.Capacity,
	}
	if s := strings.TrimSpace(req.StartsAt); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return app.EventInput{}, false
		}
		in.StartsAt = &parsed
	}
	for _, f := range req.Formats {
		in.Formats = append(in.Formats, domain.Format(f))
	}
	return in, true
}

// HandleEvents serves the event collection: GET lists, POST creates.
func HandleEvents(svc EventManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q, err := eventQuery(r.URL.Query())
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
				return
			}
			page, err := svc.ListEvents(r.Context(), q)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, newPageResponse(page, toEventResponse))
		case http.MethodPost:
			actor, ok := requireActor(w, r)
			if !ok {
				return
			}
			in, ok := decodeEventInput(w, r)
			if !ok {
				return
			}
			event, err := svc.CreateEvent(r.Context(), actor, in)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}
			writeJSON(w, http.StatusCreated, toEventResponse(event))
		default:
			methodNotAllowed(w, "GET, POST")
		}
	}
}

// HandleEvent serves /events/{id} and /events/{id}/registrations.
func HandleEvent(svc EventManager, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		switch {
		case len(parts) == 2 && parts[0] == "events":
			serveEvent(w, r, svc, log, parts[1])
		case len(parts) == 3 && parts[0] == "events" && parts[2] == "registrations":
			serveRegistrations(w, r, svc, log, parts[1])
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func serveEvent(w http.ResponseWriter, r *http.Request, svc EventManager, log *zap.SugaredLogger, id string) {
	switch r.Method {
	case http.MethodGet:
		event, err := svc.GetEvent(r.Context(), id)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	case http.MethodPut:
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		in, ok := decodeEventInput(w, r)
		if !ok {
			return
		}
		event, err := svc.UpdateEvent(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	case http.MethodDelete:
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteEvent(r.Context(), actor, id); err != nil {
			writeServiceError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func serveRegistrations(w http.ResponseWriter, r *http.Request, svc EventManager, log *zap.SugaredLogger, eventID string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		regs, err := svc.ListRegistrations(r.Context(), actor, eventID)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		resp := make([]registrationResponse, 0, len(regs))
		for _, reg := range regs {
			resp = append(resp, toRegistrationResponse(reg))
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		res, err := svc.Register(r.Context(), actor, eventID)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toRegistrationResponse(res.Registration))
	case http.MethodDelete:
		if err := svc.Withdraw(r.Context(), actor, eventID); err != nil {
			writeServiceError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func decodeEventInput(w http.ResponseWriter, r *http.Request) (app.EventInput, bool) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return app.EventInput{}, false
	}
	in, ok := req.input()
	if !ok {
		writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
		return app.EventInput{}, false
	}
	return in, true
}
