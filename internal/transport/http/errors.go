package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
	"go.uber.org/zap"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidQuery       = "invalid_query"
	codeInvalidStartsAt    = "invalid_starts_at"
	codeInvalidID          = "invalid_id"
	codeInvalidInput       = "invalid_input"
	codeInvalidSort        = "invalid_sort"
	codeForbidden          = "forbidden"
	codeUnauthenticated    = "unauthenticated"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidID, http.StatusNotFound, codeInvalidID},
	{domain.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
	{domain.ErrEventNameRequired, http.StatusBadRequest, "event_name_required"},
	{domain.ErrEventNameTooLong, http.StatusBadRequest, "event_name_too_long"},
	{domain.ErrDescriptionTooLong, http.StatusBadRequest, "description_too_long"},
	{domain.ErrStoreRequired, http.StatusBadRequest, "store_required"},
	{domain.ErrStartsAtRequired, http.StatusBadRequest, "starts_at_required"},
	{domain.ErrStartsAtInPast, http.StatusBadRequest, "starts_at_in_past"},
	{domain.ErrFormatRequired, http.StatusBadRequest, "format_required"},
	{domain.ErrInvalidFormat, http.StatusBadRequest, "invalid_format"},
	{domain.ErrInvalidEntryFee, http.StatusBadRequest, "invalid_entry_fee"},
	{domain.ErrInvalidCapacity, http.StatusBadRequest, "invalid_capacity"},
	{domain.ErrEventStarted, http.StatusConflict, "event_started"},
	{domain.ErrEventFull, http.StatusConflict, "event_full"},
	{domain.ErrCapacityBelowCount, http.StatusConflict, "capacity_below_registrations"},

	{domain.ErrRegistrationNotFound, http.StatusNotFound, "registration_not_found"},
	{domain.ErrAlreadyRegistered, http.StatusConflict, "already_registered"},

	{domain.ErrStoreNotFound, http.StatusNotFound, "store_not_found"},
	{domain.ErrStoreNameRequired, http.StatusBadRequest, "store_name_required"},
	{domain.ErrStoreNameTooLong, http.StatusBadRequest, "store_name_too_long"},
	{domain.ErrStoreCityRequired, http.StatusBadRequest, "store_city_required"},
	{domain.ErrInvalidState, http.StatusBadRequest, "invalid_state"},
	{domain.ErrInvalidZip, http.StatusBadRequest, "invalid_zip"},
	{domain.ErrInvalidWebsite, http.StatusBadRequest, "invalid_website"},
	{domain.ErrStoreHasEvents, http.StatusConflict, "store_has_events"},
	{domain.ErrStoreAlreadyExists, http.StatusConflict, "store_already_exists"},

	{domain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{domain.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{domain.ErrPasswordTooShort, http.StatusBadRequest, "password_too_short"},
	{domain.ErrPasswordTooLong, http.StatusBadRequest, "password_too_long"},
	{domain.ErrDisplayNameRequired, http.StatusBadRequest, "display_name_required"},
	{domain.ErrDisplayNameTooLong, http.StatusBadRequest, "display_name_too_long"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{domain.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{domain.ErrCannotDemoteSelf, http.StatusConflict, "cannot_change_own_role"},
	{domain.ErrCannotDeleteSelf, http.StatusConflict, "cannot_delete_self"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
	{domain.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthenticated},
	{domain.ErrForbidden, http.StatusForbidden, codeForbidden},

	{domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
	{listing.ErrInvalidSort, http.StatusBadRequest, codeInvalidSort},
}

// writeServiceError maps a service error to its status and code. Unmapped
// errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	if log != nil {
		log.Errorw("unhandled service error", "error", err)
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
// It writes the error response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}
