package domain

import "errors"

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidInput = errors.New("invalid input")

	ErrEventNotFound      = errors.New("event not found")
	ErrEventNameRequired  = errors.New("event name required")
	ErrEventNameTooLong   = errors.New("event name too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrStoreRequired      = errors.New("store required")
	ErrStartsAtRequired   = errors.New("starts_at required")
	ErrStartsAtInPast     = errors.New("starts_at is in the past")
	ErrFormatRequired     = errors.New("at least one format required")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidEntryFee    = errors.New("invalid entry fee")
	ErrInvalidCapacity    = errors.New("invalid capacity")
	ErrEventStarted       = errors.New("event already started")
	ErrEventFull          = errors.New("event is full")
	ErrCapacityBelowCount = errors.New("capacity below registered count")

	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered")

	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreNameRequired  = errors.New("store name required")
	ErrStoreNameTooLong   = errors.New("store name too long")
	ErrStoreCityRequired  = errors.New("store city required")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidZip         = errors.New("invalid zip")
	ErrInvalidWebsite     = errors.New("invalid website")
	ErrStoreHasEvents     = errors.New("store has events")
	ErrStoreAlreadyExists = errors.New("store already exists")

	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrPasswordTooLong     = errors.New("password too long")
	ErrDisplayNameRequired = errors.New("display name required")
	ErrDisplayNameTooLong  = errors.New("display name too long")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmailTaken          = errors.New("email already registered")
	ErrCannotDemoteSelf    = errors.New("cannot change own role")
	ErrCannotDeleteSelf    = errors.New("cannot delete own account")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrSessionExpired      = errors.New("session expired")
	ErrForbidden           = errors.New("forbidden")
)
