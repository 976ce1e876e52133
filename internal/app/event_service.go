package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/clock"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/metrics"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, id string) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, id string) error

	FindRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	CreateRegistration(ctx context.Context, reg domain.Registration) error
	DeleteRegistration(ctx context.Context, eventID, userID string) error
	ListRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error)
}

// StoreLookup resolves the store an event is hosted at.
type StoreLookup interface {
	GetStore(ctx context.Context, id string) (domain.Store, error)
}

type EventService struct {
	events  EventRepository
	stores  StoreLookup
	clock   clock.Clock
	metrics *metrics.Metrics
}

type EventServiceOption func(*EventService)

// WithEventMetrics records event and registration counters on m.
func WithEventMetrics(m *metrics.Metrics) EventServiceOption {
	return func(s *EventService) {
		s.metrics = m
	}
}

func NewEventService(events EventRepository, stores StoreLookup, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		events: events,
		stores: stores,
		clock:  clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// EventInput is the editable part of an event.
type EventInput struct {
	Name          string          `validate:"required,max=120"`
	Description   string          `validate:"max=2000"`
	StoreID       string          `validate:"required"`
	StartsAt      *time.Time      `validate:"required"`
	Formats       []domain.Format `validate:"min=1"`
	EntryFeeCents int             `validate:"gte=0"`
	Capacity      int             `validate:"gte=0"`
}

var eventRules = fieldRules{
	"Name.required":     domain.ErrEventNameRequired,
	"Name.max":          domain.ErrEventNameTooLong,
	"Description.max":   domain.ErrDescriptionTooLong,
	"StoreID.required":  domain.ErrStoreRequired,
	"StartsAt.required": domain.ErrStartsAtRequired,
	"Formats.min":       domain.ErrFormatRequired,
	"EntryFeeCents.gte": domain.ErrInvalidEntryFee,
	"Capacity.gte":      domain.ErrInvalidCapacity,
}

func (in EventInput) normalize() EventInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.StoreID = strings.TrimSpace(in.StoreID)
	if in.StartsAt != nil {
		t := in.StartsAt.UTC()
		in.StartsAt = &t
	}

	seen := make(map[domain.Format]struct{}, len(in.Formats))
	formats := make([]domain.Format, 0, len(in.Formats))
	for _, f := range in.Formats {
		f = domain.Format(strings.ToLower(strings.TrimSpace(string(f))))
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	in.Formats = formats
	return in
}

func (in EventInput) validate() error {
	if err := check(in, eventRules); err != nil {
		return err
	}
	for _, f := range in.Formats {
		if !f.Valid() {
			return domain.ErrInvalidFormat
		}
	}
	return nil
}

// EventQuery selects one page of events.
type EventQuery struct {
	Filter EventFilter
	Sort   string
	Page   listing.Request
}

func (s *EventService) ListEvents(ctx context.Context, q EventQuery) (listing.Page[domain.Event], error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return listing.Page[domain.Event]{}, err
	}
	return applyListing(events, q.Filter.predicate(s.clock.Now()), eventSorter, q.Sort, q.Page)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.events.GetEvent(ctx, id)
}

func (s *EventService) CreateEvent(ctx context.Context, actor Actor, in EventInput) (domain.Event, error) {
	if err := requireSignedIn(actor); err != nil {
		return domain.Event{}, err
	}
	if !actor.CanOrganize() {
		return domain.Event{}, domain.ErrForbidden
	}

	in = in.normalize()
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}
	now := s.clock.Now()
	if in.StartsAt.Before(now) {
		return domain.Event{}, domain.ErrStartsAtInPast
	}
	store, err := s.stores.GetStore(ctx, in.StoreID)
	if err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:            newID(),
		Name:          in.Name,
		Description:   in.Description,
		StoreID:       store.ID,
		Store:         store.Summary(),
		StartsAt:      *in.StartsAt,
		Formats:       in.Formats,
		EntryFeeCents: in.EntryFeeCents,
		Capacity:      in.Capacity,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	s.metrics.ObserveEventCreated()
	return event, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, actor Actor, id string, in EventInput) (domain.Event, error) {
	if err := requireSignedIn(actor); err != nil {
		return domain.Event{}, err
	}
	existing, err := s.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !canManageEvent(actor, existing) {
		return domain.Event{}, domain.ErrForbidden
	}

	in = in.normalize()
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}
	now := s.clock.Now()
	// A past start time may stay as it is; it just cannot be moved into the past.
	if in.StartsAt.Before(now) && !in.StartsAt.Equal(existing.StartsAt) {
		return domain.Event{}, domain.ErrStartsAtInPast
	}
	if in.Capacity > 0 && in.Capacity < existing.RegisteredCount {
		return domain.Event{}, domain.ErrCapacityBelowCount
	}

	store := existing.Store
	if in.StoreID != existing.StoreID {
		found, err := s.stores.GetStore(ctx, in.StoreID)
		if err != nil {
			return domain.Event{}, err
		}
		store = found.Summary()
	}

	updated := existing
	updated.Name = in.Name
	updated.Description = in.Description
	updated.StoreID = in.StoreID
	updated.Store = store
	updated.StartsAt = *in.StartsAt
	updated.Formats = in.Formats
	updated.EntryFeeCents = in.EntryFeeCents
	updated.Capacity = in.Capacity
	updated.UpdatedAt = now

	if err := s.events.UpdateEvent(ctx, updated); err != nil {
		return domain.Event{}, err
	}
	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actor Actor, id string) error {
	if err := requireSignedIn(actor); err != nil {
		return err
	}
	existing, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, existing) {
		return domain.ErrForbidden
	}
	return s.events.DeleteEvent(ctx, id)
}

type RegistrationResult struct {
	Registration domain.Registration
	Created      bool
}

// Register signs actor up for an event. Registering again returns the
// existing registration with Created false.
func (s *EventService) Register(ctx context.Context, actor Actor, eventID string) (RegistrationResult, error) {
	if err := requireSignedIn(actor); err != nil {
		return RegistrationResult{}, err
	}
	if eventID == "" {
		return RegistrationResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result RegistrationResult

	err := s.events.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.events.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}

		existing, err := s.events.FindRegistration(txCtx, eventID, actor.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = RegistrationResult{Registration: *existing}
			return nil
		}

		if !event.StartsAt.After(now) {
			return domain.ErrEventStarted
		}
		if event.Full() {
			return domain.ErrEventFull
		}

		reg := domain.Registration{
			ID:          newID(),
			EventID:     eventID,
			UserID:      actor.ID,
			DisplayName: actor.DisplayName,
			CreatedAt:   now,
		}
		if err := s.events.CreateRegistration(txCtx, reg); err != nil {
			return err
		}

		result = RegistrationResult{Registration: reg, Created: true}
		return nil
	})
	// A concurrent insert for the same user won. The failed transaction is
	// aborted, so the winning row is read outside it.
	if errors.Is(err, domain.ErrAlreadyRegistered) {
		existing, findErr := s.events.FindRegistration(ctx, eventID, actor.ID)
		if findErr != nil {
			return RegistrationResult{}, findErr
		}
		if existing != nil {
			result, err = RegistrationResult{Registration: *existing}, nil
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrEventFull) {
			s.metrics.ObserveRegistration(metrics.RegistrationFull)
		}
		return RegistrationResult{}, err
	}

	if result.Created {
		s.metrics.ObserveRegistration(metrics.RegistrationCreated)
	} else {
		s.metrics.ObserveRegistration(metrics.RegistrationExisting)
	}
	return result, nil
}

// Withdraw removes actor's registration before the event starts.
func (s *EventService) Withdraw(ctx context.Context, actor Actor, eventID string) error {
	if err := requireSignedIn(actor); err != nil {
		return err
	}
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.StartsAt.After(s.clock.Now()) {
		return domain.ErrEventStarted
	}
	return s.events.DeleteRegistration(ctx, eventID, actor.ID)
}

// ListRegistrations returns the sign-ups for an event, oldest first.
func (s *EventService) ListRegistrations(ctx context.Context, actor Actor, eventID string) ([]domain.Registration, error) {
	if err := requireSignedIn(actor); err != nil {
		return nil, err
	}
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, event) {
		return nil, domain.ErrForbidden
	}
	return s.events.ListRegistrations(ctx, eventID)
}
