package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	conn
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{conn: conn{pool: pool}}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const selectEvent = `
SELECT e.id, e.name, e.description, e.store_id, s.name, s.city, s.state,
	e.starts_at, e.formats, e.entry_fee_cents, e.capacity,
	COALESCE(e.created_by::text, ''), e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id)
FROM events e
JOIN stores s ON s.id = e.store_id`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e       domain.Event
		formats []string
	)
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.StoreID,
		&e.Store.Name,
		&e.Store.City,
		&e.Store.State,
		&e.StartsAt,
		&formats,
		&e.EntryFeeCents,
		&e.Capacity,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.RegisteredCount,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.Store.ID = e.StoreID
	e.Formats = make([]domain.Format, len(formats))
	for i, f := range formats {
		e.Formats[i] = domain.Format(f)
	}
	return e, nil
}

func formatStrings(formats []domain.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.query(ctx, selectEvent+` ORDER BY e.starts_at ASC, e.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return r.getEvent(ctx, selectEvent+` WHERE e.id = $1`, id)
}

// GetEventForUpdate locks the event row until the surrounding transaction ends.
func (r *EventRepository) GetEventForUpdate(ctx context.Context, id string) (domain.Event, error) {
	return r.getEvent(ctx, selectEvent+` WHERE e.id = $1 FOR UPDATE OF e`, id)
}

func (r *EventRepository) getEvent(ctx context.Context, query, id string) (domain.Event, error) {
	e, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, description, store_id, starts_at, formats, entry_fee_cents, capacity, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.Name,
		event.Description,
		event.StoreID,
		event.StartsAt,
		formatStrings(event.Formats),
		event.EntryFeeCents,
		event.Capacity,
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrStoreNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET name = $2, description = $3, store_id = $4, starts_at = $5, formats = $6,
	entry_fee_cents = $7, capacity = $8, updated_at = $9
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		event.ID,
		event.Name,
		event.Description,
		event.StoreID,
		event.StartsAt,
		formatStrings(event.Formats),
		event.EntryFeeCents,
		event.Capacity,
		event.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrStoreNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

const selectRegistration = `
SELECT r.id, r.event_id, r.user_id, u.display_name, r.created_at
FROM registrations r
JOIN users u ON u.id = r.user_id`

func scanRegistration(row pgx.Row) (domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.DisplayName, &reg.CreatedAt)
	return reg, err
}

// FindRegistration returns nil when userID is not registered for eventID.
func (r *EventRepository) FindRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	reg, err := scanRegistration(r.queryRow(ctx, selectRegistration+` WHERE r.event_id = $1 AND r.user_id = $2`, eventID, userID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

func (r *EventRepository) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	const stmt = `
INSERT INTO registrations (id, event_id, user_id, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, reg.ID, reg.EventID, reg.UserID, reg.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *EventRepository) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	tag, err := r.exec(ctx, `DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *EventRepository) ListRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	rows, err := r.query(ctx, selectRegistration+` WHERE r.event_id = $1 ORDER BY r.created_at ASC, r.id ASC`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := []domain.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate registrations: %w", rows.Err())
	}
	return regs, nil
}
