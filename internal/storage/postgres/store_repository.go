package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreRepository struct {
	conn
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{conn: conn{pool: pool}}
}

const selectStore = `
SELECT id, name, address, city, state, zip, website, phone, created_at, updated_at
FROM stores`

func scanStore(row pgx.Row) (domain.Store, error) {
	var s domain.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Zip, &s.Website, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StoreRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.query(ctx, selectStore+` ORDER BY lower(name) ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stores: %w", rows.Err())
	}
	return stores, nil
}

func (r *StoreRepository) GetStore(ctx context.Context, id string) (domain.Store, error) {
	s, err := scanStore(r.queryRow(ctx, selectStore+` WHERE id = $1`, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Store{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Store{}, domain.ErrStoreNotFound
		}
		return domain.Store{}, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) CreateStore(ctx context.Context, store domain.Store) error {
	const stmt = `
INSERT INTO stores (id, name, address, city, state, zip, website, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		store.ID,
		store.Name,
		store.Address,
		store.City,
		store.State,
		store.Zip,
		store.Website,
		store.Phone,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStoreAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (r *StoreRepository) UpdateStore(ctx context.Context, store domain.Store) error {
	const stmt = `
UPDATE stores
SET name = $2, address = $3, city = $4, state = $5, zip = $6, website = $7, phone = $8, updated_at = $9
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		store.ID,
		store.Name,
		store.Address,
		store.City,
		store.State,
		store.Zip,
		store.Website,
		store.Phone,
		store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStoreAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

// DeleteStore refuses to remove a store that still hosts events.
func (r *StoreRepository) DeleteStore(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrStoreHasEvents
		}
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}
