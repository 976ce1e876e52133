package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	conn
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{conn: conn{pool: pool}}
}

const selectUser = `
SELECT id, email, display_name, role, password_hash, created_at, updated_at
FROM users`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.query(ctx, selectUser+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, selectUser+` WHERE id = $1`, id)
}

// GetUserByEmail expects email already lower-cased.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg string) (domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, query, arg))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, email, display_name, role, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		user.ID,
		user.Email,
		user.DisplayName,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	const stmt = `
UPDATE users
SET display_name = $2, role = $3, updated_at = $4
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, user.ID, user.DisplayName, string(user.Role), user.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user with their sessions and registrations.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
