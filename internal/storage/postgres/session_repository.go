package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	conn
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{conn: conn{pool: pool}}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (token, user_id, expires_at, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, session.Token, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns ErrUnauthenticated for unknown tokens, expired or not.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (domain.Session, error) {
	const query = `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`
	var s domain.Session
	err := r.queryRow(ctx, query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrUnauthenticated
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
