package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/testutil"
	"github.com/google/uuid"
)

func TestUserRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	users := NewUserRepository(pool)
	sessions := NewSessionRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	newUser := func(email string) domain.User {
		now := time.Now().UTC()
		return domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			DisplayName:  "Trainer",
			Role:         domain.RoleMember,
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	t.Run("CreateUser enforces unique email", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		user := newUser("ash@example.com")
		if err := users.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if err := users.CreateUser(ctx, newUser("ash@example.com")); err != domain.ErrEmailTaken {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}

		got, err := users.GetUserByEmail(ctx, "ash@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if got.ID != user.ID || got.Role != domain.RoleMember || got.PasswordHash != "hash" {
			t.Fatalf("unexpected user: %+v", got)
		}
		if _, err := users.GetUserByEmail(ctx, "misty@example.com"); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("UpdateUser changes role and display name", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		user := newUser("brock@example.com")
		if err := users.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
		user.Role = domain.RoleOrganizer
		user.DisplayName = "Brock"
		if err := users.UpdateUser(ctx, user); err != nil {
			t.Fatalf("update user: %v", err)
		}
		got, _ := users.GetUser(ctx, user.ID)
		if got.Role != domain.RoleOrganizer || got.DisplayName != "Brock" {
			t.Fatalf("unexpected user: %+v", got)
		}

		list, err := users.ListUsers(ctx)
		if err != nil || len(list) != 1 {
			t.Fatalf("expected 1 user, got %v (%v)", list, err)
		}
	})

	t.Run("sessions expire and cascade on user delete", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		user := newUser("erika@example.com")
		if err := users.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
		now := time.Now().UTC().Truncate(time.Microsecond)
		live := domain.Session{Token: "live", UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
		old := domain.Session{Token: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}
		for _, s := range []domain.Session{live, old} {
			if err := sessions.CreateSession(ctx, s); err != nil {
				t.Fatalf("create session: %v", err)
			}
		}

		got, err := sessions.GetSession(ctx, "live")
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if got.UserID != user.ID || !got.ExpiresAt.Equal(live.ExpiresAt) {
			t.Fatalf("unexpected session: %+v", got)
		}

		n, err := sessions.DeleteExpiredSessions(ctx, now)
		if err != nil {
			t.Fatalf("delete expired: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 expired session removed, got %d", n)
		}
		if _, err := sessions.GetSession(ctx, "old"); err != domain.ErrUnauthenticated {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}

		if err := users.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("delete user: %v", err)
		}
		if _, err := sessions.GetSession(ctx, "live"); err != domain.ErrUnauthenticated {
			t.Fatalf("expected session removed with user, got %v", err)
		}
		if err := users.DeleteUser(ctx, user.ID); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
