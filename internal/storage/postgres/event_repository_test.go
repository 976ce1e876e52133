package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/testutil"
	"github.com/google/uuid"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewEventRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateEvent round-trips with store summary", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		storeID := testutil.InsertStore(t, ctx, pool, "Card Castle", "Nashua", "NH")
		organizerID := testutil.InsertUser(t, ctx, pool, "org@nnpl.test", "Olive", domain.RoleOrganizer)

		now := time.Now().UTC().Truncate(time.Microsecond)
		event := domain.Event{
			ID:            uuid.NewString(),
			Name:          "League Challenge",
			Description:   "Bring a deck",
			StoreID:       storeID,
			StartsAt:      now.Add(48 * time.Hour),
			Formats:       []domain.Format{domain.FormatStandard, domain.FormatExpanded},
			EntryFeeCents: 500,
			Capacity:      32,
			CreatedBy:     organizerID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			t.Fatalf("create event: %v", err)
		}

		got, err := repo.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if got.Name != event.Name || got.Store.Name != "Card Castle" || got.Store.State != "NH" {
			t.Fatalf("unexpected event: %+v", got)
		}
		if len(got.Formats) != 2 || got.Formats[1] != domain.FormatExpanded {
			t.Fatalf("unexpected formats: %v", got.Formats)
		}
		if got.CreatedBy != organizerID || !got.StartsAt.Equal(event.StartsAt) {
			t.Fatalf("unexpected event: %+v", got)
		}

		missingStore := event
		missingStore.ID = uuid.NewString()
		missingStore.StoreID = uuid.NewString()
		if err := repo.CreateEvent(ctx, missingStore); err != domain.ErrStoreNotFound {
			t.Fatalf("expected ErrStoreNotFound, got %v", err)
		}
	})

	t.Run("GetEvent maps missing and invalid IDs", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if _, err := repo.GetEvent(ctx, uuid.NewString()); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := repo.GetEvent(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("UpdateEvent and DeleteEvent", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		storeID := testutil.InsertStore(t, ctx, pool, "Card Castle", "Nashua", "NH")
		eventID := testutil.InsertEvent(t, ctx, pool, storeID, "Cup", time.Now().Add(time.Hour), 8)

		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		event.Name = "Cup II"
		event.Capacity = 16
		event.Formats = []domain.Format{domain.FormatCasual}
		event.UpdatedAt = time.Now().UTC()
		if err := repo.UpdateEvent(ctx, event); err != nil {
			t.Fatalf("update event: %v", err)
		}

		got, _ := repo.GetEvent(ctx, eventID)
		if got.Name != "Cup II" || got.Capacity != 16 || got.Formats[0] != domain.FormatCasual {
			t.Fatalf("unexpected event after update: %+v", got)
		}

		if err := repo.DeleteEvent(ctx, eventID); err != nil {
			t.Fatalf("delete event: %v", err)
		}
		if err := repo.DeleteEvent(ctx, eventID); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if err := repo.UpdateEvent(ctx, event); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("registrations count, lock and stay unique", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		storeID := testutil.InsertStore(t, ctx, pool, "Card Castle", "Nashua", "NH")
		eventID := testutil.InsertEvent(t, ctx, pool, storeID, "Cup", time.Now().Add(time.Hour), 2)
		userID := testutil.InsertUser(t, ctx, pool, "milo@nnpl.test", "Milo", domain.RoleMember)

		reg := domain.Registration{ID: uuid.NewString(), EventID: eventID, UserID: userID, CreatedAt: time.Now().UTC()}
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := repo.GetEventForUpdate(txCtx, eventID); err != nil {
				return err
			}
			return repo.CreateRegistration(txCtx, reg)
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		dup := reg
		dup.ID = uuid.NewString()
		if err := repo.CreateRegistration(ctx, dup); err != domain.ErrAlreadyRegistered {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}

		found, err := repo.FindRegistration(ctx, eventID, userID)
		if err != nil {
			t.Fatalf("find registration: %v", err)
		}
		if found == nil || found.ID != reg.ID || found.DisplayName != "Milo" {
			t.Fatalf("unexpected registration: %+v", found)
		}

		event, _ := repo.GetEvent(ctx, eventID)
		if event.RegisteredCount != 1 {
			t.Fatalf("expected registered count 1, got %d", event.RegisteredCount)
		}

		regs, err := repo.ListRegistrations(ctx, eventID)
		if err != nil || len(regs) != 1 {
			t.Fatalf("expected 1 registration, got %v (%v)", regs, err)
		}

		if err := repo.DeleteRegistration(ctx, eventID, userID); err != nil {
			t.Fatalf("delete registration: %v", err)
		}
		if err := repo.DeleteRegistration(ctx, eventID, userID); err != domain.ErrRegistrationNotFound {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}
		found, err = repo.FindRegistration(ctx, eventID, userID)
		if err != nil || found != nil {
			t.Fatalf("expected no registration, got %+v (%v)", found, err)
		}
	})

	t.Run("WithTx rolls back on error", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		storeID := testutil.InsertStore(t, ctx, pool, "Card Castle", "Nashua", "NH")
		eventID := testutil.InsertEvent(t, ctx, pool, storeID, "Cup", time.Now().Add(time.Hour), 2)
		userID := testutil.InsertUser(t, ctx, pool, "milo@nnpl.test", "Milo", domain.RoleMember)

		boom := errors.New("boom")
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			reg := domain.Registration{ID: uuid.NewString(), EventID: eventID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := repo.CreateRegistration(txCtx, reg); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		found, _ := repo.FindRegistration(ctx, eventID, userID)
		if found != nil {
			t.Fatalf("expected rollback, found %+v", found)
		}
	})
}
