package repository

import (
	"context"
	"fmt"
	"testing"

	"dojoadmin/internal/database"
	"dojoadmin/internal/domain"
)

func setupProfileRepo(t *testing.T) *ProfileRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewProfileRepository(db)
}

func TestUpdateWithRevisionBumpsAndGuards(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	p := &domain.Profile{Email: "ana@dojo.local", Name: "Ana", Role: domain.RoleStudent}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.UpdateWithRevision(ctx, p.ID, 0, map[string]any{"name": "Ana Souza"})
	if err != nil {
		t.Fatalf("UpdateWithRevision: %v", err)
	}
	if !ok {
		t.Fatalf("expected write at current revision to succeed")
	}

	got, _ := repo.GetByID(ctx, p.ID)
	if got.Revision != 1 {
		t.Fatalf("expected revision bumped to 1, got %d", got.Revision)
	}
	if got.Name != "Ana Souza" {
		t.Fatalf("expected name updated, got %q", got.Name)
	}

	// a writer still holding the old revision loses
	ok, err = repo.UpdateWithRevision(ctx, p.ID, 0, map[string]any{"name": "stale"})
	if err != nil {
		t.Fatalf("stale UpdateWithRevision: %v", err)
	}
	if ok {
		t.Fatalf("expected write at stale revision to be rejected")
	}
}

func TestUpdateWithRevisionLeavesCallerMapAlone(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	p := &domain.Profile{Email: "ana@dojo.local", Name: "Ana", Role: domain.RoleStudent}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	updates := map[string]any{"name": "Ana Souza"}
	if _, err := repo.UpdateWithRevision(ctx, p.ID, 0, updates); err != nil {
		t.Fatalf("UpdateWithRevision: %v", err)
	}

	if len(updates) != 1 {
		t.Fatalf("caller's map must not be mutated, got %v", updates)
	}
	if _, found := updates["revision"]; found {
		t.Fatalf("revision bump must not leak into the caller's map")
	}
}
