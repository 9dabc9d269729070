package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

func TestCreateTopicValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewTopicService(f.db, f.log, f.repos.topic)
	ctx := context.Background()

	if _, err := svc.Create(ctx, TopicInput{Name: "  "}); apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("want 422 for blank name, got %v", err)
	}

	root, err := svc.Create(ctx, TopicInput{Name: "Arithmetic", Difficulty: types.DifficultyBasic})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, TopicInput{Name: "Arithmetic"}); apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("want 409 for duplicate name, got %v", err)
	}

	missing := uuid.New()
	if _, err := svc.Create(ctx, TopicInput{Name: "Orphan", ParentID: &missing}); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("want 404 for unknown parent, got %v", err)
	}

	child, err := svc.Create(ctx, TopicInput{Name: "Addition", Difficulty: types.DifficultyEasy, ParentID: &root.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != root.ID {
		t.Fatalf("child parent = %v, want %s", child.ParentID, root.ID)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewTopicService(f.db, f.log, f.repos.topic)
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	roots, err := svc.ListRoots(ctx)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	leaves, err := svc.ListLeaves(ctx)
	if err != nil {
		t.Fatalf("list leaves: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}
	if len(leaves) != 9 {
		t.Fatalf("leaves = %d, want 9", len(leaves))
	}

	// A second run creates nothing new.
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	rootsAgain, err := svc.ListRoots(ctx)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	leavesAgain, err := svc.ListLeaves(ctx)
	if err != nil {
		t.Fatalf("list leaves: %v", err)
	}
	if len(rootsAgain) != len(roots) || len(leavesAgain) != len(leaves) {
		t.Fatalf("reseed changed counts: roots %d leaves %d", len(rootsAgain), len(leavesAgain))
	}
}

func TestDeleteTopic(t *testing.T) {
	f := newFixture(t)
	svc := NewTopicService(f.db, f.log, f.repos.topic)
	ctx := context.Background()

	topic, err := svc.Create(ctx, TopicInput{Name: "Temporary", Difficulty: types.DifficultyBasic})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, topic.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, topic.ID); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("want 404 after delete, got %v", err)
	}
}
