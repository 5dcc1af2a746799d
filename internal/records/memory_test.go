package records

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreCreateAssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore()
	fixed := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	id, err := store.Create(context.Background(), "student", Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	docs, err := store.List(context.Background(), "student", nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].ID() != id {
		t.Fatalf("stored id %q != returned id %q", docs[0].ID(), id)
	}
	if got := docs[0]["created_at"]; got != fixed.Format(time.RFC3339) {
		t.Fatalf("unexpected created_at: %v", got)
	}
}

func TestMemoryStoreListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Create(ctx, "enrollment", Document{"class_id": "c1", "student_id": "s1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, "enrollment", Document{"class_id": "c2", "student_id": "s2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs, err := store.List(ctx, "enrollment", Filter{"class_id": "c1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0]["student_id"] != "s1" {
		t.Fatalf("unexpected results: %+v", docs)
	}

	docs, err = store.List(ctx, "enrollment", Filter{"class_id": "c9"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no matches, got %+v", docs)
	}
}

func TestMemoryStoreListReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Create(ctx, "teacher", Document{"name": "orig"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs, _ := store.List(ctx, "teacher", nil)
	docs[0]["name"] = "mutated"

	again, _ := store.List(ctx, "teacher", nil)
	if again[0]["name"] != "orig" {
		t.Fatal("List must not expose internal documents")
	}
}

func TestMemoryStoreUpdateOne(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id, err := store.Create(ctx, "attendancerecord", Document{"approved": false})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matched, err := store.UpdateOne(ctx, "attendancerecord", id, Document{"approved": true, "id": "must-not-change"})
	if err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected 1 match, got %d", matched)
	}

	docs, _ := store.List(ctx, "attendancerecord", nil)
	if docs[0]["approved"] != true {
		t.Fatal("patch not applied")
	}
	if docs[0].ID() != id {
		t.Fatal("id must be immutable")
	}
	if _, ok := docs[0]["updated_at"]; !ok {
		t.Fatal("updated_at not stamped")
	}

	matched, err = store.UpdateOne(ctx, "attendancerecord", "missing", Document{"approved": true})
	if err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	if matched != 0 {
		t.Fatalf("expected 0 matches for unknown id, got %d", matched)
	}
}
