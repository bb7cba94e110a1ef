package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/storage"
)

func newSQLite(t *testing.T, name string) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	s := newSQLite(t, "library.db")

	now := time.Now().Truncate(time.Second) // SQLite RFC3339 loses sub-second precision
	lib := &model.Library{
		Videos: []model.Video{
			{
				ID:           "1",
				Category:     "mental-health",
				Title:        "Understanding Anxiety",
				ThumbnailURL: "https://example.com/anxiety.jpg",
				Length:       "45:00",
				Price:        19.99,
				Featured:     true,
				Visible:      true,
				CreatedAt:    now,
			},
			{ID: "2", Category: "mental-health", Title: "Hidden", Visible: false, CreatedAt: now},
		},
		Events: model.SeedEvents(),
	}

	if err := s.Save(lib); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(loaded.Videos))
	}
	got := loaded.Videos[0]
	if got.Title != "Understanding Anxiety" || got.Length != "45:00" || got.Price != 19.99 {
		t.Errorf("fields not preserved: %+v", got)
	}
	if !got.Featured || !got.Visible {
		t.Error("expected featured and visible flags to be preserved")
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}
	if loaded.Videos[1].Visible {
		t.Error("expected hidden video to stay hidden")
	}
	if len(loaded.Events) != 3 || loaded.Events[0].Title != lib.Events[0].Title {
		t.Errorf("events not preserved: %+v", loaded.Events)
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	s := newSQLite(t, "empty.db")

	lib, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty db: %v", err)
	}
	if len(lib.Videos) != 0 || len(lib.Events) != 0 {
		t.Error("expected empty library")
	}
	if lib.Videos == nil {
		t.Error("expected videos to be empty slice, not nil")
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "library.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage with nested dir: %v", err)
	}
	defer s.Close()

	if err := s.Save(model.NewLibrary()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "schema.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
	s.Close()

	// Reopening an up-to-date database must not fail or reset data.
	s2, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if v, _ := s2.SchemaVersion(); v != 2 {
		t.Errorf("expected schema version 2 after reopen, got %d", v)
	}
}

func TestSQLiteStorage_TransactionRollback(t *testing.T) {
	s := newSQLite(t, "rollback.db")

	initial := &model.Library{
		Videos: []model.Video{{ID: "1", Category: "mental-health", Title: "Original", CreatedAt: time.Now()}},
	}
	if err := s.Save(initial); err != nil {
		t.Fatalf("failed to save initial: %v", err)
	}

	// Negative prices violate the CHECK constraint, so the whole save must roll back.
	bad := &model.Library{
		Videos: []model.Video{
			{ID: "2", Category: "mental-health", Title: "Fine", CreatedAt: time.Now()},
			{ID: "3", Category: "mental-health", Title: "Broken", Price: -1, CreatedAt: time.Now()},
		},
	}
	if err := s.Save(bad); err == nil {
		t.Fatal("expected save with negative price to fail")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Videos) != 1 || loaded.Videos[0].Title != "Original" {
		t.Errorf("expected original data after rollback, got %+v", loaded.Videos)
	}
}

func TestSQLiteStorage_VideoOperations(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t, "ops.db")

	first, err := s.CreateVideo(ctx, model.NewVideo("mental-health", model.VideoInput{Title: "First", Visible: true}))
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	second, err := s.CreateVideo(ctx, model.NewVideo("mental-health", model.VideoInput{Title: "Second", Visible: true}))
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if _, err := s.CreateVideo(ctx, model.NewVideo("other", model.VideoInput{Title: "Elsewhere"})); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	videos, err := s.ListVideos(ctx, "mental-health")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != first || videos[1].ID != second {
		t.Fatalf("expected insertion order [%s %s], got %+v", first, second, videos)
	}

	edited := videos[0]
	edited.Title = "First (edited)"
	edited.Visible = false
	if err := s.UpdateVideo(ctx, edited); err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}

	videos, _ = s.ListVideos(ctx, "mental-health")
	if videos[0].Title != "First (edited)" || videos[0].Visible {
		t.Errorf("update not persisted: %+v", videos[0])
	}
	if videos[0].ID != first {
		t.Error("update must not move the record")
	}

	if err := s.DeleteVideo(ctx, "mental-health", first); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	videos, _ = s.ListVideos(ctx, "mental-health")
	if len(videos) != 1 || videos[0].ID != second {
		t.Errorf("expected only second video, got %+v", videos)
	}

	// Deleting in the wrong category is a miss.
	if err := s.DeleteVideo(ctx, "other", second); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateVideo(ctx, model.Video{ID: "ghost", Category: "mental-health", Title: "x"}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_Events(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t, "events.db")

	for _, e := range model.SeedEvents() {
		if _, err := s.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	if _, err := s.CreateEvent(ctx, model.SeedEvents()[0]); err == nil {
		t.Error("expected duplicate event id to fail")
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	if err := s.DeleteEvent(ctx, events[1].ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if err := s.DeleteEvent(ctx, events[1].ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	events, _ = s.ListEvents(ctx)
	if len(events) != 2 {
		t.Errorf("expected 2 events after delete, got %d", len(events))
	}
}

func TestSQLiteStorage_MatchesJSONStorage(t *testing.T) {
	dir := t.TempDir()
	js := storage.NewJSONStorage(filepath.Join(dir, "library.json"))
	seed := &model.Library{Videos: model.SeedVideos(), Events: model.SeedEvents()}
	if err := js.Save(seed); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := js.Load()
	if err != nil {
		t.Fatal(err)
	}

	s := newSQLite(t, "library.db")
	if err := s.Save(fromJSON); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	ctx := context.Background()
	videos, err := s.ListVideos(ctx, "mental-health")
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != len(seed.Videos) {
		t.Fatalf("expected %d videos, got %d", len(seed.Videos), len(videos))
	}
	for i := range videos {
		if videos[i].ID != seed.Videos[i].ID || videos[i].Title != seed.Videos[i].Title {
			t.Errorf("video %d differs: %+v vs %+v", i, videos[i], seed.Videos[i])
		}
	}
}
