package storage_test

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "library.json")

	lib := &model.Library{
		Videos: model.SeedVideos(),
		Events: model.SeedEvents(),
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(lib); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("library file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Videos) != 3 {
		t.Errorf("expected 3 videos, got %d", len(loaded.Videos))
	}
	if len(loaded.Events) != 3 {
		t.Errorf("expected 3 events, got %d", len(loaded.Events))
	}
	if loaded.Videos[0].Title != "Understanding Anxiety" {
		t.Errorf("expected first title 'Understanding Anxiety', got %q", loaded.Videos[0].Title)
	}
	if !loaded.Videos[0].Featured {
		t.Error("expected first video to stay featured")
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "nonexistent.json"))
	lib, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(lib.Videos) != 0 || len(lib.Events) != 0 {
		t.Error("expected empty library for missing file")
	}
}

func TestJSONStorage_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewJSONStorage(path).Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "library.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(model.NewLibrary()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("library file was not created in nested directory")
	}
}

func TestJSONStorage_VideoRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "library.json"))

	video := model.NewVideo("mental-health", model.VideoInput{Title: "Sleep Hygiene", Length: "20:00", Price: 9.99, Visible: true})
	id, err := s.CreateVideo(ctx, video)
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	other := model.NewVideo("other", model.VideoInput{Title: "Elsewhere"})
	if _, err := s.CreateVideo(ctx, other); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	videos, err := s.ListVideos(ctx, "mental-health")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != id {
		t.Fatalf("expected only the created video, got %+v", videos)
	}

	updated := videos[0]
	updated.Featured = true
	updated.Title = "Better Sleep"
	if err := s.UpdateVideo(ctx, updated); err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}

	videos, _ = s.ListVideos(ctx, "mental-health")
	if videos[0].Title != "Better Sleep" || !videos[0].Featured {
		t.Errorf("update not persisted: %+v", videos[0])
	}

	if err := s.DeleteVideo(ctx, "mental-health", id); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	videos, _ = s.ListVideos(ctx, "mental-health")
	if len(videos) != 0 {
		t.Errorf("expected empty category after delete, got %d", len(videos))
	}
}

func TestJSONStorage_MissingVideo(t *testing.T) {
	ctx := context.Background()
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "library.json"))

	err := s.UpdateVideo(ctx, model.Video{ID: "nope", Category: "mental-health", Title: "x"})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("UpdateVideo: expected ErrNotFound, got %v", err)
	}

	err = s.DeleteVideo(ctx, "mental-health", "nope")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteVideo: expected ErrNotFound, got %v", err)
	}
}

func TestJSONStorage_Events(t *testing.T) {
	ctx := context.Background()
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "library.json"))

	event := model.Event{ID: "e1", Title: "Workshop", Date: "2024-04-15"}
	id, err := s.CreateEvent(ctx, event)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if id != "e1" {
		t.Errorf("expected existing id to be kept, got %q", id)
	}

	if _, err := s.CreateEvent(ctx, event); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected duplicate id to fail validation, got %v", err)
	}

	generated, err := s.CreateEvent(ctx, model.Event{Title: "Support Group", Date: "2024-04-22"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if generated == "" {
		t.Error("expected generated id")
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if err := s.DeleteEvent(ctx, "e1"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if err := s.DeleteEvent(ctx, "e1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestJSONStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "library.json"))
	if _, err := s.ListVideos(ctx, "mental-health"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	js, err := storage.OpenStorage(&storage.Config{Backend: storage.BackendJSON}, dir)
	if err != nil {
		t.Fatalf("json backend: %v", err)
	}
	if _, ok := js.(*storage.JSONStorage); !ok {
		t.Errorf("expected *JSONStorage, got %T", js)
	}

	sq, err := storage.OpenStorage(&storage.Config{Backend: storage.BackendSQLite}, dir)
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*storage.SQLiteStorage); !ok {
		t.Errorf("expected *SQLiteStorage, got %T", sq)
	}

	if _, err := storage.OpenStorage(&storage.Config{Backend: "mongo"}, dir); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != storage.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.DefaultCategory != "mental-health" {
		t.Errorf("expected default category mental-health, got %q", cfg.DefaultCategory)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be written: %v", err)
	}
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"backend":"json","theme":"light"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != storage.BackendJSON || cfg.Theme != storage.ThemeLight {
		t.Errorf("explicit fields lost: %+v", cfg)
	}
	if cfg.CheckConcurrency != 8 || cfg.CheckTimeoutSeconds != 10 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.CullExcludeDomains == nil {
		t.Error("expected non-nil exclude list")
	}
}

func TestDefaultDataDir_Env(t *testing.T) {
	t.Setenv(storage.DataDirEnv, "/tmp/vidlib-test")

	dir, err := storage.DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/vidlib-test" {
		t.Errorf("expected env override, got %q", dir)
	}
}

func TestFileAssets_UploadAsset(t *testing.T) {
	dir := t.TempDir()
	assets := storage.NewFileAssets(filepath.Join(dir, "assets"))

	raw, err := assets.UploadAsset(context.Background(), "thumb.jpg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatalf("UploadAsset: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid url %q: %v", raw, err)
	}
	if u.Scheme != "file" {
		t.Errorf("expected file scheme, got %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "-thumb.jpg") {
		t.Errorf("expected name suffix, got %q", u.Path)
	}

	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Errorf("unexpected content %q", data)
	}
}
