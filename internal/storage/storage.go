package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikbrunner/vidlib/internal/model"
)

// Storage defines the interface for persisting the video library and events.
// Implementations satisfy catalog.Source.
type Storage interface {
	Load() (*model.Library, error)
	Save(lib *model.Library) error
	Close() error

	ListVideos(ctx context.Context, category string) ([]model.Video, error)
	CreateVideo(ctx context.Context, video model.Video) (string, error)
	UpdateVideo(ctx context.Context, video model.Video) error
	DeleteVideo(ctx context.Context, category, id string) error

	EventSource
}

// EventSource persists the events list.
type EventSource interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, event model.Event) (string, error)
	DeleteEvent(ctx context.Context, id string) error
}

// JSONStorage implements Storage using a JSON file.
// Every write loads, modifies and rewrites the whole file.
type JSONStorage struct {
	mu   sync.Mutex
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Close is a no-op; JSONStorage holds no open handles.
func (s *JSONStorage) Close() error {
	return nil
}

// Load reads the library from the JSON file.
// Returns an empty library if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save writes the library to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(lib *model.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(lib)
}

func (s *JSONStorage) load() (*model.Library, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewLibrary(), nil
		}
		return nil, err
	}

	var lib model.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	// Ensure slices are not nil
	if lib.Videos == nil {
		lib.Videos = []model.Video{}
	}
	if lib.Events == nil {
		lib.Events = []model.Event{}
	}

	return &lib, nil
}

func (s *JSONStorage) save(lib *model.Library) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// update runs fn against the loaded library and saves it when fn succeeds.
func (s *JSONStorage) update(ctx context.Context, fn func(lib *model.Library) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(lib); err != nil {
		return err
	}
	return s.save(lib)
}

// ListVideos returns the videos of category in stored order.
func (s *JSONStorage) ListVideos(ctx context.Context, category string) ([]model.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib, err := s.Load()
	if err != nil {
		return nil, err
	}
	return lib.VideosInCategory(category), nil
}

// CreateVideo appends video with a fresh UUID and returns the id.
func (s *JSONStorage) CreateVideo(ctx context.Context, video model.Video) (string, error) {
	video.ID = model.GenerateUUID()
	err := s.update(ctx, func(lib *model.Library) error {
		lib.Videos = append(lib.Videos, video)
		return nil
	})
	if err != nil {
		return "", err
	}
	return video.ID, nil
}

// UpdateVideo replaces the stored video with the same category and id.
func (s *JSONStorage) UpdateVideo(ctx context.Context, video model.Video) error {
	return s.update(ctx, func(lib *model.Library) error {
		existing := lib.GetVideoByID(video.Category, video.ID)
		if existing == nil {
			return model.NotFoundError("video", video.ID)
		}
		*existing = video
		return nil
	})
}

// DeleteVideo removes the video with id from category.
func (s *JSONStorage) DeleteVideo(ctx context.Context, category, id string) error {
	return s.update(ctx, func(lib *model.Library) error {
		for i, v := range lib.Videos {
			if v.Category == category && v.ID == id {
				lib.Videos = append(lib.Videos[:i], lib.Videos[i+1:]...)
				return nil
			}
		}
		return model.NotFoundError("video", id)
	})
}

// ListEvents returns events in stored order.
func (s *JSONStorage) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib, err := s.Load()
	if err != nil {
		return nil, err
	}
	return lib.Events, nil
}

// CreateEvent appends event, assigning a UUID when it has no id.
func (s *JSONStorage) CreateEvent(ctx context.Context, event model.Event) (string, error) {
	if event.ID == "" {
		event.ID = model.GenerateUUID()
	}
	err := s.update(ctx, func(lib *model.Library) error {
		if lib.GetEventByID(event.ID) != nil {
			return &model.ValidationError{Field: "id", Reason: "already exists"}
		}
		lib.Events = append(lib.Events, event)
		return nil
	})
	if err != nil {
		return "", err
	}
	return event.ID, nil
}

// DeleteEvent removes the event with id.
func (s *JSONStorage) DeleteEvent(ctx context.Context, id string) error {
	return s.update(ctx, func(lib *model.Library) error {
		for i, e := range lib.Events {
			if e.ID == id {
				lib.Events = append(lib.Events[:i], lib.Events[i+1:]...)
				return nil
			}
		}
		return model.NotFoundError("event", id)
	})
}

// OpenStorage opens the backend named in cfg under dataDir.
func OpenStorage(cfg *Config, dataDir string) (Storage, error) {
	switch cfg.Backend {
	case BackendJSON:
		return NewJSONStorage(filepath.Join(dataDir, "library.json")), nil
	case BackendSQLite, "":
		return NewSQLiteStorage(filepath.Join(dataDir, "library.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
