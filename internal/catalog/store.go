// Package catalog holds the working copy of one category's videos and the
// view model that projects it for display.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/vidlib/internal/model"
)

// Source is the persistence collaborator behind a Store.
type Source interface {
	ListVideos(ctx context.Context, category string) ([]model.Video, error)
	CreateVideo(ctx context.Context, video model.Video) (string, error)
	UpdateVideo(ctx context.Context, video model.Video) error
	DeleteVideo(ctx context.Context, category, id string) error
}

// LoadToken identifies one load request. Results carrying an older
// generation than the store's latest are discarded.
type LoadToken struct {
	Category   string
	Generation uint64
}

// Store owns the in-memory video list for the active category.
//
// Every applied mutation replaces the list with a new slice, so a Snapshot
// never observes a partial change. The mutex is never held across a Source
// call; concurrent mutations against the same id are rejected with
// model.ErrBusy until the first one resolves.
type Store struct {
	mu        sync.Mutex
	source    Source // nil = in-memory only
	logger    *zap.Logger
	now       func() time.Time
	category  string
	videos    []model.Video
	loadErr   error
	gen       uint64
	inflight  map[string]bool
	lastID    int64
	listeners map[int]func()
	nextSub   int
}

// StoreParams holds parameters for creating a new Store.
type StoreParams struct {
	Source Source      // optional; nil keeps the catalog in memory
	Logger *zap.Logger // optional; defaults to a no-op logger
	Now    func() time.Time
}

// NewStore creates an empty Store.
func NewStore(params StoreParams) *Store {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		source:    params.Source,
		logger:    logger,
		now:       now,
		videos:    []model.Video{},
		inflight:  make(map[string]bool),
		listeners: make(map[int]func()),
	}
}

// Category returns the active category.
func (s *Store) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Snapshot returns the current list. The returned slice is never mutated by the store.
func (s *Store) Snapshot() []model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos
}

// Err returns the failure from the most recent load, or nil.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Get returns the video with id from the current list.
func (s *Store) Get(id string) (model.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.videos[i], true
	}
	return model.Video{}, false
}

// Subscribe registers fn to run after every applied change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Load replaces the list with the videos the source holds for category.
// On failure the list is emptied and the error, wrapping model.ErrDataSource,
// is both returned and kept in Err. A load superseded by a newer one is
// dropped and returns nil, whatever its fetch produced.
func (s *Store) Load(ctx context.Context, category string) error {
	token := s.BeginLoad(category)
	videos, err := s.Fetch(ctx, category)
	if !s.FinishLoad(token, videos, err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", category, model.ErrDataSource, err)
	}
	return nil
}

// Fetch reads category from the source without touching the store.
// Callers that load asynchronously pair it with BeginLoad and FinishLoad.
func (s *Store) Fetch(ctx context.Context, category string) ([]model.Video, error) {
	if s.source == nil {
		return nil, nil
	}
	return s.source.ListVideos(ctx, category)
}

// BeginLoad starts a load of category and supersedes any load still outstanding.
func (s *Store) BeginLoad(category string) LoadToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return LoadToken{Category: category, Generation: s.gen}
}

// FinishLoad applies the result of the load identified by token.
// It returns false, leaving the store untouched, when a newer load has begun.
func (s *Store) FinishLoad(token LoadToken, videos []model.Video, err error) bool {
	s.mu.Lock()
	if token.Generation != s.gen {
		s.mu.Unlock()
		s.logger.Debug("Dropping stale load",
			zap.String("category", token.Category),
			zap.Uint64("generation", token.Generation))
		return false
	}

	s.category = token.Category
	if err != nil {
		s.videos = []model.Video{}
		s.loadErr = fmt.Errorf("%w: %w", model.ErrDataSource, err)
		s.mu.Unlock()
		s.logger.Warn("Catalog load failed",
			zap.String("category", token.Category),
			zap.Error(err))
		s.notify()
		return true
	}

	loaded := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		v.Category = token.Category
		loaded = append(loaded, v)
	}
	s.videos = loaded
	s.loadErr = nil
	s.mu.Unlock()

	s.logger.Debug("Catalog loaded",
		zap.String("category", token.Category),
		zap.Int("count", len(loaded)),
		zap.Uint64("generation", token.Generation))
	s.notify()
	return true
}

// Add validates input, assigns a fresh id and appends the video.
func (s *Store) Add(ctx context.Context, in model.VideoInput) (model.Video, error) {
	s.mu.Lock()
	video := model.NewVideo(s.category, in)
	video.CreatedAt = s.now()
	s.mu.Unlock()

	if err := video.Validate(); err != nil {
		return model.Video{}, err
	}

	if s.source != nil {
		id, err := s.source.CreateVideo(ctx, video)
		if err != nil {
			s.logger.Warn("Create video failed", zap.String("title", video.Title), zap.Error(err))
			return model.Video{}, fmt.Errorf("add video: %w: %w", model.ErrDataSource, err)
		}
		video.ID = id
	}

	s.mu.Lock()
	if video.ID == "" {
		video.ID = s.timestampID()
	}
	if s.indexOf(video.ID) >= 0 {
		s.mu.Unlock()
		return model.Video{}, &model.ValidationError{Field: "id", Reason: "already exists"}
	}
	next := make([]model.Video, len(s.videos), len(s.videos)+1)
	copy(next, s.videos)
	s.videos = append(next, video)
	s.mu.Unlock()

	s.logger.Debug("Video added", zap.String("id", video.ID), zap.String("category", video.Category))
	s.notify()
	return video, nil
}

// Edit merges patch into the video with id and re-validates it.
// The video keeps its position in the list.
func (s *Store) Edit(ctx context.Context, id string, patch model.VideoPatch) (model.Video, error) {
	return s.mutate(ctx, id, func(v model.Video) (model.Video, error) {
		edited := v.Apply(patch)
		if err := edited.Validate(); err != nil {
			return model.Video{}, err
		}
		return edited, nil
	})
}

// ToggleFeatured flips the featured flag of the video with id.
func (s *Store) ToggleFeatured(ctx context.Context, id string) (model.Video, error) {
	return s.mutate(ctx, id, func(v model.Video) (model.Video, error) {
		v.Featured = !v.Featured
		return v, nil
	})
}

// ToggleVisible flips the visible flag of the video with id.
func (s *Store) ToggleVisible(ctx context.Context, id string) (model.Video, error) {
	return s.mutate(ctx, id, func(v model.Video) (model.Video, error) {
		v.Visible = !v.Visible
		return v, nil
	})
}

// Remove deletes the video with id. There is no undo.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.NotFoundError("video", id)
	}
	if s.inflight[id] {
		s.mu.Unlock()
		return fmt.Errorf("video %q: %w", id, model.ErrBusy)
	}
	category := s.category
	s.inflight[id] = true
	s.mu.Unlock()

	if s.source != nil {
		if err := s.source.DeleteVideo(ctx, category, id); err != nil {
			s.release(id)
			s.logger.Warn("Delete video failed", zap.String("id", id), zap.Error(err))
			return fmt.Errorf("remove video %q: %w: %w", id, model.ErrDataSource, err)
		}
	}

	s.mu.Lock()
	delete(s.inflight, id)
	if idx = s.indexOf(id); idx >= 0 {
		s.videos = slices.Delete(slices.Clone(s.videos), idx, idx+1)
	}
	s.mu.Unlock()

	s.logger.Debug("Video removed", zap.String("id", id))
	s.notify()
	return nil
}

// mutate applies change to the video with id, writing through to the source.
func (s *Store) mutate(ctx context.Context, id string, change func(model.Video) (model.Video, error)) (model.Video, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Video{}, model.NotFoundError("video", id)
	}
	if s.inflight[id] {
		s.mu.Unlock()
		return model.Video{}, fmt.Errorf("video %q: %w", id, model.ErrBusy)
	}
	current := s.videos[idx]
	s.inflight[id] = true
	s.mu.Unlock()

	updated, err := change(current)
	if err != nil {
		s.release(id)
		return model.Video{}, err
	}

	if s.source != nil {
		if err := s.source.UpdateVideo(ctx, updated); err != nil {
			s.release(id)
			s.logger.Warn("Update video failed", zap.String("id", id), zap.Error(err))
			return model.Video{}, fmt.Errorf("update video %q: %w: %w", id, model.ErrDataSource, err)
		}
	}

	s.mu.Lock()
	delete(s.inflight, id)
	// A load may have replaced the list while the source call was outstanding.
	// The write is already committed, so report it and leave the new list alone.
	idx = s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("Video left the catalog during update",
			zap.String("id", id),
			zap.String("category", updated.Category))
		return updated, nil
	}
	next := slices.Clone(s.videos)
	next[idx] = updated
	s.videos = next
	s.mu.Unlock()

	s.notify()
	return updated, nil
}

func (s *Store) release(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// indexOf returns the position of id in the list, or -1. Caller holds mu.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.videos, func(v model.Video) bool {
		return v.ID == id
	})
}

// timestampID derives an id from the creation time, bumped past any id
// already handed out. Caller holds mu.
func (s *Store) timestampID() string {
	candidate := s.now().UnixMilli()
	if candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	for s.indexOf(strconv.FormatInt(candidate, 10)) >= 0 {
		candidate++
	}
	s.lastID = candidate
	return strconv.FormatInt(candidate, 10)
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// IsUserError reports whether err is a rejection the user can fix
// (bad input, unknown id, busy record) rather than a collaborator failure.
func IsUserError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrBusy)
}
