package catalog

import (
	"sync"

	"github.com/nikbrunner/vidlib/internal/model"
	"github.com/nikbrunner/vidlib/internal/search"
)

// View couples a Store with the active query and keeps the projected list
// current. Renderers read Items and never re-filter or re-sort.
type View struct {
	store *Store

	mu       sync.Mutex
	query    search.Query
	items    []model.Video
	onChange []func([]model.Video)

	unsubscribe func()
}

// NewView creates a View over store with the given initial sort key.
func NewView(store *Store, sort search.SortKey) *View {
	v := &View{
		store: store,
		query: search.Query{Sort: sort},
	}
	v.recompute()
	v.unsubscribe = store.Subscribe(v.recompute)
	return v
}

// Close detaches the view from its store.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Store returns the underlying catalog store.
func (v *View) Store() *Store {
	return v.store
}

// Query returns the active filter term and sort key.
func (v *View) Query() search.Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// SetSearchTerm updates the filter term and recomputes the projection.
func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	v.query.Term = term
	v.mu.Unlock()
	v.recompute()
}

// SetSortKey updates the ordering and recomputes the projection.
func (v *View) SetSortKey(key search.SortKey) {
	v.mu.Lock()
	v.query.Sort = key
	v.mu.Unlock()
	v.recompute()
}

// Items returns the current projection.
func (v *View) Items() []model.Video {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// OnChange registers fn to receive every recomputed projection.
func (v *View) OnChange(fn func([]model.Video)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = append(v.onChange, fn)
}

func (v *View) recompute() {
	snapshot := v.store.Snapshot()

	v.mu.Lock()
	v.items = search.Project(snapshot, v.query)
	items := v.items
	fns := append([]func([]model.Video){}, v.onChange...)
	v.mu.Unlock()

	for _, fn := range fns {
		fn(items)
	}
}
