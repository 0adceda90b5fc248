package content

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"docsite/config"
	"docsite/types"
)

// Persister is the slice of the API client the store needs
type Persister interface {
	SaveContent(ctx context.Context, data *types.WebsiteData) (*types.WebsiteData, error)
}

// Store persists editable content through the backend and keeps a per-session
// cache with a freshness window. Created per editing session alongside the
// Editor; not shared across sessions.
type Store struct {
	api Persister
	ttl time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry

	debounce time.Duration
	timer    *time.Timer
}

type cacheEntry struct {
	content types.EditableContent
	savedAt time.Time
}

// NewStore creates a store with the default cache TTL and autosave debounce
func NewStore(api Persister) *Store {
	return &Store{
		api:      api,
		ttl:      config.ContentCacheTTL,
		cache:    make(map[string]cacheEntry),
		debounce: config.AutoSaveDebounce,
	}
}

// Save validates, transforms, and persists the content. Blocking validation
// errors abort the save before the backend is contacted. On success the
// stored copy (with any server-assigned id) is cached and returned.
func (s *Store) Save(ctx context.Context, ec types.EditableContent) (types.EditableContent, error) {
	if v := ValidateContent(ec); !v.IsValid {
		return ec, fmt.Errorf("content has %d invalid fields and cannot be saved", len(v.Errors))
	}

	saved, err := s.api.SaveContent(ctx, ToWebsiteData(ec))
	if err != nil {
		return ec, fmt.Errorf("failed to save content: %w", err)
	}
	if saved != nil && saved.ID != "" {
		ec.ID = saved.ID
	}

	s.mu.Lock()
	s.cache[ec.ID] = cacheEntry{content: Clone(ec), savedAt: time.Now()}
	s.mu.Unlock()

	return ec, nil
}

// Cached returns the last saved copy for an id if it is still within the
// freshness window
func (s *Store) Cached(id string) (types.EditableContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[id]
	if !ok || time.Since(entry.savedAt) > s.ttl {
		return types.EditableContent{}, false
	}
	return Clone(entry.content), true
}

// AutoSave schedules a debounced save: only the last call within the window
// actually fires. Failures are logged, never surfaced; an autosave must not
// interrupt editing.
func (s *Store) AutoSave(ec types.EditableContent) {
	snapshot := Clone(ec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
		defer cancel()
		if _, err := s.Save(ctx, snapshot); err != nil {
			log.Printf("content: autosave failed: %v", err)
		}
	})
}

// Flush cancels any pending autosave, used on session teardown
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
