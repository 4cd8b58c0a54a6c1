package catalog

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cinex/models"
	"cinex/utils/normalize"
)

// Service owns the in-memory catalog collection. It is the single writer:
// mutations are serialized by the mutex and each one writes the whole
// collection back through Storage before returning. Derived views are pure
// projections and never touch stored state.
type Service struct {
	mu       sync.RWMutex
	storage  Storage
	items    []models.CatalogItem
	hydrated bool

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewService creates a catalog service over the given storage. Storage may be
// nil, in which case the catalog lives only in memory.
func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Hydrate populates the collection from storage. Only the first call loads;
// repeated calls are no-ops, so the persisted snapshot can never clobber
// in-memory mutations made after startup.
func (s *Service) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}
	s.hydrated = true

	if s.storage == nil {
		return
	}
	s.items = s.storage.Load()
	log.Printf("[catalog] hydrated %d item(s)", len(s.items))
}

// Add commits a new item from validated input. The service assigns the id
// and timestamps; callers never choose them. The item is prepended so the
// collection stays newest-first by construction.
func (s *Service) Add(input models.NewItemInput) models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	item := models.CatalogItem{
		ID:        s.newID(),
		Title:     input.Title,
		Type:      input.Type,
		Year:      input.Year,
		Notes:     input.Notes,
		Rating:    input.Rating,
		Genre:     input.Genre,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.items = append([]models.CatalogItem{item}, s.items...)
	s.persistLocked()
	return item
}

// Update merges the patch onto the item with the given id and stamps
// updatedAt strictly forward. Unknown ids leave the collection untouched and
// return false.
func (s *Service) Update(id string, patch models.ItemPatch) (models.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}

		item := s.items[i]
		if patch.Title != nil {
			item.Title = *patch.Title
		}
		if patch.Type != nil {
			item.Type = *patch.Type
		}
		if patch.Year != nil {
			item.Year = *patch.Year
		}
		if patch.Notes != nil {
			item.Notes = *patch.Notes
		}
		if patch.Rating != nil {
			item.Rating = *patch.Rating
		}
		if patch.Genre != nil {
			item.Genre = *patch.Genre
		}

		now := s.now().UnixMilli()
		// Millisecond clocks tick slower than back-to-back edits.
		if now <= item.UpdatedAt {
			now = item.UpdatedAt + 1
		}
		item.UpdatedAt = now

		s.items[i] = item
		s.persistLocked()
		return item, true
	}

	return models.CatalogItem{}, false
}

// Remove deletes the item with the given id. Unknown ids are a silent no-op
// (stale references must not crash anything) and return false.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.persistLocked()
		return true
	}
	return false
}

// Derive returns the visible projection of the collection: type filter, then
// normalized substring match over title+notes, then rating, then genre, then
// newest-first by creation time. Each filter is an independent predicate, so
// their order only matters for short-circuiting.
func (s *Service) Derive(filters models.CatalogFilters) []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := normalize.Text(filters.Query)

	visible := make([]models.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		if filters.Type != "" && item.Type != filters.Type {
			continue
		}
		if query != "" {
			haystack := normalize.Text(item.Title + " " + item.Notes)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		if filters.Rating != 0 && item.Rating != filters.Rating {
			continue
		}
		if filters.Genre != "" && item.Genre != filters.Genre {
			continue
		}
		visible = append(visible, item)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt > visible[j].CreatedAt
	})
	return visible
}

// Items returns a snapshot of the full collection in stored order.
func (s *Service) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CatalogItem(nil), s.items...)
}

// persistLocked writes the full collection through storage. Callers hold the
// write lock. There is no delta persistence; the collection is small and
// writes happen at user-action frequency.
func (s *Service) persistLocked() {
	if s.storage == nil {
		return
	}
	s.storage.Save(append([]models.CatalogItem(nil), s.items...))
}
