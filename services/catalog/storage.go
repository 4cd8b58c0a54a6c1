package catalog

import (
	"encoding/json"
	"log"

	"cinex/internal/database"
	"cinex/models"
)

// StorageKey is the app_state key holding the catalog collection. The value
// layout (a JSON array of items) matches what the web client persisted under
// its localStorage key, so existing exports load unchanged.
const StorageKey = "catalog_v1_items"

// Storage persists the full catalog collection. Implementations never fail
// loudly: a missing, unreadable, or corrupt snapshot loads as nil, and an
// unavailable backing store turns Save into a no-op.
type Storage interface {
	Load() []models.CatalogItem
	Save(items []models.CatalogItem)
}

// ItemStore is the sqlite-backed Storage used in production.
type ItemStore struct {
	repo *database.StateRepository
	key  string
}

// NewItemStore creates the store over the state repository. A nil repository
// is allowed and yields a store that loads empty and discards saves, for
// running without persistence.
func NewItemStore(repo *database.StateRepository) *ItemStore {
	return &ItemStore{repo: repo, key: StorageKey}
}

// Load returns the persisted collection, or nil when the store is
// unavailable, the key is unset, or the stored text does not parse as an
// item array. All three collapse to the same empty-catalog outcome.
func (s *ItemStore) Load() []models.CatalogItem {
	if s == nil || s.repo == nil {
		return nil
	}

	raw, ok, err := s.repo.Get(s.key)
	if err != nil {
		log.Printf("[catalog] failed to read persisted state, starting empty: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var items []models.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[catalog] persisted state is not a valid item array, starting empty: %v", err)
		return nil
	}
	return items
}

// Save serializes the collection and overwrites the stored value. Failures
// are logged and swallowed; losing a local cache write is not worth
// interrupting the user action that triggered it.
func (s *ItemStore) Save(items []models.CatalogItem) {
	if s == nil || s.repo == nil {
		return
	}

	if items == nil {
		items = []models.CatalogItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		log.Printf("[catalog] failed to serialize state: %v", err)
		return
	}
	if err := s.repo.Set(s.key, string(raw)); err != nil {
		log.Printf("[catalog] failed to persist state: %v", err)
	}
}
