package catalog

import (
	"reflect"
	"testing"
	"time"

	"cinex/models"
)

// stubStorage records every snapshot the service persists.
type stubStorage struct {
	loaded []models.CatalogItem
	saved  [][]models.CatalogItem
}

func (s *stubStorage) Load() []models.CatalogItem { return s.loaded }

func (s *stubStorage) Save(items []models.CatalogItem) {
	s.saved = append(s.saved, items)
}

func (s *stubStorage) lastSaved() []models.CatalogItem {
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(storage Storage) (*Service, *fakeClock) {
	clock := &fakeClock{now: time.UnixMilli(1700000000000)}
	svc := NewService(storage)
	svc.now = clock.Now
	return svc, clock
}

func TestHydrateLoadsPersistedItemsOnce(t *testing.T) {
	storage := &stubStorage{loaded: []models.CatalogItem{
		{ID: "a", Title: "Dune", Type: models.TypeMovie, CreatedAt: 1, UpdatedAt: 1},
	}}
	svc, _ := newTestService(storage)

	svc.Hydrate()
	if got := len(svc.Items()); got != 1 {
		t.Fatalf("expected 1 hydrated item, got %d", got)
	}

	// A second hydrate must not reload and clobber live state.
	storage.loaded = nil
	svc.Hydrate()
	if got := len(svc.Items()); got != 1 {
		t.Fatalf("expected repeated hydrate to be a no-op, got %d items", got)
	}
}

func TestAddAssignsIdentityAndTimestamps(t *testing.T) {
	storage := &stubStorage{}
	svc, _ := newTestService(storage)
	svc.Hydrate()

	before := len(svc.Derive(models.CatalogFilters{}))

	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie, Year: 2021, Rating: 5, Genre: models.GenreSciFi})

	if item.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if item.CreatedAt != item.UpdatedAt {
		t.Fatalf("expected createdAt == updatedAt on creation, got %d vs %d", item.CreatedAt, item.UpdatedAt)
	}

	visible := svc.Derive(models.CatalogFilters{})
	if len(visible) != before+1 {
		t.Fatalf("expected exactly one more visible item, got %d -> %d", before, len(visible))
	}

	other := svc.Add(models.NewItemInput{Title: "Heat", Type: models.TypeMovie})
	if other.ID == item.ID {
		t.Fatalf("expected unique ids, both were %q", item.ID)
	}
	if len(storage.saved) != 2 {
		t.Fatalf("expected a persist per mutation, got %d", len(storage.saved))
	}
}

func TestDeriveOrdersNewestFirst(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()

	svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie, Year: 2021, Rating: 5, Genre: models.GenreSciFi})
	clock.advance(time.Minute)
	svc.Add(models.NewItemInput{Title: "Dune: Part Two", Type: models.TypeMovie, Year: 2024})

	visible := svc.Derive(models.CatalogFilters{})
	if len(visible) != 2 {
		t.Fatalf("expected 2 items, got %d", len(visible))
	}
	if visible[0].Title != "Dune: Part Two" || visible[1].Title != "Dune" {
		t.Fatalf("expected newest first, got [%s, %s]", visible[0].Title, visible[1].Title)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	storage := &stubStorage{}
	svc, clock := newTestService(storage)
	svc.Hydrate()

	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie, Year: 2021, Notes: "part one", Rating: 4, Genre: models.GenreSciFi})

	clock.advance(time.Second)
	title := "Dune (Director's Cut)"
	updated, ok := svc.Update(item.ID, models.ItemPatch{Title: &title})
	if !ok {
		t.Fatalf("expected update to find the item")
	}

	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}
	if updated.UpdatedAt <= item.UpdatedAt {
		t.Fatalf("expected updatedAt to move strictly forward, got %d -> %d", item.UpdatedAt, updated.UpdatedAt)
	}
	if updated.Year != item.Year || updated.Notes != item.Notes ||
		updated.Rating != item.Rating || updated.Genre != item.Genre ||
		updated.Type != item.Type || updated.CreatedAt != item.CreatedAt || updated.ID != item.ID {
		t.Fatalf("expected all other fields unchanged, got %+v vs %+v", updated, item)
	}
}

func TestUpdateStampsStrictlyForwardWithinOneMillisecond(t *testing.T) {
	svc, _ := newTestService(&stubStorage{})
	svc.Hydrate()

	// Clock never advances; two stamps in the same millisecond.
	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie})
	title := "Dune "
	updated, ok := svc.Update(item.ID, models.ItemPatch{Title: &title})
	if !ok {
		t.Fatalf("expected update to succeed")
	}
	if updated.UpdatedAt != item.UpdatedAt+1 {
		t.Fatalf("expected same-millisecond update to stamp previous+1, got %d -> %d", item.UpdatedAt, updated.UpdatedAt)
	}
	if updated.CreatedAt > updated.UpdatedAt {
		t.Fatalf("createdAt must never exceed updatedAt")
	}
}

func TestUpdateClearsOptionalFieldsWithZeroPointers(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()

	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie, Year: 2021, Notes: "x", Rating: 5, Genre: models.GenreSciFi})

	clock.advance(time.Second)
	var (
		year   int
		notes  string
		rating int
		genre  models.Genre
	)
	updated, ok := svc.Update(item.ID, models.ItemPatch{Year: &year, Notes: &notes, Rating: &rating, Genre: &genre})
	if !ok {
		t.Fatalf("expected update to succeed")
	}
	if updated.Year != 0 || updated.Notes != "" || updated.Rating != 0 || updated.Genre != "" {
		t.Fatalf("expected optionals cleared, got %+v", updated)
	}
	if updated.Title != item.Title {
		t.Fatalf("expected title untouched")
	}
}

func TestUpdateUnknownIDIsSilentNoop(t *testing.T) {
	storage := &stubStorage{}
	svc, _ := newTestService(storage)
	svc.Hydrate()
	svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie})

	persists := len(storage.saved)
	title := "X"
	if _, ok := svc.Update("missing", models.ItemPatch{Title: &title}); ok {
		t.Fatalf("expected update on unknown id to report not found")
	}
	if len(storage.saved) != persists {
		t.Fatalf("expected no persist on a no-op update")
	}
}

func TestRemoveUnknownIDLeavesCollectionIdentical(t *testing.T) {
	storage := &stubStorage{}
	svc, _ := newTestService(storage)
	svc.Hydrate()
	svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie})

	before := svc.Items()
	persists := len(storage.saved)

	if svc.Remove("missing") {
		t.Fatalf("expected remove on unknown id to report not found")
	}

	if !reflect.DeepEqual(before, svc.Items()) {
		t.Fatalf("expected collection to be identical after no-op remove")
	}
	if len(storage.saved) != persists {
		t.Fatalf("expected no persist on a no-op remove")
	}
}

func TestRemoveDeletesItem(t *testing.T) {
	svc, _ := newTestService(&stubStorage{})
	svc.Hydrate()

	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie})
	if !svc.Remove(item.ID) {
		t.Fatalf("expected remove to succeed")
	}
	if got := len(svc.Derive(models.CatalogFilters{})); got != 0 {
		t.Fatalf("expected empty catalog, got %d items", got)
	}
}

func seedForFiltering(svc *Service, clock *fakeClock) {
	inputs := []models.NewItemInput{
		{Title: "Dune", Type: models.TypeMovie, Year: 2021, Rating: 5, Genre: models.GenreSciFi},
		{Title: "acao total", Type: models.TypeMovie, Rating: 3, Genre: models.GenreAction},
		{Title: "Severance", Type: models.TypeSeries, Rating: 5, Genre: models.GenreSciFi, Notes: "innie drama"},
		{Title: "Fleabag", Type: models.TypeSeries, Rating: 5, Genre: models.GenreComedy},
		{Title: "Heat", Type: models.TypeMovie, Rating: 4, Genre: models.GenreThriller},
	}
	for _, input := range inputs {
		svc.Add(input)
		clock.advance(time.Second)
	}
}

func TestDeriveAppliesEachFilter(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()
	seedForFiltering(svc, clock)

	byType := svc.Derive(models.CatalogFilters{Type: models.TypeSeries})
	if len(byType) != 2 {
		t.Fatalf("expected 2 series, got %d", len(byType))
	}

	byRating := svc.Derive(models.CatalogFilters{Rating: 5})
	if len(byRating) != 3 {
		t.Fatalf("expected 3 five-star items, got %d", len(byRating))
	}

	byGenre := svc.Derive(models.CatalogFilters{Genre: models.GenreSciFi})
	if len(byGenre) != 2 {
		t.Fatalf("expected 2 scifi items, got %d", len(byGenre))
	}

	// Search matches notes as well as titles.
	byNotes := svc.Derive(models.CatalogFilters{Query: "innie"})
	if len(byNotes) != 1 || byNotes[0].Title != "Severance" {
		t.Fatalf("expected notes search to find Severance, got %v", byNotes)
	}
}

func TestDeriveSearchIsDiacriticAndCaseInsensitive(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()
	seedForFiltering(svc, clock)

	visible := svc.Derive(models.CatalogFilters{Query: "AÇÃO"})
	if len(visible) != 1 || visible[0].Title != "acao total" {
		t.Fatalf("expected accented query to match plain title, got %v", visible)
	}
}

func TestDeriveFiltersCommute(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()
	seedForFiltering(svc, clock)

	combined := idsOf(svc.Derive(models.CatalogFilters{Type: models.TypeSeries, Rating: 5, Genre: models.GenreSciFi}))

	// Each filter is an independent predicate: intersecting the
	// single-filter result sets must give the combined result.
	intersection := intersect(
		idsOf(svc.Derive(models.CatalogFilters{Type: models.TypeSeries})),
		idsOf(svc.Derive(models.CatalogFilters{Rating: 5})),
		idsOf(svc.Derive(models.CatalogFilters{Genre: models.GenreSciFi})),
	)

	if !reflect.DeepEqual(combined, intersection) {
		t.Fatalf("expected filters to commute: combined %v vs intersection %v", combined, intersection)
	}
}

func TestDeriveNeverMutatesStoredState(t *testing.T) {
	svc, clock := newTestService(&stubStorage{})
	svc.Hydrate()
	seedForFiltering(svc, clock)

	before := svc.Items()
	svc.Derive(models.CatalogFilters{Query: "dune", Type: models.TypeMovie, Rating: 5, Genre: models.GenreSciFi})
	if !reflect.DeepEqual(before, svc.Items()) {
		t.Fatalf("expected derive to leave stored state untouched")
	}
}

func TestRoundTripThroughStorage(t *testing.T) {
	storage := &stubStorage{}
	svc, clock := newTestService(storage)
	svc.Hydrate()

	first := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie, Year: 2021})
	clock.advance(time.Second)
	svc.Add(models.NewItemInput{Title: "Heat", Type: models.TypeMovie})
	clock.advance(time.Second)
	title := "Dune (2021)"
	svc.Update(first.ID, models.ItemPatch{Title: &title})
	svc.Remove("missing-id")

	reloaded, _ := newTestService(&stubStorage{loaded: storage.lastSaved()})
	reloaded.Hydrate()

	want := svc.Derive(models.CatalogFilters{})
	got := reloaded.Derive(models.CatalogFilters{})
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected hydrate to reproduce the visible collection\nwant %v\ngot  %v", want, got)
	}
}

func TestServiceRunsWithoutStorage(t *testing.T) {
	svc := NewService(nil)
	svc.Hydrate()

	item := svc.Add(models.NewItemInput{Title: "Dune", Type: models.TypeMovie})
	if got := len(svc.Derive(models.CatalogFilters{})); got != 1 {
		t.Fatalf("expected in-memory catalog to work without storage, got %d items", got)
	}
	if !svc.Remove(item.ID) {
		t.Fatalf("expected remove to succeed without storage")
	}
}

func idsOf(items []models.CatalogItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func intersect(sets ...[]string) []string {
	counts := make(map[string]int)
	for _, set := range sets {
		for _, id := range set {
			counts[id]++
		}
	}
	// Preserve the order of the first set.
	var out []string
	for _, id := range sets[0] {
		if counts[id] == len(sets) {
			out = append(out, id)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
