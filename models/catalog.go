package models

// CatalogType classifies a catalog entry.
type CatalogType string

const (
	TypeMovie  CatalogType = "movie"
	TypeSeries CatalogType = "series"
)

// Valid reports whether the value is one of the known catalog types.
func (t CatalogType) Valid() bool {
	return t == TypeMovie || t == TypeSeries
}

// Genre is one of the fixed genre values an item may carry.
type Genre string

const (
	GenreAction      Genre = "action"
	GenreComedy      Genre = "comedy"
	GenreDrama       Genre = "drama"
	GenreSciFi       Genre = "scifi"
	GenreHorror      Genre = "horror"
	GenreRomance     Genre = "romance"
	GenreThriller    Genre = "thriller"
	GenreAnimation   Genre = "animation"
	GenreDocumentary Genre = "documentary"
	GenreFantasy     Genre = "fantasy"
)

// GenreOption pairs a genre value with the label the UI renders for it.
type GenreOption struct {
	Value Genre  `json:"value"`
	Label string `json:"label"`
}

// Genres is the closed set of selectable genres, in display order.
var Genres = []GenreOption{
	{Value: GenreAction, Label: "Action"},
	{Value: GenreComedy, Label: "Comedy"},
	{Value: GenreDrama, Label: "Drama"},
	{Value: GenreSciFi, Label: "Sci-Fi"},
	{Value: GenreHorror, Label: "Horror"},
	{Value: GenreRomance, Label: "Romance"},
	{Value: GenreThriller, Label: "Thriller"},
	{Value: GenreAnimation, Label: "Animation"},
	{Value: GenreDocumentary, Label: "Documentary"},
	{Value: GenreFantasy, Label: "Fantasy"},
}

// ValidGenre reports whether value matches one of the fixed genre values.
func ValidGenre(value string) bool {
	for _, g := range Genres {
		if string(g.Value) == value {
			return true
		}
	}
	return false
}

const (
	// MinRating and MaxRating bound the 1..5 star scale.
	MinRating = 1
	MaxRating = 5

	// MinYear is the practical lower bound for motion-picture history.
	MinYear = 1888
	// YearSlack allows registering upcoming releases a couple of years out.
	YearSlack = 2
)

// CatalogItem is a single committed movie/series entry.
//
// Optional fields use the zero value for "absent" and are omitted from the
// persisted JSON, so the stored document stays compatible with the layout the
// web client wrote under its localStorage key. Timestamps are epoch
// milliseconds for the same reason.
type CatalogItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Type      CatalogType `json:"type"` // movie | series
	Year      int         `json:"year,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Rating    int         `json:"rating,omitempty"` // 1..5
	Genre     Genre       `json:"genre,omitempty"`
	CreatedAt int64       `json:"createdAt"`
	UpdatedAt int64       `json:"updatedAt"`
}

// CatalogDraft is the raw, string-typed form input for an item before
// validation. It never reaches storage; a valid draft is converted to a
// NewItemInput (or ItemPatch) and discarded.
type CatalogDraft struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Year   string `json:"year"`
	Notes  string `json:"notes"`
	Rating string `json:"rating"`
	Genre  string `json:"genre"`
}

// NewItemInput carries the typed, already-validated fields for a new item.
// Zero values on the optional fields mean "absent".
type NewItemInput struct {
	Title  string
	Type   CatalogType
	Year   int
	Notes  string
	Rating int
	Genre  Genre
}

// ItemPatch is a partial update for an existing item. A nil field leaves the
// stored value unchanged; for the optional fields, a pointer to the zero
// value clears the field (an empty form input removes the stored value).
type ItemPatch struct {
	Title  *string
	Type   *CatalogType
	Year   *int
	Notes  *string
	Rating *int
	Genre  *Genre
}

// CatalogFilters selects the visible subset of the collection. Zero values
// ("", 0) mean "all" for their dimension; Query is matched as a normalized
// substring of title+notes and skipped entirely when empty.
type CatalogFilters struct {
	Query  string
	Type   CatalogType
	Rating int
	Genre  Genre
}
