package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cinex/models"
)

// ValidateDraft checks a form draft and returns the first failing rule as a
// user-facing error, or nil when the draft can be committed. Optional fields
// (year, rating, genre) are only checked when non-empty. The function is pure
// and usable without a Service.
func ValidateDraft(draft models.CatalogDraft) error {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) < 2 {
		return errors.New("title is too short (minimum 2 characters)")
	}

	if year := strings.TrimSpace(draft.Year); year != "" {
		maxYear := time.Now().Year() + models.YearSlack
		n, err := strconv.Atoi(year)
		if err != nil {
			return errors.New("invalid year")
		}
		if n < models.MinYear || n > maxYear {
			return fmt.Errorf("year must be between %d and %d", models.MinYear, maxYear)
		}
	}

	if rating := strings.TrimSpace(draft.Rating); rating != "" {
		n, err := strconv.Atoi(rating)
		if err != nil || n < models.MinRating || n > models.MaxRating {
			return fmt.Errorf("rating must be between %d and %d", models.MinRating, models.MaxRating)
		}
	}

	if genre := strings.TrimSpace(draft.Genre); genre != "" {
		if !models.ValidGenre(genre) {
			return errors.New("invalid genre")
		}
	}

	// The web form constrains type with a select; the API cannot rely on that.
	if !models.CatalogType(strings.TrimSpace(draft.Type)).Valid() {
		return errors.New(`type must be "movie" or "series"`)
	}

	return nil
}

// DraftToInput converts a draft that already passed ValidateDraft into typed
// input. Empty optional fields come out as their absent zero values.
func DraftToInput(draft models.CatalogDraft) models.NewItemInput {
	input := models.NewItemInput{
		Title: strings.TrimSpace(draft.Title),
		Type:  models.CatalogType(strings.TrimSpace(draft.Type)),
		Notes: strings.TrimSpace(draft.Notes),
	}
	if year := strings.TrimSpace(draft.Year); year != "" {
		if n, err := strconv.Atoi(year); err == nil {
			input.Year = n
		}
	}
	if rating := strings.TrimSpace(draft.Rating); rating != "" {
		if n, err := strconv.Atoi(rating); err == nil {
			input.Rating = n
		}
	}
	if genre := strings.TrimSpace(draft.Genre); genre != "" {
		input.Genre = models.Genre(genre)
	}
	return input
}

// DraftToPatch converts a validated draft into a full patch: every field is
// provided, so empty optionals clear their stored values. This is how the
// edit form behaves — what you see in the form is what the item becomes.
func DraftToPatch(draft models.CatalogDraft) models.ItemPatch {
	input := DraftToInput(draft)
	return models.ItemPatch{
		Title:  &input.Title,
		Type:   &input.Type,
		Year:   &input.Year,
		Notes:  &input.Notes,
		Rating: &input.Rating,
		Genre:  &input.Genre,
	}
}
