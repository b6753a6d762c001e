package vocabulary

import (
	"encoding/json"
	"slices"
)

// Category is the semantic category assigned to a tag.
type Category string

// Valid tag categories.
const (
	CategoryGeneral   Category = "general"
	CategoryCharacter Category = "character"
	CategoryCopyright Category = "copyright"
	CategoryArtist    Category = "artist"
	CategoryMeta      Category = "meta"
	CategoryRating    Category = "rating"
)

var categories = []Category{
	CategoryGeneral,
	CategoryCharacter,
	CategoryCopyright,
	CategoryArtist,
	CategoryMeta,
	CategoryRating,
}

// Categories returns the list of valid tag categories.
func Categories() []Category {
	return categories
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// UnmarshalJSON validates that the decoded string is a known category value.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Category(raw)
	if !v.Valid() {
		return ErrInvalidCategory
	}
	*c = v
	return nil
}

// categoryIDs maps the reference table's numeric category column to a
// Category. The numbering follows the upstream tag repository convention;
// unknown IDs classify as general.
var categoryIDs = map[int]Category{
	0: CategoryGeneral,
	1: CategoryArtist,
	3: CategoryCopyright,
	4: CategoryCharacter,
	5: CategoryMeta,
	9: CategoryRating,
}

func categoryFromID(id int) Category {
	if c, ok := categoryIDs[id]; ok {
		return c
	}
	return CategoryGeneral
}
