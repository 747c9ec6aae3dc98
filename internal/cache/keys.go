package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// StoriesKey is the key of one page of the story listing. Only "All" (or no
// category) is unfiltered; a literal "all" category is quoted so it keeps its
// own entry.
func StoriesKey(page, limit int, category, sort string) string {
	switch category {
	case "", "All":
		category = "all"
	case "all":
		category = strconv.Quote(category)
	}
	return fmt.Sprintf("stories_%d_%d_%s_%s", page, limit, category, sort)
}

// SearchKey is the key of one page of search results. The query is lowercased
// because matching is case-insensitive.
func SearchKey(q string, page, limit int) string {
	return fmt.Sprintf("search_%s_%d_%d", strings.ToLower(strings.TrimSpace(q)), page, limit)
}

// MustWatchKey is the key of the engagement-ranked listing.
func MustWatchKey(limit int) string {
	return fmt.Sprintf("mustwatch_%d", limit)
}
