// Package query composes the filter, sort, search and related-content
// shapes used by the public read path. Plans are plain values; the
// persistence layer turns them into SQL.
package query

import (
	"fmt"
	"strings"

	"github.com/program-catalog-api/internal/models"
)

// SortOrder selects how a feed is ordered
type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortDuration SortOrder = "duration"
)

// SortOptions lists the accepted sort names, default first
var SortOptions = []SortOrder{SortNewest, SortOldest, SortDuration}

// ParseSort resolves a sort name. Unknown or empty names fall back to
// SortNewest without error.
func ParseSort(name string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(name))) {
	case SortOldest:
		return SortOldest
	case SortDuration:
		return SortDuration
	default:
		return SortNewest
	}
}

// OrderBy returns the SQL ordering for the sort. Ties are broken by id so
// pagination is stable.
func (s SortOrder) OrderBy() string {
	switch s {
	case SortOldest:
		return "published_at ASC, id ASC"
	case SortDuration:
		return "duration_seconds DESC, id ASC"
	default:
		return "published_at DESC, id ASC"
	}
}

// Less reports whether a sorts before b under s
func (s SortOrder) Less(a, b *models.Program) bool {
	switch s {
	case SortOldest:
		if c := compareTime(a, b); c != 0 {
			return c < 0
		}
	case SortDuration:
		if a.DurationSeconds != b.DurationSeconds {
			return a.DurationSeconds > b.DurationSeconds
		}
	default:
		if c := compareTime(a, b); c != 0 {
			return c > 0
		}
	}
	return a.ID < b.ID
}

// compareTime orders by published_at; an unset timestamp sorts first
func compareTime(a, b *models.Program) int {
	switch {
	case a.PublishedAt == nil && b.PublishedAt == nil:
		return 0
	case a.PublishedAt == nil:
		return -1
	case b.PublishedAt == nil:
		return 1
	default:
		return a.PublishedAt.Compare(*b.PublishedAt)
	}
}

// Filter is the predicate shared by every public read:
// status = PUBLISHED AND deleted_at IS NULL AND language = Language.
// It is only constructed through Published, so no read can skip the
// tombstone check.
type Filter struct {
	language  models.Language
	excludeID string
}

// Published returns the base public filter for a language
func Published(lang models.Language) Filter {
	return Filter{language: lang}
}

// Excluding returns a copy of the filter that also drops one id
func (f Filter) Excluding(id string) Filter {
	f.excludeID = id
	return f
}

// Language returns the language the filter restricts to
func (f Filter) Language() models.Language {
	return f.language
}

// ExcludedID returns the id dropped by the filter, or ""
func (f Filter) ExcludedID() string {
	return f.excludeID
}

// Matches evaluates the filter against a loaded program
func (f Filter) Matches(p *models.Program) bool {
	if p == nil || !p.IsPublic(f.language) {
		return false
	}
	return f.excludeID == "" || p.ID != f.excludeID
}

// Where renders the filter as a SQL condition over the programs table
// aliased as p. Placeholders start at $start; the returned args fill them.
func (f Filter) Where(start int) (string, []any) {
	args := []any{string(models.StatusPublished), string(f.language)}
	cond := fmt.Sprintf("p.status = $%d AND p.deleted_at IS NULL AND p.language = $%d", start, start+1)
	if f.excludeID != "" {
		cond += fmt.Sprintf(" AND p.id <> $%d", start+2)
		args = append(args, f.excludeID)
	}
	return cond, args
}

// Page is a limit/offset window. Bounds are validated at the boundary;
// nothing here clamps.
type Page struct {
	Limit  int
	Offset int
}

// PageFromNumber converts a 1-based page number into a window
func PageFromNumber(page, limit int) Page {
	return Page{Limit: limit, Offset: (page - 1) * limit}
}

// Slice applies the window to an already ordered slice
func (p Page) Slice(items []*models.Program) []*models.Program {
	if p.Offset >= len(items) || p.Offset < 0 {
		return []*models.Program{}
	}
	end := p.Offset + p.Limit
	if end > len(items) || p.Limit < 0 {
		end = len(items)
	}
	return items[p.Offset:end]
}

// FeedPlan describes a sorted, paginated listing of published programs
type FeedPlan struct {
	Filter Filter
	Sort   SortOrder
	Page   Page
}

// SearchPlan describes a full-text search ranked by relevance, ties broken
// by published_at descending.
type SearchPlan struct {
	Filter Filter
	Query  string
	Page   Page
}

// SearchConfig is the text search configuration for the plan's language
func (s SearchPlan) SearchConfig() string {
	return s.Filter.Language().SearchConfig()
}

// RelatedPlan describes programs similar to a given title, same language,
// excluding the source program.
type RelatedPlan struct {
	Filter Filter
	Title  string
	Limit  int
}

// Planner builds plans from already validated request values
type Planner struct{}

// NewPlanner creates a planner
func NewPlanner() *Planner {
	return &Planner{}
}

// Feed plans the home feed
func (*Planner) Feed(lang models.Language, sort string, page, limit int) FeedPlan {
	return FeedPlan{
		Filter: Published(lang),
		Sort:   ParseSort(sort),
		Page:   PageFromNumber(page, limit),
	}
}

// Search plans a ranked full-text search
func (*Planner) Search(lang models.Language, q string, page, limit int) SearchPlan {
	return SearchPlan{
		Filter: Published(lang),
		Query:  strings.TrimSpace(q),
		Page:   PageFromNumber(page, limit),
	}
}

// Related plans the related-content lookup for a published program
func (*Planner) Related(current *models.Program, limit int) RelatedPlan {
	return RelatedPlan{
		Filter: Published(current.Language).Excluding(current.ID),
		Title:  current.Title,
		Limit:  limit,
	}
}

// Filters lists the values the public read path accepts
func (*Planner) Filters() models.FilterOptions {
	sorts := make([]string, len(SortOptions))
	for i, s := range SortOptions {
		sorts[i] = string(s)
	}
	return models.FilterOptions{
		Languages:   append([]models.Language(nil), models.SupportedLanguages...),
		Categories:  append([]models.Category(nil), models.SupportedCategories...),
		SortOptions: sorts,
		Statuses:    []models.ProgramStatus{models.StatusPublished},
	}
}
