package models

import (
	"time"
)

// Program represents a catalog record describing one piece of media content
type Program struct {
	ID              string          `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	Slug            string          `json:"slug" db:"slug"`
	Description     string          `json:"description" db:"description"`
	DurationSeconds int             `json:"duration_seconds" db:"duration_seconds"`
	Category        *Category       `json:"category,omitempty" db:"category"`
	ThumbnailURL    string          `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Status          ProgramStatus   `json:"status" db:"status"`
	PublishedAt     *time.Time      `json:"published_at,omitempty" db:"published_at"`
	DeletedAt       *time.Time      `json:"-" db:"deleted_at"` // Tombstone, never cleared
	Language        Language        `json:"language" db:"language"`
	SourceProvider  *Provider       `json:"source_provider,omitempty" db:"source_provider"`
	ExternalID      string          `json:"external_id,omitempty" db:"external_id"`
	SourceMetadata  *SourceMetadata `json:"source_metadata,omitempty" db:"source_metadata"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the program carries a tombstone
func (p *Program) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsPublic reports whether the program is visible on the public read path
// for the given language.
func (p *Program) IsPublic(lang Language) bool {
	return p.Status == StatusPublished && !p.IsDeleted() && p.Language == lang
}

// CanPublish checks the fields a published program must carry
func (p *Program) CanPublish() bool {
	return p.Title != "" && p.Slug != ""
}

// ProgramFields holds the values used to build a new, unsaved program
type ProgramFields struct {
	Title           string
	Slug            string
	Description     string
	DurationSeconds int
	ThumbnailURL    string
	Language        Language
	SourceProvider  Provider
	ExternalID      string
	SourceMetadata  *SourceMetadata
}

// Page is a slice of programs together with the total number of matching rows
type Page struct {
	Data  []*Program `json:"data"`
	Total int        `json:"total"`
}

// EmptyPage returns a page with no items and total=0
func EmptyPage() *Page {
	return &Page{Data: []*Program{}, Total: 0}
}

// SearchResult is a single hit returned by a provider search
type SearchResult struct {
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	Thumbnail  string   `json:"thumbnail"`
	Duration   int      `json:"duration"`
	Provider   Provider `json:"provider"`
}

// ProgramDetails is the full description of a single external item
type ProgramDetails struct {
	ExternalID      string          `json:"external_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DurationSeconds int             `json:"duration_seconds"`
	Thumbnail       string          `json:"thumbnail"`
	Provider        Provider        `json:"provider"`
	SourceMetadata  *SourceMetadata `json:"source_metadata,omitempty"`
}

// FilterOptions lists the values the public read path accepts
type FilterOptions struct {
	Languages   []Language      `json:"languages"`
	Categories  []Category      `json:"categories"`
	SortOptions []string        `json:"sort_options"`
	Statuses    []ProgramStatus `json:"statuses"`
}
