package repository

import (
	"context"

	"github.com/program-catalog-api/internal/database"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/samber/mo"
)

// ProgramRepository defines the persistence operations over programs.
// Finders return (nil, nil) when nothing matches. Public reads take a plan
// from the query package, whose filter always excludes tombstoned rows.
type ProgramRepository interface {
	// FindByID returns a live (not archived) program by id
	FindByID(ctx context.Context, id string) (*models.Program, error)
	// FindPublished returns a live program by id only when it is published
	FindPublished(ctx context.Context, id string) (*models.Program, error)
	// FindByExternalID looks up by provenance, archived rows included
	FindByExternalID(ctx context.Context, provider models.Provider, externalID string) (*models.Program, error)
	// FindBySlug looks up by slug, archived rows included
	FindBySlug(ctx context.Context, slug string) (*models.Program, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// FindLatestSlugSuffix returns the greatest "base-<n>" slug, compared by
	// length and then lexically, archived rows included
	FindLatestSlugSuffix(ctx context.Context, base string) (mo.Option[string], error)
	// FindDrafts pages live drafts, newest first
	FindDrafts(ctx context.Context, page query.Page) (*models.Page, error)

	// Create builds an unsaved draft from fields
	Create(fields models.ProgramFields) *models.Program
	// Save inserts a program without an id, otherwise updates the live row.
	// Unique constraint violations are returned as models.ErrConflict.
	Save(ctx context.Context, p *models.Program) (*models.Program, error)
	// SoftDelete archives a live program and sets its tombstone
	SoftDelete(ctx context.Context, id string) error

	FindPublishedPage(ctx context.Context, plan query.FeedPlan) (*models.Page, error)
	SearchRanked(ctx context.Context, plan query.SearchPlan) (*models.Page, error)
	FindRelated(ctx context.Context, plan query.RelatedPlan) ([]*models.Program, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Program ProgramRepository
	Health  HealthChecker
}

// New creates all repositories with the given database connection
func New(db *database.DB, defaultLanguage models.Language) *Repositories {
	return &Repositories{
		Program: NewProgramRepo(db, defaultLanguage),
		Health:  db,
	}
}

// NewDraft builds an unsaved draft program. Shared by every
// ProgramRepository implementation so Create behaves the same everywhere.
func NewDraft(fields models.ProgramFields, defaultLanguage models.Language) *models.Program {
	lang := fields.Language
	if lang == "" {
		lang = defaultLanguage
	}
	p := &models.Program{
		Title:           fields.Title,
		Slug:            fields.Slug,
		Description:     fields.Description,
		DurationSeconds: fields.DurationSeconds,
		ThumbnailURL:    fields.ThumbnailURL,
		Status:          models.StatusDraft,
		Language:        lang,
		ExternalID:      fields.ExternalID,
		SourceMetadata:  fields.SourceMetadata,
	}
	if fields.SourceProvider != "" {
		provider := fields.SourceProvider
		p.SourceProvider = &provider
	}
	return p
}
