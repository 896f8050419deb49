package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/program-catalog-api/internal/database"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/samber/mo"
)

const programColumns = `p.id, p.title, p.slug, p.description, p.duration_seconds, p.category,
	p.thumbnail_url, p.status, p.published_at, p.deleted_at, p.language,
	p.source_provider, p.external_id, p.source_metadata, p.created_at, p.updated_at`

// programRepo is the concrete implementation of ProgramRepository
type programRepo struct {
	db              *database.DB
	defaultLanguage models.Language
}

// NewProgramRepo creates a new program repository
func NewProgramRepo(db *database.DB, defaultLanguage models.Language) ProgramRepository {
	return &programRepo{db: db, defaultLanguage: defaultLanguage}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*models.Program, error) {
	var p models.Program
	var category, sourceProvider, externalID sql.NullString
	var publishedAt, deletedAt sql.NullTime
	var metadata []byte

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.DurationSeconds, &category,
		&p.ThumbnailURL, &p.Status, &publishedAt, &deletedAt, &p.Language,
		&sourceProvider, &externalID, &metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		c := models.Category(category.String)
		p.Category = &c
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}
	if sourceProvider.Valid {
		sp := models.Provider(sourceProvider.String)
		p.SourceProvider = &sp
	}
	p.ExternalID = externalID.String
	if metadata != nil {
		var m models.SourceMetadata
		if err := json.Unmarshal(metadata, &m); err != nil {
			return nil, fmt.Errorf("decode source_metadata of %s: %w", p.ID, err)
		}
		p.SourceMetadata = &m
	}

	return &p, nil
}

func (r *programRepo) findOne(ctx context.Context, where string, args ...any) (*models.Program, error) {
	q := `SELECT ` + programColumns + ` FROM programs p WHERE ` + where + ` LIMIT 1`

	p, err := scanProgram(r.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *programRepo) findMany(ctx context.Context, q string, args ...any) ([]*models.Program, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := []*models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func (r *programRepo) count(ctx context.Context, where string, args ...any) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM programs p WHERE `+where, args...).Scan(&total)
	return total, err
}

// FindByID retrieves a live program by ID
func (r *programRepo) FindByID(ctx context.Context, id string) (*models.Program, error) {
	return r.findOne(ctx, "p.id = $1 AND p.deleted_at IS NULL", id)
}

// FindPublished retrieves a live, published program by ID
func (r *programRepo) FindPublished(ctx context.Context, id string) (*models.Program, error) {
	return r.findOne(ctx, "p.id = $1 AND p.status = $2 AND p.deleted_at IS NULL", id, models.StatusPublished)
}

// FindByExternalID retrieves a program by source provider and external id
func (r *programRepo) FindByExternalID(ctx context.Context, provider models.Provider, externalID string) (*models.Program, error) {
	return r.findOne(ctx, "p.source_provider = $1 AND p.external_id = $2", provider, externalID)
}

// FindBySlug retrieves a program by slug
func (r *programRepo) FindBySlug(ctx context.Context, slug string) (*models.Program, error) {
	return r.findOne(ctx, "p.slug = $1", slug)
}

// SlugExists checks if any program, archived or not, holds the slug
func (r *programRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM programs WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// FindLatestSlugSuffix returns the highest numbered "base-<n>" slug
func (r *programRepo) FindLatestSlugSuffix(ctx context.Context, base string) (mo.Option[string], error) {
	pattern := "^" + regexp.QuoteMeta(base) + "-[0-9]+$"

	var slug string
	err := r.db.QueryRowContext(ctx, `
		SELECT slug FROM programs
		WHERE slug ~ $1
		ORDER BY LENGTH(slug) DESC, slug DESC
		LIMIT 1
	`, pattern).Scan(&slug)
	if err == sql.ErrNoRows {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(slug), nil
}

// FindDrafts pages live drafts ordered by creation time, newest first
func (r *programRepo) FindDrafts(ctx context.Context, page query.Page) (*models.Page, error) {
	where := "p.status = $1 AND p.deleted_at IS NULL"

	total, err := r.count(ctx, where, models.StatusDraft)
	if err != nil {
		return nil, fmt.Errorf("count drafts: %w", err)
	}
	if total == 0 {
		return models.EmptyPage(), nil
	}

	items, err := r.findMany(ctx,
		`SELECT `+programColumns+` FROM programs p WHERE `+where+
			` ORDER BY p.created_at DESC, p.id ASC LIMIT $2 OFFSET $3`,
		models.StatusDraft, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return &models.Page{Data: items, Total: total}, nil
}

// Create builds an unsaved draft
func (r *programRepo) Create(fields models.ProgramFields) *models.Program {
	return NewDraft(fields, r.defaultLanguage)
}

// Save inserts or updates a program
func (r *programRepo) Save(ctx context.Context, p *models.Program) (*models.Program, error) {
	var metadata any
	if p.SourceMetadata != nil {
		metadata = *p.SourceMetadata
	}
	var category, sourceProvider, externalID any
	if p.Category != nil {
		category = string(*p.Category)
	}
	if p.SourceProvider != nil {
		sourceProvider = string(*p.SourceProvider)
	}
	if p.ExternalID != "" {
		externalID = p.ExternalID
	}

	if p.ID == "" {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO programs (title, slug, description, duration_seconds, category, thumbnail_url,
				status, published_at, language, source_provider, external_id, source_metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at
		`,
			p.Title, p.Slug, p.Description, p.DurationSeconds, category, p.ThumbnailURL,
			p.Status, p.PublishedAt, p.Language, sourceProvider, externalID, metadata,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert program: %w", database.TranslateError(err))
		}
		return p, nil
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE programs SET
			title = $2, description = $3, duration_seconds = $4, category = $5, thumbnail_url = $6,
			status = $7, published_at = $8, language = $9, source_metadata = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`,
		p.ID, p.Title, p.Description, p.DurationSeconds, category, p.ThumbnailURL,
		p.Status, p.PublishedAt, p.Language, metadata,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update %s: %w", p.ID, models.ErrProgramNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update program: %w", database.TranslateError(err))
	}
	return p, nil
}

// SoftDelete archives a program. The tombstone is set once and never cleared.
func (r *programRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE programs SET status = $2, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, models.StatusArchived)
	if err != nil {
		return fmt.Errorf("archive program: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("archive %s: %w", id, models.ErrProgramNotFound)
	}
	return nil
}

// FindPublishedPage lists published programs for a feed plan
func (r *programRepo) FindPublishedPage(ctx context.Context, plan query.FeedPlan) (*models.Page, error) {
	where, args := plan.Filter.Where(1)

	total, err := r.count(ctx, where, args...)
	if err != nil {
		return nil, fmt.Errorf("count feed: %w", err)
	}
	if total == 0 {
		return models.EmptyPage(), nil
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM programs p WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		programColumns, where, plan.Sort.OrderBy(), n+1, n+2)
	items, err := r.findMany(ctx, q, append(args, plan.Page.Limit, plan.Page.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return &models.Page{Data: items, Total: total}, nil
}

// SearchRanked runs a full-text search through the language's text search
// configuration, ordered by ts_rank and then published_at.
func (r *programRepo) SearchRanked(ctx context.Context, plan query.SearchPlan) (*models.Page, error) {
	if plan.Query == "" {
		return models.EmptyPage(), nil
	}

	where, args := plan.Filter.Where(3)
	args = append([]any{plan.SearchConfig(), plan.Query}, args...)
	match := where + " AND p.search_vector @@ plainto_tsquery($1::regconfig, $2)"

	total, err := r.count(ctx, match, args...)
	if err != nil {
		return nil, fmt.Errorf("count search: %w", err)
	}
	if total == 0 {
		return models.EmptyPage(), nil
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM programs p WHERE %s
		ORDER BY ts_rank(p.search_vector, plainto_tsquery($1::regconfig, $2)) DESC, p.published_at DESC, p.id ASC
		LIMIT $%d OFFSET $%d`, programColumns, match, n+1, n+2)
	items, err := r.findMany(ctx, q, append(args, plan.Page.Limit, plan.Page.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("search programs: %w", err)
	}
	return &models.Page{Data: items, Total: total}, nil
}

// FindRelated orders candidates by pg_trgm similarity to the plan's title
func (r *programRepo) FindRelated(ctx context.Context, plan query.RelatedPlan) ([]*models.Program, error) {
	where, args := plan.Filter.Where(2)
	args = append([]any{plan.Title}, args...)

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM programs p WHERE %s
		ORDER BY similarity(p.title, $1) DESC, p.published_at DESC, p.id ASC
		LIMIT $%d`, programColumns, where, n+1)
	items, err := r.findMany(ctx, q, append(args, plan.Limit)...)
	if err != nil {
		return nil, fmt.Errorf("find related: %w", err)
	}
	return items, nil
}
