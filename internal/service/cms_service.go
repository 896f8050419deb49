package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/program-catalog-api/internal/repository"
	"github.com/program-catalog-api/internal/slug"
	"github.com/rs/zerolog"
)

// cmsService is the concrete implementation of CMSService
type cmsService struct {
	programs repository.ProgramRepository
	gateway  ContentGateway
	slugs    *slug.Allocator
	cfg      *config.Config
	now      func() time.Time
	log      zerolog.Logger
}

// newCMSService creates a new CMSService
func newCMSService(programs repository.ProgramRepository, gateway ContentGateway, cfg *config.Config, log zerolog.Logger) *cmsService {
	return &cmsService{
		programs: programs,
		gateway:  gateway,
		slugs:    slug.NewAllocator(programs),
		cfg:      cfg,
		now:      time.Now,
		log:      log.With().Str("service", "cms").Logger(),
	}
}

// NewCMSService creates a CMSService over an explicit repository and gateway
func NewCMSService(programs repository.ProgramRepository, gateway ContentGateway, cfg *config.Config, log zerolog.Logger) CMSService {
	return newCMSService(programs, gateway, cfg, log)
}

// SearchExternal searches a provider through the gateway
func (s *cmsService) SearchExternal(ctx context.Context, req *models.SearchExternalRequest) ([]models.SearchResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Pagination.DefaultSearchLimit
	}
	return s.gateway.Search(ctx, req.Provider, req.Query, limit)
}

// ImportProgram imports one external item as a draft and reports whether
// a record was created. Importing the same provider/external id again
// returns the stored record without a fetch and created is false.
func (s *cmsService) ImportProgram(ctx context.Context, req *models.ImportRequest) (*models.Program, bool, error) {
	existing, err := s.programs.FindByExternalID(ctx, req.Provider, req.ExternalID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup existing import: %w", err)
	}
	if existing != nil {
		s.log.Info().
			Str("program_id", existing.ID).
			Str("provider", string(req.Provider)).
			Str("external_id", req.ExternalID).
			Msg("Program already imported")
		return existing, false, nil
	}

	details, err := s.gateway.FetchDetails(ctx, req.Provider, req.ExternalID)
	if err != nil {
		return nil, false, err
	}

	programSlug, err := s.slugs.Allocate(ctx, details.Title)
	if err != nil {
		return nil, false, fmt.Errorf("allocate slug: %w", err)
	}

	draft := s.programs.Create(models.ProgramFields{
		Title:           details.Title,
		Slug:            programSlug,
		Description:     details.Description,
		DurationSeconds: details.DurationSeconds,
		ThumbnailURL:    details.Thumbnail,
		Language:        s.cfg.Content.DefaultLanguage,
		SourceProvider:  req.Provider,
		ExternalID:      req.ExternalID,
		SourceMetadata:  details.SourceMetadata,
	})

	saved, err := s.programs.Save(ctx, draft)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.log.Warn().
				Err(err).
				Str("slug", programSlug).
				Str("external_id", req.ExternalID).
				Msg("Import lost a uniqueness race")
		}
		return nil, false, err
	}

	s.log.Info().
		Str("program_id", saved.ID).
		Str("slug", saved.Slug).
		Str("provider", string(req.Provider)).
		Str("external_id", req.ExternalID).
		Msg("Program imported")

	return saved, true, nil
}

// ListDrafts pages live drafts, newest first
func (s *cmsService) ListDrafts(ctx context.Context, page, limit int) (*models.Page, error) {
	return s.programs.FindDrafts(ctx, query.PageFromNumber(page, limit))
}

// GetEditorView returns a live program in any status
func (s *cmsService) GetEditorView(ctx context.Context, id string) (*models.Program, error) {
	return s.load(ctx, id)
}

// UpdateProgram applies an explicit patch. A published program must keep a
// non-empty title.
func (s *cmsService) UpdateProgram(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.Program, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return p, nil
	}

	req.ApplyTo(p)
	if p.Status == models.StatusPublished && !p.CanPublish() {
		return nil, fmt.Errorf("%w: published program requires a title", models.ErrInvalidRequest)
	}

	saved, err := s.programs.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(saved)

	s.log.Info().Str("program_id", id).Msg("Program updated")
	return saved, nil
}

// PublishProgram moves a program to PUBLISHED. The first publish time is kept
// on republish.
func (s *cmsService) PublishProgram(ctx context.Context, id string) (*models.Program, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanPublish() {
		return nil, fmt.Errorf("%w: title and slug are required to publish", models.ErrInvalidRequest)
	}

	p.Status = models.StatusPublished
	if p.PublishedAt == nil {
		now := s.now().UTC()
		p.PublishedAt = &now
	}

	saved, err := s.programs.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(saved)

	s.log.Info().Str("program_id", id).Str("slug", saved.Slug).Msg("Program published")
	return saved, nil
}

// ArchiveProgram soft-deletes a program. Archiving is terminal.
func (s *cmsService) ArchiveProgram(ctx context.Context, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.programs.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(p)

	s.log.Info().Str("program_id", id).Msg("Program archived")
	return nil
}

func (s *cmsService) load(ctx context.Context, id string) (*models.Program, error) {
	p, err := s.programs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load program %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", id, models.ErrProgramNotFound)
	}
	return p, nil
}

// invalidate drops cached provider details for the program's source
func (s *cmsService) invalidate(p *models.Program) {
	if p.SourceProvider == nil || p.ExternalID == "" {
		return
	}
	s.gateway.Invalidate(*p.SourceProvider, p.ExternalID)
}
