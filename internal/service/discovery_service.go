package service

import (
	"context"
	"fmt"

	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/program-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

// discoveryService is the concrete implementation of DiscoveryService
type discoveryService struct {
	programs repository.ProgramRepository
	planner  *query.Planner
	cache    *cache.Cache
	cfg      *config.Config
	log      zerolog.Logger
}

// newDiscoveryService creates a new DiscoveryService
func newDiscoveryService(programs repository.ProgramRepository, c *cache.Cache, cfg *config.Config, log zerolog.Logger) *discoveryService {
	return &discoveryService{
		programs: programs,
		planner:  query.NewPlanner(),
		cache:    c,
		cfg:      cfg,
		log:      log.With().Str("service", "discovery").Logger(),
	}
}

// NewDiscoveryService creates a DiscoveryService over an explicit repository and cache
func NewDiscoveryService(programs repository.ProgramRepository, c *cache.Cache, cfg *config.Config, log zerolog.Logger) DiscoveryService {
	return newDiscoveryService(programs, c, cfg, log)
}

// Search runs a ranked full-text search. No match is an empty page.
func (s *discoveryService) Search(ctx context.Context, lang models.Language, q string, page, limit int) (*models.Page, error) {
	plan := s.planner.Search(lang, q, page, limit)
	result, err := s.programs.SearchRanked(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", plan.Query, err)
	}

	s.log.Debug().
		Str("query", plan.Query).
		Str("language", string(lang)).
		Int("total", result.Total).
		Msg("Search executed")

	return result, nil
}

// HomeFeed lists published programs with the named sort, newest by default
func (s *discoveryService) HomeFeed(ctx context.Context, lang models.Language, sort string, page, limit int) (*models.Page, error) {
	plan := s.planner.Feed(lang, sort, page, limit)
	result, err := s.programs.FindPublishedPage(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("home feed: %w", err)
	}
	return result, nil
}

// FindByID returns a published program
func (s *discoveryService) FindByID(ctx context.Context, id string) (*models.Program, error) {
	p, err := s.programs.FindPublished(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find published %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", id, models.ErrProgramNotFound)
	}
	return p, nil
}

// Related returns programs with titles similar to the given one. A program
// that is no longer published has no related content.
func (s *discoveryService) Related(ctx context.Context, id string, limit int) ([]*models.Program, error) {
	current, err := s.programs.FindPublished(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find published %s: %w", id, err)
	}
	if current == nil {
		return []*models.Program{}, nil
	}

	related, err := s.programs.FindRelated(ctx, s.planner.Related(current, limit))
	if err != nil {
		return nil, err
	}
	return related, nil
}

// Filters returns the accepted filter values, cached per language
func (s *discoveryService) Filters(ctx context.Context, lang models.Language) (*models.FilterOptions, error) {
	key := cache.FiltersKey(lang)
	if cached, ok := cache.Lookup[*models.FilterOptions](s.cache, key).Get(); ok {
		return cached, nil
	}

	filters := s.planner.Filters()
	s.cache.SetWithTTL(key, &filters, s.cfg.Cache.FiltersTTL)
	return &filters, nil
}
