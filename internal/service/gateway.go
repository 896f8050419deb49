package service

import (
	"context"

	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/provider"
	"github.com/rs/zerolog"
)

// contentGateway is the concrete implementation of ContentGateway. It is a
// cache-aside wrapper around the provider registry; concurrent misses on
// the same key each call the provider and the last write wins.
type contentGateway struct {
	registry *provider.Registry
	cache    *cache.Cache
	log      zerolog.Logger
}

// NewContentGateway creates a new ContentGateway
func NewContentGateway(registry *provider.Registry, c *cache.Cache, log zerolog.Logger) ContentGateway {
	return &contentGateway{
		registry: registry,
		cache:    c,
		log:      log.With().Str("service", "gateway").Logger(),
	}
}

// Search returns provider search results, cached under provider:search:q:limit
func (g *contentGateway) Search(ctx context.Context, p models.Provider, q string, limit int) ([]models.SearchResult, error) {
	key := cache.ProviderSearchKey(p, q, limit)
	if cached, ok := cache.Lookup[[]models.SearchResult](g.cache, key).Get(); ok {
		g.log.Debug().Str("key", key).Msg("Cache hit")
		return cached, nil
	}
	g.log.Debug().Str("key", key).Msg("Cache miss")

	strategy, err := g.registry.Resolve(p)
	if err != nil {
		return nil, err
	}
	results, err := strategy.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	g.cache.Set(key, results)
	return results, nil
}

// FetchDetails returns one external item, cached under provider:details:id
func (g *contentGateway) FetchDetails(ctx context.Context, p models.Provider, externalID string) (*models.ProgramDetails, error) {
	key := cache.ProviderDetailsKey(p, externalID)
	if cached, ok := cache.Lookup[*models.ProgramDetails](g.cache, key).Get(); ok {
		g.log.Debug().Str("key", key).Msg("Cache hit")
		return cached, nil
	}
	g.log.Debug().Str("key", key).Msg("Cache miss")

	strategy, err := g.registry.Resolve(p)
	if err != nil {
		return nil, err
	}
	details, err := strategy.FetchDetails(ctx, externalID)
	if err != nil {
		return nil, err
	}

	g.cache.Set(key, details)
	return details, nil
}

// Invalidate drops the cached details of one external item
func (g *contentGateway) Invalidate(p models.Provider, externalID string) {
	g.cache.Delete(cache.ProviderDetailsKey(p, externalID))
}

// Providers lists the registered providers
func (g *contentGateway) Providers() []models.Provider {
	return g.registry.Providers()
}
