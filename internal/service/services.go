package service

import (
	"context"

	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/provider"
	"github.com/program-catalog-api/internal/repository"
	"github.com/rs/zerolog"
)

// ContentGateway fronts the provider registry with the ephemeral cache
type ContentGateway interface {
	Search(ctx context.Context, p models.Provider, q string, limit int) ([]models.SearchResult, error)
	FetchDetails(ctx context.Context, p models.Provider, externalID string) (*models.ProgramDetails, error)
	Invalidate(p models.Provider, externalID string)
	Providers() []models.Provider
}

// CMSService defines the administrative operations: import, edit, publish, archive
type CMSService interface {
	SearchExternal(ctx context.Context, req *models.SearchExternalRequest) ([]models.SearchResult, error)
	// ImportProgram reports created=false when the provenance was already imported
	ImportProgram(ctx context.Context, req *models.ImportRequest) (program *models.Program, created bool, err error)
	ListDrafts(ctx context.Context, page, limit int) (*models.Page, error)
	GetEditorView(ctx context.Context, id string) (*models.Program, error)
	UpdateProgram(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.Program, error)
	PublishProgram(ctx context.Context, id string) (*models.Program, error)
	ArchiveProgram(ctx context.Context, id string) error
}

// DiscoveryService defines the public read operations over published programs
type DiscoveryService interface {
	Search(ctx context.Context, lang models.Language, q string, page, limit int) (*models.Page, error)
	HomeFeed(ctx context.Context, lang models.Language, sort string, page, limit int) (*models.Page, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Related(ctx context.Context, id string, limit int) ([]*models.Program, error)
	Filters(ctx context.Context, lang models.Language) (*models.FilterOptions, error)
}

// Services holds all service interfaces
type Services struct {
	Gateway   ContentGateway
	CMS       CMSService
	Discovery DiscoveryService
	Cache     *cache.Cache
	Health    repository.HealthChecker // nil skips the readiness check
}

// NewServices creates all services around one shared cache instance
func NewServices(repos *repository.Repositories, registry *provider.Registry, c *cache.Cache, cfg *config.Config, log zerolog.Logger) *Services {
	gateway := NewContentGateway(registry, c, log)

	return &Services{
		Gateway:   gateway,
		CMS:       newCMSService(repos.Program, gateway, cfg, log),
		Discovery: newDiscoveryService(repos.Program, c, cfg, log),
		Cache:     c,
		Health:    repos.Health,
	}
}
