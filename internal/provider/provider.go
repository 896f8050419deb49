// Package provider holds the registry of external content sources and the
// strategies that talk to them.
package provider

import (
	"context"
	"fmt"
	"sort"

	"github.com/program-catalog-api/internal/models"
	"github.com/samber/lo"
)

// Strategy is the contract every external content source implements.
// Implementations bound their own calls with a timeout and report failures
// as models.ErrNotFound or models.ErrProviderUnavailable; they never retry.
type Strategy interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	FetchDetails(ctx context.Context, externalID string) (*models.ProgramDetails, error)
}

// Registry maps provider identifiers to strategies. It is populated at
// startup and read-only afterwards, so lookups take no lock.
type Registry struct {
	strategies map[models.Provider]Strategy
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[models.Provider]Strategy)}
}

// Register binds a strategy to a provider identifier. Only identifiers from
// the closed set in models.ValidProviders are accepted. Call before serving.
func (r *Registry) Register(id models.Provider, s Strategy) error {
	if !models.ValidProviders[id] {
		return fmt.Errorf("%w: %q", models.ErrUnsupportedProvider, id)
	}
	if s == nil {
		return fmt.Errorf("nil strategy for provider %q", id)
	}
	r.strategies[id] = s
	return nil
}

// Resolve returns the strategy registered for id
func (r *Registry) Resolve(id models.Provider) (Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedProvider, id)
	}
	return s, nil
}

// Providers lists the registered identifiers in a stable order
func (r *Registry) Providers() []models.Provider {
	ids := lo.Keys(r.strategies)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
