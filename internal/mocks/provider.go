package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/provider"
)

// MockStrategy is a provider strategy backed by maps. It counts calls so
// tests can assert how often the gateway reached the provider.
type MockStrategy struct {
	mu            sync.Mutex
	Details       map[string]*models.ProgramDetails
	SearchResults map[string][]models.SearchResult
	Err           error

	searchCalls atomic.Int32
	fetchCalls  atomic.Int32
}

// Verify interface compliance
var _ provider.Strategy = (*MockStrategy)(nil)

func NewMockStrategy() *MockStrategy {
	return &MockStrategy{
		Details:       make(map[string]*models.ProgramDetails),
		SearchResults: make(map[string][]models.SearchResult),
	}
}

// AddVideo registers details for an external id
func (m *MockStrategy) AddVideo(externalID, title string) *models.ProgramDetails {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &models.ProgramDetails{
		ExternalID:      externalID,
		Title:           title,
		Description:     title + " description",
		DurationSeconds: 600,
		Thumbnail:       "https://img/" + externalID + ".jpg",
		Provider:        models.ProviderYouTube,
		SourceMetadata: models.NewYouTubeMetadata(models.YouTubeMetadata{
			VideoID:    externalID,
			Channel:    "test",
			UploadedAt: "2024-01-01T00:00:00Z",
			ViewCount:  "0",
		}),
	}
	m.Details[externalID] = d
	return d
}

func (m *MockStrategy) Search(ctx context.Context, q string, limit int) ([]models.SearchResult, error) {
	m.searchCalls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	results := m.SearchResults[q]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MockStrategy) FetchDetails(ctx context.Context, externalID string) (*models.ProgramDetails, error) {
	m.fetchCalls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Details[externalID]
	if !ok {
		return nil, fmt.Errorf("video %q: %w", externalID, models.ErrNotFound)
	}
	c := *d
	return &c, nil
}

func (m *MockStrategy) SearchCalls() int {
	return int(m.searchCalls.Load())
}

func (m *MockStrategy) FetchCalls() int {
	return int(m.fetchCalls.Load())
}
