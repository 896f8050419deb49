package mocks

import (
	"context"

	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/service"
)

// MockCMSService is a mock implementation of CMSService
type MockCMSService struct {
	SearchExternalFunc func(ctx context.Context, req *models.SearchExternalRequest) ([]models.SearchResult, error)
	ImportFunc         func(ctx context.Context, req *models.ImportRequest) (*models.Program, bool, error)
	ListDraftsFunc     func(ctx context.Context, page, limit int) (*models.Page, error)
	GetFunc            func(ctx context.Context, id string) (*models.Program, error)
	UpdateFunc         func(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.Program, error)
	PublishFunc        func(ctx context.Context, id string) (*models.Program, error)
	ArchiveFunc        func(ctx context.Context, id string) error

	Imported []*models.ImportRequest
	Archived []string
}

// Verify interface compliance
var _ service.CMSService = (*MockCMSService)(nil)

func NewMockCMSService() *MockCMSService {
	return &MockCMSService{}
}

func (m *MockCMSService) SearchExternal(ctx context.Context, req *models.SearchExternalRequest) ([]models.SearchResult, error) {
	if m.SearchExternalFunc != nil {
		return m.SearchExternalFunc(ctx, req)
	}
	return []models.SearchResult{}, nil
}

func (m *MockCMSService) ImportProgram(ctx context.Context, req *models.ImportRequest) (*models.Program, bool, error) {
	m.Imported = append(m.Imported, req)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, req)
	}
	provider := req.Provider
	return &models.Program{
		ID:             "imported-id",
		Title:          "Imported",
		Slug:           "imported",
		Status:         models.StatusDraft,
		Language:       models.LanguageArabic,
		SourceProvider: &provider,
		ExternalID:     req.ExternalID,
	}, true, nil
}

func (m *MockCMSService) ListDrafts(ctx context.Context, page, limit int) (*models.Page, error) {
	if m.ListDraftsFunc != nil {
		return m.ListDraftsFunc(ctx, page, limit)
	}
	return models.EmptyPage(), nil
}

func (m *MockCMSService) GetEditorView(ctx context.Context, id string) (*models.Program, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrProgramNotFound
}

func (m *MockCMSService) UpdateProgram(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.Program, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return nil, models.ErrProgramNotFound
}

func (m *MockCMSService) PublishProgram(ctx context.Context, id string) (*models.Program, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, id)
	}
	return nil, models.ErrProgramNotFound
}

func (m *MockCMSService) ArchiveProgram(ctx context.Context, id string) error {
	m.Archived = append(m.Archived, id)
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, id)
	}
	return nil
}

// MockDiscoveryService is a mock implementation of DiscoveryService
type MockDiscoveryService struct {
	SearchFunc   func(ctx context.Context, lang models.Language, q string, page, limit int) (*models.Page, error)
	FeedFunc     func(ctx context.Context, lang models.Language, sort string, page, limit int) (*models.Page, error)
	FindFunc     func(ctx context.Context, id string) (*models.Program, error)
	RelatedFunc  func(ctx context.Context, id string, limit int) ([]*models.Program, error)
	FiltersFunc  func(ctx context.Context, lang models.Language) (*models.FilterOptions, error)
	LastLanguage models.Language
	LastSort     string
	LastPage     int
	LastLimit    int
}

// Verify interface compliance
var _ service.DiscoveryService = (*MockDiscoveryService)(nil)

func NewMockDiscoveryService() *MockDiscoveryService {
	return &MockDiscoveryService{}
}

func (m *MockDiscoveryService) Search(ctx context.Context, lang models.Language, q string, page, limit int) (*models.Page, error) {
	m.LastLanguage, m.LastPage, m.LastLimit = lang, page, limit
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, lang, q, page, limit)
	}
	return models.EmptyPage(), nil
}

func (m *MockDiscoveryService) HomeFeed(ctx context.Context, lang models.Language, sort string, page, limit int) (*models.Page, error) {
	m.LastLanguage, m.LastSort, m.LastPage, m.LastLimit = lang, sort, page, limit
	if m.FeedFunc != nil {
		return m.FeedFunc(ctx, lang, sort, page, limit)
	}
	return models.EmptyPage(), nil
}

func (m *MockDiscoveryService) FindByID(ctx context.Context, id string) (*models.Program, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, id)
	}
	return nil, models.ErrProgramNotFound
}

func (m *MockDiscoveryService) Related(ctx context.Context, id string, limit int) ([]*models.Program, error) {
	m.LastLimit = limit
	if m.RelatedFunc != nil {
		return m.RelatedFunc(ctx, id, limit)
	}
	return []*models.Program{}, nil
}

func (m *MockDiscoveryService) Filters(ctx context.Context, lang models.Language) (*models.FilterOptions, error) {
	m.LastLanguage = lang
	if m.FiltersFunc != nil {
		return m.FiltersFunc(ctx, lang)
	}
	return &models.FilterOptions{}, nil
}
