package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/program-catalog-api/internal/repository"
	"github.com/program-catalog-api/internal/slug"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// MockProgramRepository is an in-memory ProgramRepository. It enforces the
// same unique constraints as Postgres (slug, provider + external id) and
// stands in for full-text rank with fuzzy matching and for pg_trgm
// similarity with Levenshtein distance.
type MockProgramRepository struct {
	mu       sync.Mutex
	Programs map[string]*models.Program

	DefaultLanguage models.Language
	SaveError       error
	// BeforeSave runs before a save is applied, with the lock released
	BeforeSave func(p *models.Program)
	SaveCalls  int
	Lookups    int
}

// Verify interface compliance
var _ repository.ProgramRepository = (*MockProgramRepository)(nil)

func NewMockProgramRepository() *MockProgramRepository {
	return &MockProgramRepository{
		Programs:        make(map[string]*models.Program),
		DefaultLanguage: models.LanguageArabic,
	}
}

func clone(p *models.Program) *models.Program {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Seed stores programs as-is, assigning ids and timestamps when missing
func (m *MockProgramRepository) Seed(programs ...*models.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range programs {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
			p.UpdatedAt = p.CreatedAt
		}
		m.Programs[p.ID] = clone(p)
	}
}

// Count returns the number of stored programs, archived included
func (m *MockProgramRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Programs)
}

func (m *MockProgramRepository) find(match func(p *models.Program) bool) *models.Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	for _, p := range m.Programs {
		if match(p) {
			return clone(p)
		}
	}
	return nil
}

func (m *MockProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	return m.find(func(p *models.Program) bool { return p.ID == id && !p.IsDeleted() }), nil
}

func (m *MockProgramRepository) FindPublished(ctx context.Context, id string) (*models.Program, error) {
	return m.find(func(p *models.Program) bool {
		return p.ID == id && p.Status == models.StatusPublished && !p.IsDeleted()
	}), nil
}

func (m *MockProgramRepository) FindByExternalID(ctx context.Context, provider models.Provider, externalID string) (*models.Program, error) {
	return m.find(func(p *models.Program) bool {
		return p.SourceProvider != nil && *p.SourceProvider == provider && p.ExternalID == externalID
	}), nil
}

func (m *MockProgramRepository) FindBySlug(ctx context.Context, s string) (*models.Program, error) {
	return m.find(func(p *models.Program) bool { return p.Slug == s }), nil
}

func (m *MockProgramRepository) SlugExists(ctx context.Context, s string) (bool, error) {
	p, _ := m.FindBySlug(ctx, s)
	return p != nil, nil
}

func (m *MockProgramRepository) FindLatestSlugSuffix(ctx context.Context, base string) (mo.Option[string], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++

	candidates := lo.FilterMap(lo.Values(m.Programs), func(p *models.Program, _ int) (string, bool) {
		return p.Slug, slug.IsSuffixOf(p.Slug, base)
	})
	if len(candidates) == 0 {
		return mo.None[string](), nil
	}
	latest := lo.MaxBy(candidates, func(a, b string) bool {
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a > b
	})
	return mo.Some(latest), nil
}

func (m *MockProgramRepository) FindDrafts(ctx context.Context, page query.Page) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drafts := lo.Filter(lo.Values(m.Programs), func(p *models.Program, _ int) bool {
		return p.Status == models.StatusDraft && !p.IsDeleted()
	})
	sort.Slice(drafts, func(i, j int) bool {
		if !drafts[i].CreatedAt.Equal(drafts[j].CreatedAt) {
			return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
		}
		return drafts[i].ID < drafts[j].ID
	})
	return toPage(page.Slice(drafts), len(drafts)), nil
}

func (m *MockProgramRepository) Create(fields models.ProgramFields) *models.Program {
	return repository.NewDraft(fields, m.DefaultLanguage)
}

func (m *MockProgramRepository) Save(ctx context.Context, p *models.Program) (*models.Program, error) {
	if m.BeforeSave != nil {
		m.BeforeSave(p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++

	if m.SaveError != nil {
		return nil, m.SaveError
	}

	for id, other := range m.Programs {
		if id == p.ID {
			continue
		}
		if other.Slug == p.Slug {
			return nil, fmt.Errorf("%w: programs_slug_key", models.ErrConflict)
		}
		if p.SourceProvider != nil && other.SourceProvider != nil &&
			*p.SourceProvider == *other.SourceProvider && p.ExternalID == other.ExternalID {
			return nil, fmt.Errorf("%w: programs_source_key", models.ErrConflict)
		}
	}

	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else {
		stored, ok := m.Programs[p.ID]
		if !ok || stored.IsDeleted() {
			return nil, fmt.Errorf("update %s: %w", p.ID, models.ErrProgramNotFound)
		}
		// slug, provenance and tombstone are not updatable
		p.Slug = stored.Slug
		p.SourceProvider = stored.SourceProvider
		p.ExternalID = stored.ExternalID
		p.DeletedAt = stored.DeletedAt
		p.CreatedAt = stored.CreatedAt
	}
	p.UpdatedAt = now

	m.Programs[p.ID] = clone(p)
	return clone(p), nil
}

func (m *MockProgramRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Programs[id]
	if !ok || p.IsDeleted() {
		return fmt.Errorf("archive %s: %w", id, models.ErrProgramNotFound)
	}
	now := time.Now()
	p.Status = models.StatusArchived
	p.DeletedAt = &now
	p.UpdatedAt = now
	return nil
}

func (m *MockProgramRepository) published(f query.Filter) []*models.Program {
	return lo.Filter(lo.Values(m.Programs), func(p *models.Program, _ int) bool {
		return f.Matches(p)
	})
}

func (m *MockProgramRepository) FindPublishedPage(ctx context.Context, plan query.FeedPlan) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.published(plan.Filter)
	sort.Slice(items, func(i, j int) bool { return plan.Sort.Less(items[i], items[j]) })
	return toPage(plan.Page.Slice(items), len(items)), nil
}

// SearchRanked matches every query word fuzzily against title and
// description; closer title matches rank first, then newest.
func (m *MockProgramRepository) SearchRanked(ctx context.Context, plan query.SearchPlan) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	words := strings.Fields(plan.Query)
	if len(words) == 0 {
		return models.EmptyPage(), nil
	}

	type ranked struct {
		p    *models.Program
		rank int
	}
	var hits []ranked
	for _, p := range m.published(plan.Filter) {
		text := p.Title + " " + p.Description
		matched := lo.EveryBy(words, func(w string) bool {
			return fuzzy.MatchNormalizedFold(w, text)
		})
		if !matched {
			continue
		}
		rank := 0
		for _, w := range words {
			if d := fuzzy.RankMatchNormalizedFold(w, p.Title); d >= 0 {
				rank += d
			} else {
				rank += len(text)
			}
		}
		hits = append(hits, ranked{p: p, rank: rank})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return query.SortNewest.Less(hits[i].p, hits[j].p)
	})

	items := lo.Map(hits, func(h ranked, _ int) *models.Program { return h.p })
	return toPage(plan.Page.Slice(items), len(items)), nil
}

// FindRelated orders candidates by normalized Levenshtein similarity of titles
func (m *MockProgramRepository) FindRelated(ctx context.Context, plan query.RelatedPlan) ([]*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.published(plan.Filter)
	score := lo.SliceToMap(items, func(p *models.Program) (string, float64) {
		return p.ID, Similarity(plan.Title, p.Title)
	})
	sort.Slice(items, func(i, j int) bool {
		if score[items[i].ID] != score[items[j].ID] {
			return score[items[i].ID] > score[items[j].ID]
		}
		return query.SortNewest.Less(items[i], items[j])
	})

	if plan.Limit >= 0 && len(items) > plan.Limit {
		items = items[:plan.Limit]
	}
	return lo.Map(items, func(p *models.Program, _ int) *models.Program { return clone(p) }), nil
}

// Similarity is 1 for identical titles and falls towards 0 as the edit
// distance approaches the longer title's length.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := lo.Max([]int{len([]rune(a)), len([]rune(b))})
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.Distance(a, b))/float64(longest)
}

func toPage(items []*models.Program, total int) *models.Page {
	return &models.Page{
		Data:  lo.Map(items, func(p *models.Program, _ int) *models.Program { return clone(p) }),
		Total: total,
	}
}

// MockHealthChecker answers health checks with Err and counts them
type MockHealthChecker struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

var _ repository.HealthChecker = (*MockHealthChecker)(nil)

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}
