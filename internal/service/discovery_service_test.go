package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPublished(f *fixture, id, title string, lang models.Language, publishedAt time.Time, duration int) {
	f.repo.Seed(&models.Program{
		ID:              id,
		Title:           title,
		Slug:            id,
		Description:     title,
		Status:          models.StatusPublished,
		Language:        lang,
		PublishedAt:     &publishedAt,
		DurationSeconds: duration,
	})
}

func catalogFixture(t *testing.T) *fixture {
	f := newFixture(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	seedPublished(f, "p1", "Desert Stories", models.LanguageArabic, base, 300)
	seedPublished(f, "p2", "Desert Stories Part Two", models.LanguageArabic, base.Add(time.Hour), 900)
	seedPublished(f, "p3", "Ocean Life", models.LanguageArabic, base.Add(2*time.Hour), 600)
	seedPublished(f, "p4", "Desert Stories", models.LanguageEnglish, base.Add(3*time.Hour), 100)

	deleted := base.Add(4 * time.Hour)
	f.repo.Seed(&models.Program{
		ID: "gone", Title: "Desert Stories Archived", Slug: "gone",
		Status: models.StatusArchived, Language: models.LanguageArabic,
		PublishedAt: &base, DeletedAt: &deleted,
	})
	f.repo.Seed(&models.Program{
		ID: "draft", Title: "Desert Stories Draft", Slug: "draft",
		Status: models.StatusDraft, Language: models.LanguageArabic,
	})
	return f
}

func ids(programs []*models.Program) []string {
	out := make([]string, len(programs))
	for i, p := range programs {
		out[i] = p.ID
	}
	return out
}

func TestDiscovery_HomeFeedSorts(t *testing.T) {
	f := catalogFixture(t)
	ctx := context.Background()

	tests := []struct {
		sort string
		want []string
	}{
		{"newest", []string{"p3", "p2", "p1"}},
		{"oldest", []string{"p1", "p2", "p3"}},
		{"duration", []string{"p2", "p3", "p1"}},
		{"bogus", []string{"p3", "p2", "p1"}},
		{"", []string{"p3", "p2", "p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			page, err := f.services.Discovery.HomeFeed(ctx, models.LanguageArabic, tt.sort, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, 3, page.Total)
			assert.Equal(t, tt.want, ids(page.Data))
		})
	}
}

func TestDiscovery_HomeFeedPaginates(t *testing.T) {
	f := catalogFixture(t)

	page, err := f.services.Discovery.HomeFeed(context.Background(), models.LanguageArabic, "newest", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []string{"p1"}, ids(page.Data))

	beyond, err := f.services.Discovery.HomeFeed(context.Background(), models.LanguageArabic, "newest", 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, beyond.Total)
	assert.Empty(t, beyond.Data)
}

func TestDiscovery_Search(t *testing.T) {
	f := catalogFixture(t)
	ctx := context.Background()

	page, err := f.services.Discovery.Search(ctx, models.LanguageArabic, "desert", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids(page.Data))

	english, err := f.services.Discovery.Search(ctx, models.LanguageEnglish, "desert", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, ids(english.Data))
}

func TestDiscovery_SearchNoMatchIsEmpty(t *testing.T) {
	f := catalogFixture(t)

	page, err := f.services.Discovery.Search(context.Background(), models.LanguageArabic, "zzzzqqq", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestDiscovery_FindByID(t *testing.T) {
	f := catalogFixture(t)
	ctx := context.Background()

	p, err := f.services.Discovery.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Desert Stories", p.Title)

	for _, id := range []string{"draft", "gone", "missing"} {
		_, err := f.services.Discovery.FindByID(ctx, id)
		assert.ErrorIs(t, err, models.ErrNotFound, id)
	}
}

func TestDiscovery_Related(t *testing.T) {
	f := catalogFixture(t)
	ctx := context.Background()

	related, err := f.services.Discovery.Related(ctx, "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3"}, ids(related), "same language, most similar first, self excluded")

	limited, err := f.services.Discovery.Related(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(limited))
}

func TestDiscovery_RelatedOfUnpublishedIsEmpty(t *testing.T) {
	f := catalogFixture(t)

	for _, id := range []string{"draft", "gone", "missing"} {
		related, err := f.services.Discovery.Related(context.Background(), id, 5)
		require.NoError(t, err)
		assert.NotNil(t, related)
		assert.Empty(t, related, id)
	}
}

func TestDiscovery_FiltersAreCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	filters, err := f.services.Discovery.Filters(ctx, models.LanguageFrench)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "oldest", "duration"}, filters.SortOptions)
	assert.Equal(t, []models.ProgramStatus{models.StatusPublished}, filters.Statuses)
	assert.True(t, f.cache.Has(cache.FiltersKey(models.LanguageFrench)))

	again, err := f.services.Discovery.Filters(ctx, models.LanguageFrench)
	require.NoError(t, err)
	assert.Same(t, filters, again)
}
