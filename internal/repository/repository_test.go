package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/program-catalog-api/internal/mocks"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/query"
	"github.com/program-catalog-api/internal/repository"
)

func TestNewDraft(t *testing.T) {
	p := repository.NewDraft(models.ProgramFields{
		Title:          "Desert Nights",
		Slug:           "desert-nights",
		SourceProvider: models.ProviderYouTube,
		ExternalID:     "abc",
	}, models.LanguageArabic)

	if p.Status != models.StatusDraft {
		t.Errorf("Expected DRAFT, got %s", p.Status)
	}
	if p.Language != models.LanguageArabic {
		t.Errorf("Expected default language, got %s", p.Language)
	}
	if p.SourceProvider == nil || *p.SourceProvider != models.ProviderYouTube {
		t.Errorf("Expected YOUTUBE provenance, got %v", p.SourceProvider)
	}
	if p.ID != "" || p.PublishedAt != nil || p.DeletedAt != nil {
		t.Error("Draft must be unsaved, unpublished and live")
	}

	manual := repository.NewDraft(models.ProgramFields{Title: "Manual", Language: models.LanguageFrench}, models.LanguageArabic)
	if manual.SourceProvider != nil {
		t.Error("Manual draft should carry no provider")
	}
	if manual.Language != models.LanguageFrench {
		t.Errorf("Expected explicit language kept, got %s", manual.Language)
	}
}

func TestMockProgramRepository_SaveAssignsIdentity(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, repo.Create(models.ProgramFields{Title: "One", Slug: "one"}))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Error("Save should assign id and timestamps")
	}

	stored, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored == nil || stored.Slug != "one" {
		t.Errorf("Expected stored program, got %+v", stored)
	}
}

func TestMockProgramRepository_UniqueSlug(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	if _, err := repo.Save(ctx, repo.Create(models.ProgramFields{Title: "A", Slug: "same"})); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := repo.Save(ctx, repo.Create(models.ProgramFields{Title: "B", Slug: "same"}))
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
	if repo.Count() != 1 {
		t.Errorf("Expected 1 program, got %d", repo.Count())
	}
}

func TestMockProgramRepository_UniqueProvenance(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	fields := models.ProgramFields{Title: "A", Slug: "a", SourceProvider: models.ProviderYouTube, ExternalID: "vid-1"}
	if _, err := repo.Save(ctx, repo.Create(fields)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fields.Slug = "a-1"
	if _, err := repo.Save(ctx, repo.Create(fields)); !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate provenance, got %v", err)
	}

	found, _ := repo.FindByExternalID(ctx, models.ProviderYouTube, "vid-1")
	if found == nil || found.Slug != "a" {
		t.Errorf("Expected original record, got %+v", found)
	}
}

func TestMockProgramRepository_UpdateKeepsSlug(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	saved, _ := repo.Save(ctx, repo.Create(models.ProgramFields{Title: "Old", Slug: "old"}))

	saved.Title = "New"
	saved.Slug = "new"
	updated, err := repo.Save(ctx, saved)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if updated.Title != "New" {
		t.Errorf("Expected title update, got %q", updated.Title)
	}
	if updated.Slug != "old" {
		t.Errorf("Slug must not change on update, got %q", updated.Slug)
	}
}

func TestMockProgramRepository_LatestSlugSuffix(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	for _, s := range []string{"video", "video-2", "video-10", "video-9", "video-intro", "videos-99"} {
		repo.Seed(&models.Program{Slug: s, Status: models.StatusDraft})
	}

	latest, err := repo.FindLatestSlugSuffix(ctx, "video")
	if err != nil {
		t.Fatalf("FindLatestSlugSuffix failed: %v", err)
	}
	if got := latest.OrElse(""); got != "video-10" {
		t.Errorf("Expected video-10, got %q", got)
	}

	none, _ := repo.FindLatestSlugSuffix(ctx, "other")
	if none.IsPresent() {
		t.Errorf("Expected no suffix, got %q", none.MustGet())
	}
}

func TestMockProgramRepository_SoftDelete(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	saved, _ := repo.Save(ctx, repo.Create(models.ProgramFields{
		Title: "Gone", Slug: "gone", SourceProvider: models.ProviderYouTube, ExternalID: "x",
	}))

	if err := repo.SoftDelete(ctx, saved.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if p, _ := repo.FindByID(ctx, saved.ID); p != nil {
		t.Error("Archived program must not be found by id")
	}
	archived, _ := repo.FindByExternalID(ctx, models.ProviderYouTube, "x")
	if archived == nil || archived.Status != models.StatusArchived || !archived.IsDeleted() {
		t.Errorf("Expected tombstoned record by provenance, got %+v", archived)
	}
	if exists, _ := repo.SlugExists(ctx, "gone"); !exists {
		t.Error("Archived slug must stay reserved")
	}

	if err := repo.SoftDelete(ctx, saved.ID); !errors.Is(err, models.ErrProgramNotFound) {
		t.Errorf("Expected not found on second archive, got %v", err)
	}
}

func TestMockProgramRepository_FindDrafts(t *testing.T) {
	repo := mocks.NewMockProgramRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		repo.Save(ctx, repo.Create(models.ProgramFields{
			Title: fmt.Sprintf("Draft %d", i),
			Slug:  fmt.Sprintf("draft-%d", i),
		}))
	}
	repo.Seed(&models.Program{Slug: "live", Status: models.StatusPublished})

	page, err := repo.FindDrafts(ctx, query.PageFromNumber(2, 2))
	if err != nil {
		t.Fatalf("FindDrafts failed: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Expected 5 drafts, got %d", page.Total)
	}
	if len(page.Data) != 2 {
		t.Errorf("Expected 2 drafts on page 2, got %d", len(page.Data))
	}

	page, _ = repo.FindDrafts(ctx, query.PageFromNumber(9, 2))
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("Expected empty non-nil page, got %v", page.Data)
	}
}
