package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
)

func newTestValidator() *Validator {
	return NewValidator(config.PaginationConfig{
		DefaultPageSize:     20,
		MaxPageSize:         100,
		DefaultSearchLimit:  10,
		DefaultRelatedLimit: 5,
		MaxRelatedLimit:     50,
	}, models.LanguageArabic)
}

func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateImport(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name       string
		req        *models.ImportRequest
		wantFields []string
	}{
		{
			name: "valid import",
			req:  &models.ImportRequest{Provider: models.ProviderYouTube, ExternalID: "dQw4w9WgXcQ"},
		},
		{
			name:       "missing provider",
			req:        &models.ImportRequest{ExternalID: "abc"},
			wantFields: []string{"provider"},
		},
		{
			name:       "unsupported provider",
			req:        &models.ImportRequest{Provider: "VIMEO", ExternalID: "abc"},
			wantFields: []string{"provider"},
		},
		{
			name:       "blank external id",
			req:        &models.ImportRequest{Provider: models.ProviderYouTube, ExternalID: "   "},
			wantFields: []string{"externalId"},
		},
		{
			name:       "external id too long",
			req:        &models.ImportRequest{Provider: models.ProviderYouTube, ExternalID: strings.Repeat("x", 129)},
			wantFields: []string{"externalId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateImport(tt.req)
			if got := fields(errs); strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("ValidateImport() fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidateSearchExternal(t *testing.T) {
	validator := newTestValidator()

	req := &models.SearchExternalRequest{Provider: models.ProviderYouTube, Query: "  desert  "}
	if errs := validator.ValidateSearchExternal(req); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if req.Limit != 10 {
		t.Errorf("Expected default limit 10, got %d", req.Limit)
	}
	if req.Query != "desert" {
		t.Errorf("Expected trimmed query, got %q", req.Query)
	}

	bad := &models.SearchExternalRequest{Provider: models.ProviderYouTube, Query: "", Limit: 101}
	errs := validator.ValidateSearchExternal(bad)
	if got := fields(errs); strings.Join(got, ",") != "q,limit" {
		t.Errorf("Expected q and limit errors, got %v", got)
	}
}

func TestValidateUpdate(t *testing.T) {
	validator := newTestValidator()
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }
	lang := func(l models.Language) *models.Language { return &l }
	cat := func(c models.Category) *models.Category { return &c }

	tests := []struct {
		name       string
		req        *models.UpdateProgramRequest
		wantFields []string
	}{
		{"empty patch", &models.UpdateProgramRequest{}, []string{"body"}},
		{"clear description", &models.UpdateProgramRequest{Description: str("")}, nil},
		{"zero duration", &models.UpdateProgramRequest{DurationSeconds: num(0)}, nil},
		{"negative duration", &models.UpdateProgramRequest{DurationSeconds: num(-1)}, []string{"duration_seconds"}},
		{"title too long", &models.UpdateProgramRequest{Title: str(strings.Repeat("t", 501))}, []string{"title"}},
		{"arabic title at limit", &models.UpdateProgramRequest{Title: str(strings.Repeat("ب", 500))}, nil},
		{"valid language", &models.UpdateProgramRequest{Language: lang("en-US")}, nil},
		{"unsupported language", &models.UpdateProgramRequest{Language: lang("de-DE")}, []string{"language"}},
		{"invalid category", &models.UpdateProgramRequest{Category: cat("MUSIC")}, []string{"category"}},
		{"valid category", &models.UpdateProgramRequest{Category: cat(models.CategoryNews)}, nil},
		{"bad thumbnail", &models.UpdateProgramRequest{ThumbnailURL: str("not a url")}, []string{"thumbnail_url"}},
		{"clear thumbnail", &models.UpdateProgramRequest{ThumbnailURL: str("")}, nil},
		{
			"several errors",
			&models.UpdateProgramRequest{DurationSeconds: num(-5), Category: cat("X")},
			[]string{"duration_seconds", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateUpdate(tt.req)
			if got := fields(errs); strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("ValidateUpdate() fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidateUpdate_CanonicalisesLanguage(t *testing.T) {
	validator := newTestValidator()
	l := models.Language("fr-fr")
	req := &models.UpdateProgramRequest{Language: &l}

	if errs := validator.ValidateUpdate(req); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if *req.Language != models.LanguageFrench {
		t.Errorf("Expected fr-FR, got %s", *req.Language)
	}
}

func TestParsePagination(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
		wantErrors          int
	}{
		{"", "", 1, 20, 0},
		{"3", "50", 3, 50, 0},
		{"0", "", 1, 20, 1},
		{"1", "0", 1, 20, 1},
		{"1", "101", 1, 20, 1},
		{"abc", "xyz", 1, 20, 2},
		{"-2", "100", 1, 100, 1},
	}

	for _, tt := range tests {
		page, limit, errs := validator.ParsePagination(tt.page, tt.limit)
		if len(errs) != tt.wantErrors {
			t.Errorf("ParsePagination(%q, %q) errors = %v, want %d", tt.page, tt.limit, errs, tt.wantErrors)
			continue
		}
		if tt.wantErrors == 0 && (page != tt.wantPage || limit != tt.wantLimit) {
			t.Errorf("ParsePagination(%q, %q) = %d, %d, want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestParseLimits(t *testing.T) {
	validator := newTestValidator()

	if n, errs := validator.ParseRelatedLimit(""); n != 5 || len(errs) != 0 {
		t.Errorf("Expected default related limit 5, got %d %v", n, errs)
	}
	if _, errs := validator.ParseRelatedLimit("51"); len(errs) != 1 {
		t.Errorf("Expected related limit above 50 to fail")
	}
	if n, errs := validator.ParseSearchLimit(""); n != 10 || len(errs) != 0 {
		t.Errorf("Expected default search limit 10, got %d %v", n, errs)
	}
}

func TestParseLanguage(t *testing.T) {
	validator := newTestValidator()

	if lang, errs := validator.ParseLanguage(""); lang != models.LanguageArabic || errs != nil {
		t.Errorf("Expected default language, got %q %v", lang, errs)
	}
	if lang, errs := validator.ParseLanguage("en-us"); lang != models.LanguageEnglish || errs != nil {
		t.Errorf("Expected en-US, got %q %v", lang, errs)
	}
	if _, errs := validator.ParseLanguage("klingon"); len(errs) != 1 || errs[0].Field != "lang" {
		t.Errorf("Expected lang error, got %v", errs)
	}
}

func TestValidateProgramID(t *testing.T) {
	validator := newTestValidator()

	if errs := validator.ValidateProgramID("550e8400-e29b-41d4-a716-446655440000"); len(errs) != 0 {
		t.Errorf("Expected valid UUID, got %v", errs)
	}
	if errs := validator.ValidateProgramID("not-a-uuid"); len(errs) != 1 {
		t.Errorf("Expected invalid UUID error")
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("Expected nil error for no validation errors")
	}

	err := AsError([]ValidationError{{Field: "q", Message: "q is required"}})
	if !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "q: q is required") {
		t.Errorf("Unexpected message %q", err.Error())
	}

	var list Errors
	if !errors.As(err, &list) || len(list) != 1 {
		t.Errorf("Expected Errors list, got %T", err)
	}
}
