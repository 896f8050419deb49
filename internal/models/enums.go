package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ProgramStatus represents the lifecycle state of a program
type ProgramStatus string

const (
	StatusDraft     ProgramStatus = "DRAFT"
	StatusPublished ProgramStatus = "PUBLISHED"
	StatusArchived  ProgramStatus = "ARCHIVED"
)

// Language is a supported content locale
type Language string

const (
	LanguageArabic  Language = "ar-SA"
	LanguageEnglish Language = "en-US"
	LanguageFrench  Language = "fr-FR"
)

// SupportedLanguages lists every language a program can be published in
var SupportedLanguages = []Language{LanguageArabic, LanguageEnglish, LanguageFrench}

// searchConfigs maps a language to its Postgres text search configuration
var searchConfigs = map[Language]string{
	LanguageArabic:  "arabic",
	LanguageEnglish: "english",
	LanguageFrench:  "french",
}

// SearchConfig returns the text search configuration used to rank the language
func (l Language) SearchConfig() string {
	if cfg, ok := searchConfigs[l]; ok {
		return cfg
	}
	return "simple"
}

// IsValid reports whether the language is supported
func (l Language) IsValid() bool {
	_, ok := searchConfigs[l]
	return ok
}

// ParseLanguage canonicalises a BCP 47 tag ("en-us", "EN_us") and checks it
// against the supported set.
func ParseLanguage(s string) (Language, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: invalid language %q", ErrInvalidRequest, s)
	}
	l := Language(tag.String())
	if !l.IsValid() {
		return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidRequest, s)
	}
	return l, nil
}

// Category classifies program content
type Category string

const (
	CategoryPodcast       Category = "PODCAST"
	CategoryDocumentary   Category = "DOCUMENTARY"
	CategorySeries        Category = "SERIES"
	CategoryInterview     Category = "INTERVIEW"
	CategoryEducational   Category = "EDUCATIONAL"
	CategoryNews          Category = "NEWS"
	CategoryEntertainment Category = "ENTERTAINMENT"
)

// SupportedCategories lists all categories
var SupportedCategories = []Category{
	CategoryPodcast,
	CategoryDocumentary,
	CategorySeries,
	CategoryInterview,
	CategoryEducational,
	CategoryNews,
	CategoryEntertainment,
}

// ValidCategories defines allowed program categories
var ValidCategories = map[Category]bool{
	CategoryPodcast:       true,
	CategoryDocumentary:   true,
	CategorySeries:        true,
	CategoryInterview:     true,
	CategoryEducational:   true,
	CategoryNews:          true,
	CategoryEntertainment: true,
}

// Provider identifies an external content source
type Provider string

const (
	ProviderYouTube Provider = "YOUTUBE"
)

// ValidProviders defines the closed set of provider identifiers
var ValidProviders = map[Provider]bool{
	ProviderYouTube: true,
}

// Key returns the lower-case form used in cache keys
func (p Provider) Key() string {
	return strings.ToLower(string(p))
}
