package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
	"github.com/samber/lo"
)

const (
	maxTitleLength       = 500
	maxDescriptionLength = 10000
	maxQueryLength       = 200
	maxExternalIDLength  = 128
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of validation errors usable as an error value.
// It matches models.ErrInvalidRequest under errors.Is.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := lo.Map(e, func(v ValidationError, _ int) string {
		return v.Field + ": " + v.Message
	})
	return fmt.Sprintf("%s: %s", models.ErrInvalidRequest, strings.Join(msgs, "; "))
}

func (e Errors) Unwrap() error {
	return models.ErrInvalidRequest
}

// AsError returns nil for no errors, otherwise the list as an error
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}

// Validator checks requests at the HTTP boundary and fills in defaults
type Validator struct {
	pagination      config.PaginationConfig
	defaultLanguage models.Language
}

// NewValidator creates a new validator instance
func NewValidator(pagination config.PaginationConfig, defaultLanguage models.Language) *Validator {
	return &Validator{
		pagination:      pagination,
		defaultLanguage: defaultLanguage,
	}
}

// ValidateImport validates an import request
func (v *Validator) ValidateImport(req *models.ImportRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateProvider(req.Provider)...)

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	if req.ExternalID == "" {
		errors = append(errors, ValidationError{Field: "externalId", Message: "externalId is required"})
	} else if len(req.ExternalID) > maxExternalIDLength {
		errors = append(errors, ValidationError{
			Field:   "externalId",
			Message: fmt.Sprintf("externalId must be at most %d characters", maxExternalIDLength),
			Value:   req.ExternalID,
		})
	}

	return errors
}

// ValidateSearchExternal validates a provider search and defaults the limit
func (v *Validator) ValidateSearchExternal(req *models.SearchExternalRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateProvider(req.Provider)...)
	errors = append(errors, v.validateQuery(&req.Query)...)

	if req.Limit == 0 {
		req.Limit = v.pagination.DefaultSearchLimit
	} else if req.Limit < 1 || req.Limit > v.pagination.MaxPageSize {
		errors = append(errors, ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between 1 and %d", v.pagination.MaxPageSize),
			Value:   req.Limit,
		})
	}

	return errors
}

// ValidateUpdate validates the fields present in an update patch
func (v *Validator) ValidateUpdate(req *models.UpdateProgramRequest) []ValidationError {
	var errors []ValidationError

	if req.IsEmpty() {
		return []ValidationError{{Field: "body", Message: "at least one field must be provided"}}
	}

	if req.Title != nil && utf8.RuneCountInString(*req.Title) > maxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength),
		})
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxDescriptionLength {
		errors = append(errors, ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLength),
		})
	}

	if req.DurationSeconds != nil && *req.DurationSeconds < 0 {
		errors = append(errors, ValidationError{Field: "duration_seconds", Message: "duration must not be negative", Value: *req.DurationSeconds})
	}

	if req.Language != nil {
		lang, err := models.ParseLanguage(string(*req.Language))
		if err != nil {
			errors = append(errors, ValidationError{
				Field:   "language",
				Message: "invalid language, must be one of: " + joinLanguages(),
				Value:   *req.Language,
			})
		} else {
			req.Language = &lang
		}
	}

	if req.Category != nil && !models.ValidCategories[*req.Category] {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "invalid category",
			Value:   *req.Category,
		})
	}

	if req.ThumbnailURL != nil && *req.ThumbnailURL != "" && !isValidURL(*req.ThumbnailURL) {
		errors = append(errors, ValidationError{Field: "thumbnail_url", Message: "invalid URL", Value: *req.ThumbnailURL})
	}

	return errors
}

// ValidateProgramID checks that id is a UUID
func (v *Validator) ValidateProgramID(id string) []ValidationError {
	if !isValidUUID(id) {
		return []ValidationError{{Field: "id", Message: "invalid UUID format", Value: id}}
	}
	return nil
}

// ValidateSearchQuery trims and checks a public search query
func (v *Validator) ValidateSearchQuery(q *string) []ValidationError {
	return v.validateQuery(q)
}

// ParseLanguage reads the lang parameter; empty means the default language
func (v *Validator) ParseLanguage(s string) (models.Language, []ValidationError) {
	if strings.TrimSpace(s) == "" {
		return v.defaultLanguage, nil
	}
	lang, err := models.ParseLanguage(s)
	if err != nil {
		return "", []ValidationError{{
			Field:   "lang",
			Message: "invalid language, must be one of: " + joinLanguages(),
			Value:   s,
		}}
	}
	return lang, nil
}

// ParsePagination reads page and limit query parameters, applying defaults
// and bounds: page >= 1, 1 <= limit <= MaxPageSize.
func (v *Validator) ParsePagination(pageStr, limitStr string) (int, int, []ValidationError) {
	var errors []ValidationError

	page, errs := parseBoundedInt("page", pageStr, 1, 1, 0)
	errors = append(errors, errs...)

	limit, errs := parseBoundedInt("limit", limitStr, v.pagination.DefaultPageSize, 1, v.pagination.MaxPageSize)
	errors = append(errors, errs...)

	return page, limit, errors
}

// ParseSearchLimit reads the limit for a public search
func (v *Validator) ParseSearchLimit(limitStr string) (int, []ValidationError) {
	return parseBoundedInt("limit", limitStr, v.pagination.DefaultSearchLimit, 1, v.pagination.MaxPageSize)
}

// ParseRelatedLimit reads the limit for related content
func (v *Validator) ParseRelatedLimit(limitStr string) (int, []ValidationError) {
	return parseBoundedInt("limit", limitStr, v.pagination.DefaultRelatedLimit, 1, v.pagination.MaxRelatedLimit)
}

func (v *Validator) validateQuery(q *string) []ValidationError {
	*q = strings.TrimSpace(*q)
	if *q == "" {
		return []ValidationError{{Field: "q", Message: "q is required"}}
	}
	if utf8.RuneCountInString(*q) > maxQueryLength {
		return []ValidationError{{
			Field:   "q",
			Message: fmt.Sprintf("q must be at most %d characters", maxQueryLength),
		}}
	}
	return nil
}

func validateProvider(p models.Provider) []ValidationError {
	if p == "" {
		return []ValidationError{{Field: "provider", Message: "provider is required"}}
	}
	if !models.ValidProviders[p] {
		providers := lo.Map(lo.Keys(models.ValidProviders), func(p models.Provider, _ int) string { return string(p) })
		return []ValidationError{{
			Field:   "provider",
			Message: "unsupported provider, must be one of: " + strings.Join(providers, ", "),
			Value:   p,
		}}
	}
	return nil
}

// parseBoundedInt parses s, using def when empty. max <= 0 means unbounded.
func parseBoundedInt(field, s string, def, min, max int) (int, []ValidationError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, []ValidationError{{Field: field, Message: field + " must be an integer", Value: s}}
	}
	if n < min || (max > 0 && n > max) {
		msg := fmt.Sprintf("%s must be at least %d", field, min)
		if max > 0 {
			msg = fmt.Sprintf("%s must be between %d and %d", field, min, max)
		}
		return def, []ValidationError{{Field: field, Message: msg, Value: n}}
	}
	return n, nil
}

func joinLanguages() string {
	return strings.Join(lo.Map(models.SupportedLanguages, func(l models.Language, _ int) string {
		return string(l)
	}), ", ")
}

func isValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
