package cache

import (
	"fmt"

	"github.com/program-catalog-api/internal/models"
)

// Key formats live here so writers and invalidators agree on them.

// ProviderSearchKey identifies a cached provider search
func ProviderSearchKey(provider models.Provider, query string, limit int) string {
	return fmt.Sprintf("%s:search:%s:%d", provider.Key(), query, limit)
}

// ProviderDetailsKey identifies cached provider details for one external id
func ProviderDetailsKey(provider models.Provider, externalID string) string {
	return fmt.Sprintf("%s:details:%s", provider.Key(), externalID)
}

// FiltersKey identifies the cached public filter options for a language
func FiltersKey(lang models.Language) string {
	return fmt.Sprintf("filters:%s", lang)
}
