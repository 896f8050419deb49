package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-catalog-api/internal/service"
	"github.com/program-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// Cache-Control values for the public read path
const (
	cacheControlListing = "public, s-maxage=60, stale-while-revalidate=300"
	cacheControlFilters = "public, max-age=3600, stale-while-revalidate=7200"
	cacheControlRelated = "public, s-maxage=300, stale-while-revalidate=600"
)

// DiscoveryHandler handles the public read endpoints
type DiscoveryHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "discovery").Logger(),
	}
}

// Search handles GET /programs/search?q=&lang=&page=&limit=
func (h *DiscoveryHandler) Search(c *gin.Context) {
	q := c.Query("q")
	errs := h.validator.ValidateSearchQuery(&q)

	lang, langErrs := h.validator.ParseLanguage(c.Query("lang"))
	errs = append(errs, langErrs...)

	page, _, pageErrs := h.validator.ParsePagination(c.Query("page"), "")
	errs = append(errs, pageErrs...)

	limit, limitErrs := h.validator.ParseSearchLimit(c.Query("limit"))
	errs = append(errs, limitErrs...)

	if respondInvalid(c, h.log, errs) {
		return
	}

	result, err := h.services.Discovery.Search(c.Request.Context(), lang, q, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", cacheControlListing)
	c.JSON(http.StatusOK, result)
}

// HomeFeed handles GET /programs/feed?lang=&sort=&page=&limit=
// Unknown sort names fall back to newest.
func (h *DiscoveryHandler) HomeFeed(c *gin.Context) {
	lang, errs := h.validator.ParseLanguage(c.Query("lang"))

	page, limit, pageErrs := h.validator.ParsePagination(c.Query("page"), c.Query("limit"))
	errs = append(errs, pageErrs...)

	if respondInvalid(c, h.log, errs) {
		return
	}

	result, err := h.services.Discovery.HomeFeed(c.Request.Context(), lang, c.Query("sort"), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", cacheControlListing)
	c.JSON(http.StatusOK, result)
}

// Filters handles GET /programs/filters?lang=
func (h *DiscoveryHandler) Filters(c *gin.Context) {
	lang, errs := h.validator.ParseLanguage(c.Query("lang"))
	if respondInvalid(c, h.log, errs) {
		return
	}

	filters, err := h.services.Discovery.Filters(c.Request.Context(), lang)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", cacheControlFilters)
	c.JSON(http.StatusOK, filters)
}

// GetProgram handles GET /programs/:id
func (h *DiscoveryHandler) GetProgram(c *gin.Context) {
	id := c.Param("id")
	if respondInvalid(c, h.log, h.validator.ValidateProgramID(id)) {
		return
	}

	program, err := h.services.Discovery.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", cacheControlListing)
	c.JSON(http.StatusOK, program)
}

// Related handles GET /programs/:id/related?limit=
func (h *DiscoveryHandler) Related(c *gin.Context) {
	id := c.Param("id")
	errs := h.validator.ValidateProgramID(id)

	limit, limitErrs := h.validator.ParseRelatedLimit(c.Query("limit"))
	errs = append(errs, limitErrs...)

	if respondInvalid(c, h.log, errs) {
		return
	}

	related, err := h.services.Discovery.Related(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", cacheControlRelated)
	c.JSON(http.StatusOK, gin.H{"data": related, "total": len(related)})
}
