package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/service"
	"github.com/program-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// CMSHandler handles the administrative endpoints
type CMSHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewCMSHandler creates a new CMSHandler
func NewCMSHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *CMSHandler {
	return &CMSHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "cms").Logger(),
	}
}

// SearchExternal handles POST /admin/programs/integrations/search
func (h *CMSHandler) SearchExternal(c *gin.Context) {
	var req models.SearchExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, fmt.Errorf("%w: invalid JSON body", models.ErrInvalidRequest))
		return
	}
	if respondInvalid(c, h.log, h.validator.ValidateSearchExternal(&req)) {
		return
	}

	results, err := h.services.CMS.SearchExternal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results, "total": len(results)})
}

// ImportProgram handles POST /admin/programs/import. A provenance that was
// already imported answers 200 with the stored record instead of 201.
func (h *CMSHandler) ImportProgram(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, fmt.Errorf("%w: invalid JSON body", models.ErrInvalidRequest))
		return
	}
	if respondInvalid(c, h.log, h.validator.ValidateImport(&req)) {
		return
	}

	program, created, err := h.services.CMS.ImportProgram(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, program)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// ListDrafts handles GET /admin/programs
func (h *CMSHandler) ListDrafts(c *gin.Context) {
	page, limit, errs := h.validator.ParsePagination(c.Query("page"), c.Query("limit"))
	if respondInvalid(c, h.log, errs) {
		return
	}

	result, err := h.services.CMS.ListDrafts(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProgram handles GET /admin/programs/:id
func (h *CMSHandler) GetProgram(c *gin.Context) {
	id := c.Param("id")
	if respondInvalid(c, h.log, h.validator.ValidateProgramID(id)) {
		return
	}

	program, err := h.services.CMS.GetEditorView(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// UpdateProgram handles PATCH /admin/programs/:id
func (h *CMSHandler) UpdateProgram(c *gin.Context) {
	id := c.Param("id")
	if respondInvalid(c, h.log, h.validator.ValidateProgramID(id)) {
		return
	}

	var req models.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, fmt.Errorf("%w: invalid JSON body", models.ErrInvalidRequest))
		return
	}
	if respondInvalid(c, h.log, h.validator.ValidateUpdate(&req)) {
		return
	}

	program, err := h.services.CMS.UpdateProgram(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// PublishProgram handles PUT /admin/programs/:id/publish
func (h *CMSHandler) PublishProgram(c *gin.Context) {
	id := c.Param("id")
	if respondInvalid(c, h.log, h.validator.ValidateProgramID(id)) {
		return
	}

	program, err := h.services.CMS.PublishProgram(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// ArchiveProgram handles DELETE /admin/programs/:id
func (h *CMSHandler) ArchiveProgram(c *gin.Context) {
	id := c.Param("id")
	if respondInvalid(c, h.log, h.validator.ValidateProgramID(id)) {
		return
	}

	if err := h.services.CMS.ArchiveProgram(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
