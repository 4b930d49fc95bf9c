package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// ContentHandler handles public site content routes
type ContentHandler struct {
	Content *services.ContentService
}

// ListProjects handles GET /api/projects
// @Summary List portfolio projects
// @Description Published projects, featured first; optional category filter
// @Tags Content
// @Produce json
// @Param category query string false "Project category"
// @Param limit query int false "Max projects to return"
// @Success 200 {array} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /projects [get]
func (h *ContentHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.Content.ListProjects(c.Context(),
		models.ProjectCategory(c.Query("category")), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err, "listProjects")
	}
	return utils.SuccessResponse(c, projects, fiber.StatusOK)
}

// GetProject handles GET /api/projects/:slug
// @Summary Portfolio project detail
// @Description One published project by slug
// @Tags Content
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{slug} [get]
func (h *ContentHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.Content.GetProjectBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return serviceError(c, err, "getProject")
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// GetContentBlock handles GET /api/content/:key
// @Summary CMS content block
// @Description The bilingual fragment stored under key
// @Tags Content
// @Produce json
// @Param key path string true "Block key"
// @Success 200 {object} models.ContentBlock
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /content/{key} [get]
func (h *ContentHandler) GetContentBlock(c *fiber.Ctx) error {
	block, err := h.Content.GetContentBlock(c.Context(), c.Params("key"))
	if err != nil {
		return serviceError(c, err, "getContentBlock")
	}
	return utils.SuccessResponse(c, block, fiber.StatusOK)
}
