package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// FileHandler handles lead attachment routes
type FileHandler struct {
	Files    *services.FileService
	Requests *services.RequestService
}

// canTouchFile is the attachment rule: staff always, clients only on
// their own lead and only with keys inside their own namespace.
func canTouchFile(user *models.User, req *models.Request, objectKey string) bool {
	if models.HasAnyRole(user.Role, models.AdminRoles) {
		return objectKey == "" || strings.HasPrefix(objectKey, "requests/")
	}
	if req.ClientID != user.ID {
		return false
	}
	return objectKey == "" || strings.HasPrefix(objectKey, fmt.Sprintf("requests/%s/", user.ID))
}

// Append handles POST /api/requests/:id/files
// @Summary Register an uploaded attachment
// @Description Attach an already-uploaded object to a lead
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body services.UploadedFileInput true "Uploaded object"
// @Success 201 {object} models.RequestFile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /requests/{id}/files [post]
// @Security BearerAuth
func (h *FileHandler) Append(c *fiber.Ctx) error {
	req, err := h.Requests.Get(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "appendFile")
	}

	var in services.UploadedFileInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "appendFile")
	}

	user := currentUser(c)
	if !canSeeRequest(user, req) {
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	}
	if !canTouchFile(user, req, in.ObjectKey) {
		return utils.ErrorResponse(c, "دسترسی غیرمجاز", fiber.StatusForbidden, "appendFile")
	}

	file, err := h.Files.Append(c.Context(), req.ID, &in)
	if err != nil {
		return serviceError(c, err, "appendFile")
	}
	return utils.SuccessResponse(c, file, fiber.StatusCreated)
}

// Delete handles DELETE /api/files/:id
// @Summary Delete an attachment
// @Description Remove the attachment row, then its backing object best-effort
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [delete]
// @Security BearerAuth
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	file, err := h.Files.Get(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "deleteFile")
	}

	user := currentUser(c)
	if file.Request == nil || !canSeeRequest(user, file.Request) {
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	}

	if err := h.Files.Remove(c.Context(), file); err != nil {
		return serviceError(c, err, "deleteFile")
	}
	return utils.SuccessResponse(c, fiber.Map{"ok": true}, fiber.StatusOK)
}

// Download handles GET /api/files/:id/download
// @Summary Download an attachment
// @Description Redirect to a short-lived presigned URL for the attachment
// @Tags Files
// @Param id path string true "File ID"
// @Success 302 {string} string "Found"
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id}/download [get]
// @Security BearerAuth
func (h *FileHandler) Download(c *fiber.Ctx) error {
	file, err := h.Files.Get(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "downloadFile")
	}

	user := currentUser(c)
	if file.Request == nil || !canSeeRequest(user, file.Request) {
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	}

	url, err := h.Files.DownloadURL(c.Context(), file)
	if err != nil {
		return serviceError(c, err, "downloadFile")
	}
	return c.Redirect(url, fiber.StatusFound)
}
