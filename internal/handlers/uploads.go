package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/storage"
	"github.com/forma-studio/forma-portal/internal/utils"
)

const presignTTL = 5 * time.Minute

// UploadHandler issues presigned PUT targets for client-side uploads.
type UploadHandler struct {
	Store storage.ObjectStore // nil when storage is not configured
}

type presignRequest struct {
	Prefix   string `json:"prefix"` // "requests" or "projects"
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type presignResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	PublicURL string `json:"publicUrl,omitempty"`
}

// Presign handles POST /api/uploads/presign
// @Summary Presign an upload
// @Description Issue a short-lived PUT URL under the caller's key namespace
// @Tags Uploads
// @Accept json
// @Produce json
// @Param payload body presignRequest true "Upload intent"
// @Success 200 {object} presignResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /uploads/presign [post]
// @Security BearerAuth
func (h *UploadHandler) Presign(c *fiber.Ctx) error {
	if h.Store == nil {
		return utils.ErrorResponse(c, "آپلود فایل در حال حاضر فعال نیست.", fiber.StatusServiceUnavailable, "presign")
	}

	var in presignRequest
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "presign")
	}

	user := currentUser(c)
	var allowed []string
	switch in.Prefix {
	case "requests":
		allowed = storage.RequestAllowedMimeTypes
	case "projects":
		// Portfolio media is CMS-staff territory.
		if !models.HasAnyRole(user.Role, models.CMSRoles) {
			return utils.ErrorResponse(c, "دسترسی غیرمجاز", fiber.StatusForbidden, "presign")
		}
		allowed = storage.ProjectAllowedMimeTypes
	default:
		return serviceError(c, &services.ValidationError{Field: "prefix", Message: "پیشوند آپلود معتبر نیست."}, "presign")
	}

	if !storage.IsAllowedMimeType(in.FileType, allowed) {
		return serviceError(c, &services.ValidationError{Field: "fileType", Message: "نوع فایل مجاز نیست."}, "presign")
	}

	key := fmt.Sprintf("%s/%s/%s-%s",
		storage.SanitizePrefix(in.Prefix), user.ID, uuid.NewString(), storage.SanitizeFileName(in.FileName))

	signed, err := h.Store.PresignUpload(c.Context(), key, presignTTL)
	if err != nil {
		return serviceError(c, err, "presign")
	}

	resp := presignResponse{UploadURL: signed.UploadURL, ObjectKey: signed.ObjectKey}
	if in.Prefix == "projects" {
		resp.PublicURL = h.Store.PublicURL(signed.ObjectKey)
	}
	return utils.SuccessResponse(c, resp, fiber.StatusOK)
}
