package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/forma-studio/forma-portal/internal/fa"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"github.com/forma-studio/forma-portal/internal/storage"
	"github.com/forma-studio/forma-portal/internal/types"
	"gorm.io/gorm"
)

// MinDescriptionLength is the minimum length of a lead description.
const MinDescriptionLength = 10

// RequestService owns the lead lifecycle: creation with optional slot
// claim, status/assignment transitions and the conversation sub-records.
type RequestService struct {
	DB     *gorm.DB
	Mailer notify.Mailer
}

func NewRequestService(db *gorm.DB, mailer notify.Mailer) *RequestService {
	return &RequestService{DB: db, Mailer: mailer}
}

// UploadedFileInput is one already-uploaded attachment registered at
// request creation.
type UploadedFileInput struct {
	ObjectKey string `json:"objectKey"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// CreateRequestInput is the payload of a new lead.
type CreateRequestInput struct {
	Type                   models.RequestType     `json:"type"`
	ProjectType            models.ProjectCategory `json:"projectType"`
	LocationCityFa         string                 `json:"locationCityFa"`
	AddressFa              string                 `json:"addressFa"`
	MapPinLat              *float64               `json:"mapPinLat,omitempty"`
	MapPinLng              *float64               `json:"mapPinLng,omitempty"`
	AreaSqm                types.FlexInt64        `json:"areaSqm,omitempty"`
	Scope                  models.RequestScope    `json:"scope"`
	BudgetMin              types.FlexInt64        `json:"budgetMin,omitempty"`
	BudgetMax              types.FlexInt64        `json:"budgetMax,omitempty"`
	BudgetRangeText        *string                `json:"budgetRangeText,omitempty"`
	TimelineTarget         *string                `json:"timelineTarget,omitempty"`
	DescriptionFa          string                 `json:"descriptionFa"`
	PreferredContactMethod models.ContactMethod   `json:"preferredContactMethod"`
	AvailabilitySlotID     string                 `json:"availabilitySlotId,omitempty"`
	SourceProjectID        *string                `json:"sourceProjectId,omitempty"`
	UploadedFiles          []UploadedFileInput    `json:"uploadedFiles,omitempty"`
}

func validateCreateRequest(clientID string, in *CreateRequestInput) error {
	if _, ok := models.RequestTypeLabelsFa[in.Type]; !ok {
		return invalid("type", "نوع درخواست معتبر نیست.")
	}
	if _, ok := models.ProjectCategoryLabelsFa[in.ProjectType]; !ok {
		return invalid("projectType", "نوع پروژه معتبر نیست.")
	}
	if _, ok := models.RequestScopeLabelsFa[in.Scope]; !ok {
		return invalid("scope", "محدوده پروژه معتبر نیست.")
	}
	if _, ok := models.ContactMethodLabelsFa[in.PreferredContactMethod]; !ok {
		return invalid("preferredContactMethod", "روش تماس معتبر نیست.")
	}
	if len(strings.TrimSpace(in.LocationCityFa)) < 2 {
		return invalid("locationCityFa", "نام شهر حداقل ۲ کاراکتر باشد.")
	}
	if len(strings.TrimSpace(in.AddressFa)) < 2 {
		return invalid("addressFa", "آدرس حداقل ۲ کاراکتر باشد.")
	}
	if len([]rune(strings.TrimSpace(in.DescriptionFa))) < MinDescriptionLength {
		return invalid("descriptionFa", "توضیحات حداقل ۱۰ کاراکتر باشد.")
	}
	if in.Type == models.RequestTypeConsultation && in.AvailabilitySlotID == "" {
		return invalid("availabilitySlotId", "برای مشاوره باید زمان جلسه انتخاب شود.")
	}
	if in.BudgetMin > 0 && in.BudgetMax > 0 && in.BudgetMin > in.BudgetMax {
		return invalid("budgetMax", "حداکثر بودجه باید بزرگ‌تر یا مساوی حداقل بودجه باشد.")
	}

	ownerPrefix := fmt.Sprintf("requests/%s/", clientID)
	for _, f := range in.UploadedFiles {
		if !storage.IsAllowedMimeType(f.FileType, storage.RequestAllowedMimeTypes) {
			return invalid("uploadedFiles", "نوع فایل مجاز نیست.")
		}
		if f.SizeBytes <= 0 || f.SizeBytes > storage.MaxUploadSizeBytes {
			return invalid("uploadedFiles", "حجم فایل نامعتبر است.")
		}
		// File keys outside the caller's namespace mean a forged payload,
		// not a malformed one.
		if !strings.HasPrefix(f.ObjectKey, ownerPrefix) {
			return ErrForbidden
		}
	}

	return nil
}

// Create validates the payload, then atomically inserts the request, its
// attachments and, for consultations, claims the chosen slot. A failed
// claim aborts the whole transaction: no request row, no file rows, no
// slot mutation survive a lost booking race. Notifications go out only
// after commit and never affect the outcome.
func (s *RequestService) Create(ctx context.Context, client *models.User, in *CreateRequestInput) (*models.Request, error) {
	if err := validateCreateRequest(client.ID, in); err != nil {
		return nil, err
	}

	var created models.Request
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status := models.RequestStatusNew
		var meetingStart, meetingEnd *time.Time

		if in.Type == models.RequestTypeConsultation {
			var slot models.AvailabilitySlot
			if err := tx.First(&slot, "id = ?", in.AvailabilitySlotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSlotUnavailable
				}
				return err
			}
			if slot.IsBooked || slot.StartAt.Before(time.Now()) {
				return ErrSlotUnavailable
			}
			start, end := slot.StartAt, slot.EndAt
			meetingStart, meetingEnd = &start, &end
			status = models.RequestStatusMeetingScheduled
		}

		created = models.Request{
			Type:                   in.Type,
			Status:                 status,
			ClientID:               client.ID,
			ProjectType:            in.ProjectType,
			LocationCityFa:         strings.TrimSpace(in.LocationCityFa),
			AddressFa:              strings.TrimSpace(in.AddressFa),
			MapPinLat:              in.MapPinLat,
			MapPinLng:              in.MapPinLng,
			AreaSqm:                in.AreaSqm.Ptr(),
			Scope:                  in.Scope,
			BudgetMin:              in.BudgetMin.Ptr(),
			BudgetMax:              in.BudgetMax.Ptr(),
			BudgetRangeText:        in.BudgetRangeText,
			TimelineTarget:         in.TimelineTarget,
			DescriptionFa:          strings.TrimSpace(in.DescriptionFa),
			PreferredContactMethod: in.PreferredContactMethod,
			MeetingStartAt:         meetingStart,
			MeetingEndAt:           meetingEnd,
			SourceProjectID:        in.SourceProjectID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if len(in.UploadedFiles) > 0 {
			files := make([]models.RequestFile, len(in.UploadedFiles))
			for i, f := range in.UploadedFiles {
				files[i] = models.RequestFile{
					RequestID: created.ID,
					ObjectKey: f.ObjectKey,
					FileName:  f.FileName,
					FileType:  f.FileType,
					SizeBytes: f.SizeBytes,
				}
			}
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}

		if in.Type == models.RequestTypeConsultation {
			return claimSlot(tx, in.AvailabilitySlotID, created.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, client, &created)
	return &created, nil
}

// notifyCreated sends the client confirmation and the staff new-lead
// alert. Fire-and-forget: failures are logged only.
func (s *RequestService) notifyCreated(ctx context.Context, client *models.User, req *models.Request) {
	body := fmt.Sprintf("<p>درخواست شما با شماره <strong>%s</strong> ثبت شد.</p>", req.ID)
	if req.Type == models.RequestTypeConsultation && req.MeetingStartAt != nil {
		body = fmt.Sprintf(
			"<p>درخواست مشاوره شما با شماره <strong>%s</strong> ثبت شد.</p><p>زمان جلسه: <strong>%s</strong></p>",
			req.ID, fa.FormatJalali(*req.MeetingStartAt, true),
		)
	}
	if err := s.Mailer.Send(ctx, notify.Message{
		To:      []string{client.Email},
		Subject: "ثبت درخواست در فرما",
		HTML:    body,
	}); err != nil {
		log.Printf("request %s: client notification failed: %v", req.ID, err)
	}

	staff, err := staffEmails(s.DB.WithContext(ctx))
	if err != nil {
		log.Printf("request %s: staff email lookup failed: %v", req.ID, err)
		return
	}
	if err := s.Mailer.Send(ctx, notify.Message{
		To:      staff,
		Subject: "درخواست جدید در فرما",
		HTML:    fmt.Sprintf("<p>درخواست جدید با شناسه %s ثبت شد.</p>", req.ID),
	}); err != nil {
		log.Printf("request %s: staff notification failed: %v", req.ID, err)
	}
}

// staffEmails returns addresses of the sales-capable staff.
func staffEmails(db *gorm.DB) ([]string, error) {
	var emails []string
	err := db.Model(&models.User{}).
		Where("role IN ?", []models.Role{models.RoleSuperAdmin, models.RoleAdmin, models.RoleSales}).
		Pluck("email", &emails).Error
	return emails, err
}

// Get loads a request by id. Handlers use it for boundary authorization
// before touching sub-records.
func (s *RequestService) Get(ctx context.Context, id string) (*models.Request, error) {
	var req models.Request
	if err := s.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// GetDetailed loads a request with its conversation, files, notes and
// estimate for the portal detail view. Messages ascend, notes descend.
func (s *RequestService) GetDetailed(ctx context.Context, id string) (*models.Request, error) {
	var req models.Request
	err := s.DB.WithContext(ctx).
		Preload("Client").
		Preload("AssignedTo").
		Preload("Files").
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Messages.Author").
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Notes.Author").
		Preload("Estimate").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListForClient returns a client's own leads, newest first.
func (s *RequestService) ListForClient(ctx context.Context, clientID string) ([]models.Request, error) {
	var reqs []models.Request
	err := s.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListAll returns every lead for the back office, newest first.
func (s *RequestService) ListAll(ctx context.Context, limit int) ([]models.Request, error) {
	if limit <= 0 {
		limit = 200
	}
	var reqs []models.Request
	err := s.DB.WithContext(ctx).
		Preload("Client").
		Order("created_at DESC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

// UpdateStatusInput carries a staff status/assignment change. An omitted
// assignedToId leaves the current assignee alone; an explicit null
// clears it and an id reassigns.
type UpdateStatusInput struct {
	Status        models.RequestStatus `json:"status"`
	AssignedToID  *string              `json:"assignedToId,omitempty"`
	AssignedToSet bool                 `json:"-"`
	Note          string               `json:"note,omitempty"`
}

func (in *UpdateStatusInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status       models.RequestStatus `json:"status"`
		AssignedToID json.RawMessage      `json:"assignedToId"`
		Note         string               `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.Status = raw.Status
	in.Note = raw.Note
	in.AssignedToID = nil
	// A RawMessage is nil only when the key was absent; "null" arrives
	// as a non-nil token.
	in.AssignedToSet = raw.AssignedToID != nil
	if in.AssignedToSet {
		return json.Unmarshal(raw.AssignedToID, &in.AssignedToID)
	}
	return nil
}

// UpdateStatus applies a staff transition. Any status may follow any
// other. The change is recorded as a single audit note combining the
// status diff, the reassignment marker and the free-text note; a no-op
// change with no note writes nothing.
func (s *RequestService) UpdateStatus(ctx context.Context, staffID, requestID string, in *UpdateStatusInput) error {
	if _, ok := models.RequestStatusLabelsFa[in.Status]; !ok {
		return invalid("status", "وضعیت معتبر نیست.")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Request
		if err := tx.Select("id", "status", "assigned_to_id").First(&existing, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var history []string
		if existing.Status != in.Status {
			history = append(history, fmt.Sprintf(
				"تغییر وضعیت: %s → %s",
				models.RequestStatusLabelsFa[existing.Status],
				models.RequestStatusLabelsFa[in.Status],
			))
		}
		if in.AssignedToSet && !equalPtr(existing.AssignedToID, in.AssignedToID) {
			history = append(history, "تغییر مسئول پیگیری درخواست")
		}
		if note := strings.TrimSpace(in.Note); note != "" {
			history = append(history, note)
		}

		updates := map[string]interface{}{"status": in.Status}
		if in.AssignedToSet {
			updates["assigned_to_id"] = in.AssignedToID
		}
		if err := tx.Model(&models.Request{}).Where("id = ?", requestID).Updates(updates).Error; err != nil {
			return err
		}

		if len(history) > 0 {
			note := models.RequestNote{
				RequestID: requestID,
				AuthorID:  staffID,
				Note:      strings.Join(history, " | "),
			}
			if err := tx.Create(&note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AppendMessage adds one conversation entry. Who may post is decided at
// the handler boundary; this only validates and appends.
func (s *RequestService) AppendMessage(ctx context.Context, requestID, authorID, text string) (*models.RequestMessage, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < 2 {
		return nil, invalid("message", "پیام نامعتبر است.")
	}

	msg := models.RequestMessage{
		RequestID: requestID,
		AuthorID:  authorID,
		Message:   text,
	}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
