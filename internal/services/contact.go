package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/forma-studio/forma-portal/internal/fa"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"gorm.io/gorm"
)

// ContactService turns public contact-form submissions into leads. The
// form itself is anonymous; a guest account is created or reused so the
// lead enters the same pipeline as portal requests.
type ContactService struct {
	DB     *gorm.DB
	Mailer notify.Mailer
}

func NewContactService(db *gorm.DB, mailer notify.Mailer) *ContactService {
	return &ContactService{DB: db, Mailer: mailer}
}

// ContactInput is the public form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// ContactResult reports the archived submission and the lead spawned
// from it.
type ContactResult struct {
	MessageID string `json:"messageId"`
	RequestID string `json:"requestId"`
}

func validateContact(in *ContactInput) error {
	if len([]rune(strings.TrimSpace(in.Name))) < 2 {
		return invalid("name", "نام حداقل ۲ کاراکتر باشد.")
	}
	phone := fa.DigitsOnly(in.Phone)
	if len(phone) < 8 || len(phone) > 15 {
		return invalid("phone", "شماره تماس معتبر نیست.")
	}
	if len([]rune(strings.TrimSpace(in.Message))) < MinDescriptionLength {
		return invalid("message", "پیام حداقل ۱۰ کاراکتر باشد.")
	}
	if email := strings.TrimSpace(in.Email); email != "" && !strings.Contains(email, "@") {
		return invalid("email", "ایمیل معتبر نیست.")
	}
	return nil
}

// Submit archives the message, upserts a guest account and opens an
// ESTIMATE lead with placeholder project fields in one transaction, then
// alerts staff best-effort. Guests without an email get a synthesized
// phone-based address so the unique-email account model still holds.
func (s *ContactService) Submit(ctx context.Context, in *ContactInput) (*ContactResult, error) {
	if err := validateContact(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	phone := fa.DigitsOnly(in.Phone)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	message := strings.TrimSpace(in.Message)

	synthesized := email == ""
	if synthesized {
		email = fmt.Sprintf("guest-%s@forma.local", phone)
	}

	var result ContactResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		archived := models.ContactMessage{
			Name:    name,
			Phone:   phone,
			Message: message,
		}
		if !synthesized {
			archived.Email = &email
		}
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}

		var guest models.User
		err := tx.First(&guest, "email = ?", email).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			guest = models.User{
				Name:  name,
				Email: email,
				Phone: &phone,
				Role:  models.RoleClient,
			}
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		lead := models.Request{
			Type:                   models.RequestTypeEstimate,
			Status:                 models.RequestStatusNew,
			ClientID:               guest.ID,
			ProjectType:            models.ProjectCategoryResidential,
			LocationCityFa:         "نامشخص",
			AddressFa:              "نامشخص",
			Scope:                  models.RequestScopeDesignBuild,
			DescriptionFa:          message,
			PreferredContactMethod: models.ContactMethodPhone,
		}
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}

		result = ContactResult{MessageID: archived.ID, RequestID: lead.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	staff, err := staffEmails(s.DB.WithContext(ctx))
	if err != nil {
		log.Printf("contact %s: staff email lookup failed: %v", result.MessageID, err)
		return &result, nil
	}
	if err := s.Mailer.Send(ctx, notify.Message{
		To:      staff,
		Subject: "پیام جدید از فرم تماس فرما",
		HTML: fmt.Sprintf(
			"<p>پیام جدید از <strong>%s</strong> (%s)</p><p>%s</p><p>درخواست مرتبط: %s</p>",
			name, phone, message, result.RequestID,
		),
	}); err != nil {
		log.Printf("contact %s: staff notification failed: %v", result.MessageID, err)
	}

	return &result, nil
}
