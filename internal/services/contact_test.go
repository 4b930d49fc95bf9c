package services

import (
	"context"
	"errors"
	"testing"

	"github.com/forma-studio/forma-portal/internal/models"
)

func TestContactSubmitOpensLead(t *testing.T) {
	db := openTestDB(t)
	mailer := &recordingMailer{}
	svc := NewContactService(db, mailer)
	createStaff(t, db, "admin@forma.test", models.RoleAdmin)

	result, err := svc.Submit(context.Background(), &ContactInput{
		Name:    "مریم احمدی",
		Phone:   "۰۹۱۲۳۴۵۶۷۸۹",
		Email:   "Maryam@Example.com",
		Message: "برای بازسازی آپارتمان تماس بگیرید",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var archived models.ContactMessage
	if err := db.First(&archived, "id = ?", result.MessageID).Error; err != nil {
		t.Fatalf("Contact message missing: %v", err)
	}
	if archived.Phone != "09123456789" {
		t.Errorf("Phone not normalized: %s", archived.Phone)
	}

	var lead models.Request
	if err := db.First(&lead, "id = ?", result.RequestID).Error; err != nil {
		t.Fatalf("Lead missing: %v", err)
	}
	if lead.Type != models.RequestTypeEstimate || lead.Status != models.RequestStatusNew {
		t.Errorf("Lead type/status = %s/%s", lead.Type, lead.Status)
	}
	if lead.ProjectType != models.ProjectCategoryResidential || lead.Scope != models.RequestScopeDesignBuild {
		t.Errorf("Placeholder project fields wrong: %s/%s", lead.ProjectType, lead.Scope)
	}

	var guest models.User
	if err := db.First(&guest, "id = ?", lead.ClientID).Error; err != nil {
		t.Fatalf("Guest account missing: %v", err)
	}
	if guest.Email != "maryam@example.com" {
		t.Errorf("Guest email not lowercased: %s", guest.Email)
	}
	if guest.Role != models.RoleClient {
		t.Errorf("Guest role = %s", guest.Role)
	}

	if len(mailer.messages()) != 1 {
		t.Errorf("Expected 1 staff email, got %d", len(mailer.messages()))
	}
}

func TestContactSubmitReusesAccount(t *testing.T) {
	db := openTestDB(t)
	svc := NewContactService(db, &recordingMailer{})
	existing := createClient(t, db, "repeat@example.com")

	result, err := svc.Submit(context.Background(), &ContactInput{
		Name:    "کاربر تکراری",
		Phone:   "02122334455",
		Email:   "repeat@example.com",
		Message: "پیام دوم از همان کاربر",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var lead models.Request
	db.First(&lead, "id = ?", result.RequestID)
	if lead.ClientID != existing.ID {
		t.Errorf("Lead attached to a new account instead of the existing one")
	}

	var users int64
	db.Model(&models.User{}).Count(&users)
	if users != 1 {
		t.Errorf("Expected 1 user, got %d", users)
	}
}

func TestContactSubmitWithoutEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewContactService(db, &recordingMailer{})

	result, err := svc.Submit(context.Background(), &ContactInput{
		Name:    "بدون ایمیل",
		Phone:   "09351112233",
		Message: "فقط شماره تماس دارم لطفا زنگ بزنید",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var lead models.Request
	db.First(&lead, "id = ?", result.RequestID)
	var guest models.User
	db.First(&guest, "id = ?", lead.ClientID)
	if guest.Email != "guest-09351112233@forma.local" {
		t.Errorf("Synthesized email = %s", guest.Email)
	}

	var archived models.ContactMessage
	db.First(&archived, "id = ?", result.MessageID)
	if archived.Email != nil {
		t.Errorf("Synthesized address leaked into the archive")
	}
}

func TestContactSubmitValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewContactService(db, &recordingMailer{})

	cases := []struct {
		name  string
		input ContactInput
		field string
	}{
		{"short name", ContactInput{Name: "م", Phone: "09123456789", Message: "پیام به اندازه کافی بلند"}, "name"},
		{"bad phone", ContactInput{Name: "مریم", Phone: "۱۲", Message: "پیام به اندازه کافی بلند"}, "phone"},
		{"short message", ContactInput{Name: "مریم", Phone: "09123456789", Message: "کوتاه"}, "message"},
		{"bad email", ContactInput{Name: "مریم", Phone: "09123456789", Email: "nope", Message: "پیام به اندازه کافی بلند"}, "email"},
	}
	for _, tc := range cases {
		_, err := svc.Submit(context.Background(), &tc.input)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
			continue
		}
		if validation.Field != tc.field {
			t.Errorf("%s: field = %s, want %s", tc.name, validation.Field, tc.field)
		}
	}
}
