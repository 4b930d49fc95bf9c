package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forma-studio/forma-portal/internal/models"
)

func TestAttachEstimateCreatesAndForcesStatus(t *testing.T) {
	db := openTestDB(t)
	mailer := &recordingMailer{}
	reqSvc := NewRequestService(db, mailer)
	estSvc := NewEstimateService(db, mailer)
	client := createClient(t, db, "client@example.com")

	req, err := reqSvc.Create(context.Background(), client, validCreateInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := estSvc.Attach(context.Background(), &AttachEstimateInput{
		RequestID:        req.ID,
		CostAmount:       2500000000,
		TimeEstimateText: "سه ماه",
		NextStepsFa:      "جلسه حضوری برای بررسی نقشه‌ها",
	})
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if !result.Created {
		t.Errorf("First attach reported as update")
	}

	var reloaded models.Request
	db.First(&reloaded, "id = ?", req.ID)
	if reloaded.Status != models.RequestStatusEstimateSent {
		t.Errorf("Status = %s, want ESTIMATE_SENT", reloaded.Status)
	}

	var estimate models.Estimate
	if err := db.First(&estimate, "request_id = ?", req.ID).Error; err != nil {
		t.Fatalf("Estimate row missing: %v", err)
	}
	if estimate.Currency != "IRR" {
		t.Errorf("Currency = %s, want IRR", estimate.Currency)
	}
	if estimate.SentAt.IsZero() {
		t.Errorf("SentAt not stamped")
	}
}

func TestAttachEstimateUpsertIdempotence(t *testing.T) {
	db := openTestDB(t)
	mailer := &recordingMailer{}
	reqSvc := NewRequestService(db, mailer)
	estSvc := NewEstimateService(db, mailer)
	client := createClient(t, db, "client@example.com")

	req, err := reqSvc.Create(context.Background(), client, validCreateInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, err := estSvc.Attach(context.Background(), &AttachEstimateInput{
		RequestID:        req.ID,
		CostAmount:       1000,
		TimeEstimateText: "دو ماه",
		NextStepsFa:      "هماهنگی بازدید",
	})
	if err != nil {
		t.Fatalf("First attach failed: %v", err)
	}

	// Move the lead elsewhere; re-sending must force it back.
	db.Model(&models.Request{}).Where("id = ?", req.ID).Update("status", models.RequestStatusInReview)
	var before models.Estimate
	db.First(&before, "id = ?", first.EstimateID)

	time.Sleep(10 * time.Millisecond)
	second, err := estSvc.Attach(context.Background(), &AttachEstimateInput{
		RequestID:        req.ID,
		CostAmount:       2000,
		TimeEstimateText: "چهار ماه",
		NextStepsFa:      "ارسال قرارداد",
	})
	if err != nil {
		t.Fatalf("Second attach failed: %v", err)
	}
	if second.Created {
		t.Errorf("Second attach reported as create")
	}
	if second.EstimateID != first.EstimateID {
		t.Errorf("Upsert created a second row")
	}

	var count int64
	db.Model(&models.Estimate{}).Where("request_id = ?", req.ID).Count(&count)
	if count != 1 {
		t.Fatalf("Expected 1 estimate row, got %d", count)
	}

	var after models.Estimate
	db.First(&after, "id = ?", first.EstimateID)
	if after.CostAmount != 2000 {
		t.Errorf("CostAmount = %d, want 2000", after.CostAmount)
	}
	if !after.SentAt.After(before.SentAt) {
		t.Errorf("SentAt not refreshed on re-send")
	}

	var reloaded models.Request
	db.First(&reloaded, "id = ?", req.ID)
	if reloaded.Status != models.RequestStatusEstimateSent {
		t.Errorf("Status = %s, want ESTIMATE_SENT after re-send", reloaded.Status)
	}
}

func TestAttachEstimateMissingRequest(t *testing.T) {
	db := openTestDB(t)
	estSvc := NewEstimateService(db, &recordingMailer{})

	_, err := estSvc.Attach(context.Background(), &AttachEstimateInput{
		RequestID:        "missing",
		CostAmount:       1000,
		TimeEstimateText: "دو ماه",
		NextStepsFa:      "هماهنگی بازدید",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestAttachEstimateValidation(t *testing.T) {
	db := openTestDB(t)
	estSvc := NewEstimateService(db, &recordingMailer{})

	_, err := estSvc.Attach(context.Background(), &AttachEstimateInput{
		RequestID:        "any",
		CostAmount:       0,
		TimeEstimateText: "دو ماه",
		NextStepsFa:      "هماهنگی",
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if validation.Field != "costAmount" {
		t.Errorf("Expected field costAmount, got %s", validation.Field)
	}
}
