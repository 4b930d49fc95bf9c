package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/forma-studio/forma-portal/internal/fa"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"github.com/forma-studio/forma-portal/internal/types"
	"gorm.io/gorm"
)

// EstimateService attaches staff quotes to leads.
type EstimateService struct {
	DB     *gorm.DB
	Mailer notify.Mailer
}

func NewEstimateService(db *gorm.DB, mailer notify.Mailer) *EstimateService {
	return &EstimateService{DB: db, Mailer: mailer}
}

// AttachEstimateInput is the quote payload. CostAmount accepts
// Persian-digit string input from the back office form.
type AttachEstimateInput struct {
	RequestID        string          `json:"requestId"`
	CostAmount       types.FlexInt64 `json:"costAmount"`
	TimeEstimateText string          `json:"timeEstimateText"`
	NextStepsFa      string          `json:"nextStepsFa"`
}

// AttachResult reports which branch of the upsert ran.
type AttachResult struct {
	EstimateID string
	Created    bool
}

// Attach upserts the estimate keyed by the unique requestId: the first
// call creates the row and stamps SentAt, later calls rewrite content and
// refresh SentAt. Either branch forces the request into ESTIMATE_SENT
// regardless of prior status. The client email goes out after commit,
// best-effort.
func (s *EstimateService) Attach(ctx context.Context, in *AttachEstimateInput) (*AttachResult, error) {
	if in.RequestID == "" {
		return nil, invalid("requestId", "شناسه درخواست الزامی است.")
	}
	if in.CostAmount <= 0 {
		return nil, invalid("costAmount", "مبلغ برآورد معتبر نیست.")
	}
	if len(strings.TrimSpace(in.TimeEstimateText)) < 2 {
		return nil, invalid("timeEstimateText", "زمان‌بندی برآورد حداقل ۲ کاراکتر باشد.")
	}
	if len(strings.TrimSpace(in.NextStepsFa)) < 2 {
		return nil, invalid("nextStepsFa", "گام‌های بعدی حداقل ۲ کاراکتر باشد.")
	}

	var (
		result     AttachResult
		clientMail string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Preload("Client").First(&req, "id = ?", in.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Client != nil {
			clientMail = req.Client.Email
		}

		now := time.Now()
		var estimate models.Estimate
		err := tx.First(&estimate, "request_id = ?", in.RequestID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			estimate = models.Estimate{
				RequestID:        in.RequestID,
				CostAmount:       in.CostAmount.Int64(),
				Currency:         "IRR",
				TimeEstimateText: strings.TrimSpace(in.TimeEstimateText),
				NextStepsFa:      strings.TrimSpace(in.NextStepsFa),
				SentAt:           now,
			}
			if err := tx.Create(&estimate).Error; err != nil {
				return err
			}
			result = AttachResult{EstimateID: estimate.ID, Created: true}
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{
				"cost_amount":        in.CostAmount.Int64(),
				"time_estimate_text": strings.TrimSpace(in.TimeEstimateText),
				"next_steps_fa":      strings.TrimSpace(in.NextStepsFa),
				"sent_at":            now,
			}
			if err := tx.Model(&estimate).Updates(updates).Error; err != nil {
				return err
			}
			result = AttachResult{EstimateID: estimate.ID, Created: false}
		}

		return tx.Model(&models.Request{}).
			Where("id = ?", in.RequestID).
			Update("status", models.RequestStatusEstimateSent).Error
	})
	if err != nil {
		return nil, err
	}

	if clientMail != "" {
		msg := notify.Message{
			To:      []string{clientMail},
			Subject: "برآورد پروژه شما در فرما",
			HTML: fmt.Sprintf(
				"<p>برآورد اولیه پروژه شما آماده شد.</p><p>مبلغ: <strong>%s</strong></p><p>برای مشاهده جزئیات وارد پرتال فرما شوید.</p>",
				fa.FormatToman(in.CostAmount.Int64()),
			),
		}
		if err := s.Mailer.Send(ctx, msg); err != nil {
			log.Printf("estimate %s: client notification failed: %v", result.EstimateID, err)
		}
	}

	return &result, nil
}
