package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/forma-studio/forma-portal/internal/fa"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"gorm.io/gorm"
)

// Sweep tunables. The 2-hour window traded against a roughly hourly cron
// keeps every meeting inside at least one sweep without re-selecting rows
// already reminded.
const (
	reminderWindowFrom = 23 * time.Hour
	reminderWindowTo   = 25 * time.Hour
	reminderBatchLimit = 200
)

// ReminderService sends one-time reminder emails for confirmed meetings
// roughly 24 hours out.
type ReminderService struct {
	DB     *gorm.DB
	Mailer notify.Mailer
}

func NewReminderService(db *gorm.DB, mailer notify.Mailer) *ReminderService {
	return &ReminderService{DB: db, Mailer: mailer}
}

// SweepResult reports one sweep run.
type SweepResult struct {
	RemindersSent int         `json:"remindersSent"`
	Window        SweepWindow `json:"window"`
}

// SweepWindow is the absolute time range a sweep covered.
type SweepWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Sweep selects scheduled meetings inside the reminder window that have
// not been reminded, emails each client that has an address, then marks
// every selected row in one bulk update. A re-run skips marked rows. A
// crash between send and mark can duplicate an email on the next run,
// which the window granularity accepts.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	from := now.Add(reminderWindowFrom)
	to := now.Add(reminderWindowTo)

	var upcoming []models.Request
	err := s.DB.WithContext(ctx).
		Preload("Client").
		Where("status = ?", models.RequestStatusMeetingScheduled).
		Where("meeting_start_at >= ? AND meeting_start_at <= ?", from, to).
		Where("meeting_reminder_sent_at IS NULL").
		Limit(reminderBatchLimit).
		Find(&upcoming).Error
	if err != nil {
		return nil, err
	}

	for _, item := range upcoming {
		if item.Client == nil || item.Client.Email == "" || item.MeetingStartAt == nil {
			continue
		}
		msg := notify.Message{
			To:      []string{item.Client.Email},
			Subject: "یادآوری جلسه مشاوره فرما",
			HTML: fmt.Sprintf(
				"<p>یادآوری جلسه مشاوره شما برای درخواست <strong>%s</strong></p><p>زمان جلسه: <strong>%s</strong></p><p>در صورت نیاز به تغییر زمان، از طریق پرتال با تیم فرما در ارتباط باشید.</p>",
				item.ID, fa.FormatJalali(*item.MeetingStartAt, true),
			),
		}
		if err := s.Mailer.Send(ctx, msg); err != nil {
			log.Printf("reminder %s: send failed: %v", item.ID, err)
		}
	}

	if len(upcoming) > 0 {
		ids := make([]string, len(upcoming))
		for i, item := range upcoming {
			ids[i] = item.ID
		}
		err = s.DB.WithContext(ctx).
			Model(&models.Request{}).
			Where("id IN ?", ids).
			Update("meeting_reminder_sent_at", now).Error
		if err != nil {
			return nil, err
		}
	}

	return &SweepResult{RemindersSent: len(upcoming), Window: SweepWindow{From: from, To: to}}, nil
}
