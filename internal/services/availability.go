package services

import (
	"context"
	"errors"
	"time"

	"github.com/forma-studio/forma-portal/internal/models"
	"gorm.io/gorm"
)

// MaxRepeatWeeks caps the weekly-repeat batch size for slot creation.
const MaxRepeatWeeks = 24

// AvailabilityService manages bookable consultation slots. It owns the
// "is this slot still free" invariant; the claim is a single conditional
// update so concurrent claimants are decided by row-level atomicity in the
// database, not by application locking.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// CreateSlots inserts repeatWeeks slots, each offset n*7 days from the
// base window, in one batch. Overlap between slots is allowed: staff may
// intentionally publish adjoining windows. Returns the number created.
func (s *AvailabilityService) CreateSlots(ctx context.Context, startAt, endAt time.Time, repeatWeeks int) (int, error) {
	if !startAt.Before(endAt) {
		return 0, invalid("startAt", "زمان شروع باید قبل از پایان باشد.")
	}
	if repeatWeeks < 1 {
		repeatWeeks = 1
	}
	if repeatWeeks > MaxRepeatWeeks {
		return 0, invalid("repeatWeeks", "حداکثر تکرار هفتگی مجاز نیست.")
	}

	slots := make([]models.AvailabilitySlot, repeatWeeks)
	for i := 0; i < repeatWeeks; i++ {
		offset := time.Duration(i) * 7 * 24 * time.Hour
		slots[i] = models.AvailabilitySlot{
			StartAt: startAt.Add(offset),
			EndAt:   endAt.Add(offset),
		}
	}

	if err := s.DB.WithContext(ctx).Create(&slots).Error; err != nil {
		return 0, err
	}
	return len(slots), nil
}

// DeleteSlot removes a free slot. Booked slots are immutable once
// claimed: deleting one would silently drop an in-flight or historical
// booking.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, id string) error {
	var slot models.AvailabilitySlot
	if err := s.DB.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if slot.IsBooked {
		return ErrSlotBooked
	}

	return s.DB.WithContext(ctx).Delete(&models.AvailabilitySlot{}, "id = ?", id).Error
}

// ListUpcomingFree returns unbooked future slots, soonest first.
func (s *AvailabilityService) ListUpcomingFree(ctx context.Context, limit int) ([]models.AvailabilitySlot, error) {
	if limit <= 0 {
		limit = 50
	}

	var slots []models.AvailabilitySlot
	err := s.DB.WithContext(ctx).
		Where("is_booked = ? AND start_at >= ?", false, time.Now()).
		Order("start_at ASC").
		Limit(limit).
		Find(&slots).Error
	return slots, err
}

// ListUpcoming returns all future slots for the admin calendar, booked
// ones included.
func (s *AvailabilityService) ListUpcoming(ctx context.Context, limit int) ([]models.AvailabilitySlot, error) {
	if limit <= 0 {
		limit = 200
	}

	var slots []models.AvailabilitySlot
	err := s.DB.WithContext(ctx).
		Where("start_at >= ?", time.Now()).
		Order("start_at ASC").
		Limit(limit).
		Find(&slots).Error
	return slots, err
}

// claimSlot transitions a slot from free to booked for requestID inside
// the caller's transaction. The conditional update is the sole
// concurrency-control mechanism: of any number of concurrent claimants,
// exactly one sees RowsAffected == 1. A zero row count means the slot
// never existed or was already booked; either way the caller must abort
// the whole transaction so no orphan request survives a lost race.
func claimSlot(tx *gorm.DB, slotID, requestID string) error {
	res := tx.Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Updates(map[string]interface{}{
			"is_booked":         true,
			"booked_request_id": requestID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotUnavailable
	}
	return nil
}
