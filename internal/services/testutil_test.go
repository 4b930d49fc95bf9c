package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// openTestDB creates a fresh in-memory SQLite database. The named shared
// DSN plus a single connection keeps GORM's pool from silently opening a
// second, empty memory database mid-test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("svc_test_%d", atomic.AddInt64(&testDBCounter, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.AvailabilitySlot{},
		&models.Request{},
		&models.RequestFile{},
		&models.RequestMessage{},
		&models.RequestNote{},
		&models.Estimate{},
		&models.Project{},
		&models.ContentBlock{},
		&models.ContactMessage{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// recordingMailer captures sent messages for assertions.
type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func createClient(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Name:  "کاربر تست",
		Email: email,
		Role:  models.RoleClient,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return &user
}

func createStaff(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Name:  "کارشناس تست",
		Email: email,
		Role:  role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create staff: %v", err)
	}
	return &user
}

func createSlot(t *testing.T, db *gorm.DB, start time.Time) *models.AvailabilitySlot {
	t.Helper()
	slot := models.AvailabilitySlot{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to create slot: %v", err)
	}
	return &slot
}

// validCreateInput is a minimal well-formed estimate lead payload.
func validCreateInput() *CreateRequestInput {
	return &CreateRequestInput{
		Type:                   models.RequestTypeEstimate,
		ProjectType:            models.ProjectCategoryResidential,
		LocationCityFa:         "تهران",
		AddressFa:              "خیابان ولیعصر، پلاک ۱۰",
		Scope:                  models.RequestScopeDesignBuild,
		DescriptionFa:          "بازسازی کامل واحد مسکونی صد متری",
		PreferredContactMethod: models.ContactMethodPhone,
	}
}
