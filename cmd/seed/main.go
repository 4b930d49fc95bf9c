package main

import (
	"log"
	"os"
	"time"

	"github.com/forma-studio/forma-portal/internal/config"
	"github.com/forma-studio/forma-portal/internal/database"
	"github.com/forma-studio/forma-portal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed binary: creates the super admin from SEED_ADMIN_EMAIL /
// SEED_ADMIN_PASSWORD and, with SEED_DEMO=true, demo content and slots.
// Idempotent; existing rows are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if os.Getenv("SEED_DEMO") == "true" {
		if err := seedDemo(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	log.Println("Seed complete")
}

func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Admin %s already exists", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "مدیر فرما",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Created super admin %s", email)
	return nil
}

func seedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		projects := []models.Project{
			{
				Slug:          "villa-lavasan",
				TitleFa:       "ویلای لواسان",
				Category:      models.ProjectCategoryVilla,
				LocationFa:    "لواسان",
				Year:          2023,
				AreaSqm:       450,
				ScopeFa:       "طراحی و اجرا",
				DescriptionFa: "ویلای دوبلکس با نمای بتن اکسپوز و پنجره‌های سرتاسری رو به کوهستان.",
				Featured:      true,
				Published:     true,
				CoverImageURL: "projects/demo/villa-lavasan.webp",
			},
			{
				Slug:          "cafe-valiasr",
				TitleFa:       "کافه ولیعصر",
				Category:      models.ProjectCategoryCafe,
				LocationFa:    "تهران، ولیعصر",
				Year:          2024,
				AreaSqm:       120,
				ScopeFa:       "بازسازی",
				DescriptionFa: "بازسازی کامل کافه با متریال چوب و آجر و نورپردازی گرم.",
				Published:     true,
				CoverImageURL: "projects/demo/cafe-valiasr.webp",
			},
		}
		if err := db.Create(&projects).Error; err != nil {
			return err
		}
		log.Printf("Created %d demo projects", len(projects))
	}

	if err := db.Model(&models.ContentBlock{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hero := models.ContentBlock{
			Key:       "home.hero",
			ContentFa: datatypes.JSON([]byte(`{"title":"استودیو معماری فرما","subtitle":"طراحی و اجرای فضاهای ماندگار"}`)),
			ContentEn: datatypes.JSON([]byte(`{"title":"Forma Architecture Studio","subtitle":"Designing spaces that last"}`)),
		}
		if err := db.Create(&hero).Error; err != nil {
			return err
		}
		log.Println("Created demo content blocks")
	}

	if err := db.Model(&models.AvailabilitySlot{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		base := time.Now().AddDate(0, 0, 1).Truncate(time.Hour)
		slots := make([]models.AvailabilitySlot, 0, 5)
		for i := 0; i < 5; i++ {
			start := base.Add(time.Duration(i*24) * time.Hour)
			slots = append(slots, models.AvailabilitySlot{
				StartAt: start,
				EndAt:   start.Add(time.Hour),
			})
		}
		if err := db.Create(&slots).Error; err != nil {
			return err
		}
		log.Printf("Created %d demo availability slots", len(slots))
	}

	return nil
}
