package services

import (
	"context"
	"errors"
	"testing"

	"github.com/forma-studio/forma-portal/internal/models"
	"gorm.io/datatypes"
)

func TestListProjectsPublishedAndFeaturedFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewContentService(db)

	projects := []models.Project{
		{Slug: "draft", TitleFa: "پیش‌نویس", Category: models.ProjectCategoryVilla, LocationFa: "تهران", Year: 2024, AreaSqm: 100, ScopeFa: "طراحی", DescriptionFa: "توضیح", Published: false, CoverImageURL: "x"},
		{Slug: "plain", TitleFa: "عادی", Category: models.ProjectCategoryVilla, LocationFa: "تهران", Year: 2024, AreaSqm: 100, ScopeFa: "طراحی", DescriptionFa: "توضیح", Published: true, CoverImageURL: "x"},
		{Slug: "star", TitleFa: "شاخص", Category: models.ProjectCategoryCafe, LocationFa: "تهران", Year: 2023, AreaSqm: 100, ScopeFa: "طراحی", DescriptionFa: "توضیح", Published: true, Featured: true, CoverImageURL: "x"},
	}
	for i := range projects {
		if err := db.Create(&projects[i]).Error; err != nil {
			t.Fatalf("Failed to seed project: %v", err)
		}
	}

	listed, err := svc.ListProjects(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("Expected 2 published projects, got %d", len(listed))
	}
	if listed[0].Slug != "star" {
		t.Errorf("Featured project not first: %s", listed[0].Slug)
	}

	cafes, err := svc.ListProjects(context.Background(), models.ProjectCategoryCafe, 0)
	if err != nil {
		t.Fatalf("ListProjects with category failed: %v", err)
	}
	if len(cafes) != 1 || cafes[0].Slug != "star" {
		t.Errorf("Category filter wrong: %v", cafes)
	}

	if _, err := svc.ListProjects(context.Background(), "BOGUS", 0); err == nil {
		t.Errorf("Bogus category accepted")
	}
}

func TestGetProjectBySlugHidesUnpublished(t *testing.T) {
	db := openTestDB(t)
	svc := NewContentService(db)

	draft := models.Project{Slug: "hidden", TitleFa: "مخفی", Category: models.ProjectCategoryVilla, LocationFa: "تهران", Year: 2024, AreaSqm: 100, ScopeFa: "طراحی", DescriptionFa: "توضیح", Published: false, CoverImageURL: "x"}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	if _, err := svc.GetProjectBySlug(context.Background(), "hidden"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Unpublished project visible: %v", err)
	}
}

func TestGetContentBlock(t *testing.T) {
	db := openTestDB(t)
	svc := NewContentService(db)

	block := models.ContentBlock{
		Key:       "home.hero",
		ContentFa: datatypes.JSON([]byte(`{"title":"فرما"}`)),
	}
	if err := db.Create(&block).Error; err != nil {
		t.Fatalf("Failed to seed block: %v", err)
	}

	got, err := svc.GetContentBlock(context.Background(), "home.hero")
	if err != nil {
		t.Fatalf("GetContentBlock failed: %v", err)
	}
	if got.ID != block.ID {
		t.Errorf("Wrong block returned")
	}

	if _, err := svc.GetContentBlock(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Missing block: expected ErrNotFound, got %v", err)
	}
}
