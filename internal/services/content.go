package services

import (
	"context"
	"errors"

	"github.com/forma-studio/forma-portal/internal/models"
	"gorm.io/gorm"
)

// ContentService serves the read-only public site content: the portfolio
// and the keyed CMS blocks.
type ContentService struct {
	DB *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{DB: db}
}

// ListProjects returns published portfolio entries, featured ones first,
// then newest. An empty category means all categories.
func (s *ContentService) ListProjects(ctx context.Context, category models.ProjectCategory, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 60
	}

	q := s.DB.WithContext(ctx).Where("published = ?", true)
	if category != "" {
		if _, ok := models.ProjectCategoryLabelsFa[category]; !ok {
			return nil, invalid("category", "دسته‌بندی معتبر نیست.")
		}
		q = q.Where("category = ?", category)
	}

	var projects []models.Project
	err := q.Order("featured DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// GetProjectBySlug returns one published portfolio entry. Unpublished
// entries are invisible, not forbidden.
func (s *ContentService) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := s.DB.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetContentBlock returns the CMS fragment stored under key.
func (s *ContentService) GetContentBlock(ctx context.Context, key string) (*models.ContentBlock, error) {
	var block models.ContentBlock
	err := s.DB.WithContext(ctx).First(&block, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}
