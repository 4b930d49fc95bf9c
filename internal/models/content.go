package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a published portfolio entry. Leads may reference one via
// Request.SourceProjectID ("I want something like this").
type Project struct {
	ID            string          `gorm:"type:char(36);primaryKey" json:"id"`
	Slug          string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	TitleFa       string          `gorm:"size:255;not null" json:"titleFa"`
	TitleEn       *string         `gorm:"size:255" json:"titleEn,omitempty"`
	Category      ProjectCategory `gorm:"size:32;not null;index" json:"category"`
	LocationFa    string          `gorm:"size:255;not null" json:"locationFa"`
	Year          int             `gorm:"not null" json:"year"`
	AreaSqm       int64           `gorm:"not null" json:"areaSqm"`
	ScopeFa       string          `gorm:"size:255;not null" json:"scopeFa"`
	DescriptionFa string          `gorm:"type:text;not null" json:"descriptionFa"`
	Featured      bool            `gorm:"not null;default:false;index" json:"featured"`
	Published     bool            `gorm:"not null;default:false;index" json:"published"`
	CoverImageURL string          `gorm:"size:512;not null" json:"coverImageUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ContentBlock is a keyed bilingual CMS fragment rendered by the public
// site. The portal only reads these; editing happens elsewhere.
type ContentBlock struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	Key       string         `gorm:"size:255;not null;uniqueIndex" json:"key"`
	ContentFa datatypes.JSON `gorm:"type:json" json:"contentFa"`
	ContentEn datatypes.JSON `gorm:"type:json" json:"contentEn,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *ContentBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for ContentBlock
func (ContentBlock) TableName() string {
	return "content_blocks"
}

// ContactMessage archives a public contact-form submission.
type ContactMessage struct {
	ID      string  `gorm:"type:char(36);primaryKey" json:"id"`
	Name    string  `gorm:"size:255;not null" json:"name"`
	Phone   string  `gorm:"size:32;not null" json:"phone"`
	Email   *string `gorm:"size:255" json:"email,omitempty"`
	Message string  `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"createdAt"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}
