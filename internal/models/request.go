package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestType distinguishes estimate leads from consultation bookings.
type RequestType string

const (
	RequestTypeEstimate     RequestType = "ESTIMATE"
	RequestTypeConsultation RequestType = "CONSULTATION"
)

// RequestStatus is the lifecycle state of a lead. Progression is
// staff-driven and deliberately permissive: any status may follow any
// other. WON, LOST and ARCHIVED are terminal by policy only.
type RequestStatus string

const (
	RequestStatusNew              RequestStatus = "NEW"
	RequestStatusInReview         RequestStatus = "IN_REVIEW"
	RequestStatusNeedsInfo        RequestStatus = "NEEDS_INFO"
	RequestStatusEstimateSent     RequestStatus = "ESTIMATE_SENT"
	RequestStatusMeetingScheduled RequestStatus = "MEETING_SCHEDULED"
	RequestStatusWon              RequestStatus = "WON"
	RequestStatusLost             RequestStatus = "LOST"
	RequestStatusArchived         RequestStatus = "ARCHIVED"
)

// ProjectCategory classifies the property a lead concerns.
type ProjectCategory string

const (
	ProjectCategoryResidential ProjectCategory = "RESIDENTIAL"
	ProjectCategoryVilla       ProjectCategory = "VILLA"
	ProjectCategoryCommercial  ProjectCategory = "COMMERCIAL"
	ProjectCategoryOffice      ProjectCategory = "OFFICE"
	ProjectCategoryCafe        ProjectCategory = "CAFE"
	ProjectCategoryRestaurant  ProjectCategory = "RESTAURANT"
)

// RequestScope is the engagement model requested by the client.
type RequestScope string

const (
	RequestScopeDesignOnly  RequestScope = "DESIGN_ONLY"
	RequestScopeDesignBuild RequestScope = "DESIGN_BUILD"
	RequestScopeRenovation  RequestScope = "RENOVATION"
)

// ContactMethod is the client's preferred follow-up channel.
type ContactMethod string

const (
	ContactMethodPhone    ContactMethod = "PHONE"
	ContactMethodWhatsApp ContactMethod = "WHATSAPP"
	ContactMethodEmail    ContactMethod = "EMAIL"
)

// Persian display labels, used by the status-change audit notes and emails.
var (
	RequestTypeLabelsFa = map[RequestType]string{
		RequestTypeEstimate:     "درخواست برآورد",
		RequestTypeConsultation: "درخواست مشاوره",
	}

	RequestStatusLabelsFa = map[RequestStatus]string{
		RequestStatusNew:              "جدید",
		RequestStatusInReview:         "در حال بررسی",
		RequestStatusNeedsInfo:        "نیاز به اطلاعات",
		RequestStatusEstimateSent:     "برآورد ارسال شد",
		RequestStatusMeetingScheduled: "جلسه تنظیم شد",
		RequestStatusWon:              "موفق",
		RequestStatusLost:             "ناموفق",
		RequestStatusArchived:         "بایگانی",
	}

	ProjectCategoryLabelsFa = map[ProjectCategory]string{
		ProjectCategoryResidential: "مسکونی",
		ProjectCategoryVilla:       "ویلا",
		ProjectCategoryCommercial:  "تجاری",
		ProjectCategoryOffice:      "اداری",
		ProjectCategoryCafe:        "کافه",
		ProjectCategoryRestaurant:  "رستوران",
	}

	RequestScopeLabelsFa = map[RequestScope]string{
		RequestScopeDesignOnly:  "فقط طراحی",
		RequestScopeDesignBuild: "طراحی + اجرا",
		RequestScopeRenovation:  "بازسازی",
	}

	ContactMethodLabelsFa = map[ContactMethod]string{
		ContactMethodPhone:    "تلفن",
		ContactMethodWhatsApp: "واتساپ",
		ContactMethodEmail:    "ایمیل",
	}
)

// Request is a sales lead: an estimate request or a booked consultation.
// It exclusively owns its files, messages, notes and estimate.
type Request struct {
	ID     string        `gorm:"type:char(36);primaryKey" json:"id"`
	Type   RequestType   `gorm:"size:32;not null;index" json:"type"`
	Status RequestStatus `gorm:"size:32;not null;default:'NEW';index" json:"status"`

	ClientID     string  `gorm:"type:char(36);not null;index" json:"clientId"`
	AssignedToID *string `gorm:"type:char(36);index" json:"assignedToId,omitempty"`

	ProjectType            ProjectCategory `gorm:"size:32;not null" json:"projectType"`
	LocationCityFa         string          `gorm:"size:255;not null" json:"locationCityFa"`
	AddressFa              string          `gorm:"type:text;not null" json:"addressFa"`
	MapPinLat              *float64        `json:"mapPinLat,omitempty"`
	MapPinLng              *float64        `json:"mapPinLng,omitempty"`
	AreaSqm                *int64          `json:"areaSqm,omitempty"`
	Scope                  RequestScope    `gorm:"size:32;not null" json:"scope"`
	BudgetMin              *int64          `json:"budgetMin,omitempty"`
	BudgetMax              *int64          `json:"budgetMax,omitempty"`
	BudgetRangeText        *string         `gorm:"size:255" json:"budgetRangeText,omitempty"`
	TimelineTarget         *string         `gorm:"size:255" json:"timelineTarget,omitempty"`
	DescriptionFa          string          `gorm:"type:text;not null" json:"descriptionFa"`
	PreferredContactMethod ContactMethod   `gorm:"size:32;not null" json:"preferredContactMethod"`

	// Set only for consultations whose slot claim succeeded.
	MeetingStartAt        *time.Time `json:"meetingStartAt,omitempty"`
	MeetingEndAt          *time.Time `json:"meetingEndAt,omitempty"`
	MeetingReminderSentAt *time.Time `json:"meetingReminderSentAt,omitempty"`

	SourceProjectID *string `gorm:"type:char(36)" json:"sourceProjectId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Client     *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	AssignedTo *User            `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Files      []RequestFile    `gorm:"constraint:OnDelete:CASCADE" json:"files,omitempty"`
	Messages   []RequestMessage `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	Notes      []RequestNote    `gorm:"constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	Estimate   *Estimate        `gorm:"constraint:OnDelete:CASCADE" json:"estimate,omitempty"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Request
func (Request) TableName() string {
	return "requests"
}

// Estimate is the staff quote attached to a request, at most one per
// request (unique requestId). Re-sending updates the row in place and
// refreshes SentAt.
type Estimate struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	RequestID        string    `gorm:"type:char(36);not null;uniqueIndex" json:"requestId"`
	CostAmount       int64     `gorm:"not null" json:"costAmount"`
	Currency         string    `gorm:"size:8;not null;default:'IRR'" json:"currency"`
	TimeEstimateText string    `gorm:"size:255;not null" json:"timeEstimateText"`
	NextStepsFa      string    `gorm:"type:text;not null" json:"nextStepsFa"`
	SentAt           time.Time `gorm:"not null" json:"sentAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Estimate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Estimate
func (Estimate) TableName() string {
	return "estimates"
}

// RequestFile is an uploaded attachment. The DB row is authoritative;
// the backing object is removed best-effort on delete.
type RequestFile struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	RequestID string `gorm:"type:char(36);not null;index" json:"requestId"`
	ObjectKey string `gorm:"size:512;not null" json:"objectKey"`
	FileName  string `gorm:"size:255;not null" json:"fileName"`
	FileType  string `gorm:"size:128;not null" json:"fileType"`
	SizeBytes int64  `gorm:"not null" json:"sizeBytes"`

	CreatedAt time.Time `json:"createdAt"`

	Request *Request `gorm:"foreignKey:RequestID" json:"-"`
}

func (f *RequestFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for RequestFile
func (RequestFile) TableName() string {
	return "request_files"
}

// RequestMessage is one entry of the client<->staff conversation.
// Append-only, displayed oldest first.
type RequestMessage struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	RequestID string `gorm:"type:char(36);not null;index" json:"requestId"`
	AuthorID  string `gorm:"type:char(36);not null" json:"authorId"`
	Message   string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (m *RequestMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for RequestMessage
func (RequestMessage) TableName() string {
	return "request_messages"
}

// RequestNote is a staff-only audit entry, displayed newest first.
// Append-only.
type RequestNote struct {
	ID        string `gorm:"type:char(36);primaryKey" json:"id"`
	RequestID string `gorm:"type:char(36);not null;index" json:"requestId"`
	AuthorID  string `gorm:"type:char(36);not null" json:"authorId"`
	Note      string `gorm:"type:text;not null" json:"note"`

	CreatedAt time.Time `json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (n *RequestNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for RequestNote
func (RequestNote) TableName() string {
	return "request_notes"
}
