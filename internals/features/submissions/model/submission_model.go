// file: internals/features/submissions/model/submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/features/workflow"
)

/* =========================================================
   ENUM: SubmissionCategory
   ========================================================= */

type SubmissionCategory string

const (
	SubmissionCategoryNews         SubmissionCategory = "news"
	SubmissionCategoryAchievement  SubmissionCategory = "achievement"
	SubmissionCategoryEvent        SubmissionCategory = "event"
	SubmissionCategoryAnnouncement SubmissionCategory = "announcement"
	SubmissionCategoryOther        SubmissionCategory = "other"
)

func (c SubmissionCategory) Valid() bool {
	switch c {
	case SubmissionCategoryNews, SubmissionCategoryAchievement,
		SubmissionCategoryEvent, SubmissionCategoryAnnouncement, SubmissionCategoryOther:
		return true
	default:
		return false
	}
}

/* =========================================================
   MODEL: submissions

   Status advances only forward through the linear submission
   table (workflow.EntitySubmission); all mutation goes through
   the state machine. A submission with a dependent blog is
   never deleted.
   ========================================================= */

type SubmissionModel struct {
	SubmissionID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:submission_id" json:"submission_id"`
	SubmissionSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:submission_school_id" json:"submission_school_id"`

	SubmissionTitle       string             `gorm:"type:varchar(200);not null;column:submission_title" json:"submission_title"`
	SubmissionDescription string             `gorm:"type:text;not null;column:submission_description" json:"submission_description"`
	SubmissionCategory    SubmissionCategory `gorm:"type:varchar(16);not null;column:submission_category" json:"submission_category"`

	// Ordered blob references (image URLs after WebP conversion)
	SubmissionAttachments pq.StringArray `gorm:"type:text[];column:submission_attachments" json:"submission_attachments"`

	SubmissionStatus workflow.Status `gorm:"type:varchar(24);not null;default:'submitted_school';index;column:submission_status" json:"submission_status"`

	// Writer the story is assigned to (nullable)
	SubmissionAssignedTo *uuid.UUID `gorm:"type:uuid;column:submission_assigned_to" json:"submission_assigned_to,omitempty"`

	// Audit
	SubmissionCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:submission_created_at" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:submission_updated_at" json:"submission_updated_at"`
	SubmissionDeletedAt gorm.DeletedAt `gorm:"column:submission_deleted_at;index" json:"submission_deleted_at,omitempty"`
}

func (SubmissionModel) TableName() string { return "submissions" }
