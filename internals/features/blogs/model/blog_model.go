// file: internals/features/blogs/model/blog_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/features/workflow"
)

/* =========================================================
   MODEL: blogs

   The authored artifact derived 1:1 from a submission.
   BlogStatus only moves through the blog transition table
   (workflow.EntityBlog); published_wp is terminal and
   blog_wordpress_post_id is unique once set.
   ========================================================= */

type BlogModel struct {
	BlogID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:blog_id" json:"blog_id"`
	// One blog per submission, enforced at the database too.
	BlogSubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:blog_submission_id" json:"blog_submission_id"`

	BlogTitle   string `gorm:"type:varchar(200);not null;column:blog_title" json:"blog_title"`
	BlogContent string `gorm:"type:text;not null;column:blog_content" json:"blog_content"`
	BlogSlug    string `gorm:"type:varchar(220);not null;uniqueIndex;column:blog_slug" json:"blog_slug"`

	// SEO
	BlogMetaTitle       string         `gorm:"type:varchar(200);column:blog_meta_title" json:"blog_meta_title"`
	BlogMetaDescription string         `gorm:"type:varchar(320);column:blog_meta_description" json:"blog_meta_description"`
	BlogSEOKeywords     pq.StringArray `gorm:"type:text[];column:blog_seo_keywords" json:"blog_seo_keywords"`

	BlogTags     pq.StringArray `gorm:"type:text[];column:blog_tags" json:"blog_tags"`
	BlogCategory string         `gorm:"type:varchar(16);not null;column:blog_category" json:"blog_category"`

	BlogFeaturedImageURL *string `gorm:"type:text;column:blog_featured_image_url" json:"blog_featured_image_url,omitempty"`

	// minutes, >= 1
	BlogReadingTime int `gorm:"type:integer;not null;default:1;column:blog_reading_time" json:"blog_reading_time"`

	BlogStatus workflow.Status `gorm:"type:varchar(24);not null;default:'draft_created';index;column:blog_status" json:"blog_status"`

	// School the blog is assigned to (nullable until assigned)
	BlogSchoolID  *uuid.UUID `gorm:"type:uuid;index;column:blog_school_id" json:"blog_school_id,omitempty"`
	BlogCreatedBy uuid.UUID  `gorm:"type:uuid;not null;column:blog_created_by" json:"blog_created_by"`

	// Set only after a successful publish; never reused
	BlogWordpressPostID *int64     `gorm:"type:bigint;uniqueIndex;column:blog_wordpress_post_id" json:"blog_wordpress_post_id,omitempty"`
	BlogWordpressURL    *string    `gorm:"type:text;column:blog_wordpress_url" json:"blog_wordpress_url,omitempty"`
	BlogPublishedAt     *time.Time `gorm:"type:timestamptz;column:blog_published_at" json:"blog_published_at,omitempty"`

	// Audit
	BlogCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:blog_created_at" json:"blog_created_at"`
	BlogUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:blog_updated_at" json:"blog_updated_at"`
	BlogDeletedAt gorm.DeletedAt `gorm:"column:blog_deleted_at;index" json:"blog_deleted_at,omitempty"`
}

func (BlogModel) TableName() string { return "blogs" }
