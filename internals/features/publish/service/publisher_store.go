// file: internals/features/publish/service/publisher_store.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	blogModel "schoolchamps_backend/internals/features/blogs/model"
	blogsvc "schoolchamps_backend/internals/features/blogs/service"
	"schoolchamps_backend/internals/features/workflow"
)

// GormStore backs the publisher with the blogs table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadForPublish(ctx context.Context, blogID uuid.UUID) (*BlogSnapshot, error) {
	var blog blogModel.BlogModel
	if err := s.db.WithContext(ctx).Where("blog_id = ?", blogID).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	subID := blog.BlogSubmissionID
	return &BlogSnapshot{
		BlogID:       blog.BlogID,
		SubmissionID: &subID,
		SchoolID:     blog.BlogSchoolID,
		Status:       blog.BlogStatus,
		Title:        blog.BlogTitle,
		Content:      blog.BlogContent,
		Slug:         blog.BlogSlug,
		Excerpt:      blog.BlogMetaDescription,
	}, nil
}

func (s *GormStore) CommitPublished(ctx context.Context, snap *BlogSnapshot, postID int64, url string, publishedAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&blogModel.BlogModel{}).
			Where("blog_id = ? AND blog_status = ?", snap.BlogID, workflow.StatusApprovedSchool).
			Updates(map[string]any{
				"blog_status":            workflow.StatusPublishedWP,
				"blog_wordpress_post_id": postID,
				"blog_wordpress_url":     url,
				"blog_published_at":      publishedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflow.ErrConflict
		}

		if snap.SubmissionID != nil {
			if err := blogsvc.SyncSubmissionStatus(tx, *snap.SubmissionID,
				workflow.StatusReview, workflow.StatusPublishedWP); err != nil {
				// the blog is the source of truth; a stuck mirror is logged,
				// not rolled back
				log.Printf("[PUBLISH] submission mirror update failed for %s: %v", *snap.SubmissionID, err)
			}
		}
		return nil
	})
}
