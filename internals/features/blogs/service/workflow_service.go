// file: internals/features/blogs/service/workflow_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	blogModel "schoolchamps_backend/internals/features/blogs/model"
	submissionModel "schoolchamps_backend/internals/features/submissions/model"
	"schoolchamps_backend/internals/features/workflow"
)

// ErrDelegatedToPublisher: the approved_school → published_wp transition is
// never committed here; only the publish orchestrator may execute it.
var ErrDelegatedToPublisher = errors.New("publish transitions are executed by the publish orchestrator")

// Actor is the verified identity driving a transition (claims from the JWT,
// never client-supplied fields).
type Actor struct {
	UserID   uuid.UUID
	Role     string
	SchoolID uuid.UUID
}

/* =========================================================
   WORKFLOW STATE MACHINE (blog)

   One atomic unit per transition:
     load → structural check → guard check → CAS write.
   The CAS (`WHERE blog_status = <read state>`) detects a
   concurrent writer; the caller retries after re-reading.
   ========================================================= */

type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

func (s *WorkflowService) RequestTransition(ctx context.Context, blogID uuid.UUID, to workflow.Status, actor Actor) (*blogModel.BlogModel, error) {
	if to == workflow.StatusPublishedWP {
		return nil, ErrDelegatedToPublisher
	}

	var blog blogModel.BlogModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) load
		if err := tx.Where("blog_id = ?", blogID).First(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflow.ErrNotFound
			}
			return err
		}
		from := blog.BlogStatus

		// 2) structural check, role-independent
		if !workflow.IsTransition(workflow.EntityBlog, from, to) {
			return fmt.Errorf("%w: blog %s→%s", workflow.ErrInvalidTransition, from, to)
		}

		// 3) guard check
		if !workflow.CanTransition(actor.Role, workflow.EntityBlog, from, to) {
			return fmt.Errorf("%w: role %s for %s→%s", workflow.ErrForbidden, actor.Role, from, to)
		}
		if err := CheckSchoolScope(actor, blog.BlogSchoolID); err != nil {
			return err
		}

		// 4) compare-and-set
		res := tx.Model(&blogModel.BlogModel{}).
			Where("blog_id = ? AND blog_status = ?", blogID, from).
			Update("blog_status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflow.ErrConflict
		}
		blog.BlogStatus = to

		// keep the linear submission mirror in step: the first time a blog
		// enters review its submission advances draft_created → review.
		// Zero rows affected means it already advanced (revision round trip).
		if to == workflow.StatusReview {
			if err := SyncSubmissionStatus(tx, blog.BlogSubmissionID,
				workflow.StatusDraftCreated, workflow.StatusReview); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// CheckSchoolScope rejects school actors acting on blogs that are not
// assigned to them. Other roles pass through.
func CheckSchoolScope(actor Actor, blogSchoolID *uuid.UUID) error {
	if actor.Role != constants.RoleSchool {
		return nil
	}
	if blogSchoolID == nil || *blogSchoolID != actor.SchoolID {
		return fmt.Errorf("%w: blog not assigned to this school", workflow.ErrForbidden)
	}
	return nil
}

// SyncSubmissionStatus advances a submission along its linear table with a
// best-effort CAS: a zero-row update means the submission already moved,
// which is fine for mirror updates driven by blog-side events.
func SyncSubmissionStatus(tx *gorm.DB, submissionID uuid.UUID, from, to workflow.Status) error {
	if !workflow.IsTransition(workflow.EntitySubmission, from, to) {
		return fmt.Errorf("%w: submission %s→%s", workflow.ErrInvalidTransition, from, to)
	}
	res := tx.Model(&submissionModel.SubmissionModel{}).
		Where("submission_id = ? AND submission_status = ?", submissionID, from).
		Update("submission_status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[WORKFLOW] submission %s already past %s, mirror skip", submissionID, from)
	}
	return nil
}

// ClaimSubmissionStatus is the strict form of SyncSubmissionStatus for
// transitions that create something: losing the CAS is an ErrConflict so
// the caller's transaction rolls back instead of committing a duplicate.
func ClaimSubmissionStatus(tx *gorm.DB, submissionID uuid.UUID, from, to workflow.Status) error {
	if !workflow.IsTransition(workflow.EntitySubmission, from, to) {
		return fmt.Errorf("%w: submission %s→%s", workflow.ErrInvalidTransition, from, to)
	}
	res := tx.Model(&submissionModel.SubmissionModel{}).
		Where("submission_id = ? AND submission_status = ?", submissionID, from).
		Update("submission_status", to)
	if res.Error != nil {
		return res.Error
	}
	return claimOutcome(res.RowsAffected, submissionID, from)
}

func claimOutcome(rowsAffected int64, submissionID uuid.UUID, from workflow.Status) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: submission %s already moved past %s", workflow.ErrConflict, submissionID, from)
	}
	return nil
}
