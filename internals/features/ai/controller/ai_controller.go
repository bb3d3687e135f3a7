// file: internals/features/ai/controller/ai_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/features/ai/service"
	blogDto "schoolchamps_backend/internals/features/blogs/dto"
	blogModel "schoolchamps_backend/internals/features/blogs/model"
	blogsvc "schoolchamps_backend/internals/features/blogs/service"
	schoolModel "schoolchamps_backend/internals/features/schools/model"
	submissionModel "schoolchamps_backend/internals/features/submissions/model"
	"schoolchamps_backend/internals/features/workflow"
	helper "schoolchamps_backend/internals/helpers"
	"schoolchamps_backend/internals/middlewares/auth"
)

type AIController struct {
	DB *gorm.DB
	AI *service.Client
}

func NewAIController(db *gorm.DB, ai *service.Client) *AIController {
	return &AIController{DB: db, AI: ai}
}

/* =========================================================
   GENERATE DRAFT
   ========================================================= */

// GenerateDraft turns a fresh submission into a blog draft and advances
// the submission to draft_created.
// POST /api/submissions/:id/generate-draft
func (ctrl *AIController) GenerateDraft(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid submission id")
	}
	userID, err := auth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var submission submissionModel.SubmissionModel
	if err := ctrl.DB.WithContext(c.Context()).
		Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}
	if submission.SubmissionStatus != workflow.StatusSubmittedSchool {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity,
			"A draft already exists for this submission")
	}

	var school schoolModel.SchoolModel
	if err := ctrl.DB.WithContext(c.Context()).
		Where("school_id = ?", submission.SubmissionSchoolID).First(&school).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}

	draft, err := ctrl.AI.GenerateDraft(c.Context(), service.DraftInput{
		Title:       submission.SubmissionTitle,
		Description: submission.SubmissionDescription,
		Category:    string(submission.SubmissionCategory),
		SchoolName:  school.SchoolName,
	})
	if err != nil {
		log.Printf("[AI] draft generation failed submission=%s: %v", submissionID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Draft generation failed")
	}

	slug, err := helper.EnsureUniqueSlug(c.Context(), ctrl.DB,
		helper.Slugify(draft.Title, 200), "blogs", "blog_slug")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build slug")
	}

	schoolID := submission.SubmissionSchoolID
	blog := blogModel.BlogModel{
		BlogSubmissionID:    submission.SubmissionID,
		BlogTitle:           draft.Title,
		BlogContent:         draft.Content,
		BlogSlug:            slug,
		BlogMetaTitle:       draft.MetaTitle,
		BlogMetaDescription: draft.MetaDescription,
		BlogSEOKeywords:     pq.StringArray(draft.SEOKeywords),
		BlogTags:            pq.StringArray(draft.Tags),
		BlogCategory:        string(submission.SubmissionCategory),
		BlogReadingTime:     blogDto.EstimateReadingTime(draft.Content),
		BlogStatus:          workflow.StatusDraftCreated,
		BlogSchoolID:        &schoolID,
		BlogCreatedBy:       userID,
	}
	if len(submission.SubmissionAttachments) > 0 {
		first := submission.SubmissionAttachments[0]
		blog.BlogFeaturedImageURL = &first
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&blog).Error; err != nil {
			return err
		}
		// Strict CAS: if the submission already left submitted_school, a
		// concurrent call won the claim and this blog insert rolls back.
		return blogsvc.ClaimSubmissionStatus(tx, submission.SubmissionID,
			workflow.StatusSubmittedSchool, workflow.StatusDraftCreated)
	})
	if err != nil {
		if errors.Is(err, workflow.ErrConflict) {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity,
				"A draft already exists for this submission")
		}
		log.Printf("[AI] draft persist failed submission=%s: %v", submissionID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store draft")
	}

	log.Printf("[AI] draft created blog=%s from submission=%s", blog.BlogID, submissionID)
	return helper.JsonCreated(c, "Draft generated", blog)
}

/* =========================================================
   IMPROVE / PREVIEW
   ========================================================= */

type improveRequest struct {
	Instruction string `json:"instruction" validate:"required,max=1000"`
}

// ImproveContent rewrites a draft's content per instruction.
// POST /api/blogs/:id/ai/improve
func (ctrl *AIController) ImproveContent(c *fiber.Ctx) error {
	blogID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid blog id")
	}
	var req improveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	var blog blogModel.BlogModel
	if err := ctrl.DB.WithContext(c.Context()).Where("blog_id = ?", blogID).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load blog")
	}
	if blog.BlogStatus != workflow.StatusDraftCreated && blog.BlogStatus != workflow.StatusDraftWriter {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Only drafts can be rewritten")
	}

	content, err := ctrl.AI.ImproveContent(c.Context(), blog.BlogContent, req.Instruction)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Rewrite failed")
	}

	if err := ctrl.DB.WithContext(c.Context()).Model(&blogModel.BlogModel{}).
		Where("blog_id = ?", blogID).
		Updates(map[string]any{
			"blog_content":      content,
			"blog_reading_time": blogDto.EstimateReadingTime(content),
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store rewrite")
	}

	blog.BlogContent = content
	blog.BlogReadingTime = blogDto.EstimateReadingTime(content)
	return helper.JsonUpdated(c, "Content rewritten", blog)
}

// SocialPreview drafts the fan-out announcement for a published blog.
// POST /api/blogs/:id/ai/social-preview
func (ctrl *AIController) SocialPreview(c *fiber.Ctx) error {
	blogID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid blog id")
	}

	var blog blogModel.BlogModel
	if err := ctrl.DB.WithContext(c.Context()).Where("blog_id = ?", blogID).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load blog")
	}
	if blog.BlogStatus != workflow.StatusPublishedWP || blog.BlogWordpressURL == nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Blog is not published yet")
	}

	message, err := ctrl.AI.GenerateSocialPost(c.Context(), blog.BlogTitle, *blog.BlogWordpressURL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Preview generation failed")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"message": message})
}
