// file: internals/features/blogs/controller/blog_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	"schoolchamps_backend/internals/features/blogs/dto"
	"schoolchamps_backend/internals/features/blogs/model"
	"schoolchamps_backend/internals/features/blogs/service"
	schoolModel "schoolchamps_backend/internals/features/schools/model"
	"schoolchamps_backend/internals/features/workflow"
	helper "schoolchamps_backend/internals/helpers"
	helperAuth "schoolchamps_backend/internals/middlewares/auth"
)

type BlogController struct {
	DB       *gorm.DB
	Workflow *service.WorkflowService
}

func NewBlogController(db *gorm.DB, wf *service.WorkflowService) *BlogController {
	return &BlogController{DB: db, Workflow: wf}
}

func parseBlogID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.New("invalid blog id")
	}
	return id, nil
}

// scopeForRole: school users only ever see blogs assigned to their school.
func (ctl *BlogController) scopeForRole(c *fiber.Ctx, q *gorm.DB) *gorm.DB {
	if helperAuth.GetRole(c) == constants.RoleSchool {
		return q.Where("blog_school_id = ?", helperAuth.GetSchoolID(c))
	}
	return q
}

// GET /api/blogs?status=&school_id=
func (ctl *BlogController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.BlogModel{})
	q = ctl.scopeForRole(c, q)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !workflow.Status(status).Valid(workflow.EntityBlog) {
			return helper.JsonError(c, fiber.StatusBadRequest, "unknown blog status")
		}
		q = q.Where("blog_status = ?", status)
	}
	if sid := strings.TrimSpace(c.Query("school_id")); sid != "" {
		schoolID, err := uuid.Parse(sid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid school_id")
		}
		q = q.Where("blog_school_id = ?", schoolID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count blogs")
	}

	var blogs []model.BlogModel
	if err := q.
		Order("blog_created_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&blogs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load blogs")
	}

	return helper.JsonList(c, "ok", blogs, helper.BuildPagination(total, paging))
}

// GET /api/blogs/:id
func (ctl *BlogController) GetByID(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var blog model.BlogModel
	q := ctl.scopeForRole(c, ctl.DB.WithContext(c.UserContext()))
	if err := q.Where("blog_id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load blog")
	}
	return helper.JsonOK(c, "ok", blog)
}

// PUT /api/blogs/:id — content edits, only while the blog is being drafted
// or revised. Published blogs are immutable.
func (ctl *BlogController) Update(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var body dto.UpdateBlogRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := helper.ValidateStruct(c, &body); err != nil {
		return err
	}

	var blog model.BlogModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("blog_id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load blog")
	}

	switch blog.BlogStatus {
	case workflow.StatusDraftCreated, workflow.StatusDraftWriter:
		// editable
	default:
		return helper.JsonError(c, fiber.StatusConflict, "blog is not editable in status "+string(blog.BlogStatus))
	}

	body.ApplyToModel(&blog)
	if err := ctl.DB.WithContext(c.UserContext()).Save(&blog).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save blog")
	}
	return helper.JsonUpdated(c, "Blog updated", blog)
}

// PUT /api/blogs/review/:id — the school's edit pass during review
func (ctl *BlogController) Review(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var body dto.UpdateBlogRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := helper.ValidateStruct(c, &body); err != nil {
		return err
	}

	var blog model.BlogModel
	q := ctl.scopeForRole(c, ctl.DB.WithContext(c.UserContext()))
	if err := q.Where("blog_id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load blog")
	}
	if blog.BlogStatus != workflow.StatusReview {
		return helper.JsonError(c, fiber.StatusConflict, "blog is not in review")
	}

	body.ApplyToModel(&blog)
	if err := ctl.DB.WithContext(c.UserContext()).Save(&blog).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save blog")
	}
	return helper.JsonUpdated(c, "Review changes saved", blog)
}

// POST /api/blogs/assign/:schoolId/:id
func (ctl *BlogController) AssignToSchool(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	schoolID, err := uuid.Parse(strings.TrimSpace(c.Params("schoolId")))
	if err != nil || schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid school id")
	}

	var school schoolModel.SchoolModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("school_id = ? AND school_is_active = true", schoolID).
		First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "school not found or inactive")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load school")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Model(&model.BlogModel{}).
		Where("blog_id = ?", id).
		Update("blog_school_id", schoolID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to assign blog")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
	}
	return helper.JsonUpdated(c, "Blog assigned to school", fiber.Map{
		"blog_id":   id,
		"school_id": schoolID,
	})
}

// POST /api/blogs/:id/image — featured image upload (WebP re-encode)
func (ctl *BlogController) UploadImage(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "image file is required")
	}

	url, err := helper.SaveUploadedImage("blogs", fileHeader)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Model(&model.BlogModel{}).
		Where("blog_id = ?", id).
		Update("blog_featured_image_url", url)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save image url")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
	}
	return helper.JsonUpdated(c, "Featured image uploaded", fiber.Map{"featured_image_url": url})
}

// DELETE /api/blogs/:id — admin only; published blogs stay (their
// wordpress_post_id must never be reused)
func (ctl *BlogController) Delete(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var blog model.BlogModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("blog_id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load blog")
	}
	if blog.BlogStatus == workflow.StatusPublishedWP {
		return helper.JsonError(c, fiber.StatusConflict, "published blogs cannot be deleted")
	}

	if err := ctl.DB.WithContext(c.UserContext()).Delete(&blog).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete blog")
	}
	return helper.JsonDeleted(c, "Blog deleted", fiber.Map{"blog_id": id})
}

// POST /api/blogs/:id/transition — drives the workflow state machine.
// The published_wp target is rejected here; it only happens through
// POST /api/blogs/:id/publish.
func (ctl *BlogController) Transition(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var body dto.TransitionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if !body.ToStatus.Valid(workflow.EntityBlog) {
		return helper.JsonError(c, fiber.StatusBadRequest, "unknown target status")
	}

	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	actor := service.Actor{
		UserID:   userID,
		Role:     helperAuth.GetRole(c),
		SchoolID: helperAuth.GetSchoolID(c),
	}

	blog, err := ctl.Workflow.RequestTransition(c.UserContext(), id, body.ToStatus, actor)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "blog not found")
		case errors.Is(err, workflow.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, workflow.ErrForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, workflow.ErrConflict):
			return helper.JsonError(c, fiber.StatusConflict, "blog changed concurrently, re-read and retry")
		case errors.Is(err, service.ErrDelegatedToPublisher):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "use POST /api/blogs/:id/publish to publish")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "transition failed")
		}
	}
	return helper.JsonUpdated(c, "Status updated", blog)
}
