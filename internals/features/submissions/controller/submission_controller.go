// file: internals/features/submissions/controller/submission_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	blogModel "schoolchamps_backend/internals/features/blogs/model"
	"schoolchamps_backend/internals/features/submissions/dto"
	"schoolchamps_backend/internals/features/submissions/model"
	"schoolchamps_backend/internals/features/workflow"
	helper "schoolchamps_backend/internals/helpers"
	helperAuth "schoolchamps_backend/internals/middlewares/auth"
)

type SubmissionController struct {
	DB *gorm.DB
}

func NewSubmissionController(db *gorm.DB) *SubmissionController {
	return &SubmissionController{DB: db}
}

// POST /api/submissions — school pitches a story (multipart, attachments
// converted to WebP and stored as ordered URLs)
func (ctl *SubmissionController) Create(c *fiber.Ctx) error {
	role := helperAuth.GetRole(c)

	// resolve the owning school: school users from their token, admin
	// from an explicit field
	schoolID := helperAuth.GetSchoolID(c)
	if role == constants.RoleAdmin {
		if raw := strings.TrimSpace(c.FormValue("school_id")); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "invalid school_id")
			}
			schoolID = parsed
		}
	}
	if schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "school context is required")
	}

	var body dto.CreateSubmissionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := helper.ValidateStruct(c, &body); err != nil {
		return err
	}

	// attachments are optional, order preserved
	var attachments []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["attachments"] {
			url, err := helper.SaveUploadedImage("submissions", fh)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "attachment "+fh.Filename+": "+err.Error())
			}
			attachments = append(attachments, url)
		}
	}

	sub := model.SubmissionModel{
		SubmissionID:          uuid.New(),
		SubmissionSchoolID:    schoolID,
		SubmissionTitle:       strings.TrimSpace(body.Title),
		SubmissionDescription: body.Description,
		SubmissionCategory:    model.SubmissionCategory(body.Category),
		SubmissionAttachments: pq.StringArray(attachments),
		SubmissionStatus:      workflow.StatusSubmittedSchool,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&sub).Error; err != nil {
		log.Println("[ERROR] create submission:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create submission")
	}
	return helper.JsonCreated(c, "Submission created", sub)
}

// GET /api/submissions?status=&school_id=
func (ctl *SubmissionController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.SubmissionModel{})
	if helperAuth.GetRole(c) == constants.RoleSchool {
		q = q.Where("submission_school_id = ?", helperAuth.GetSchoolID(c))
	} else if sid := strings.TrimSpace(c.Query("school_id")); sid != "" {
		schoolID, err := uuid.Parse(sid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid school_id")
		}
		q = q.Where("submission_school_id = ?", schoolID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !workflow.Status(status).Valid(workflow.EntitySubmission) {
			return helper.JsonError(c, fiber.StatusBadRequest, "unknown submission status")
		}
		q = q.Where("submission_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count submissions")
	}

	var subs []model.SubmissionModel
	if err := q.
		Order("submission_created_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&subs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load submissions")
	}
	return helper.JsonList(c, "ok", subs, helper.BuildPagination(total, paging))
}

// GET /api/submissions/:id
func (ctl *SubmissionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || id == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	q := ctl.DB.WithContext(c.UserContext())
	if helperAuth.GetRole(c) == constants.RoleSchool {
		q = q.Where("submission_school_id = ?", helperAuth.GetSchoolID(c))
	}

	var sub model.SubmissionModel
	if err := q.Where("submission_id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load submission")
	}
	return helper.JsonOK(c, "ok", sub)
}

// PUT /api/submissions/:id — writer assignment. Status never moves here:
// it only advances through the drafting/publish flow.
func (ctl *SubmissionController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || id == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var body dto.UpdateSubmissionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if body.AssignedTo == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "nothing to update")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Model(&model.SubmissionModel{}).
		Where("submission_id = ?", id).
		Update("submission_assigned_to", body.AssignedTo)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update submission")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "submission not found")
	}
	return helper.JsonUpdated(c, "Submission updated", fiber.Map{
		"submission_id": id,
		"assigned_to":   body.AssignedTo,
	})
}

// DELETE /api/submissions/:id — refused while a dependent blog exists
func (ctl *SubmissionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || id == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var dependentBlogs int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&blogModel.BlogModel{}).
		Where("blog_submission_id = ?", id).
		Count(&dependentBlogs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check dependents")
	}
	if dependentBlogs > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "submission has a dependent blog and cannot be deleted")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("submission_id = ?", id).
		Delete(&model.SubmissionModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete submission")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "submission not found")
	}
	return helper.JsonDeleted(c, "Submission deleted", fiber.Map{"submission_id": id})
}
