// file: internals/features/schools/controller/school_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	"schoolchamps_backend/internals/features/schools/dto"
	"schoolchamps_backend/internals/features/schools/model"
	helper "schoolchamps_backend/internals/helpers"
	"schoolchamps_backend/internals/middlewares/auth"
)

type SchoolController struct {
	DB *gorm.DB
}

func NewSchoolController(db *gorm.DB) *SchoolController {
	return &SchoolController{DB: db}
}

// selfOnly rejects school actors reaching for a school that is not theirs.
func selfOnly(c *fiber.Ctx, schoolID uuid.UUID) error {
	if auth.GetRole(c) != constants.RoleSchool {
		return nil
	}
	if auth.GetSchoolID(c) != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "You may only access your own school")
	}
	return nil
}

/* =========================================================
   CRUD
   ========================================================= */

// GET /api/schools
func (ctrl *SchoolController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.Context()).Model(&model.SchoolModel{})
	if auth.GetRole(c) == constants.RoleSchool {
		q = q.Where("school_id = ?", auth.GetSchoolID(c))
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("school_is_active = ?", active == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count schools")
	}
	var schools []model.SchoolModel
	if err := q.Order("school_name asc").Offset(paging.Offset).Limit(paging.Limit).Find(&schools).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load schools")
	}
	return helper.JsonList(c, "OK", schools, helper.BuildPagination(total, paging))
}

// GET /api/schools/:id
func (ctrl *SchoolController) GetByID(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if err := selfOnly(c, schoolID); err != nil {
		return err
	}

	var school model.SchoolModel
	if err := ctrl.DB.WithContext(c.Context()).Where("school_id = ?", schoolID).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}
	return helper.JsonOK(c, "OK", school)
}

// POST /api/schools  (admin)
func (ctrl *SchoolController) Create(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	school := req.ToModel()
	if err := ctrl.DB.WithContext(c.Context()).Create(&school).Error; err != nil {
		log.Printf("[SCHOOL] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create school")
	}
	return helper.JsonCreated(c, "School created", school)
}

// PUT /api/schools/:id
func (ctrl *SchoolController) Update(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if err := selfOnly(c, schoolID); err != nil {
		return err
	}

	var req dto.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	var school model.SchoolModel
	if err := ctrl.DB.WithContext(c.Context()).Where("school_id = ?", schoolID).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}

	req.ApplyToModel(&school)
	if err := ctrl.DB.WithContext(c.Context()).Save(&school).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update school")
	}
	return helper.JsonUpdated(c, "School updated", school)
}

// POST /api/schools/:id/logo
func (ctrl *SchoolController) UploadLogo(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if err := selfOnly(c, schoolID); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Logo file is required")
	}
	url, err := helper.SaveUploadedImage("schools", fileHeader)
	if err != nil {
		log.Printf("[SCHOOL] logo upload failed school=%s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	res := ctrl.DB.WithContext(c.Context()).Model(&model.SchoolModel{}).
		Where("school_id = ?", schoolID).Update("school_logo_url", url)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store logo")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "School not found")
	}
	return helper.JsonUpdated(c, "Logo uploaded", fiber.Map{"school_logo_url": url})
}
