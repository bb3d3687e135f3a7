// file: internals/features/admin/controller/admin_controller.go
package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	blogModel "schoolchamps_backend/internals/features/blogs/model"
	schoolModel "schoolchamps_backend/internals/features/schools/model"
	submissionModel "schoolchamps_backend/internals/features/submissions/model"
	userModel "schoolchamps_backend/internals/features/users/model"
	helper "schoolchamps_backend/internals/helpers"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

/* =========================================================
   OVERVIEW
   ========================================================= */

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Overview aggregates the numbers the admin dashboard shows.
// GET /api/admin/overview
func (ctrl *AdminController) Overview(c *fiber.Ctx) error {
	db := ctrl.DB.WithContext(c.Context())

	var schools, activeSchools, users int64
	if err := db.Model(&schoolModel.SchoolModel{}).Count(&schools).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to aggregate")
	}
	db.Model(&schoolModel.SchoolModel{}).Where("school_is_active = ?", true).Count(&activeSchools)
	db.Model(&userModel.UserModel{}).Count(&users)

	var blogsByStatus []statusCount
	db.Model(&blogModel.BlogModel{}).
		Select("blog_status as status, count(*) as count").
		Group("blog_status").Scan(&blogsByStatus)

	var submissionsByStatus []statusCount
	db.Model(&submissionModel.SubmissionModel{}).
		Select("submission_status as status, count(*) as count").
		Group("submission_status").Scan(&submissionsByStatus)

	var coinsInCirculation int64
	db.Model(&schoolModel.SchoolModel{}).
		Select("COALESCE(SUM(school_coins), 0)").Scan(&coinsInCirculation)

	return helper.JsonOK(c, "OK", fiber.Map{
		"schools":               schools,
		"active_schools":        activeSchools,
		"users":                 users,
		"blogs_by_status":       blogsByStatus,
		"submissions_by_status": submissionsByStatus,
		"coins_in_circulation":  coinsInCirculation,
	})
}

/* =========================================================
   USERS
   ========================================================= */

// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.Context()).Model(&userModel.UserModel{})
	if role := c.Query("role"); role != "" {
		q = q.Where("user_role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}
	var users []userModel.UserModel
	if err := q.Order("user_created_at desc").Offset(paging.Offset).Limit(paging.Limit).Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}
	return helper.JsonList(c, "OK", users, helper.BuildPagination(total, paging))
}

// ToggleUserActive flips a user's active flag; deactivated users fail
// token validation on their next request.
// PATCH /api/admin/users/:id/toggle-active
func (ctrl *AdminController) ToggleUserActive(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	res := ctrl.DB.WithContext(c.Context()).Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_is_active", gorm.Expr("NOT user_is_active"))
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to toggle user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	log.Printf("[ADMIN] toggled active flag user=%s", userID)
	return helper.JsonUpdated(c, "User toggled", fiber.Map{"user_id": userID})
}

/* =========================================================
   SCHOOLS
   ========================================================= */

// PATCH /api/admin/schools/:id/toggle-active
func (ctrl *AdminController) ToggleSchoolActive(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	res := ctrl.DB.WithContext(c.Context()).Model(&schoolModel.SchoolModel{}).
		Where("school_id = ?", schoolID).
		Update("school_is_active", gorm.Expr("NOT school_is_active"))
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to toggle school")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "School not found")
	}
	log.Printf("[ADMIN] toggled active flag school=%s", schoolID)
	return helper.JsonUpdated(c, "School toggled", fiber.Map{"school_id": schoolID})
}
