// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	schoolController "schoolchamps_backend/internals/features/schools/controller"
	"schoolchamps_backend/internals/middlewares/auth"
)

func SchoolRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := schoolController.NewSchoolController(db)

	grp := api.Group("/schools")
	grp.Get("/", ctrl.List)
	grp.Get("/:id", ctrl.GetByID)
	grp.Post("/",
		auth.OnlyRoles(constants.RoleErrorAdmin("school creation"), constants.AdminOnly...),
		ctrl.Create)
	grp.Put("/:id",
		auth.OnlyRoles(constants.RoleErrorSchool("school profile"), constants.PublishRoles...),
		ctrl.Update)
	grp.Post("/:id/logo",
		auth.OnlyRoles(constants.RoleErrorSchool("school logo"), constants.PublishRoles...),
		ctrl.UploadLogo)
}
