// file: internals/route/details/admin_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	adminController "schoolchamps_backend/internals/features/admin/controller"
	"schoolchamps_backend/internals/middlewares/auth"
)

func AdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := adminController.NewAdminController(db)

	grp := api.Group("/admin",
		auth.OnlyRoles(constants.RoleErrorAdmin("the admin panel"), constants.AdminOnly...))
	grp.Get("/overview", ctrl.Overview)
	grp.Get("/users", ctrl.ListUsers)
	grp.Patch("/users/:id/toggle-active", ctrl.ToggleUserActive)
	grp.Patch("/schools/:id/toggle-active", ctrl.ToggleSchoolActive)
}
