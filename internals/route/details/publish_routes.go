// file: internals/route/details/publish_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	"schoolchamps_backend/internals/constants"
	publishController "schoolchamps_backend/internals/features/publish/controller"
	"schoolchamps_backend/internals/middlewares/auth"
)

func PublishRoutes(api fiber.Router, ctrl *publishController.WordpressController) {
	api.Post("/blogs/:id/publish",
		auth.OnlyRoles(constants.RoleErrorSchool("publishing"), constants.PublishRoles...),
		ctrl.Publish)

	wp := api.Group("/wordpress",
		auth.OnlyRoles(constants.RoleErrorStaff("the WordPress passthrough"), constants.StaffRoles...))
	wp.Post("/media", ctrl.UploadMedia)
	wp.Get("/posts/:id", ctrl.GetPost)
}
