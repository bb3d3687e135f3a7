// file: internals/route/details/social_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	"schoolchamps_backend/internals/constants"
	socialController "schoolchamps_backend/internals/features/social/controller"
	"schoolchamps_backend/internals/middlewares/auth"
)

func SocialRoutes(api fiber.Router, ctrl *socialController.SocialController) {
	canAnnounce := auth.OnlyRoles(constants.RoleErrorMarketer("social publishing"),
		constants.SocialRoles...)

	api.Post("/blogs/:id/social-fanout", canAnnounce, ctrl.FanoutBlog)

	grp := api.Group("/schools/:id/social", canAnnounce)
	grp.Get("/status", ctrl.Status)
	grp.Post("/facebook", ctrl.ConnectFacebook)
	grp.Get("/linkedin/auth-url", ctrl.LinkedInAuthURL)
	grp.Post("/linkedin/callback", ctrl.LinkedInCallback)
	grp.Post("/linkedin/select-organization", ctrl.LinkedInSelectOrganization)
	grp.Post("/:platform/refresh", ctrl.RefreshToken)
	grp.Delete("/:platform", ctrl.Disconnect)
}
