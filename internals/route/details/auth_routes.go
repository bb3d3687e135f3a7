// file: internals/route/details/auth_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "schoolchamps_backend/internals/features/users/controller"
	"schoolchamps_backend/internals/middlewares"
	"schoolchamps_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewAuthController(db)

	grp := app.Group("/api/auth")
	grp.Post("/register", middlewares.LoginRateLimiter(), ctrl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	grp.Get("/me", auth.AuthMiddleware(db), ctrl.Me)
}
