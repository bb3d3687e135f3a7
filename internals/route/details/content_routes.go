// file: internals/route/details/content_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	aiController "schoolchamps_backend/internals/features/ai/controller"
	aiService "schoolchamps_backend/internals/features/ai/service"
	blogController "schoolchamps_backend/internals/features/blogs/controller"
	blogService "schoolchamps_backend/internals/features/blogs/service"
	submissionController "schoolchamps_backend/internals/features/submissions/controller"
	"schoolchamps_backend/internals/middlewares/auth"
)

// ContentRoutes mounts the authoring pipeline: submissions, drafting,
// blogs and their workflow transitions.
func ContentRoutes(api fiber.Router, db *gorm.DB, ai *aiService.Client) {
	submissionCtrl := submissionController.NewSubmissionController(db)
	blogCtrl := blogController.NewBlogController(db, blogService.NewWorkflowService(db))
	aiCtrl := aiController.NewAIController(db, ai)

	/* ===== submissions ===== */
	sub := api.Group("/submissions")
	sub.Post("/",
		auth.OnlyRoles(constants.RoleErrorSchool("submission intake"), constants.PublishRoles...),
		submissionCtrl.Create)
	sub.Get("/", submissionCtrl.List)
	sub.Get("/:id", submissionCtrl.GetByID)
	sub.Put("/:id",
		auth.OnlyRoles(constants.RoleErrorStaff("submission assignment"), constants.StaffRoles...),
		submissionCtrl.Update)
	sub.Delete("/:id",
		auth.OnlyRoles(constants.RoleErrorSchool("submission deletion"), constants.PublishRoles...),
		submissionCtrl.Delete)
	sub.Post("/:id/generate-draft",
		auth.OnlyRoles(constants.RoleErrorStaff("draft generation"), constants.StaffRoles...),
		aiCtrl.GenerateDraft)

	/* ===== blogs ===== */
	blog := api.Group("/blogs")
	blog.Get("/", blogCtrl.List)
	blog.Put("/review/:id",
		auth.OnlyRoles(constants.RoleErrorSchool("the review pass"), constants.PublishRoles...),
		blogCtrl.Review)
	blog.Get("/:id", blogCtrl.GetByID)
	blog.Put("/:id",
		auth.OnlyRoles(constants.RoleErrorStaff("blog editing"), constants.StaffRoles...),
		blogCtrl.Update)
	blog.Post("/assign/:schoolId/:id",
		auth.OnlyRoles(constants.RoleErrorAdmin("school assignment"), constants.AdminOnly...),
		blogCtrl.AssignToSchool)
	blog.Post("/:id/image",
		auth.OnlyRoles(constants.RoleErrorStaff("image upload"), constants.StaffRoles...),
		blogCtrl.UploadImage)
	blog.Delete("/:id",
		auth.OnlyRoles(constants.RoleErrorAdmin("blog deletion"), constants.AdminOnly...),
		blogCtrl.Delete)

	// transition: every authed role may ask, the guard decides
	blog.Post("/:id/transition", blogCtrl.Transition)

	/* ===== drafting assistant ===== */
	blog.Post("/:id/ai/improve",
		auth.OnlyRoles(constants.RoleErrorStaff("content rewriting"), constants.StaffRoles...),
		aiCtrl.ImproveContent)
	blog.Post("/:id/ai/social-preview",
		auth.OnlyRoles(constants.RoleErrorMarketer("social previews"), constants.SocialRoles...),
		aiCtrl.SocialPreview)
}
