// file: internals/route/index.go
package route

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/configs"
	aiService "schoolchamps_backend/internals/features/ai/service"
	creditService "schoolchamps_backend/internals/features/credits/service"
	publishController "schoolchamps_backend/internals/features/publish/controller"
	publishService "schoolchamps_backend/internals/features/publish/service"
	socialController "schoolchamps_backend/internals/features/social/controller"
	socialModel "schoolchamps_backend/internals/features/social/model"
	socialService "schoolchamps_backend/internals/features/social/service"
	"schoolchamps_backend/internals/middlewares/auth"
	routeDetails "schoolchamps_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes wires every endpoint. The social registry is built in main
// (the token-refresh scheduler shares it) and passed in.
func SetupRoutes(app *fiber.App, db *gorm.DB, registry *socialService.Registry) {
	startTime = time.Now()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== SHARED SERVICES =====================
	ledger := creditService.NewLedgerService(creditService.NewGormStore(db))

	wpClient := publishService.NewWordpressClient(
		configs.WordpressBaseURL, configs.WordpressUser, configs.WordpressAppPass)
	publisher := publishService.NewPublisher(
		publishService.NewGormStore(db), ledger, wpClient,
		configs.PublishCost, configs.PublishReward)

	linkedin := socialService.NewLinkedInOAuth(
		configs.LinkedInClientID, configs.LinkedInClientSecret, configs.LinkedInRedirectURL)
	registry.RegisterRefresher(socialModel.PlatformLinkedIn, linkedin)
	fanout := socialService.NewFanoutService(registry, map[socialModel.SocialPlatform]socialService.Poster{
		socialModel.PlatformFacebook:  socialService.NewFacebookClient(),
		socialModel.PlatformInstagram: socialService.NewInstagramClient(),
		socialModel.PlatformLinkedIn:  socialService.NewLinkedInClient(),
	})

	aiClient := aiService.NewClient(configs.AIAPIKey, configs.AIBaseURL, configs.AIModel)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Mounting payment webhook...")
	routeDetails.PaymentWebhookRoutes(app, db, ledger)

	// ===================== AUTHENTICATED =====================
	log.Println("[INFO] Setting up authenticated /api group...")
	api := app.Group("/api", auth.AuthMiddleware(db))

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolRoutes(api, db)

	log.Println("[INFO] Mounting Content routes...")
	routeDetails.ContentRoutes(api, db, aiClient)

	log.Println("[INFO] Mounting Credit routes...")
	routeDetails.CreditRoutes(api, db, ledger)

	log.Println("[INFO] Mounting Publish routes...")
	routeDetails.PublishRoutes(api, publishController.NewWordpressController(publisher, wpClient))

	log.Println("[INFO] Mounting Social routes...")
	routeDetails.SocialRoutes(api, socialController.NewSocialController(db, registry, fanout, linkedin))

	log.Println("[INFO] Mounting Admin routes...")
	routeDetails.AdminRoutes(api, db)
}
