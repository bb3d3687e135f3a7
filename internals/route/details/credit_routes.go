// file: internals/route/details/credit_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	creditController "schoolchamps_backend/internals/features/credits/controller"
	creditService "schoolchamps_backend/internals/features/credits/service"
	"schoolchamps_backend/internals/middlewares/auth"
)

// CreditRoutes mounts the authenticated coin endpoints.
func CreditRoutes(api fiber.Router, db *gorm.DB, ledger *creditService.LedgerService) {
	creditCtrl := creditController.NewCreditController(db, ledger)
	paymentCtrl := creditController.NewPaymentController(db, ledger)

	api.Get("/schools/:id/ledger",
		auth.OnlyRoles(constants.RoleErrorSchool("the coin ledger"), constants.PublishRoles...),
		creditCtrl.GetLedger)
	api.Post("/admin/credits/adjustment",
		auth.OnlyRoles(constants.RoleErrorAdmin("coin adjustments"), constants.AdminOnly...),
		creditCtrl.CreateAdjustment)

	api.Post("/payment/create-order",
		auth.OnlyRoles(constants.RoleErrorSchool("coin purchases"), constants.RoleSchool),
		paymentCtrl.CreateOrder)
}

// PaymentWebhookRoutes mounts the unauthenticated gateway callback.
func PaymentWebhookRoutes(app *fiber.App, db *gorm.DB, ledger *creditService.LedgerService) {
	paymentCtrl := creditController.NewPaymentController(db, ledger)
	app.Post("/api/payment/notification", paymentCtrl.HandleNotification)
}
