// file: internals/features/credits/controller/payment_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/configs"
	"schoolchamps_backend/internals/features/credits/dto"
	"schoolchamps_backend/internals/features/credits/model"
	"schoolchamps_backend/internals/features/credits/service"
	userModel "schoolchamps_backend/internals/features/users/model"
	helper "schoolchamps_backend/internals/helpers"
	helperAuth "schoolchamps_backend/internals/middlewares/auth"
)

type PaymentController struct {
	DB     *gorm.DB
	Ledger *service.LedgerService
}

func NewPaymentController(db *gorm.DB, ledger *service.LedgerService) *PaymentController {
	return &PaymentController{DB: db, Ledger: ledger}
}

// POST /api/payment/create-order — school buys a coin pack
func (ctl *PaymentController) CreateOrder(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	if schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusForbidden, "only school accounts can buy coins")
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var body dto.CreateCoinOrderRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := helper.ValidateStruct(c, &body); err != nil {
		return err
	}

	var buyer userModel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		First(&buyer).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load user")
	}

	order := model.CoinOrderModel{
		CoinOrderID:       uuid.New(),
		CoinOrderOrderID:  fmt.Sprintf("COIN-%d-%s", time.Now().Unix(), uuid.NewString()[:8]),
		CoinOrderSchoolID: schoolID,
		CoinOrderUserID:   userID,
		CoinOrderCoins:    body.Coins,
		CoinOrderAmount:   int64(body.Coins) * configs.CoinPriceIDR,
		CoinOrderStatus:   model.CoinOrderPending,
	}

	token, err := service.GenerateSnapToken(order, buyer.UserName, buyer.UserEmail)
	if err != nil {
		log.Println("[ERROR] snap token:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "payment gateway unavailable")
	}
	order.CoinOrderSnapToken = &token

	if err := ctl.DB.WithContext(c.UserContext()).Create(&order).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save order")
	}

	return helper.JsonCreated(c, "Order created", dto.CoinOrderResponse{
		OrderID:   order.CoinOrderOrderID,
		SnapToken: token,
		Coins:     order.CoinOrderCoins,
		Amount:    order.CoinOrderAmount,
	})
}

// POST /api/payment/notification — Midtrans webhook (skips auth middleware)
func (ctl *PaymentController) HandleNotification(c *fiber.Ctx) error {
	var notif service.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	// Only the gateway knows the server key, so a payload that fails
	// this check was not sent by Midtrans.
	if err := notif.VerifySignature(configs.MidtransServerKey); err != nil {
		log.Printf("[WEBHOOK] rejected notification for order %s: bad signature", notif.OrderID)
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	if err := service.HandleCoinOrderWebhook(c.UserContext(), ctl.DB, ctl.Ledger, notif); err != nil {
		if errors.Is(err, service.ErrBadSignature) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
		}
		log.Println("[ERROR] payment webhook:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "webhook processing failed")
	}
	return helper.JsonOK(c, "ok", nil)
}
