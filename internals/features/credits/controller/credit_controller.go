// file: internals/features/credits/controller/credit_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	"schoolchamps_backend/internals/features/credits/dto"
	"schoolchamps_backend/internals/features/credits/model"
	"schoolchamps_backend/internals/features/credits/service"
	helper "schoolchamps_backend/internals/helpers"
	helperAuth "schoolchamps_backend/internals/middlewares/auth"
)

type CreditController struct {
	DB     *gorm.DB
	Ledger *service.LedgerService
}

func NewCreditController(db *gorm.DB, ledger *service.LedgerService) *CreditController {
	return &CreditController{DB: db, Ledger: ledger}
}

// GET /api/schools/:id/ledger
// School users may read their own ledger only; admin may read any.
func (ctl *CreditController) GetLedger(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid school id")
	}

	if helperAuth.GetRole(c) == constants.RoleSchool && helperAuth.GetSchoolID(c) != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "you may only view your own ledger")
	}

	balance, err := ctl.Ledger.Balance(c.UserContext(), schoolID)
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "school not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to read balance")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	q := ctl.DB.WithContext(c.UserContext()).
		Model(&model.CreditTransactionModel{}).
		Where("credit_transaction_school_id = ?", schoolID)
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count transactions")
	}

	var rows []model.CreditTransactionModel
	if err := q.
		Order("credit_transaction_created_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load transactions")
	}

	resp := dto.LedgerResponse{
		SchoolID:     schoolID,
		Balance:      balance,
		Transactions: make([]dto.CreditTransactionResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Transactions = append(resp.Transactions, dto.FromCreditTransactionModel(row))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       resp,
		"pagination": helper.BuildPagination(total, paging),
	})
}

// POST /api/admin/credits/adjustment — manual ledger correction (admin)
func (ctl *CreditController) CreateAdjustment(c *fiber.Ctx) error {
	var body dto.AdjustmentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := helper.ValidateStruct(c, &body); err != nil {
		return err
	}

	ctx := c.UserContext()
	var txID uuid.UUID
	var err error
	if body.Coins > 0 {
		txID, err = ctl.Ledger.Credit(ctx, body.SchoolID, body.Coins,
			model.CreditTransactionAdjustment, body.Description, nil, nil)
	} else {
		// negative adjustments go through the debit path so the
		// non-negative balance invariant still applies
		txID, err = ctl.Ledger.Debit(ctx, body.SchoolID, -body.Coins, body.Description, nil)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "school not found")
		case errors.Is(err, service.ErrInsufficientFunds):
			return helper.JsonError(c, fiber.StatusPaymentRequired, "adjustment would drive balance negative")
		case errors.Is(err, service.ErrInvalidAmount):
			return helper.JsonError(c, fiber.StatusBadRequest, "coins must be non-zero")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to apply adjustment")
		}
	}

	return helper.JsonCreated(c, "Adjustment recorded", fiber.Map{"transaction_id": txID})
}
