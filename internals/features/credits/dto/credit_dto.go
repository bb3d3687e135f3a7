// file: internals/features/credits/dto/credit_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolchamps_backend/internals/features/credits/model"
)

/* =========================================================
   Requests
   ========================================================= */

type CreateCoinOrderRequest struct {
	// min one publish worth of coins
	Coins int `json:"coins" validate:"required,min=99"`
}

type AdjustmentRequest struct {
	SchoolID    uuid.UUID `json:"school_id" validate:"required"`
	Coins       int       `json:"coins" validate:"required"`
	Description string    `json:"description" validate:"required,max=200"`
}

/* =========================================================
   Responses
   ========================================================= */

type CoinOrderResponse struct {
	OrderID   string `json:"order_id"`
	SnapToken string `json:"snap_token"`
	Coins     int    `json:"coins"`
	Amount    int64  `json:"amount"`
}

type CreditTransactionResponse struct {
	ID          uuid.UUID                   `json:"id"`
	SchoolID    uuid.UUID                   `json:"school_id"`
	Type        model.CreditTransactionType `json:"type"`
	Coins       int                         `json:"coins"`
	Description string                      `json:"description"`
	BlogID      *uuid.UUID                  `json:"blog_id,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

type LedgerResponse struct {
	SchoolID     uuid.UUID                   `json:"school_id"`
	Balance      int                         `json:"balance"`
	Transactions []CreditTransactionResponse `json:"transactions"`
}

func FromCreditTransactionModel(m model.CreditTransactionModel) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:          m.CreditTransactionID,
		SchoolID:    m.CreditTransactionSchoolID,
		Type:        m.CreditTransactionType,
		Coins:       m.CreditTransactionCoins,
		Description: m.CreditTransactionDescription,
		BlogID:      m.CreditTransactionBlogID,
		CreatedAt:   m.CreditTransactionCreatedAt,
	}
}
