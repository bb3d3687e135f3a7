// file: internals/features/credits/model/credit_transaction_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   ENUM: CreditTransactionType
   ========================================================= */

type CreditTransactionType string

const (
	CreditTransactionPurchase   CreditTransactionType = "purchase"
	CreditTransactionUsage      CreditTransactionType = "usage"
	CreditTransactionReward     CreditTransactionType = "reward"
	CreditTransactionAdjustment CreditTransactionType = "adjustment"
)

func (t CreditTransactionType) Valid() bool {
	switch t {
	case CreditTransactionPurchase, CreditTransactionUsage,
		CreditTransactionReward, CreditTransactionAdjustment:
		return true
	default:
		return false
	}
}

/* =========================================================
   MODEL: credit_transactions

   Append-only ledger. Rows are never updated or deleted;
   there is deliberately no UpdatedAt/DeletedAt. Coins are
   signed: purchase/reward positive, usage negative,
   adjustment either. The school balance equals the sum of
   its rows at all times.
   ========================================================= */

type CreditTransactionModel struct {
	CreditTransactionID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:credit_transaction_id" json:"credit_transaction_id"`
	CreditTransactionSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:credit_transaction_school_id" json:"credit_transaction_school_id"`

	CreditTransactionType  CreditTransactionType `gorm:"type:varchar(12);not null;column:credit_transaction_type" json:"credit_transaction_type"`
	CreditTransactionCoins int                   `gorm:"type:integer;not null;column:credit_transaction_coins" json:"credit_transaction_coins"`

	CreditTransactionDescription string     `gorm:"type:varchar(200);not null;column:credit_transaction_description" json:"credit_transaction_description"`
	CreditTransactionBlogID      *uuid.UUID `gorm:"type:uuid;column:credit_transaction_blog_id" json:"credit_transaction_blog_id,omitempty"`

	// Midtrans order id for purchase rows (idempotency key for the webhook)
	CreditTransactionOrderID *string `gorm:"type:varchar(64);uniqueIndex;column:credit_transaction_order_id" json:"credit_transaction_order_id,omitempty"`

	CreditTransactionCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:credit_transaction_created_at" json:"credit_transaction_created_at"`
}

func (CreditTransactionModel) TableName() string { return "credit_transactions" }
