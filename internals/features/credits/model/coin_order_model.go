// file: internals/features/credits/model/coin_order_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ENUM: CoinOrderStatus
   ========================================================= */

type CoinOrderStatus string

const (
	CoinOrderPending  CoinOrderStatus = "pending"
	CoinOrderPaid     CoinOrderStatus = "paid"
	CoinOrderExpired  CoinOrderStatus = "expired"
	CoinOrderCanceled CoinOrderStatus = "canceled"
)

/* =========================================================
   MODEL: coin_orders

   One Midtrans Snap checkout for a coin pack. The ledger
   purchase row is appended by the payment webhook once the
   gateway reports settlement.
   ========================================================= */

type CoinOrderModel struct {
	CoinOrderID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:coin_order_id" json:"coin_order_id"`

	// Midtrans order id (sent to the gateway, echoed by the webhook)
	CoinOrderOrderID string `gorm:"type:varchar(64);not null;uniqueIndex;column:coin_order_order_id" json:"coin_order_order_id"`

	CoinOrderSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:coin_order_school_id" json:"coin_order_school_id"`
	CoinOrderUserID   uuid.UUID `gorm:"type:uuid;not null;column:coin_order_user_id" json:"coin_order_user_id"`

	CoinOrderCoins  int   `gorm:"type:integer;not null;column:coin_order_coins" json:"coin_order_coins"`
	CoinOrderAmount int64 `gorm:"type:bigint;not null;column:coin_order_amount" json:"coin_order_amount"`

	CoinOrderStatus    CoinOrderStatus `gorm:"type:varchar(12);not null;default:'pending';column:coin_order_status" json:"coin_order_status"`
	CoinOrderSnapToken *string         `gorm:"type:varchar(120);column:coin_order_snap_token" json:"coin_order_snap_token,omitempty"`
	CoinOrderPaidAt    *time.Time      `gorm:"type:timestamptz;column:coin_order_paid_at" json:"coin_order_paid_at,omitempty"`

	// Audit
	CoinOrderCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:coin_order_created_at" json:"coin_order_created_at"`
	CoinOrderUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:coin_order_updated_at" json:"coin_order_updated_at"`
	CoinOrderDeletedAt gorm.DeletedAt `gorm:"column:coin_order_deleted_at;index" json:"coin_order_deleted_at,omitempty"`
}

func (CoinOrderModel) TableName() string { return "coin_orders" }
