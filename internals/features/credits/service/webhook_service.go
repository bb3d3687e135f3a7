// file: internals/features/credits/service/webhook_service.go
package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"schoolchamps_backend/internals/features/credits/model"
)

// ErrBadSignature is returned when a Midtrans notification fails the
// signature_key check. Callers should answer 401, not 500, so the
// gateway does not retry a forged payload.
var ErrBadSignature = errors.New("invalid midtrans signature")

// MidtransNotification is the subset of the gateway's webhook payload
// we act on. Extra fields are ignored by BodyParser.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"` // string from Midtrans, e.g. "99000.00"
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// VerifySignature checks signature_key = SHA512(order_id + status_code +
// gross_amount + server key). Midtrans sends the hex lowercase.
func (n MidtransNotification) VerifySignature(serverKey string) error {
	want := strings.ToLower(n.SignatureKey)
	raw := n.OrderID + n.StatusCode + n.GrossAmount + serverKey
	sum := sha512.Sum512([]byte(raw))
	got := hex.EncodeToString(sum[:])
	if want == "" || got != want {
		return ErrBadSignature
	}
	return nil
}

// grossAmountMatches compares the gateway's decimal string against the
// stored order amount in whole IDR.
func grossAmountMatches(gross string, amount int64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return int64(f) == amount
}

// HandleCoinOrderWebhook is called on Midtrans payment notifications
// after the signature check. On settlement it marks the order paid and
// appends the `purchase` ledger row. The unique order id on the
// transaction row makes a replayed notification a no-op.
func HandleCoinOrderWebhook(ctx context.Context, db *gorm.DB, ledger *LedgerService, notif MidtransNotification) error {
	log.Printf("[WEBHOOK] order_id=%s transaction_status=%s", notif.OrderID, notif.TransactionStatus)

	var order model.CoinOrderModel
	if err := db.WithContext(ctx).
		Where("coin_order_order_id = ?", notif.OrderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("coin order %s not found", notif.OrderID)
		}
		return err
	}

	switch notif.TransactionStatus {
	case "capture", "settlement":
		if !grossAmountMatches(notif.GrossAmount, order.CoinOrderAmount) {
			log.Printf("[WEBHOOK] order %s gross_amount %q does not match stored amount %d",
				notif.OrderID, notif.GrossAmount, order.CoinOrderAmount)
			return ErrBadSignature
		}
		if order.CoinOrderStatus == model.CoinOrderPaid {
			log.Printf("[WEBHOOK] order %s already settled, skipping", notif.OrderID)
			return nil
		}
		desc := fmt.Sprintf("purchase:%d coins (order %s)", order.CoinOrderCoins, notif.OrderID)
		if _, err := ledger.Credit(ctx, order.CoinOrderSchoolID, order.CoinOrderCoins,
			model.CreditTransactionPurchase, desc, nil, &notif.OrderID); err != nil {
			log.Printf("[ERROR] crediting order %s: %v", notif.OrderID, err)
			return err
		}
		now := time.Now()
		order.CoinOrderStatus = model.CoinOrderPaid
		order.CoinOrderPaidAt = &now

	case "expire":
		order.CoinOrderStatus = model.CoinOrderExpired
	case "cancel", "deny":
		order.CoinOrderStatus = model.CoinOrderCanceled
	default:
		log.Println("[INFO] unhandled transaction status:", notif.TransactionStatus)
		return nil
	}

	if err := db.WithContext(ctx).Save(&order).Error; err != nil {
		log.Println("[ERROR] saving coin order:", err)
		return err
	}
	return nil
}
