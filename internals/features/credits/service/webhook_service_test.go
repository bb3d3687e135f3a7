// file: internals/features/credits/service/webhook_service_test.go
package service

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-testkey"

func signedNotif(orderID, status, statusCode, gross string) MidtransNotification {
	sum := sha512.Sum512([]byte(orderID + statusCode + gross + testServerKey))
	return MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: status,
		StatusCode:        statusCode,
		GrossAmount:       gross,
		SignatureKey:      hex.EncodeToString(sum[:]),
	}
}

func TestWebhookSignatureAcceptsGenuineNotification(t *testing.T) {
	notif := signedNotif("COIN-1700000000-abcd1234", "settlement", "200", "99000.00")
	require.NoError(t, notif.VerifySignature(testServerKey))
}

func TestWebhookSignatureRejectsForgedSettlement(t *testing.T) {
	// A buyer knows their own order_id from the create-order response
	// but not the server key, so they cannot produce signature_key.
	forged := MidtransNotification{
		OrderID:           "COIN-1700000000-abcd1234",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "99000.00",
		SignatureKey:      "deadbeef",
	}
	assert.ErrorIs(t, forged.VerifySignature(testServerKey), ErrBadSignature)

	forged.SignatureKey = ""
	assert.ErrorIs(t, forged.VerifySignature(testServerKey), ErrBadSignature)
}

func TestWebhookSignatureRejectsTamperedFields(t *testing.T) {
	notif := signedNotif("COIN-1700000000-abcd1234", "settlement", "200", "99000.00")

	tampered := notif
	tampered.OrderID = "COIN-other-order"
	assert.ErrorIs(t, tampered.VerifySignature(testServerKey), ErrBadSignature)

	tampered = notif
	tampered.GrossAmount = "1.00"
	assert.ErrorIs(t, tampered.VerifySignature(testServerKey), ErrBadSignature)
}

func TestWebhookGrossAmountMatchesStoredOrder(t *testing.T) {
	assert.True(t, grossAmountMatches("99000.00", 99000))
	assert.True(t, grossAmountMatches("99000", 99000))
	assert.False(t, grossAmountMatches("1.00", 99000))
	assert.False(t, grossAmountMatches("", 99000))
	assert.False(t, grossAmountMatches("not-a-number", 99000))
}
