// file: internals/features/credits/service/midtrans_service.go
package service

import (
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"schoolchamps_backend/internals/features/credits/model"
)

var SnapClient snap.Client

// InitMidtrans initializes the Midtrans Snap client with the server key.
func InitMidtrans(serverKey string) {
	SnapClient.New(serverKey, midtrans.Sandbox)
}

// GenerateSnapToken creates a Snap checkout token for a coin order.
func GenerateSnapToken(order model.CoinOrderModel, name, email string) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.CoinOrderOrderID,
			GrossAmt: order.CoinOrderAmount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "coin-pack",
				Name:  fmt.Sprintf("%d SchoolChamps coins", order.CoinOrderCoins),
				Price: order.CoinOrderAmount / int64(order.CoinOrderCoins),
				Qty:   int32(order.CoinOrderCoins),
			},
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}
