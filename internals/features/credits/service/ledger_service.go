// file: internals/features/credits/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"schoolchamps_backend/internals/features/credits/model"
)

var (
	ErrInsufficientFunds = errors.New("insufficient coin balance")
	ErrSchoolNotFound    = errors.New("school not found")
	ErrInvalidAmount     = errors.New("coin amount must be positive")
)

/* =========================================================
   LEDGER

   Executes signed coin deltas only; publish cost / reward
   amounts are the caller's business. Every mutation appends
   a transaction row and reconciles the materialized
   school_coins column inside one serialized unit, so
   balance == sum(rows) holds after every call and a debit
   can never drive the balance negative.
   ========================================================= */

// StoreOps are the operations available while the school balance is locked.
type StoreOps interface {
	SumCoins(schoolID uuid.UUID) (int, error)
	Append(row *model.CreditTransactionModel) error
	SetSchoolCoins(schoolID uuid.UUID, coins int) error
}

// Store serializes balance mutation per school (row lock or equivalent).
type Store interface {
	RunSerialized(ctx context.Context, schoolID uuid.UUID, fn func(ops StoreOps) error) error
}

type LedgerService struct {
	store Store
}

func NewLedgerService(store Store) *LedgerService {
	return &LedgerService{store: store}
}

// Debit appends a `usage` row of -coins. Fails with ErrInsufficientFunds
// and writes nothing if the balance would go negative.
func (s *LedgerService) Debit(ctx context.Context, schoolID uuid.UUID, coins int, description string, blogID *uuid.UUID) (uuid.UUID, error) {
	if coins <= 0 {
		return uuid.Nil, ErrInvalidAmount
	}
	row := &model.CreditTransactionModel{
		CreditTransactionID:          uuid.New(),
		CreditTransactionSchoolID:    schoolID,
		CreditTransactionType:        model.CreditTransactionUsage,
		CreditTransactionCoins:       -coins,
		CreditTransactionDescription: description,
		CreditTransactionBlogID:      blogID,
	}
	err := s.store.RunSerialized(ctx, schoolID, func(ops StoreOps) error {
		balance, err := ops.SumCoins(schoolID)
		if err != nil {
			return err
		}
		if balance-coins < 0 {
			return ErrInsufficientFunds
		}
		if err := ops.Append(row); err != nil {
			return err
		}
		return ops.SetSchoolCoins(schoolID, balance-coins)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return row.CreditTransactionID, nil
}

// Credit appends a positive row of the given type (purchase, reward or
// adjustment) and reconciles the balance.
func (s *LedgerService) Credit(ctx context.Context, schoolID uuid.UUID, coins int, txType model.CreditTransactionType, description string, blogID *uuid.UUID, orderID *string) (uuid.UUID, error) {
	if coins <= 0 {
		return uuid.Nil, ErrInvalidAmount
	}
	if !txType.Valid() || txType == model.CreditTransactionUsage {
		return uuid.Nil, fmt.Errorf("credit cannot append a %q transaction", txType)
	}
	row := &model.CreditTransactionModel{
		CreditTransactionID:          uuid.New(),
		CreditTransactionSchoolID:    schoolID,
		CreditTransactionType:        txType,
		CreditTransactionCoins:       coins,
		CreditTransactionDescription: description,
		CreditTransactionBlogID:      blogID,
		CreditTransactionOrderID:     orderID,
	}
	err := s.store.RunSerialized(ctx, schoolID, func(ops StoreOps) error {
		balance, err := ops.SumCoins(schoolID)
		if err != nil {
			return err
		}
		if err := ops.Append(row); err != nil {
			return err
		}
		return ops.SetSchoolCoins(schoolID, balance+coins)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return row.CreditTransactionID, nil
}

// Balance recomputes the balance from the transaction log (authoritative read).
func (s *LedgerService) Balance(ctx context.Context, schoolID uuid.UUID) (int, error) {
	var balance int
	err := s.store.RunSerialized(ctx, schoolID, func(ops StoreOps) error {
		var err error
		balance, err = ops.SumCoins(schoolID)
		return err
	})
	return balance, err
}
