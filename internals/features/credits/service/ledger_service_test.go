// file: internals/features/credits/service/ledger_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolchamps_backend/internals/features/credits/model"
)

/* =========================================================
   In-memory store: one mutex per school mimics the row lock.
   ========================================================= */

type memStore struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
	rows  map[uuid.UUID][]model.CreditTransactionModel
	coins map[uuid.UUID]int
}

func newMemStore(schools ...uuid.UUID) *memStore {
	s := &memStore{
		locks: map[uuid.UUID]*sync.Mutex{},
		rows:  map[uuid.UUID][]model.CreditTransactionModel{},
		coins: map[uuid.UUID]int{},
	}
	for _, id := range schools {
		s.locks[id] = &sync.Mutex{}
		s.rows[id] = nil
	}
	return s
}

func (s *memStore) RunSerialized(_ context.Context, schoolID uuid.UUID, fn func(ops StoreOps) error) error {
	s.mu.Lock()
	lock, ok := s.locks[schoolID]
	s.mu.Unlock()
	if !ok {
		return ErrSchoolNotFound
	}
	lock.Lock()
	defer lock.Unlock()
	return fn(memOps{s: s})
}

type memOps struct{ s *memStore }

func (o memOps) SumCoins(schoolID uuid.UUID) (int, error) {
	sum := 0
	for _, row := range o.s.rows[schoolID] {
		sum += row.CreditTransactionCoins
	}
	return sum, nil
}

func (o memOps) Append(row *model.CreditTransactionModel) error {
	o.s.rows[row.CreditTransactionSchoolID] = append(o.s.rows[row.CreditTransactionSchoolID], *row)
	return nil
}

func (o memOps) SetSchoolCoins(schoolID uuid.UUID, coins int) error {
	o.s.coins[schoolID] = coins
	return nil
}

func (s *memStore) invariantHolds(t *testing.T, schoolID uuid.UUID) {
	t.Helper()
	sum := 0
	for _, row := range s.rows[schoolID] {
		sum += row.CreditTransactionCoins
	}
	assert.Equal(t, sum, s.coins[schoolID], "materialized balance must equal sum of transactions")
	assert.GreaterOrEqual(t, sum, 0, "balance must never be negative")
}

/* =========================================================
   Tests
   ========================================================= */

func TestCreditThenDebit(t *testing.T) {
	school := uuid.New()
	store := newMemStore(school)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, school, 150, model.CreditTransactionPurchase, "purchase:pack-150", nil, nil)
	require.NoError(t, err)

	blogID := uuid.New()
	txID, err := ledger.Debit(ctx, school, 99, "publish:"+blogID.String(), &blogID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, txID)

	balance, err := ledger.Balance(ctx, school)
	require.NoError(t, err)
	assert.Equal(t, 51, balance)
	store.invariantHolds(t, school)

	// usage rows carry negative signed coins
	rows := store.rows[school]
	require.Len(t, rows, 2)
	assert.Equal(t, model.CreditTransactionUsage, rows[1].CreditTransactionType)
	assert.Equal(t, -99, rows[1].CreditTransactionCoins)
}

func TestDebitInsufficientFundsWritesNothing(t *testing.T) {
	school := uuid.New()
	store := newMemStore(school)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, school, 50, model.CreditTransactionPurchase, "purchase:pack-50", nil, nil)
	require.NoError(t, err)

	_, err = ledger.Debit(ctx, school, 99, "publish:x", nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err := ledger.Balance(ctx, school)
	require.NoError(t, err)
	assert.Equal(t, 50, balance, "failed debit must leave no partial writes")
	assert.Len(t, store.rows[school], 1)
	store.invariantHolds(t, school)
}

func TestDebitRejectsNonPositiveAmounts(t *testing.T) {
	school := uuid.New()
	ledger := NewLedgerService(newMemStore(school))

	_, err := ledger.Debit(context.Background(), school, 0, "noop", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ledger.Debit(context.Background(), school, -5, "noop", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreditRejectsUsageType(t *testing.T) {
	school := uuid.New()
	ledger := NewLedgerService(newMemStore(school))

	_, err := ledger.Credit(context.Background(), school, 10, model.CreditTransactionUsage, "bad", nil, nil)
	assert.Error(t, err)
	_, err = ledger.Credit(context.Background(), school, 10, model.CreditTransactionType("bonus"), "bad", nil, nil)
	assert.Error(t, err)
}

func TestDebitUnknownSchool(t *testing.T) {
	ledger := NewLedgerService(newMemStore())
	_, err := ledger.Debit(context.Background(), uuid.New(), 10, "publish:x", nil)
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

// Concurrent debits against one balance must never over-debit: with 99 coins
// and 50 goroutines debiting 99, exactly one may succeed.
func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	school := uuid.New()
	store := newMemStore(school)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, school, 99, model.CreditTransactionPurchase, "purchase:pack-99", nil, nil)
	require.NoError(t, err)

	const attempts = 50
	var wg sync.WaitGroup
	var succeeded, insufficient int32
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Debit(ctx, school, 99, "publish:race", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientFunds):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded, "only one concurrent debit may win the funds")
	assert.EqualValues(t, attempts-1, insufficient)

	balance, err := ledger.Balance(ctx, school)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	store.invariantHolds(t, school)
}

// Mixed concurrent credits and debits keep balance == sum(rows).
func TestConcurrentMixedOperationsKeepInvariant(t *testing.T) {
	school := uuid.New()
	store := newMemStore(school)
	ledger := NewLedgerService(store)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, school, 1000, model.CreditTransactionPurchase, "seed", nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = ledger.Debit(ctx, school, 30, "publish:mixed", nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = ledger.Credit(ctx, school, 10, model.CreditTransactionReward, "reward:mixed", nil, nil)
		}()
	}
	wg.Wait()

	store.invariantHolds(t, school)
}
