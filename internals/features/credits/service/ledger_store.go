// file: internals/features/credits/service/ledger_store.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	creditModel "schoolchamps_backend/internals/features/credits/model"
	schoolModel "schoolchamps_backend/internals/features/schools/model"
)

/* =========================================================
   GORM STORE

   Per-school serialization via SELECT ... FOR UPDATE on the
   school row inside one transaction. Two concurrent debits
   against the same school queue on the row lock, so the
   balance check and the append are atomic together.
   ========================================================= */

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) RunSerialized(ctx context.Context, schoolID uuid.UUID, fn func(ops StoreOps) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school schoolModel.SchoolModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("school_id").
			Where("school_id = ?", schoolID).
			First(&school).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSchoolNotFound
			}
			return err
		}
		return fn(gormOps{tx: tx})
	})
}

type gormOps struct {
	tx *gorm.DB
}

func (o gormOps) SumCoins(schoolID uuid.UUID) (int, error) {
	var sum int64
	err := o.tx.Model(&creditModel.CreditTransactionModel{}).
		Where("credit_transaction_school_id = ?", schoolID).
		Select("COALESCE(SUM(credit_transaction_coins), 0)").
		Scan(&sum).Error
	return int(sum), err
}

func (o gormOps) Append(row *creditModel.CreditTransactionModel) error {
	return o.tx.Create(row).Error
}

func (o gormOps) SetSchoolCoins(schoolID uuid.UUID, coins int) error {
	return o.tx.Model(&schoolModel.SchoolModel{}).
		Where("school_id = ?", schoolID).
		Update("school_coins", coins).Error
}
