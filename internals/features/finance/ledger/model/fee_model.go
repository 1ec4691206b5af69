// file: internals/features/finance/ledger/model/fee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeModel is one student's bill for one period.
//
// (fee_student_id, fee_month) is unique. fee_historical_* is written on insert
// and never updated; only amount and the payment columns change afterwards.
type FeeModel struct {
	FeeID        uuid.UUID `gorm:"column:fee_id;type:uuid;primaryKey" json:"fee_id"`
	FeeStudentID uuid.UUID `gorm:"column:fee_student_id;type:uuid;not null;uniqueIndex:uq_fees_student_month,priority:1" json:"fee_student_id"`

	// Period key, e.g. "March 2025"
	FeeMonth  string          `gorm:"column:fee_month;type:varchar(32);not null;uniqueIndex:uq_fees_student_month,priority:2" json:"fee_month"`
	FeeAmount decimal.Decimal `gorm:"column:fee_amount;type:numeric(14,2);not null" json:"fee_amount"`

	FeePaid     bool       `gorm:"column:fee_paid;not null;default:false;index:idx_fees_paid" json:"fee_paid"`
	FeePaidDate *time.Time `gorm:"column:fee_paid_date" json:"fee_paid_date,omitempty"`
	FeePaidBy   *uuid.UUID `gorm:"column:fee_paid_by;type:uuid" json:"fee_paid_by,omitempty"`

	FeeHistorical ClassificationSnapshot `gorm:"embedded;embeddedPrefix:fee_historical_" json:"fee_historical"`

	FeeCreatedAt time.Time `gorm:"column:fee_created_at;autoCreateTime" json:"fee_created_at"`
	FeeUpdatedAt time.Time `gorm:"column:fee_updated_at;autoUpdateTime" json:"fee_updated_at"`
}

func (FeeModel) TableName() string { return "fees" }

func (m *FeeModel) BeforeCreate(*gorm.DB) error {
	if m.FeeID == uuid.Nil {
		m.FeeID = uuid.New()
	}
	return nil
}
