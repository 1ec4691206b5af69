// file: internals/features/finance/ledger/model/program_fee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProgramFeeModel is the price list consulted by the generator and the
// reclassification cascade: one current monthly amount per program.
type ProgramFeeModel struct {
	ProgramFeeID      uuid.UUID       `gorm:"column:program_fee_id;type:uuid;primaryKey" json:"program_fee_id"`
	ProgramFeeProgram string          `gorm:"column:program_fee_program;type:varchar(64);not null;uniqueIndex:uq_program_fees_program" json:"program_fee_program"`
	ProgramFeeAmount  decimal.Decimal `gorm:"column:program_fee_amount;type:numeric(14,2);not null" json:"program_fee_amount"`

	ProgramFeeCreatedAt time.Time `gorm:"column:program_fee_created_at;autoCreateTime" json:"program_fee_created_at"`
	ProgramFeeUpdatedAt time.Time `gorm:"column:program_fee_updated_at;autoUpdateTime" json:"program_fee_updated_at"`
}

func (ProgramFeeModel) TableName() string { return "program_fees" }

func (m *ProgramFeeModel) BeforeCreate(*gorm.DB) error {
	if m.ProgramFeeID == uuid.Nil {
		m.ProgramFeeID = uuid.New()
	}
	return nil
}
