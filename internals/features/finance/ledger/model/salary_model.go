// file: internals/features/finance/ledger/model/salary_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalaryModel struct {
	SalaryID         uuid.UUID `gorm:"column:salary_id;type:uuid;primaryKey" json:"salary_id"`
	SalaryEmployeeID uuid.UUID `gorm:"column:salary_employee_id;type:uuid;not null;uniqueIndex:uq_salaries_employee_month,priority:1" json:"salary_employee_id"`

	SalaryMonth  string          `gorm:"column:salary_month;type:varchar(32);not null;uniqueIndex:uq_salaries_employee_month,priority:2" json:"salary_month"`
	SalaryAmount decimal.Decimal `gorm:"column:salary_amount;type:numeric(14,2);not null" json:"salary_amount"`

	SalaryPaid     bool       `gorm:"column:salary_paid;not null;default:false" json:"salary_paid"`
	SalaryPaidDate *time.Time `gorm:"column:salary_paid_date" json:"salary_paid_date,omitempty"`
	SalaryPaidBy   *uuid.UUID `gorm:"column:salary_paid_by;type:uuid" json:"salary_paid_by,omitempty"`

	SalaryCreatedAt time.Time `gorm:"column:salary_created_at;autoCreateTime" json:"salary_created_at"`
	SalaryUpdatedAt time.Time `gorm:"column:salary_updated_at;autoUpdateTime" json:"salary_updated_at"`
}

func (SalaryModel) TableName() string { return "salaries" }

func (m *SalaryModel) BeforeCreate(*gorm.DB) error {
	if m.SalaryID == uuid.Nil {
		m.SalaryID = uuid.New()
	}
	return nil
}
