// file: internals/features/finance/ledger/model/expense_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const ExpenseCategorySalary = "Salary"

// ExpenseModel is a generic ledger line. With ExpenseSalaryID set it mirrors
// that salary: ExpensePaid must follow SalaryPaid.
type ExpenseModel struct {
	ExpenseID       uuid.UUID       `gorm:"column:expense_id;type:uuid;primaryKey" json:"expense_id"`
	ExpenseTitle    string          `gorm:"column:expense_title;type:varchar(200);not null" json:"expense_title"`
	ExpenseCategory string          `gorm:"column:expense_category;type:varchar(64);not null;index:idx_expenses_category" json:"expense_category"`
	ExpenseAmount   decimal.Decimal `gorm:"column:expense_amount;type:numeric(14,2);not null" json:"expense_amount"`
	ExpenseDate     time.Time       `gorm:"column:expense_date;not null" json:"expense_date"`
	ExpensePaid     bool            `gorm:"column:expense_paid;not null;default:false" json:"expense_paid"`

	// At most one mirror per salary
	ExpenseSalaryID  *uuid.UUID `gorm:"column:expense_salary_id;type:uuid;uniqueIndex:uq_expenses_salary" json:"expense_salary_id,omitempty"`
	ExpenseCreatedBy uuid.UUID  `gorm:"column:expense_created_by;type:uuid;not null" json:"expense_created_by"`

	ExpenseCreatedAt time.Time `gorm:"column:expense_created_at;autoCreateTime" json:"expense_created_at"`
	ExpenseUpdatedAt time.Time `gorm:"column:expense_updated_at;autoUpdateTime" json:"expense_updated_at"`
}

func (ExpenseModel) TableName() string { return "expenses" }

func (m *ExpenseModel) BeforeCreate(*gorm.DB) error {
	if m.ExpenseID == uuid.Nil {
		m.ExpenseID = uuid.New()
	}
	return nil
}

func (m ExpenseModel) IsMirror() bool { return m.ExpenseSalaryID != nil }
