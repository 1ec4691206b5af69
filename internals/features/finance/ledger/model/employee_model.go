// file: internals/features/finance/ledger/model/employee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EmployeeModel struct {
	EmployeeID   uuid.UUID `gorm:"column:employee_id;type:uuid;primaryKey" json:"employee_id"`
	EmployeeName string    `gorm:"column:employee_name;type:varchar(160);not null" json:"employee_name"`
	EmployeeRole string    `gorm:"column:employee_role;type:varchar(64)" json:"employee_role"`

	// Monthly pay. Authoritative for salaries generated after it changes;
	// existing salary rows keep the amount they were created with.
	EmployeeSalary decimal.Decimal `gorm:"column:employee_salary;type:numeric(14,2);not null" json:"employee_salary"`

	EmployeeCreatedAt time.Time `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt time.Time `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at"`
}

func (EmployeeModel) TableName() string { return "employees" }

func (m *EmployeeModel) BeforeCreate(*gorm.DB) error {
	if m.EmployeeID == uuid.Nil {
		m.EmployeeID = uuid.New()
	}
	return nil
}
