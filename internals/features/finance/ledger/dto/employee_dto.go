// file: internals/features/finance/ledger/dto/employee_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	m "schoolledger_backend/internals/features/finance/ledger/model"
	helper "schoolledger_backend/internals/helpers"
)

/* =========================================================
   CREATE EMPLOYEE
========================================================= */

type CreateEmployeeRequest struct {
	EmployeeName   string          `json:"employee_name" validate:"required,max=160"`
	EmployeeRole   string          `json:"employee_role" validate:"max=64"`
	EmployeeSalary decimal.Decimal `json:"employee_salary"`
}

// Check covers what validate tags cannot express on decimals.
func (r CreateEmployeeRequest) Check() error {
	return nonNegative("employee_salary", r.EmployeeSalary)
}

func (r CreateEmployeeRequest) ToModel() *m.EmployeeModel {
	return &m.EmployeeModel{
		EmployeeName:   strings.TrimSpace(r.EmployeeName),
		EmployeeRole:   strings.TrimSpace(r.EmployeeRole),
		EmployeeSalary: r.EmployeeSalary.Round(2),
	}
}

/* =========================================================
   SALARY
========================================================= */

type UpdateSalaryRequest struct {
	EmployeeSalary decimal.Decimal `json:"employee_salary"`
}

func (r UpdateSalaryRequest) Check() error {
	return nonNegative("employee_salary", r.EmployeeSalary)
}

/* =========================================================
   PROGRAM FEE
========================================================= */

type ProgramFeeRequest struct {
	ProgramFeeAmount decimal.Decimal `json:"program_fee_amount"`
}

func (r ProgramFeeRequest) Check() error {
	return nonNegative("program_fee_amount", r.ProgramFeeAmount)
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return &helper.FieldErrors{Fields: map[string][]string{field: {"gte=0"}}}
	}
	return nil
}

/* =========================================================
   EXPENSE
========================================================= */

type CreateExpenseRequest struct {
	ExpenseTitle    string          `json:"expense_title" validate:"required,max=200"`
	ExpenseCategory string          `json:"expense_category" validate:"required,max=64,ne=Salary"`
	ExpenseAmount   decimal.Decimal `json:"expense_amount"`
	// Today when omitted
	ExpenseDate *time.Time `json:"expense_date"`
	ExpensePaid bool       `json:"expense_paid"`
}

func (r CreateExpenseRequest) Check() error {
	return nonNegative("expense_amount", r.ExpenseAmount)
}

func (r CreateExpenseRequest) ToModel() *m.ExpenseModel {
	e := &m.ExpenseModel{
		ExpenseTitle:    strings.TrimSpace(r.ExpenseTitle),
		ExpenseCategory: strings.TrimSpace(r.ExpenseCategory),
		ExpenseAmount:   r.ExpenseAmount.Round(2),
		ExpensePaid:     r.ExpensePaid,
	}
	if r.ExpenseDate != nil {
		e.ExpenseDate = *r.ExpenseDate
	}
	return e
}

type ListExpensesQuery struct {
	Category    string `query:"category"`
	MirrorsOnly bool   `query:"mirrors_only"`
}
