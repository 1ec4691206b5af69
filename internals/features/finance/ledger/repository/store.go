// file: internals/features/finance/ledger/repository/store.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
)

// ErrNotFound is returned for ids that do not (or no longer) exist.
var ErrNotFound = errors.New("record not found")

type StudentFilter struct {
	Status  model.StudentStatus
	Class   string
	Program string
}

type FeeFilter struct {
	StudentID *uuid.UUID
	Month     string
	Paid      *bool
}

type SalaryFilter struct {
	EmployeeID *uuid.UUID
	Month      string
	Paid       *bool
}

type ExpenseFilter struct {
	Category    string
	MirrorsOnly bool
}

// Store is the persistence boundary of the ledger. Every call is
// independently durable; nothing here requires a multi-table transaction.
//
// Create* methods that guard a natural key report created=false when the
// row already exists. Conditional updates (amount, paid) report whether a
// row actually changed.
type Store interface {
	CreateStudent(ctx context.Context, s *model.StudentModel) error
	GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentModel, error)
	ListStudents(ctx context.Context, f StudentFilter) ([]model.StudentModel, error)
	UpdateStudentClassification(ctx context.Context, id uuid.UUID, c model.ClassificationSnapshot) error
	UpdateStudentStatus(ctx context.Context, id uuid.UUID, status model.StudentStatus) error
	// DeleteStudent removes the student with its fees and promotion log.
	DeleteStudent(ctx context.Context, id uuid.UUID) error

	CreatePromotion(ctx context.Context, p *model.StudentPromotionModel) error
	ListPromotions(ctx context.Context, studentID uuid.UUID) ([]model.StudentPromotionModel, error)

	GetProgramFee(ctx context.Context, program string) (*model.ProgramFeeModel, error)
	UpsertProgramFee(ctx context.Context, program string, amount decimal.Decimal) (*model.ProgramFeeModel, error)
	ListProgramFees(ctx context.Context) ([]model.ProgramFeeModel, error)

	GetFee(ctx context.Context, id uuid.UUID) (*model.FeeModel, error)
	FindFee(ctx context.Context, studentID uuid.UUID, month string) (*model.FeeModel, error)
	CreateFee(ctx context.Context, f *model.FeeModel) (created bool, err error)
	ListFees(ctx context.Context, f FeeFilter) ([]model.FeeModel, error)
	// UpdateFeeAmount only touches unpaid fees.
	UpdateFeeAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (updated bool, err error)
	// MarkFeePaid flips paid false->true once; later calls report false.
	MarkFeePaid(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (updated bool, err error)

	CreateEmployee(ctx context.Context, e *model.EmployeeModel) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*model.EmployeeModel, error)
	ListEmployees(ctx context.Context) ([]model.EmployeeModel, error)
	UpdateEmployeeSalary(ctx context.Context, id uuid.UUID, salary decimal.Decimal) error
	// DeleteEmployee removes the employee with its salaries and their mirrors.
	DeleteEmployee(ctx context.Context, id uuid.UUID) error

	GetSalary(ctx context.Context, id uuid.UUID) (*model.SalaryModel, error)
	FindSalary(ctx context.Context, employeeID uuid.UUID, month string) (*model.SalaryModel, error)
	CreateSalary(ctx context.Context, s *model.SalaryModel) (created bool, err error)
	ListSalaries(ctx context.Context, f SalaryFilter) ([]model.SalaryModel, error)
	MarkSalaryPaid(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (updated bool, err error)

	// CreateExpense reports created=false when a mirror already exists for
	// the expense's salary.
	CreateExpense(ctx context.Context, e *model.ExpenseModel) (created bool, err error)
	FindExpenseBySalary(ctx context.Context, salaryID uuid.UUID) (*model.ExpenseModel, error)
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]model.ExpenseModel, error)
	SetExpensePaid(ctx context.Context, id uuid.UUID, paid bool) error

	CreateGenerationRun(ctx context.Context, r *model.GenerationRunModel) error
	ListGenerationRuns(ctx context.Context, limit int) ([]model.GenerationRunModel, error)
}
