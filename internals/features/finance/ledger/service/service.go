// file: internals/features/finance/ledger/service/service.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/clock"
)

type Options struct {
	// Recorded as creator of generator-made expenses. uuid.Nil defers mirrors.
	SystemActor uuid.UUID
}

// Ledger wires the lifecycle services over one store and one clock.
type Ledger struct {
	Store     repository.Store
	Clock     clock.Clock
	Generator *Generator
	Cascade   *Cascade
	Payments  *Payments
	Mirrors   *Mirrors
	Reports   *Reports
	Hooks     *Hooks
}

func New(store repository.Store, clk clock.Clock, opt Options) *Ledger {
	gen := NewGenerator(store, clk, opt.SystemActor)
	mirrors := NewMirrors(store, clk, opt.SystemActor)
	cascade := NewCascade(store, clk, gen)
	payments := NewPayments(store, clk, mirrors)
	return &Ledger{
		Store:     store,
		Clock:     clk,
		Generator: gen,
		Cascade:   cascade,
		Payments:  payments,
		Mirrors:   mirrors,
		Reports:   NewReports(store, clk),
		Hooks:     NewHooks(clk, gen, cascade, payments),
	}
}

/* ===================== Admin operations ===================== */

type AdmissionResult struct {
	Student    model.StudentModel `json:"student"`
	CurrentFee Outcome            `json:"current_fee"`
}

// AdmitStudent stores a new student and bills the current period.
func (l *Ledger) AdmitStudent(ctx context.Context, st *model.StudentModel) (AdmissionResult, error) {
	if st.StudentStatus != "" && !st.StudentStatus.Valid() {
		return AdmissionResult{}, fmt.Errorf("%w: %q", ErrInvalidStudentStatus, st.StudentStatus)
	}
	if err := l.Store.CreateStudent(ctx, st); err != nil {
		return AdmissionResult{}, err
	}
	out, err := l.Hooks.OnStudentCreated(ctx, st.StudentID)
	if err != nil {
		log.Printf("[GENERATOR] student=%s current fee: %v", st.StudentID, err)
	}
	return AdmissionResult{Student: *st, CurrentFee: out}, nil
}

type HireResult struct {
	Employee      model.EmployeeModel `json:"employee"`
	CurrentSalary Outcome             `json:"current_salary"`
	Mirror        MirrorOutcome       `json:"mirror,omitempty"`
}

func (l *Ledger) HireEmployee(ctx context.Context, e *model.EmployeeModel) (HireResult, error) {
	if err := l.Store.CreateEmployee(ctx, e); err != nil {
		return HireResult{}, err
	}
	out, mirror, err := l.Hooks.OnEmployeeCreated(ctx, e.EmployeeID)
	if err != nil {
		log.Printf("[GENERATOR] employee=%s current salary: %v", e.EmployeeID, err)
	}
	return HireResult{Employee: *e, CurrentSalary: out, Mirror: mirror}, nil
}

// SetProgramFee updates the price list and reprices the program's open fees.
func (l *Ledger) SetProgramFee(ctx context.Context, program string, amount decimal.Decimal) (*model.ProgramFeeModel, BatchResult, error) {
	if amount.IsNegative() {
		return nil, BatchResult{}, ErrNegativeAmount
	}
	pf, err := l.Store.UpsertProgramFee(ctx, program, amount)
	if err != nil {
		return nil, BatchResult{}, err
	}
	log.Printf("[CASCADE] program=%q fee set to %s", program, amount)
	res, err := l.Cascade.RepriceProgram(ctx, program)
	return pf, res, err
}

// SetStudentStatus moves a student between ACTIVE, GRADUATED and DROPPED.
// Existing fees stay; inactive students are simply not billed again.
func (l *Ledger) SetStudentStatus(ctx context.Context, id uuid.UUID, status model.StudentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStudentStatus, status)
	}
	return l.Store.UpdateStudentStatus(ctx, id, status)
}

// RecordExpense stores a manual expense. Salary mirrors are only ever made by
// the generator and reconciliation, so a salary link is rejected here.
func (l *Ledger) RecordExpense(ctx context.Context, e *model.ExpenseModel, actor uuid.UUID) error {
	if actor == uuid.Nil {
		return ErrActorRequired
	}
	if e.ExpenseAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if e.ExpenseSalaryID != nil {
		return ErrMirrorManaged
	}
	e.ExpenseCreatedBy = actor
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = l.Clock.Now()
	}
	if _, err := l.Store.CreateExpense(ctx, e); err != nil {
		return err
	}
	log.Printf("[EXPENSE] %s %q amount=%s by=%s", e.ExpenseID, e.ExpenseTitle, e.ExpenseAmount, actor)
	return nil
}
