// file: internals/features/finance/ledger/service/mirror.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

func buildMirror(sal model.SalaryModel, e model.EmployeeModel, actor uuid.UUID, date time.Time) *model.ExpenseModel {
	salaryID := sal.SalaryID
	return &model.ExpenseModel{
		ExpenseTitle:     fmt.Sprintf("Salary %s - %s", e.EmployeeName, sal.SalaryMonth),
		ExpenseCategory:  model.ExpenseCategorySalary,
		ExpenseAmount:    sal.SalaryAmount,
		ExpenseDate:      date,
		ExpensePaid:      sal.SalaryPaid,
		ExpenseSalaryID:  &salaryID,
		ExpenseCreatedBy: actor,
	}
}

type ReconcileResult struct {
	Checked  int    `json:"checked"`
	Created  int    `json:"created"`
	Repaired int    `json:"repaired"`
	Deferred int    `json:"deferred"`
	Failures []Skip `json:"failures"`
}

// Mirrors repairs salary/expense drift. The salary is authoritative: a
// missing mirror is created and a mirror whose paid flag disagrees is set to
// the salary's value.
type Mirrors struct {
	store       repository.Store
	clock       clock.Clock
	systemActor uuid.UUID
}

func NewMirrors(store repository.Store, clk clock.Clock, systemActor uuid.UUID) *Mirrors {
	return &Mirrors{store: store, clock: clk, systemActor: systemActor}
}

// Sync pushes a salary's paid flag onto its mirror. A missing mirror is not
// an error here; Reconcile creates it.
func (m *Mirrors) Sync(ctx context.Context, sal model.SalaryModel) error {
	exp, err := m.store.FindExpenseBySalary(ctx, sal.SalaryID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[MIRROR] salary=%s has no expense yet; left for reconciliation", sal.SalaryID)
		return nil
	}
	if err != nil {
		return err
	}
	if exp.ExpensePaid == sal.SalaryPaid {
		return nil
	}
	return m.store.SetExpensePaid(ctx, exp.ExpenseID, sal.SalaryPaid)
}

func (m *Mirrors) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult

	salaries, err := m.store.ListSalaries(ctx, repository.SalaryFilter{})
	if err != nil {
		return res, fmt.Errorf("list salaries: %w", err)
	}

	employees := map[uuid.UUID]*model.EmployeeModel{}
	loc := m.clock.Now().Location()

	for _, sal := range salaries {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Checked++

		exp, err := m.store.FindExpenseBySalary(ctx, sal.SalaryID)
		switch {
		case err == nil:
			if exp.ExpensePaid == sal.SalaryPaid {
				continue
			}
			if err := m.store.SetExpensePaid(ctx, exp.ExpenseID, sal.SalaryPaid); err != nil {
				res.Failures = append(res.Failures, Skip{Kind: SkipKindSalary, ID: sal.SalaryID, Reason: err.Error()})
				continue
			}
			res.Repaired++

		case errors.Is(err, repository.ErrNotFound):
			if m.systemActor == uuid.Nil {
				res.Deferred++
				continue
			}
			e, ok := employees[sal.SalaryEmployeeID]
			if !ok {
				e, err = m.store.GetEmployee(ctx, sal.SalaryEmployeeID)
				if err != nil {
					res.Failures = append(res.Failures, Skip{Kind: SkipKindSalary, ID: sal.SalaryID, Reason: err.Error()})
					continue
				}
				employees[sal.SalaryEmployeeID] = e
			}
			date := m.clock.Now()
			if p, perr := period.Parse(sal.SalaryMonth); perr == nil {
				date = p.Start(loc)
			}
			if _, err := m.store.CreateExpense(ctx, buildMirror(sal, *e, m.systemActor, date)); err != nil {
				res.Failures = append(res.Failures, Skip{Kind: SkipKindSalary, ID: sal.SalaryID, Reason: err.Error()})
				continue
			}
			res.Created++

		default:
			res.Failures = append(res.Failures, Skip{Kind: SkipKindSalary, ID: sal.SalaryID, Reason: err.Error()})
		}
	}

	if res.Created > 0 || res.Repaired > 0 || len(res.Failures) > 0 {
		log.Printf("[MIRROR] reconcile checked=%d created=%d repaired=%d deferred=%d failures=%d",
			res.Checked, res.Created, res.Repaired, res.Deferred, len(res.Failures))
	}
	return res, nil
}
