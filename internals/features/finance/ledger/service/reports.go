// file: internals/features/finance/ledger/service/reports.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/features/finance/ledger/snapshot"
	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

/* ===================== Views ===================== */

type FeeQuery struct {
	StudentID *uuid.UUID
	Month     string
	Status    string
}

type FeeView struct {
	Fee            model.FeeModel               `json:"fee"`
	Status         Status                       `json:"status"`
	Classification model.ClassificationSnapshot `json:"classification"`
	StudentName    string                       `json:"student_name"`
}

type SalaryQuery struct {
	EmployeeID *uuid.UUID
	Month      string
	Status     string
}

type SalaryView struct {
	Salary model.SalaryModel `json:"salary"`
	Status Status            `json:"status"`
}

type Defaulter struct {
	StudentID   uuid.UUID       `json:"student_id"`
	StudentName string          `json:"student_name"`
	Class       string          `json:"class"`
	Program     string          `json:"program"`
	Months      []string        `json:"months"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type MonthlySummary struct {
	Period string `json:"period"`

	FeesBilled      decimal.Decimal `json:"fees_billed"`
	FeesCollected   decimal.Decimal `json:"fees_collected"`
	FeesOutstanding decimal.Decimal `json:"fees_outstanding"`
	FeeCount        int             `json:"fee_count"`
	FeesPaidCount   int             `json:"fees_paid_count"`

	SalariesTotal  decimal.Decimal `json:"salaries_total"`
	SalariesPaid   decimal.Decimal `json:"salaries_paid"`
	SalariesUnpaid decimal.Decimal `json:"salaries_unpaid"`

	// Expenses dated inside the period, mirrors included
	Expenses      decimal.Decimal `json:"expenses"`
	ExpensesCount int             `json:"expenses_count"`

	// Month has ended; unpaid fees here are defaults
	Completed bool `json:"completed"`
}

/* ===================== Reports ===================== */

// Reports is read-only. Status is derived per call from the clock and never
// written back.
type Reports struct {
	store repository.Store
	clock clock.Clock
}

func NewReports(store repository.Store, clk clock.Clock) *Reports {
	return &Reports{store: store, clock: clk}
}

// ListFees returns fees with derived status and display classification. A
// status filter never matches fees whose month key does not parse.
func (r *Reports) ListFees(ctx context.Context, q FeeQuery) ([]FeeView, error) {
	f := repository.FeeFilter{StudentID: q.StudentID}
	if q.Month != "" {
		p, err := period.Parse(q.Month)
		if err != nil {
			return nil, err
		}
		f.Month = p.Key()
	}
	want, err := statusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	fees, err := r.store.ListFees(ctx, f)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	students := map[uuid.UUID]*model.StudentModel{}
	out := make([]FeeView, 0, len(fees))
	for _, fee := range fees {
		if want != "" {
			if period.Classify(fee.FeeMonth, now) == period.NonComparable {
				continue
			}
			if FeeStatus(fee, now) != want {
				continue
			}
		}

		st, ok := students[fee.FeeStudentID]
		if !ok {
			st, err = r.store.GetStudent(ctx, fee.FeeStudentID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			students[fee.FeeStudentID] = st
		}

		v := FeeView{
			Fee:            fee,
			Status:         FeeStatus(fee, now),
			Classification: snapshot.Effective(fee, st, now),
		}
		if st != nil {
			v.StudentName = st.StudentName
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Reports) ListSalaries(ctx context.Context, q SalaryQuery) ([]SalaryView, error) {
	f := repository.SalaryFilter{EmployeeID: q.EmployeeID}
	if q.Month != "" {
		p, err := period.Parse(q.Month)
		if err != nil {
			return nil, err
		}
		f.Month = p.Key()
	}
	want, err := statusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	salaries, err := r.store.ListSalaries(ctx, f)
	if err != nil {
		return nil, err
	}
	now := r.clock.Now()

	var out []SalaryView
	for _, s := range salaries {
		if want != "" && (period.Classify(s.SalaryMonth, now) == period.NonComparable || SalaryStatus(s, now) != want) {
			continue
		}
		out = append(out, SalaryView{Salary: s, Status: SalaryStatus(s, now)})
	}
	return out, nil
}

// Defaulters lists students with an unpaid fee for a month that has fully
// ended by now. The month in progress never counts.
func (r *Reports) Defaulters(ctx context.Context, now time.Time) ([]Defaulter, error) {
	unpaid := false
	fees, err := r.store.ListFees(ctx, repository.FeeFilter{Paid: &unpaid})
	if err != nil {
		return nil, err
	}

	late := lo.Filter(fees, func(f model.FeeModel, _ int) bool {
		return MonthCompleted(f.FeeMonth, now)
	})
	byStudent := lo.GroupBy(late, func(f model.FeeModel) uuid.UUID { return f.FeeStudentID })

	out := make([]Defaulter, 0, len(byStudent))
	for sid, list := range byStudent {
		sort.Slice(list, func(i, j int) bool {
			return period.MustParse(list[i].FeeMonth).Before(period.MustParse(list[j].FeeMonth))
		})
		d := Defaulter{
			StudentID:   sid,
			Months:      lo.Map(list, func(f model.FeeModel, _ int) string { return f.FeeMonth }),
			Outstanding: sumFees(list),
		}
		if st, err := r.store.GetStudent(ctx, sid); err == nil {
			d.StudentName = st.StudentName
			d.Class = st.StudentClass
			d.Program = st.StudentProgram
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentName != out[j].StudentName {
			return out[i].StudentName < out[j].StudentName
		}
		return out[i].StudentID.String() < out[j].StudentID.String()
	})
	return out, nil
}

func (r *Reports) MonthlySummary(ctx context.Context, p period.Period) (MonthlySummary, error) {
	key := p.Key()
	now := r.clock.Now()
	sum := MonthlySummary{Period: key, Completed: period.Completed(p, now)}

	fees, err := r.store.ListFees(ctx, repository.FeeFilter{Month: key})
	if err != nil {
		return sum, fmt.Errorf("list fees: %w", err)
	}
	paidFees, openFees := lo.FilterReject(fees, func(f model.FeeModel, _ int) bool { return f.FeePaid })
	sum.FeeCount = len(fees)
	sum.FeesPaidCount = len(paidFees)
	sum.FeesCollected = sumFees(paidFees)
	sum.FeesOutstanding = sumFees(openFees)
	sum.FeesBilled = sum.FeesCollected.Add(sum.FeesOutstanding)

	salaries, err := r.store.ListSalaries(ctx, repository.SalaryFilter{Month: key})
	if err != nil {
		return sum, fmt.Errorf("list salaries: %w", err)
	}
	for _, s := range salaries {
		if s.SalaryPaid {
			sum.SalariesPaid = sum.SalariesPaid.Add(s.SalaryAmount)
		} else {
			sum.SalariesUnpaid = sum.SalariesUnpaid.Add(s.SalaryAmount)
		}
	}
	sum.SalariesTotal = sum.SalariesPaid.Add(sum.SalariesUnpaid)

	expenses, err := r.store.ListExpenses(ctx, repository.ExpenseFilter{})
	if err != nil {
		return sum, fmt.Errorf("list expenses: %w", err)
	}
	loc := now.Location()
	from, to := p.Start(loc), p.Next().Start(loc)
	for _, e := range expenses {
		d := e.ExpenseDate.In(loc)
		if d.Before(from) || !d.Before(to) {
			continue
		}
		sum.Expenses = sum.Expenses.Add(e.ExpenseAmount)
		sum.ExpensesCount++
	}
	return sum, nil
}

func statusFilter(s string) (Status, error) {
	if s == "" {
		return "", nil
	}
	st, ok := ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func sumFees(list []model.FeeModel) decimal.Decimal {
	return lo.Reduce(list, func(acc decimal.Decimal, f model.FeeModel, _ int) decimal.Decimal {
		return acc.Add(f.FeeAmount)
	}, decimal.Zero)
}
