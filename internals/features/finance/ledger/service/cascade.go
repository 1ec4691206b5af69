// file: internals/features/finance/ledger/service/cascade.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

// CascadeResult describes one student's repricing pass.
type CascadeResult struct {
	StudentID uuid.UUID `json:"student_id"`
	Program   string    `json:"program"`

	// No price configured: nothing was repriced and no current bill created
	ProgramFeeMissing bool `json:"program_fee_missing"`

	Repriced  []uuid.UUID `json:"repriced"`
	Unchanged int         `json:"unchanged"`
	// Unpaid fees left alone because their month has elapsed or does not parse
	Protected int `json:"protected"`

	CurrentFee Outcome `json:"current_fee"`
}

type PromotionInput struct {
	StudentID uuid.UUID
	// Empty fields keep the student's current value
	To      model.ClassificationSnapshot
	ActorID *uuid.UUID
}

type PromotionResult struct {
	Promotion model.StudentPromotionModel `json:"promotion"`
	Cascade   CascadeResult               `json:"cascade"`
}

type ClassificationPatch struct {
	Class   *string
	Program *string
	Section *string
	Session *string
}

// BatchResult summarizes a class- or program-wide cascade.
type BatchResult struct {
	Students int             `json:"students"`
	Results  []CascadeResult `json:"results"`
	Failures []Skip          `json:"failures"`
}

// Cascade reprices a student's open fees after a classification change.
// Open means unpaid and for the current period or later; elapsed months keep
// the price that was in force when they were billed.
type Cascade struct {
	store repository.Store
	clock clock.Clock
	gen   *Generator
}

func NewCascade(store repository.Store, clk clock.Clock, gen *Generator) *Cascade {
	return &Cascade{store: store, clock: clk, gen: gen}
}

// Reprice applies the student's current program price to open fees, then
// makes sure a bill exists for the current period.
func (c *Cascade) Reprice(ctx context.Context, studentID uuid.UUID) (CascadeResult, error) {
	res := CascadeResult{StudentID: studentID}

	// Serialized with generator passes so a pass cannot bill this student
	// from a classification read before the change.
	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()

	st, err := c.store.GetStudent(ctx, studentID)
	if err != nil {
		return res, err
	}
	res.Program = st.StudentProgram
	now := c.clock.Now()

	price, err := c.store.GetProgramFee(ctx, st.StudentProgram)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		res.ProgramFeeMissing = true
		res.CurrentFee = OutcomeSkipped
		log.Printf("[CASCADE] student=%s program=%q has no fee; open fees untouched", studentID, st.StudentProgram)
		return res, nil
	case err != nil:
		return res, fmt.Errorf("program fee: %w", err)
	}

	unpaid := false
	fees, err := c.store.ListFees(ctx, repository.FeeFilter{StudentID: &studentID, Paid: &unpaid})
	if err != nil {
		return res, fmt.Errorf("list fees: %w", err)
	}

	var errs []error
	for _, fee := range fees {
		if !period.IsCurrentOrFuture(fee.FeeMonth, now) {
			res.Protected++
			continue
		}
		if fee.FeeAmount.Equal(price.ProgramFeeAmount) {
			res.Unchanged++
			continue
		}
		updated, err := c.store.UpdateFeeAmount(ctx, fee.FeeID, price.ProgramFeeAmount)
		if err != nil {
			errs = append(errs, fmt.Errorf("reprice fee %s: %w", fee.FeeID, err))
			continue
		}
		if !updated {
			// paid in the meantime
			res.Protected++
			continue
		}
		res.Repriced = append(res.Repriced, fee.FeeID)
	}

	out, err := c.gen.generateFeeFor(ctx, studentID, period.Of(now).Key())
	res.CurrentFee = out
	if err != nil {
		errs = append(errs, fmt.Errorf("current period fee: %w", err))
	}

	log.Printf("[CASCADE] student=%s program=%q repriced=%d unchanged=%d protected=%d current=%s",
		studentID, st.StudentProgram, len(res.Repriced), res.Unchanged, res.Protected, res.CurrentFee)
	return res, errors.Join(errs...)
}

// Promote moves the student, appends the audit row and cascades.
func (c *Cascade) Promote(ctx context.Context, in PromotionInput) (PromotionResult, error) {
	var out PromotionResult

	st, err := c.store.GetStudent(ctx, in.StudentID)
	if err != nil {
		return out, err
	}
	if !st.IsActive() {
		return out, ErrStudentInactive
	}

	from := st.Classification()
	to := mergeClassification(from, in.To)

	if err := c.store.UpdateStudentClassification(ctx, st.StudentID, to); err != nil {
		return out, fmt.Errorf("update classification: %w", err)
	}

	// the log is append-only, so only a move that happened is recorded
	promo := &model.StudentPromotionModel{
		StudentPromotionStudentID: st.StudentID,
		StudentPromotionFrom:      from,
		StudentPromotionTo:        to,
		StudentPromotionBy:        in.ActorID,
	}
	if err := c.store.CreatePromotion(ctx, promo); err != nil {
		return out, fmt.Errorf("record promotion: %w", err)
	}
	out.Promotion = *promo
	log.Printf("[CASCADE] promoted student=%s class %q->%q program %q->%q",
		st.StudentID, from.Class, to.Class, from.Program, to.Program)

	out.Cascade, err = c.Reprice(ctx, st.StudentID)
	return out, err
}

// UpdateClassification is the manual edit path. It cascades only when the
// class or program actually changed.
func (c *Cascade) UpdateClassification(ctx context.Context, studentID uuid.UUID, patch ClassificationPatch) (*CascadeResult, error) {
	st, err := c.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	before := st.Classification()
	after := before
	if patch.Class != nil {
		after.Class = *patch.Class
	}
	if patch.Program != nil {
		after.Program = *patch.Program
	}
	if patch.Section != nil {
		after.Section = *patch.Section
	}
	if patch.Session != nil {
		after.Session = *patch.Session
	}
	if after == before {
		return nil, nil
	}
	if err := c.store.UpdateStudentClassification(ctx, studentID, after); err != nil {
		return nil, err
	}
	if after.Class == before.Class && after.Program == before.Program {
		return nil, nil
	}
	res, err := c.Reprice(ctx, studentID)
	return &res, err
}

// ReassignClassProgram moves every active student of a class onto program.
func (c *Cascade) ReassignClassProgram(ctx context.Context, class, program string) (BatchResult, error) {
	var out BatchResult
	students, err := c.store.ListStudents(ctx, repository.StudentFilter{Status: model.StudentActive, Class: class})
	if err != nil {
		return out, err
	}
	out.Students = len(students)

	for _, st := range students {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		to := st.Classification()
		if to.Program != program {
			to.Program = program
			if err := c.store.UpdateStudentClassification(ctx, st.StudentID, to); err != nil {
				out.Failures = append(out.Failures, Skip{Kind: SkipKindStudent, ID: st.StudentID, Reason: err.Error()})
				continue
			}
		}
		res, err := c.Reprice(ctx, st.StudentID)
		if err != nil {
			out.Failures = append(out.Failures, Skip{Kind: SkipKindStudent, ID: st.StudentID, Reason: err.Error()})
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

// RepriceProgram runs the cascade for every active student of program, used
// after its price list entry changed.
func (c *Cascade) RepriceProgram(ctx context.Context, program string) (BatchResult, error) {
	var out BatchResult
	students, err := c.store.ListStudents(ctx, repository.StudentFilter{Status: model.StudentActive, Program: program})
	if err != nil {
		return out, err
	}
	out.Students = len(students)

	for _, st := range students {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		res, err := c.Reprice(ctx, st.StudentID)
		if err != nil {
			out.Failures = append(out.Failures, Skip{Kind: SkipKindStudent, ID: st.StudentID, Reason: err.Error()})
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

// UpdateEmployeeSalary changes the pay used for future salaries only.
// Salaries already generated, paid or not, keep their amount.
func (c *Cascade) UpdateEmployeeSalary(ctx context.Context, employeeID uuid.UUID, salary decimal.Decimal) error {
	if err := c.store.UpdateEmployeeSalary(ctx, employeeID, salary); err != nil {
		return err
	}
	log.Printf("[CASCADE] employee=%s salary set to %s; existing salaries not repriced", employeeID, salary)
	return nil
}

func mergeClassification(cur, to model.ClassificationSnapshot) model.ClassificationSnapshot {
	if to.Class != "" {
		cur.Class = to.Class
	}
	if to.Program != "" {
		cur.Program = to.Program
	}
	if to.Section != "" {
		cur.Section = to.Section
	}
	if to.Session != "" {
		cur.Session = to.Session
	}
	return cur
}
