// file: internals/features/finance/ledger/service/hooks.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

// Hooks are the lifecycle entry points the CRUD layer calls after it has
// written an entity. They bring the ledger up to date for the current period.
type Hooks struct {
	clock    clock.Clock
	gen      *Generator
	cascade  *Cascade
	payments *Payments
}

func NewHooks(clk clock.Clock, gen *Generator, cascade *Cascade, payments *Payments) *Hooks {
	return &Hooks{clock: clk, gen: gen, cascade: cascade, payments: payments}
}

// OnStudentCreated bills a new student for the current period. A missing
// program price is a configuration gap, not a failure of the admission.
func (h *Hooks) OnStudentCreated(ctx context.Context, studentID uuid.UUID) (Outcome, error) {
	out, err := h.gen.GenerateFee(ctx, studentID, period.Of(h.clock.Now()))
	if errors.Is(err, ErrProgramFeeMissing) {
		log.Printf("[GENERATOR] student=%s admitted without a bill: %v", studentID, err)
		return OutcomeSkipped, nil
	}
	return out, err
}

func (h *Hooks) OnEmployeeCreated(ctx context.Context, employeeID uuid.UUID) (Outcome, MirrorOutcome, error) {
	return h.gen.GenerateSalary(ctx, employeeID, period.Of(h.clock.Now()))
}

// OnPromotion re-runs the cascade for a student whose classification was
// changed outside Cascade.Promote.
func (h *Hooks) OnPromotion(ctx context.Context, studentID uuid.UUID) (CascadeResult, error) {
	return h.cascade.Reprice(ctx, studentID)
}

func (h *Hooks) OnPaymentRecorded(ctx context.Context, recordID, actor uuid.UUID) (PaymentReceipt, error) {
	return h.payments.MarkPaid(ctx, recordID, actor)
}
