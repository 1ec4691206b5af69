// file: internals/features/finance/ledger/service/payment.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/clock"
)

const (
	RecordKindFee    = "fee"
	RecordKindSalary = "salary"
)

// PaymentReceipt carries whichever record MarkPaid resolved.
type PaymentReceipt struct {
	Kind   string             `json:"kind"`
	Fee    *model.FeeModel    `json:"fee,omitempty"`
	Salary *model.SalaryModel `json:"salary,omitempty"`
}

// Payments owns the unpaid -> paid transition. It never reverts a record.
type Payments struct {
	store   repository.Store
	clock   clock.Clock
	mirrors *Mirrors
}

func NewPayments(store repository.Store, clk clock.Clock, mirrors *Mirrors) *Payments {
	return &Payments{store: store, clock: clk, mirrors: mirrors}
}

func (p *Payments) MarkFeePaid(ctx context.Context, id, actor uuid.UUID) (*model.FeeModel, error) {
	if actor == uuid.Nil {
		return nil, ErrActorRequired
	}
	updated, err := p.store.MarkFeePaid(ctx, id, p.clock.Now(), actor)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyPaid
	}
	log.Printf("[PAYMENT] fee=%s paid by=%s", id, actor)
	return p.store.GetFee(ctx, id)
}

// MarkSalaryPaid also flips the linked expense. The salary write is the
// authoritative one; a failed mirror write is logged and left for
// reconciliation rather than rolled back.
func (p *Payments) MarkSalaryPaid(ctx context.Context, id, actor uuid.UUID) (*model.SalaryModel, error) {
	if actor == uuid.Nil {
		return nil, ErrActorRequired
	}
	updated, err := p.store.MarkSalaryPaid(ctx, id, p.clock.Now(), actor)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyPaid
	}
	log.Printf("[PAYMENT] salary=%s paid by=%s", id, actor)

	sal, err := p.store.GetSalary(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.mirrors.Sync(ctx, *sal); err != nil {
		log.Printf("[MIRROR] sync expense for salary=%s failed: %v", id, err)
	}
	return sal, nil
}

// MarkPaid resolves id as a fee first, then as a salary.
func (p *Payments) MarkPaid(ctx context.Context, id, actor uuid.UUID) (PaymentReceipt, error) {
	_, err := p.store.GetFee(ctx, id)
	switch {
	case err == nil:
		fee, err := p.MarkFeePaid(ctx, id, actor)
		if err != nil {
			return PaymentReceipt{}, err
		}
		return PaymentReceipt{Kind: RecordKindFee, Fee: fee}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return PaymentReceipt{}, err
	}

	if _, err := p.store.GetSalary(ctx, id); err != nil {
		return PaymentReceipt{}, err
	}
	sal, err := p.MarkSalaryPaid(ctx, id, actor)
	if err != nil {
		return PaymentReceipt{}, err
	}
	return PaymentReceipt{Kind: RecordKindSalary, Salary: sal}, nil
}
