// file: internals/features/finance/ledger/controller/record_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolledger_backend/internals/features/finance/ledger/dto"
	m "schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/service"
	helper "schoolledger_backend/internals/helpers"
	"schoolledger_backend/internals/helpers/period"
)

/* ===================== GENERATION ===================== */

// POST /generate
// Body {"period": "March 2025"} or empty for the current period.
func (ctl *LedgerController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}
	ctx := c.UserContext()

	var (
		sum service.RunSummary
		err error
	)
	switch key := strings.TrimSpace(req.Period); {
	case key != "":
		p, perr := period.Parse(key)
		if perr != nil {
			return fail(perr)
		}
		sum, err = ctl.Ledger.Generator.GenerateForPeriod(ctx, p)
	case ctl.Trigger != nil:
		sum, err = ctl.Trigger.Trigger(ctx)
	default:
		sum, err = ctl.Ledger.Generator.GenerateCurrent(ctx, m.RunTriggerManual)
	}
	return partial(c, "generation finished", sum, err)
}

// GET /runs
func (ctl *LedgerController) ListRuns(c *fiber.Ctx) error {
	var q dto.ListRunsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	runs, err := ctl.Ledger.Store.ListGenerationRuns(c.UserContext(), q.Limit)
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "ok", runs)
}

// POST /mirrors/reconcile
func (ctl *LedgerController) ReconcileMirrors(c *fiber.Ctx) error {
	res, err := ctl.Ledger.Mirrors.Reconcile(c.UserContext())
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "mirrors reconciled", res)
}

/* ===================== PAYMENTS ===================== */

// POST /fees/:id/pay
func (ctl *LedgerController) PayFee(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	fee, err := ctl.Ledger.Payments.MarkFeePaid(c.UserContext(), id, helper.ActorFromRequest(c))
	if err != nil {
		return fail(err)
	}
	return helper.JsonUpdated(c, "fee paid", fee)
}

// POST /salaries/:id/pay
func (ctl *LedgerController) PaySalary(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	sal, err := ctl.Ledger.Payments.MarkSalaryPaid(c.UserContext(), id, helper.ActorFromRequest(c))
	if err != nil {
		return fail(err)
	}
	return helper.JsonUpdated(c, "salary paid", sal)
}

// POST /records/:id/pay
// For callers that only hold a record id; fee is tried before salary.
func (ctl *LedgerController) PayRecord(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rcpt, err := ctl.Ledger.Hooks.OnPaymentRecorded(c.UserContext(), id, helper.ActorFromRequest(c))
	if err != nil {
		return fail(err)
	}
	return helper.JsonUpdated(c, rcpt.Kind+" paid", rcpt)
}
