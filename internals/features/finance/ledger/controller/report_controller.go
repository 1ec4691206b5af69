// file: internals/features/finance/ledger/controller/report_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolledger_backend/internals/features/finance/ledger/dto"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	helper "schoolledger_backend/internals/helpers"
	"schoolledger_backend/internals/helpers/period"
)

// GET /fees?student_id=&month=&status=
func (ctl *LedgerController) ListFees(c *fiber.Ctx) error {
	var q dto.ListFeesQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	views, err := ctl.Ledger.Reports.ListFees(c.UserContext(), q.ToQuery())
	if err != nil {
		return fail(err)
	}
	page, pg := helper.PageOf(views, helper.ResolvePaging(c, 50, 500))
	return helper.JsonList(c, "ok", page, pg)
}

// GET /salaries?employee_id=&month=&status=
func (ctl *LedgerController) ListSalaries(c *fiber.Ctx) error {
	var q dto.ListSalariesQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	views, err := ctl.Ledger.Reports.ListSalaries(c.UserContext(), q.ToQuery())
	if err != nil {
		return fail(err)
	}
	page, pg := helper.PageOf(views, helper.ResolvePaging(c, 50, 500))
	return helper.JsonList(c, "ok", page, pg)
}

// GET /expenses?category=&mirrors_only=
func (ctl *LedgerController) ListExpenses(c *fiber.Ctx) error {
	var q dto.ListExpensesQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, err := ctl.Ledger.Store.ListExpenses(c.UserContext(), repository.ExpenseFilter{
		Category:    q.Category,
		MirrorsOnly: q.MirrorsOnly,
	})
	if err != nil {
		return fail(err)
	}
	page, pg := helper.PageOf(list, helper.ResolvePaging(c, 50, 500))
	return helper.JsonList(c, "ok", page, pg)
}

// GET /defaulters
// Students with unpaid fees for months that have fully ended.
func (ctl *LedgerController) Defaulters(c *fiber.Ctx) error {
	list, err := ctl.Ledger.Reports.Defaulters(c.UserContext(), ctl.Ledger.Clock.Now())
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "ok", list)
}

// GET /summary?month=March%202025
// Current period when month is omitted.
func (ctl *LedgerController) MonthlySummary(c *fiber.Ctx) error {
	p := period.Of(ctl.Ledger.Clock.Now())
	if key := strings.TrimSpace(c.Query("month")); key != "" {
		parsed, err := period.Parse(key)
		if err != nil {
			return fail(err)
		}
		p = parsed
	}
	sum, err := ctl.Ledger.Reports.MonthlySummary(c.UserContext(), p)
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "ok", sum)
}
