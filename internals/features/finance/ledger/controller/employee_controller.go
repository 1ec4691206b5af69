// file: internals/features/finance/ledger/controller/employee_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolledger_backend/internals/features/finance/ledger/dto"
	helper "schoolledger_backend/internals/helpers"
)

// POST /employees
func (ctl *LedgerController) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := ctl.Ledger.HireEmployee(c.UserContext(), req.ToModel())
	if err != nil {
		return fail(err)
	}
	return helper.JsonCreated(c, "employee hired", res)
}

// GET /employees
func (ctl *LedgerController) ListEmployees(c *fiber.Ctx) error {
	list, err := ctl.Ledger.Store.ListEmployees(c.UserContext())
	if err != nil {
		return fail(err)
	}
	page, pg := helper.PageOf(list, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "ok", page, pg)
}

// PATCH /employees/:id/salary
// Only salaries generated from now on use the new amount.
func (ctl *LedgerController) UpdateSalary(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSalaryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := ctl.Ledger.Cascade.UpdateEmployeeSalary(c.UserContext(), id, req.EmployeeSalary.Round(2)); err != nil {
		return fail(err)
	}
	return helper.JsonUpdated(c, "salary updated", fiber.Map{"employee_id": id, "employee_salary": req.EmployeeSalary.Round(2)})
}

// DELETE /employees/:id
// Removes the employee with their salaries and salary expenses.
func (ctl *LedgerController) DeleteEmployee(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Ledger.Store.DeleteEmployee(c.UserContext(), id); err != nil {
		return fail(err)
	}
	return helper.JsonDeleted(c, "employee deleted", fiber.Map{"employee_id": id})
}

/* ===================== PROGRAM FEES ===================== */

// GET /program-fees
func (ctl *LedgerController) ListProgramFees(c *fiber.Ctx) error {
	list, err := ctl.Ledger.Store.ListProgramFees(c.UserContext())
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "ok", list)
}

// PUT /program-fees/:program
// Upserts the price, then reprices open fees of the program's students.
func (ctl *LedgerController) PutProgramFee(c *fiber.Ctx) error {
	var req dto.ProgramFeeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	pf, res, err := ctl.Ledger.SetProgramFee(c.UserContext(), c.Params("program"), req.ProgramFeeAmount.Round(2))
	if pf == nil {
		return fail(err)
	}
	return partial(c, "program fee saved", fiber.Map{"program_fee": pf, "cascade": res}, err)
}

/* ===================== EXPENSES ===================== */

// POST /expenses
func (ctl *LedgerController) CreateExpense(c *fiber.Ctx) error {
	var req dto.CreateExpenseRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	e := req.ToModel()
	if err := ctl.Ledger.RecordExpense(c.UserContext(), e, helper.ActorFromRequest(c)); err != nil {
		return fail(err)
	}
	return helper.JsonCreated(c, "expense recorded", e)
}
