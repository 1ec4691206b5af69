// file: internals/features/finance/ledger/controller/student_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolledger_backend/internals/features/finance/ledger/dto"
	m "schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	helper "schoolledger_backend/internals/helpers"
)

/* ===================== CREATE ===================== */

// POST /students
func (ctl *LedgerController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := ctl.Ledger.AdmitStudent(c.UserContext(), req.ToModel())
	if err != nil {
		return fail(err)
	}
	return helper.JsonCreated(c, "student admitted", res)
}

/* ===================== READ ===================== */

// GET /students
func (ctl *LedgerController) ListStudents(c *fiber.Ctx) error {
	var q dto.ListStudentsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, err := ctl.Ledger.Store.ListStudents(c.UserContext(), repository.StudentFilter{
		Status:  m.StudentStatus(q.Status),
		Class:   q.Class,
		Program: q.Program,
	})
	if err != nil {
		return fail(err)
	}
	page, pg := helper.PageOf(list, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "ok", page, pg)
}

// GET /students/:id
func (ctl *LedgerController) GetStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	st, err := ctl.Ledger.Store.GetStudent(ctx, id)
	if err != nil {
		return fail(err)
	}
	promos, err := ctl.Ledger.Store.ListPromotions(ctx, id)
	if err != nil {
		return fail(err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"student": st, "promotions": promos})
}

/* ===================== UPDATE ===================== */

// PATCH /students/:id/classification
func (ctl *LedgerController) PatchClassification(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatchClassificationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := ctl.Ledger.Cascade.UpdateClassification(c.UserContext(), id, req.ToPatch())
	if res == nil && err != nil {
		return fail(err)
	}
	// nil result: nothing billing-relevant changed
	return partial(c, "classification updated", fiber.Map{"cascade": res}, err)
}

// POST /students/:id/promote
func (ctl *LedgerController) Promote(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PromoteRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := ctl.Ledger.Cascade.Promote(c.UserContext(), req.ToInput(id, helper.ActorFromRequest(c)))
	if err != nil && res.Promotion.StudentPromotionID == uuid.Nil {
		return fail(err)
	}
	return partial(c, "student promoted", res, err)
}

// POST /students/:id/reprice
// Entry point for promotions recorded outside this service.
func (ctl *LedgerController) Reprice(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res, err := ctl.Ledger.Hooks.OnPromotion(c.UserContext(), id)
	if err != nil && res.Program == "" {
		return fail(err)
	}
	return partial(c, "fees repriced", res, err)
}

// PATCH /students/:id/status
func (ctl *LedgerController) SetStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StudentStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := ctl.Ledger.SetStudentStatus(c.UserContext(), id, m.StudentStatus(req.StudentStatus)); err != nil {
		return fail(err)
	}
	return helper.JsonUpdated(c, "status updated", fiber.Map{"student_id": id, "student_status": req.StudentStatus})
}

// PUT /classes/:class/program
func (ctl *LedgerController) ReassignClassProgram(c *fiber.Ctx) error {
	class := c.Params("class")
	var req dto.ReassignClassProgramRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := ctl.Ledger.Cascade.ReassignClassProgram(c.UserContext(), class, req.Program)
	if err != nil && res.Students == 0 {
		return fail(err)
	}
	return partial(c, "class program reassigned", res, err)
}

/* ===================== DELETE ===================== */

// DELETE /students/:id
// Removes the student with every fee and promotion row.
func (ctl *LedgerController) DeleteStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Ledger.Store.DeleteStudent(c.UserContext(), id); err != nil {
		return fail(err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": id})
}
