// file: internals/features/finance/ledger/controller/ledger_controller.go
package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/features/finance/ledger/service"
	helper "schoolledger_backend/internals/helpers"
	"schoolledger_backend/internals/helpers/period"
)

// GenerationTrigger runs a pass for the current period through the
// scheduler, so manual and cron passes share its timeout and follow-ups.
type GenerationTrigger interface {
	Trigger(ctx context.Context) (service.RunSummary, error)
}

type LedgerController struct {
	Ledger *service.Ledger
	// nil when the scheduler is disabled; the generator is called directly
	Trigger GenerationTrigger
}

func NewLedgerController(l *service.Ledger, trigger GenerationTrigger) *LedgerController {
	return &LedgerController{Ledger: l, Trigger: trigger}
}

var errTable = []helper.ErrorStatus{
	{Err: repository.ErrNotFound, Status: fiber.StatusNotFound},
	{Err: period.ErrInvalidKey, Status: fiber.StatusBadRequest},
	{Err: service.ErrInvalidStatus, Status: fiber.StatusBadRequest},
	{Err: service.ErrInvalidStudentStatus, Status: fiber.StatusBadRequest},
	{Err: service.ErrNegativeAmount, Status: fiber.StatusBadRequest},
	{Err: service.ErrActorRequired, Status: fiber.StatusBadRequest},
	{Err: service.ErrMirrorManaged, Status: fiber.StatusBadRequest},
	{Err: service.ErrAlreadyPaid, Status: fiber.StatusConflict},
	{Err: service.ErrStudentInactive, Status: fiber.StatusConflict},
	{Err: service.ErrProgramFeeMissing, Status: fiber.StatusUnprocessableEntity},
}

func fail(err error) error { return helper.FromServiceError(err, errTable...) }

// partial answers 200 for cascades that committed their first step but
// could not finish every follow-up; the failure travels in the body.
func partial(c *fiber.Ctx, msg string, data any, err error) error {
	if err == nil {
		return helper.JsonOK(c, msg, data)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "operation timed out: "+err.Error())
	}
	return helper.JsonOK(c, msg+" with errors", fiber.Map{
		"result": data,
		"error":  err.Error(),
	})
}

func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query string")
	}
	return helper.Validate(dst)
}

// checker is implemented by DTOs with decimal fields.
type checker interface{ Check() error }

func bindBody(c *fiber.Ctx, dst any) error {
	if err := helper.BindAndValidate(c, dst); err != nil {
		return err
	}
	if ch, ok := dst.(checker); ok {
		return ch.Check()
	}
	return nil
}
