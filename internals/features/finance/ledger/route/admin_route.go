// file: internals/features/finance/ledger/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	ledgerController "schoolledger_backend/internals/features/finance/ledger/controller"
	"schoolledger_backend/internals/features/finance/ledger/service"
	"schoolledger_backend/internals/middlewares"
)

// AdminLedgerRoutes mounts the ledger under r. Authentication sits in front
// of this service; handlers read the acting admin from X-Actor-ID.
func AdminLedgerRoutes(r fiber.Router, l *service.Ledger, trigger ledgerController.GenerationTrigger) {
	ctl := ledgerController.NewLedgerController(l, trigger)

	students := r.Group("/students")
	{
		students.Post("/", ctl.CreateStudent)
		students.Get("/", ctl.ListStudents)
		students.Get("/:id", ctl.GetStudent)
		students.Patch("/:id/classification", ctl.PatchClassification)
		students.Patch("/:id/status", ctl.SetStatus)
		students.Post("/:id/promote", ctl.Promote)
		students.Post("/:id/reprice", ctl.Reprice)
		students.Delete("/:id", ctl.DeleteStudent)
	}

	r.Put("/classes/:class/program", ctl.ReassignClassProgram)

	employees := r.Group("/employees")
	{
		employees.Post("/", ctl.CreateEmployee)
		employees.Get("/", ctl.ListEmployees)
		employees.Patch("/:id/salary", ctl.UpdateSalary)
		employees.Delete("/:id", ctl.DeleteEmployee)
	}

	fees := r.Group("/program-fees")
	{
		fees.Get("/", ctl.ListProgramFees)
		fees.Put("/:program", ctl.PutProgramFee) // reprices the program's open fees
	}

	// records + payment
	r.Get("/fees", ctl.ListFees)
	r.Post("/fees/:id/pay", ctl.PayFee)
	r.Get("/salaries", ctl.ListSalaries)
	r.Post("/salaries/:id/pay", ctl.PaySalary)
	r.Post("/records/:id/pay", ctl.PayRecord)
	r.Get("/expenses", ctl.ListExpenses)
	r.Post("/expenses", ctl.CreateExpense)

	// generation
	r.Post("/generate", middlewares.GenerationRateLimiter(), ctl.Generate)
	r.Get("/runs", ctl.ListRuns)
	r.Post("/mirrors/reconcile", middlewares.GenerationRateLimiter(), ctl.ReconcileMirrors)

	// reports
	r.Get("/defaulters", ctl.Defaulters)
	r.Get("/summary", ctl.MonthlySummary)
}
