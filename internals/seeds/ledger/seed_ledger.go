package ledger

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/features/finance/ledger/service"
)

type ProgramFeeSeed struct {
	Program string          `json:"program"`
	Amount  decimal.Decimal `json:"amount"`
}

type StudentSeed struct {
	Name    string `json:"name"`
	Class   string `json:"class"`
	Section string `json:"section"`
	Program string `json:"program"`
	Session string `json:"session"`
}

type EmployeeSeed struct {
	Name   string          `json:"name"`
	Role   string          `json:"role"`
	Salary decimal.Decimal `json:"salary"`
}

type LedgerSeed struct {
	ProgramFees []ProgramFeeSeed `json:"program_fees"`
	Students    []StudentSeed    `json:"students"`
	Employees   []EmployeeSeed   `json:"employees"`
}

type Result struct {
	ProgramFees int
	Students    int
	Employees   int
	Skipped     int
}

// SeedLedgerFromJSON loads prices, students and employees from filePath.
// Students and employees go through admission and hiring, so the current
// period gets billed as it would for a real signup. Rows already present
// (same name and class, or same employee name) are left alone.
func SeedLedgerFromJSON(ctx context.Context, l *service.Ledger, filePath string) (Result, error) {
	log.Println("[SEED] reading", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed LedgerSeed
	if err := sonic.Unmarshal(raw, &seed); err != nil {
		return Result{}, fmt.Errorf("decode seed file: %w", err)
	}
	return SeedLedger(ctx, l, seed)
}

func SeedLedger(ctx context.Context, l *service.Ledger, seed LedgerSeed) (Result, error) {
	var res Result

	// prices first so admissions below can be billed
	for _, pf := range seed.ProgramFees {
		if _, err := l.Store.UpsertProgramFee(ctx, pf.Program, pf.Amount.Round(2)); err != nil {
			return res, fmt.Errorf("program fee %q: %w", pf.Program, err)
		}
		res.ProgramFees++
	}

	students, err := l.Store.ListStudents(ctx, repository.StudentFilter{})
	if err != nil {
		return res, err
	}
	existing := lo.SliceToMap(students, func(st model.StudentModel) (string, bool) {
		return studentKey(st.StudentName, st.StudentClass), true
	})
	for _, s := range seed.Students {
		if existing[studentKey(s.Name, s.Class)] {
			log.Printf("[SEED] student %q (%s) exists, skipping", s.Name, s.Class)
			res.Skipped++
			continue
		}
		st := &model.StudentModel{
			StudentName:    s.Name,
			StudentClass:   s.Class,
			StudentSection: s.Section,
			StudentProgram: s.Program,
			StudentSession: s.Session,
		}
		if _, err := l.AdmitStudent(ctx, st); err != nil {
			return res, fmt.Errorf("student %q: %w", s.Name, err)
		}
		res.Students++
	}

	employees, err := l.Store.ListEmployees(ctx)
	if err != nil {
		return res, err
	}
	names := lo.SliceToMap(employees, func(e model.EmployeeModel) (string, bool) {
		return strings.ToLower(e.EmployeeName), true
	})
	for _, e := range seed.Employees {
		if names[strings.ToLower(e.Name)] {
			log.Printf("[SEED] employee %q exists, skipping", e.Name)
			res.Skipped++
			continue
		}
		em := &model.EmployeeModel{EmployeeName: e.Name, EmployeeRole: e.Role, EmployeeSalary: e.Salary.Round(2)}
		if _, err := l.HireEmployee(ctx, em); err != nil {
			return res, fmt.Errorf("employee %q: %w", e.Name, err)
		}
		res.Employees++
	}

	log.Printf("[SEED] program_fees=%d students=%d employees=%d skipped=%d",
		res.ProgramFees, res.Students, res.Employees, res.Skipped)
	return res, nil
}

func studentKey(name, class string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(class)
}
