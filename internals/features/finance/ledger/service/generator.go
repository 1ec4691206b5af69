// file: internals/features/finance/ledger/service/generator.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/features/finance/ledger/snapshot"
	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeExisting Outcome = "existing"
	OutcomeSkipped  Outcome = "skipped"
)

type MirrorOutcome string

const (
	MirrorCreated  MirrorOutcome = "created"
	MirrorExisting MirrorOutcome = "existing"
	MirrorDeferred MirrorOutcome = "deferred"
)

const (
	SkipKindStudent  = "student"
	SkipKindEmployee = "employee"
	SkipKindSalary   = "salary"
	SkipKindBatch    = "batch"
)

// Skip is one entity the run could not bill, with the reason.
type Skip struct {
	Kind   string    `json:"kind"`
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// RunSummary is returned by every generator pass for observability. It is
// not a transaction record: entities created before a failure stay created.
type RunSummary struct {
	Period  string `json:"period"`
	Trigger string `json:"trigger"`

	FeesCreated      int `json:"fees_created"`
	FeesExisting     int `json:"fees_existing"`
	SalariesCreated  int `json:"salaries_created"`
	SalariesExisting int `json:"salaries_existing"`
	MirrorsCreated   int `json:"mirrors_created"`
	MirrorsDeferred  int `json:"mirrors_deferred"`

	Skipped []Skip `json:"skipped"`

	// Students holding an unpaid fee from a period strictly before Period
	OverdueWatch []uuid.UUID `json:"overdue_watch"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s RunSummary) Created() int { return s.FeesCreated + s.SalariesCreated }
func (s RunSummary) Existing() int {
	return s.FeesExisting + s.SalariesExisting
}
func (s RunSummary) SkippedCount() int { return len(s.Skipped) }

func (s *RunSummary) skip(kind string, id uuid.UUID, err error) {
	s.Skipped = append(s.Skipped, Skip{Kind: kind, ID: id, Reason: err.Error()})
}

// Generator materializes one fee per active student and one salary per
// employee for a period. Every step is existence-checked, so passes can be
// repeated freely; passes inside one process are serialized.
type Generator struct {
	store       repository.Store
	clock       clock.Clock
	systemActor uuid.UUID

	mu sync.Mutex
}

func NewGenerator(store repository.Store, clk clock.Clock, systemActor uuid.UUID) *Generator {
	return &Generator{store: store, clock: clk, systemActor: systemActor}
}

// GenerateForPeriod is an on-demand pass for p.
func (g *Generator) GenerateForPeriod(ctx context.Context, p period.Period) (RunSummary, error) {
	return g.Run(ctx, p, model.RunTriggerManual)
}

// GenerateCurrent runs a pass for the period containing the clock's now.
func (g *Generator) GenerateCurrent(ctx context.Context, trigger string) (RunSummary, error) {
	return g.Run(ctx, period.Of(g.clock.Now()), trigger)
}

// Run performs one pass. The error is non-nil only when a whole entity list
// could not be read; per-entity failures land in Skipped.
func (g *Generator) Run(ctx context.Context, p period.Period, trigger string) (RunSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := p.Key()
	sum := RunSummary{Period: key, Trigger: trigger, StartedAt: g.clock.Now()}
	log.Printf("[GENERATOR] run start period=%q trigger=%s", key, trigger)

	var errs []error

	students, err := g.store.ListStudents(ctx, repository.StudentFilter{Status: model.StudentActive})
	if err != nil {
		errs = append(errs, fmt.Errorf("list students: %w", err))
		sum.skip(SkipKindBatch, uuid.Nil, err)
	}
	for _, st := range students {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		out, err := g.generateFee(ctx, st, key)
		switch {
		case err != nil:
			sum.skip(SkipKindStudent, st.StudentID, err)
			log.Printf("[GENERATOR] skip student=%s period=%q: %v", st.StudentID, key, err)
		case out == OutcomeCreated:
			sum.FeesCreated++
		case out == OutcomeExisting:
			sum.FeesExisting++
		}
	}

	employees, err := g.store.ListEmployees(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("list employees: %w", err))
		sum.skip(SkipKindBatch, uuid.Nil, err)
	}
	expenseDate := p.Start(g.clock.Now().Location())
	for _, e := range employees {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		out, mirror, err := g.generateSalary(ctx, e, key, expenseDate)
		switch {
		case err != nil:
			sum.skip(SkipKindEmployee, e.EmployeeID, err)
			log.Printf("[GENERATOR] skip employee=%s period=%q: %v", e.EmployeeID, key, err)
			continue
		case out == OutcomeCreated:
			sum.SalariesCreated++
		case out == OutcomeExisting:
			sum.SalariesExisting++
		}
		switch mirror {
		case MirrorCreated:
			sum.MirrorsCreated++
		case MirrorDeferred:
			sum.MirrorsDeferred++
		}
	}

	watch, err := g.overdueWatch(ctx, p)
	if err != nil {
		log.Printf("[GENERATOR] overdue watch list unavailable: %v", err)
	}
	sum.OverdueWatch = watch
	sum.FinishedAt = g.clock.Now()

	// the summary is kept even when the pass ran out of time
	g.recordRun(context.WithoutCancel(ctx), sum)
	log.Printf("[GENERATOR] run done period=%q fees=+%d/%d salaries=+%d/%d skipped=%d mirrors_deferred=%d overdue_students=%d",
		key, sum.FeesCreated, sum.FeesExisting, sum.SalariesCreated, sum.SalariesExisting,
		sum.SkippedCount(), sum.MirrorsDeferred, len(sum.OverdueWatch))

	return sum, errors.Join(errs...)
}

// GenerateFee is the single-student variant used on admission and after a
// promotion. Inactive students are skipped without error.
func (g *Generator) GenerateFee(ctx context.Context, studentID uuid.UUID, p period.Period) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateFeeFor(ctx, studentID, p.Key())
}

// generateFeeFor reloads the student before billing. Callers hold g.mu.
func (g *Generator) generateFeeFor(ctx context.Context, studentID uuid.UUID, key string) (Outcome, error) {
	st, err := g.store.GetStudent(ctx, studentID)
	if err != nil {
		return OutcomeSkipped, err
	}
	if !st.IsActive() {
		return OutcomeSkipped, nil
	}
	return g.generateFee(ctx, *st, key)
}

// GenerateSalary is the single-employee variant used on hiring.
func (g *Generator) GenerateSalary(ctx context.Context, employeeID uuid.UUID, p period.Period) (Outcome, MirrorOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, err := g.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return OutcomeSkipped, "", err
	}
	return g.generateSalary(ctx, *e, p.Key(), p.Start(g.clock.Now().Location()))
}

func (g *Generator) generateFee(ctx context.Context, st model.StudentModel, key string) (Outcome, error) {
	_, err := g.store.FindFee(ctx, st.StudentID, key)
	if err == nil {
		return OutcomeExisting, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return OutcomeSkipped, fmt.Errorf("find fee: %w", err)
	}

	price, err := g.store.GetProgramFee(ctx, st.StudentProgram)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OutcomeSkipped, fmt.Errorf("%w: %q", ErrProgramFeeMissing, st.StudentProgram)
		}
		return OutcomeSkipped, fmt.Errorf("program fee: %w", err)
	}

	fee := &model.FeeModel{
		FeeStudentID: st.StudentID,
		FeeMonth:     key,
		FeeAmount:    price.ProgramFeeAmount,
	}
	if err := snapshot.Stamp(fee, st); err != nil {
		return OutcomeSkipped, err
	}

	created, err := g.store.CreateFee(ctx, fee)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("create fee: %w", err)
	}
	if !created {
		// lost a race with another writer; the unique key already holds it
		return OutcomeExisting, nil
	}
	return OutcomeCreated, nil
}

func (g *Generator) generateSalary(ctx context.Context, e model.EmployeeModel, key string, expenseDate time.Time) (Outcome, MirrorOutcome, error) {
	_, err := g.store.FindSalary(ctx, e.EmployeeID, key)
	if err == nil {
		return OutcomeExisting, "", nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return OutcomeSkipped, "", fmt.Errorf("find salary: %w", err)
	}

	sal := &model.SalaryModel{
		SalaryEmployeeID: e.EmployeeID,
		SalaryMonth:      key,
		SalaryAmount:     e.EmployeeSalary,
	}
	created, err := g.store.CreateSalary(ctx, sal)
	if err != nil {
		return OutcomeSkipped, "", fmt.Errorf("create salary: %w", err)
	}
	if !created {
		return OutcomeExisting, "", nil
	}

	if g.systemActor == uuid.Nil {
		log.Printf("[MIRROR] no system actor configured; expense for salary=%s deferred", sal.SalaryID)
		return OutcomeCreated, MirrorDeferred, nil
	}
	mirror := buildMirror(*sal, e, g.systemActor, expenseDate)
	if _, err := g.store.CreateExpense(ctx, mirror); err != nil {
		// salary stays; reconciliation creates the mirror later
		log.Printf("[MIRROR] create expense for salary=%s failed: %v", sal.SalaryID, err)
		return OutcomeCreated, MirrorDeferred, nil
	}
	return OutcomeCreated, MirrorCreated, nil
}

func (g *Generator) overdueWatch(ctx context.Context, p period.Period) ([]uuid.UUID, error) {
	unpaid := false
	fees, err := g.store.ListFees(ctx, repository.FeeFilter{Paid: &unpaid})
	if err != nil {
		return nil, err
	}
	late := lo.Filter(fees, func(f model.FeeModel, _ int) bool {
		fp, err := period.Parse(f.FeeMonth)
		return err == nil && fp.Before(p)
	})
	return lo.Uniq(lo.Map(late, func(f model.FeeModel, _ int) uuid.UUID { return f.FeeStudentID })), nil
}

func (g *Generator) recordRun(ctx context.Context, sum RunSummary) {
	raw, err := sonic.Marshal(sum)
	if err != nil {
		log.Printf("[GENERATOR] encode run summary: %v", err)
		return
	}
	run := &model.GenerationRunModel{
		GenerationRunPeriod:          sum.Period,
		GenerationRunTrigger:         sum.Trigger,
		GenerationRunFeesCreated:     sum.FeesCreated,
		GenerationRunSalariesCreated: sum.SalariesCreated,
		GenerationRunSkipped:         sum.SkippedCount(),
		GenerationRunSummary:         datatypes.JSON(raw),
		GenerationRunStartedAt:       sum.StartedAt,
		GenerationRunFinishedAt:      sum.FinishedAt,
	}
	if err := g.store.CreateGenerationRun(ctx, run); err != nil {
		log.Printf("[GENERATOR] persist run summary: %v", err)
	}
}
