package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/clock"
	"schoolledger_backend/internals/helpers/period"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, wib)
}

// LedgerSuite runs every scenario against a fresh in-memory store with the
// clock parked mid-March 2025.
type LedgerSuite struct {
	suite.Suite

	ctx    context.Context
	store  *repository.MemoryStore
	clock  *clock.Fixed
	actor  uuid.UUID
	ledger *Ledger
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewMemoryStore()
	s.clock = clock.NewFixed(at(2025, time.March, 15, 10))
	s.actor = uuid.New()
	s.ledger = New(s.store, s.clock, Options{SystemActor: s.actor})

	s.price("REGULAR", 100)
	s.price("BOARDING", 250)
}

func (s *LedgerSuite) price(program string, amount int64) {
	_, err := s.store.UpsertProgramFee(s.ctx, program, decimal.NewFromInt(amount))
	s.Require().NoError(err)
}

func (s *LedgerSuite) student(name, class, program string) model.StudentModel {
	st := model.StudentModel{
		StudentName:    name,
		StudentClass:   class,
		StudentSection: "A",
		StudentProgram: program,
		StudentSession: "2024/2025",
	}
	s.Require().NoError(s.store.CreateStudent(s.ctx, &st))
	return st
}

func (s *LedgerSuite) employee(name string, salary int64) model.EmployeeModel {
	e := model.EmployeeModel{EmployeeName: name, EmployeeRole: "teacher", EmployeeSalary: decimal.NewFromInt(salary)}
	s.Require().NoError(s.store.CreateEmployee(s.ctx, &e))
	return e
}

func (s *LedgerSuite) runFor(key string) RunSummary {
	sum, err := s.ledger.Generator.GenerateForPeriod(s.ctx, period.MustParse(key))
	s.Require().NoError(err)
	return sum
}

func (s *LedgerSuite) fee(studentID uuid.UUID, key string) model.FeeModel {
	f, err := s.store.FindFee(s.ctx, studentID, key)
	s.Require().NoError(err)
	return *f
}

func (s *LedgerSuite) salary(employeeID uuid.UUID, key string) model.SalaryModel {
	sal, err := s.store.FindSalary(s.ctx, employeeID, key)
	s.Require().NoError(err)
	return *sal
}

func (s *LedgerSuite) mirror(salaryID uuid.UUID) model.ExpenseModel {
	e, err := s.store.FindExpenseBySalary(s.ctx, salaryID)
	s.Require().NoError(err)
	return *e
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// gatedStore parks the first GetProgramFee call until release is closed.
type gatedStore struct {
	*repository.MemoryStore
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedStore(s *repository.MemoryStore) *gatedStore {
	return &gatedStore{MemoryStore: s, reached: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) GetProgramFee(ctx context.Context, program string) (*model.ProgramFeeModel, error) {
	g.once.Do(func() {
		close(g.reached)
		<-g.release
	})
	return g.MemoryStore.GetProgramFee(ctx, program)
}

var errClassificationWrite = errors.New("classification write failed")

// brokenClassificationStore refuses every classification update.
type brokenClassificationStore struct {
	*repository.MemoryStore
}

func (brokenClassificationStore) UpdateStudentClassification(context.Context, uuid.UUID, model.ClassificationSnapshot) error {
	return errClassificationWrite
}

// ctxStore fails run bookkeeping once the caller's context is done, like a
// database driver would.
type ctxStore struct {
	*repository.MemoryStore
}

func (s ctxStore) CreateGenerationRun(ctx context.Context, r *model.GenerationRunModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.CreateGenerationRun(ctx, r)
}
