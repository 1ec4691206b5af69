// file: internals/features/finance/ledger/repository/memory_store.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolledger_backend/internals/features/finance/ledger/model"
)

type feeKey struct {
	owner uuid.UUID
	month string
}

// MemoryStore keeps the ledger in process memory. It honours the same
// natural-key and conditional-update rules as GormStore and backs tests and
// the LEDGER_STORE=memory demo mode.
type MemoryStore struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	order      map[uuid.UUID]int64
	students   map[uuid.UUID]model.StudentModel
	promotions map[uuid.UUID]model.StudentPromotionModel
	prices     map[string]model.ProgramFeeModel
	fees       map[uuid.UUID]model.FeeModel
	feeIndex   map[feeKey]uuid.UUID
	employees  map[uuid.UUID]model.EmployeeModel
	salaries   map[uuid.UUID]model.SalaryModel
	salIndex   map[feeKey]uuid.UUID
	expenses   map[uuid.UUID]model.ExpenseModel
	mirrors    map[uuid.UUID]uuid.UUID // salary id -> expense id
	runs       []model.GenerationRunModel
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:        time.Now,
		order:      map[uuid.UUID]int64{},
		students:   map[uuid.UUID]model.StudentModel{},
		promotions: map[uuid.UUID]model.StudentPromotionModel{},
		prices:     map[string]model.ProgramFeeModel{},
		fees:       map[uuid.UUID]model.FeeModel{},
		feeIndex:   map[feeKey]uuid.UUID{},
		employees:  map[uuid.UUID]model.EmployeeModel{},
		salaries:   map[uuid.UUID]model.SalaryModel{},
		salIndex:   map[feeKey]uuid.UUID{},
		expenses:   map[uuid.UUID]model.ExpenseModel{},
		mirrors:    map[uuid.UUID]uuid.UUID{},
	}
}

func (s *MemoryStore) track(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

func sortByOrder[T any](s *MemoryStore, list []T, id func(T) uuid.UUID) {
	sort.SliceStable(list, func(i, j int) bool {
		return s.order[id(list[i])] < s.order[id(list[j])]
	})
}

/* ======================= STUDENTS ======================= */

func (s *MemoryStore) CreateStudent(_ context.Context, st *model.StudentModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = st.BeforeCreate(nil)
	st.StudentCreatedAt = s.now()
	st.StudentUpdatedAt = st.StudentCreatedAt
	s.students[st.StudentID] = *st
	s.track(st.StudentID)
	return nil
}

func (s *MemoryStore) GetStudent(_ context.Context, id uuid.UUID) (*model.StudentModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) ListStudents(_ context.Context, f StudentFilter) ([]model.StudentModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StudentModel, 0, len(s.students))
	for _, st := range s.students {
		if f.Status != "" && st.StudentStatus != f.Status {
			continue
		}
		if f.Class != "" && st.StudentClass != f.Class {
			continue
		}
		if f.Program != "" && st.StudentProgram != f.Program {
			continue
		}
		out = append(out, st)
	}
	sortByOrder(s, out, func(x model.StudentModel) uuid.UUID { return x.StudentID })
	return out, nil
}

func (s *MemoryStore) UpdateStudentClassification(_ context.Context, id uuid.UUID, c model.ClassificationSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return ErrNotFound
	}
	st.ApplyClassification(c)
	st.StudentUpdatedAt = s.now()
	s.students[id] = st
	return nil
}

func (s *MemoryStore) UpdateStudentStatus(_ context.Context, id uuid.UUID, status model.StudentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return ErrNotFound
	}
	st.StudentStatus = status
	st.StudentUpdatedAt = s.now()
	s.students[id] = st
	return nil
}

func (s *MemoryStore) DeleteStudent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return ErrNotFound
	}
	for fid, f := range s.fees {
		if f.FeeStudentID == id {
			delete(s.fees, fid)
			delete(s.feeIndex, feeKey{f.FeeStudentID, f.FeeMonth})
			delete(s.order, fid)
		}
	}
	for pid, p := range s.promotions {
		if p.StudentPromotionStudentID == id {
			delete(s.promotions, pid)
			delete(s.order, pid)
		}
	}
	delete(s.students, id)
	delete(s.order, id)
	return nil
}

func (s *MemoryStore) CreatePromotion(_ context.Context, p *model.StudentPromotionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = p.BeforeCreate(nil)
	p.StudentPromotionCreatedAt = s.now()
	s.promotions[p.StudentPromotionID] = *p
	s.track(p.StudentPromotionID)
	return nil
}

func (s *MemoryStore) ListPromotions(_ context.Context, studentID uuid.UUID) ([]model.StudentPromotionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.StudentPromotionModel
	for _, p := range s.promotions {
		if p.StudentPromotionStudentID == studentID {
			out = append(out, p)
		}
	}
	sortByOrder(s, out, func(x model.StudentPromotionModel) uuid.UUID { return x.StudentPromotionID })
	return out, nil
}

/* ======================= PRICE LIST ======================= */

func (s *MemoryStore) GetProgramFee(_ context.Context, program string) (*model.ProgramFeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.prices[program]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) UpsertProgramFee(_ context.Context, program string, amount decimal.Decimal) (*model.ProgramFeeModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	row, ok := s.prices[program]
	if !ok {
		row = model.ProgramFeeModel{ProgramFeeProgram: program, ProgramFeeCreatedAt: now}
		_ = row.BeforeCreate(nil)
		s.track(row.ProgramFeeID)
	}
	row.ProgramFeeAmount = amount
	row.ProgramFeeUpdatedAt = now
	s.prices[program] = row
	return &row, nil
}

func (s *MemoryStore) ListProgramFees(_ context.Context) ([]model.ProgramFeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ProgramFeeModel, 0, len(s.prices))
	for _, p := range s.prices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProgramFeeProgram < out[j].ProgramFeeProgram })
	return out, nil
}

/* ======================= FEES ======================= */

func (s *MemoryStore) GetFee(_ context.Context, id uuid.UUID) (*model.FeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.fees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) FindFee(_ context.Context, studentID uuid.UUID, month string) (*model.FeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.feeIndex[feeKey{studentID, month}]
	if !ok {
		return nil, ErrNotFound
	}
	row := s.fees[id]
	return &row, nil
}

func (s *MemoryStore) CreateFee(_ context.Context, f *model.FeeModel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := feeKey{f.FeeStudentID, f.FeeMonth}
	if _, exists := s.feeIndex[key]; exists {
		return false, nil
	}
	_ = f.BeforeCreate(nil)
	f.FeeCreatedAt = s.now()
	f.FeeUpdatedAt = f.FeeCreatedAt
	s.fees[f.FeeID] = *f
	s.feeIndex[key] = f.FeeID
	s.track(f.FeeID)
	return true, nil
}

func (s *MemoryStore) ListFees(_ context.Context, f FeeFilter) ([]model.FeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.FeeModel
	for _, fee := range s.fees {
		if f.StudentID != nil && fee.FeeStudentID != *f.StudentID {
			continue
		}
		if f.Month != "" && fee.FeeMonth != f.Month {
			continue
		}
		if f.Paid != nil && fee.FeePaid != *f.Paid {
			continue
		}
		out = append(out, fee)
	}
	sortByOrder(s, out, func(x model.FeeModel) uuid.UUID { return x.FeeID })
	return out, nil
}

func (s *MemoryStore) UpdateFeeAmount(_ context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fee, ok := s.fees[id]
	if !ok {
		return false, ErrNotFound
	}
	if fee.FeePaid {
		return false, nil
	}
	fee.FeeAmount = amount
	fee.FeeUpdatedAt = s.now()
	s.fees[id] = fee
	return true, nil
}

func (s *MemoryStore) MarkFeePaid(_ context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fee, ok := s.fees[id]
	if !ok {
		return false, ErrNotFound
	}
	if fee.FeePaid {
		return false, nil
	}
	fee.FeePaid = true
	fee.FeePaidDate = &at
	fee.FeePaidBy = &by
	fee.FeeUpdatedAt = s.now()
	s.fees[id] = fee
	return true, nil
}

/* ======================= EMPLOYEES ======================= */

func (s *MemoryStore) CreateEmployee(_ context.Context, e *model.EmployeeModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = e.BeforeCreate(nil)
	e.EmployeeCreatedAt = s.now()
	e.EmployeeUpdatedAt = e.EmployeeCreatedAt
	s.employees[e.EmployeeID] = *e
	s.track(e.EmployeeID)
	return nil
}

func (s *MemoryStore) GetEmployee(_ context.Context, id uuid.UUID) (*model.EmployeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) ListEmployees(_ context.Context) ([]model.EmployeeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.EmployeeModel, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sortByOrder(s, out, func(x model.EmployeeModel) uuid.UUID { return x.EmployeeID })
	return out, nil
}

func (s *MemoryStore) UpdateEmployeeSalary(_ context.Context, id uuid.UUID, salary decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return ErrNotFound
	}
	e.EmployeeSalary = salary
	e.EmployeeUpdatedAt = s.now()
	s.employees[id] = e
	return nil
}

func (s *MemoryStore) DeleteEmployee(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return ErrNotFound
	}
	for sid, sal := range s.salaries {
		if sal.SalaryEmployeeID != id {
			continue
		}
		if eid, ok := s.mirrors[sid]; ok {
			delete(s.expenses, eid)
			delete(s.mirrors, sid)
			delete(s.order, eid)
		}
		delete(s.salaries, sid)
		delete(s.salIndex, feeKey{sal.SalaryEmployeeID, sal.SalaryMonth})
		delete(s.order, sid)
	}
	delete(s.employees, id)
	delete(s.order, id)
	return nil
}

/* ======================= SALARIES ======================= */

func (s *MemoryStore) GetSalary(_ context.Context, id uuid.UUID) (*model.SalaryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.salaries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) FindSalary(_ context.Context, employeeID uuid.UUID, month string) (*model.SalaryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.salIndex[feeKey{employeeID, month}]
	if !ok {
		return nil, ErrNotFound
	}
	row := s.salaries[id]
	return &row, nil
}

func (s *MemoryStore) CreateSalary(_ context.Context, sal *model.SalaryModel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := feeKey{sal.SalaryEmployeeID, sal.SalaryMonth}
	if _, exists := s.salIndex[key]; exists {
		return false, nil
	}
	_ = sal.BeforeCreate(nil)
	sal.SalaryCreatedAt = s.now()
	sal.SalaryUpdatedAt = sal.SalaryCreatedAt
	s.salaries[sal.SalaryID] = *sal
	s.salIndex[key] = sal.SalaryID
	s.track(sal.SalaryID)
	return true, nil
}

func (s *MemoryStore) ListSalaries(_ context.Context, f SalaryFilter) ([]model.SalaryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SalaryModel
	for _, sal := range s.salaries {
		if f.EmployeeID != nil && sal.SalaryEmployeeID != *f.EmployeeID {
			continue
		}
		if f.Month != "" && sal.SalaryMonth != f.Month {
			continue
		}
		if f.Paid != nil && sal.SalaryPaid != *f.Paid {
			continue
		}
		out = append(out, sal)
	}
	sortByOrder(s, out, func(x model.SalaryModel) uuid.UUID { return x.SalaryID })
	return out, nil
}

func (s *MemoryStore) MarkSalaryPaid(_ context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sal, ok := s.salaries[id]
	if !ok {
		return false, ErrNotFound
	}
	if sal.SalaryPaid {
		return false, nil
	}
	sal.SalaryPaid = true
	sal.SalaryPaidDate = &at
	sal.SalaryPaidBy = &by
	sal.SalaryUpdatedAt = s.now()
	s.salaries[id] = sal
	return true, nil
}

/* ======================= EXPENSES ======================= */

func (s *MemoryStore) CreateExpense(_ context.Context, e *model.ExpenseModel) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ExpenseSalaryID != nil {
		if _, exists := s.mirrors[*e.ExpenseSalaryID]; exists {
			return false, nil
		}
	}
	_ = e.BeforeCreate(nil)
	e.ExpenseCreatedAt = s.now()
	e.ExpenseUpdatedAt = e.ExpenseCreatedAt
	s.expenses[e.ExpenseID] = *e
	if e.ExpenseSalaryID != nil {
		s.mirrors[*e.ExpenseSalaryID] = e.ExpenseID
	}
	s.track(e.ExpenseID)
	return true, nil
}

func (s *MemoryStore) FindExpenseBySalary(_ context.Context, salaryID uuid.UUID) (*model.ExpenseModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.mirrors[salaryID]
	if !ok {
		return nil, ErrNotFound
	}
	row := s.expenses[id]
	return &row, nil
}

func (s *MemoryStore) ListExpenses(_ context.Context, f ExpenseFilter) ([]model.ExpenseModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ExpenseModel
	for _, e := range s.expenses {
		if f.Category != "" && e.ExpenseCategory != f.Category {
			continue
		}
		if f.MirrorsOnly && e.ExpenseSalaryID == nil {
			continue
		}
		out = append(out, e)
	}
	sortByOrder(s, out, func(x model.ExpenseModel) uuid.UUID { return x.ExpenseID })
	return out, nil
}

func (s *MemoryStore) SetExpensePaid(_ context.Context, id uuid.UUID, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return ErrNotFound
	}
	e.ExpensePaid = paid
	e.ExpenseUpdatedAt = s.now()
	s.expenses[id] = e
	return nil
}

/* ======================= RUNS ======================= */

func (s *MemoryStore) CreateGenerationRun(_ context.Context, r *model.GenerationRunModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = r.BeforeCreate(nil)
	s.runs = append(s.runs, *r)
	return nil
}

func (s *MemoryStore) ListGenerationRuns(_ context.Context, limit int) ([]model.GenerationRunModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]model.GenerationRunModel, 0, limit)
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
