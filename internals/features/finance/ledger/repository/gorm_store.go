// file: internals/features/finance/ledger/repository/gorm_store.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolledger_backend/internals/features/finance/ledger/model"
)

// GormStore persists the ledger through gorm (PostgreSQL in production).
// Uniqueness of (student, month) and (employee, month) is enforced by the
// schema; an insert that hits it is reported as created=false.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// AutoMigrate creates or updates the ledger tables and their indexes.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(model.All()...)
}

/* ======================= STUDENTS ======================= */

func (s *GormStore) CreateStudent(ctx context.Context, st *model.StudentModel) error {
	return s.DB.WithContext(ctx).Create(st).Error
}

func (s *GormStore) GetStudent(ctx context.Context, id uuid.UUID) (*model.StudentModel, error) {
	var row model.StudentModel
	if err := s.DB.WithContext(ctx).
		Where("student_id = ?", id).
		Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) ListStudents(ctx context.Context, f StudentFilter) ([]model.StudentModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.StudentModel{})
	if f.Status != "" {
		q = q.Where("student_status = ?", f.Status)
	}
	if f.Class != "" {
		q = q.Where("student_class = ?", f.Class)
	}
	if f.Program != "" {
		q = q.Where("student_program = ?", f.Program)
	}

	var list []model.StudentModel
	if err := q.Order("student_created_at ASC, student_id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) UpdateStudentClassification(ctx context.Context, id uuid.UUID, c model.ClassificationSnapshot) error {
	res := s.DB.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_id = ?", id).
		Updates(map[string]any{
			"student_class":   c.Class,
			"student_program": c.Program,
			"student_section": c.Section,
			"student_session": c.Session,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdateStudentStatus(ctx context.Context, id uuid.UUID, status model.StudentStatus) error {
	res := s.DB.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_id = ?", id).
		Update("student_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_student_id = ?", id).Delete(&model.FeeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_promotion_student_id = ?", id).Delete(&model.StudentPromotionModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("student_id = ?", id).Delete(&model.StudentModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) CreatePromotion(ctx context.Context, p *model.StudentPromotionModel) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *GormStore) ListPromotions(ctx context.Context, studentID uuid.UUID) ([]model.StudentPromotionModel, error) {
	var list []model.StudentPromotionModel
	if err := s.DB.WithContext(ctx).
		Where("student_promotion_student_id = ?", studentID).
		Order("student_promotion_created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

/* ======================= PRICE LIST ======================= */

func (s *GormStore) GetProgramFee(ctx context.Context, program string) (*model.ProgramFeeModel, error) {
	var row model.ProgramFeeModel
	if err := s.DB.WithContext(ctx).
		Where("program_fee_program = ?", program).
		Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) UpsertProgramFee(ctx context.Context, program string, amount decimal.Decimal) (*model.ProgramFeeModel, error) {
	row := model.ProgramFeeModel{ProgramFeeProgram: program, ProgramFeeAmount: amount}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "program_fee_program"}},
			DoUpdates: clause.AssignmentColumns([]string{"program_fee_amount", "program_fee_updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.GetProgramFee(ctx, program)
}

func (s *GormStore) ListProgramFees(ctx context.Context) ([]model.ProgramFeeModel, error) {
	var list []model.ProgramFeeModel
	if err := s.DB.WithContext(ctx).Order("program_fee_program ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

/* ======================= FEES ======================= */

func (s *GormStore) GetFee(ctx context.Context, id uuid.UUID) (*model.FeeModel, error) {
	var row model.FeeModel
	if err := s.DB.WithContext(ctx).Where("fee_id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) FindFee(ctx context.Context, studentID uuid.UUID, month string) (*model.FeeModel, error) {
	var row model.FeeModel
	if err := s.DB.WithContext(ctx).
		Where("fee_student_id = ? AND fee_month = ?", studentID, month).
		Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) CreateFee(ctx context.Context, f *model.FeeModel) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListFees(ctx context.Context, f FeeFilter) ([]model.FeeModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.FeeModel{})
	if f.StudentID != nil {
		q = q.Where("fee_student_id = ?", *f.StudentID)
	}
	if f.Month != "" {
		q = q.Where("fee_month = ?", f.Month)
	}
	if f.Paid != nil {
		q = q.Where("fee_paid = ?", *f.Paid)
	}

	var list []model.FeeModel
	if err := q.Order("fee_created_at ASC, fee_id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) UpdateFeeAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.FeeModel{}).
		Where("fee_id = ? AND fee_paid = ?", id, false).
		Update("fee_amount", amount)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetFee(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (s *GormStore) MarkFeePaid(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.FeeModel{}).
		Where("fee_id = ? AND fee_paid = ?", id, false).
		Updates(map[string]any{
			"fee_paid":      true,
			"fee_paid_date": at,
			"fee_paid_by":   by,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetFee(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

/* ======================= EMPLOYEES ======================= */

func (s *GormStore) CreateEmployee(ctx context.Context, e *model.EmployeeModel) error {
	return s.DB.WithContext(ctx).Create(e).Error
}

func (s *GormStore) GetEmployee(ctx context.Context, id uuid.UUID) (*model.EmployeeModel, error) {
	var row model.EmployeeModel
	if err := s.DB.WithContext(ctx).Where("employee_id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) ListEmployees(ctx context.Context) ([]model.EmployeeModel, error) {
	var list []model.EmployeeModel
	if err := s.DB.WithContext(ctx).
		Order("employee_created_at ASC, employee_id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) UpdateEmployeeSalary(ctx context.Context, id uuid.UUID, salary decimal.Decimal) error {
	res := s.DB.WithContext(ctx).Model(&model.EmployeeModel{}).
		Where("employee_id = ?", id).
		Update("employee_salary", salary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var salaryIDs []uuid.UUID
		if err := tx.Model(&model.SalaryModel{}).
			Where("salary_employee_id = ?", id).
			Pluck("salary_id", &salaryIDs).Error; err != nil {
			return err
		}
		if len(salaryIDs) > 0 {
			if err := tx.Where("expense_salary_id IN ?", salaryIDs).Delete(&model.ExpenseModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("salary_employee_id = ?", id).Delete(&model.SalaryModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("employee_id = ?", id).Delete(&model.EmployeeModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

/* ======================= SALARIES ======================= */

func (s *GormStore) GetSalary(ctx context.Context, id uuid.UUID) (*model.SalaryModel, error) {
	var row model.SalaryModel
	if err := s.DB.WithContext(ctx).Where("salary_id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) FindSalary(ctx context.Context, employeeID uuid.UUID, month string) (*model.SalaryModel, error) {
	var row model.SalaryModel
	if err := s.DB.WithContext(ctx).
		Where("salary_employee_id = ? AND salary_month = ?", employeeID, month).
		Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) CreateSalary(ctx context.Context, sal *model.SalaryModel) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sal)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListSalaries(ctx context.Context, f SalaryFilter) ([]model.SalaryModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.SalaryModel{})
	if f.EmployeeID != nil {
		q = q.Where("salary_employee_id = ?", *f.EmployeeID)
	}
	if f.Month != "" {
		q = q.Where("salary_month = ?", f.Month)
	}
	if f.Paid != nil {
		q = q.Where("salary_paid = ?", *f.Paid)
	}

	var list []model.SalaryModel
	if err := q.Order("salary_created_at ASC, salary_id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) MarkSalaryPaid(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.SalaryModel{}).
		Where("salary_id = ? AND salary_paid = ?", id, false).
		Updates(map[string]any{
			"salary_paid":      true,
			"salary_paid_date": at,
			"salary_paid_by":   by,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetSalary(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

/* ======================= EXPENSES ======================= */

func (s *GormStore) CreateExpense(ctx context.Context, e *model.ExpenseModel) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) FindExpenseBySalary(ctx context.Context, salaryID uuid.UUID) (*model.ExpenseModel, error) {
	var row model.ExpenseModel
	if err := s.DB.WithContext(ctx).
		Where("expense_salary_id = ?", salaryID).
		Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) ListExpenses(ctx context.Context, f ExpenseFilter) ([]model.ExpenseModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.ExpenseModel{})
	if f.Category != "" {
		q = q.Where("expense_category = ?", f.Category)
	}
	if f.MirrorsOnly {
		q = q.Where("expense_salary_id IS NOT NULL")
	}

	var list []model.ExpenseModel
	if err := q.Order("expense_date ASC, expense_id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) SetExpensePaid(ctx context.Context, id uuid.UUID, paid bool) error {
	res := s.DB.WithContext(ctx).Model(&model.ExpenseModel{}).
		Where("expense_id = ?", id).
		Update("expense_paid", paid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* ======================= RUNS ======================= */

func (s *GormStore) CreateGenerationRun(ctx context.Context, r *model.GenerationRunModel) error {
	return s.DB.WithContext(ctx).Create(r).Error
}

func (s *GormStore) ListGenerationRuns(ctx context.Context, limit int) ([]model.GenerationRunModel, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []model.GenerationRunModel
	if err := s.DB.WithContext(ctx).
		Order("generation_run_started_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

var _ Store = (*GormStore)(nil)
