package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"schoolledger_backend/internals/features/finance/ledger/repository"
)

type PaymentSuite struct{ LedgerSuite }

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentSuite))
}

func (s *PaymentSuite) TestFeePaymentIsOneWay() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("March 2025")
	id := s.fee(ali.StudentID, "March 2025").FeeID

	first := uuid.New()
	fee, err := s.ledger.Payments.MarkFeePaid(s.ctx, id, first)
	s.Require().NoError(err)
	s.True(fee.FeePaid)
	s.Equal(first, *fee.FeePaidBy)
	paidAt := *fee.FeePaidDate

	s.clock.Advance(time.Hour)
	_, err = s.ledger.Payments.MarkFeePaid(s.ctx, id, uuid.New())
	s.ErrorIs(err, ErrAlreadyPaid)

	again := s.fee(ali.StudentID, "March 2025")
	s.True(again.FeePaid)
	s.Equal(first, *again.FeePaidBy)
	s.Equal(paidAt, *again.FeePaidDate)
}

func (s *PaymentSuite) TestConcurrentPayersOnlyOneWins() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("March 2025")
	id := s.fee(ali.StudentID, "March 2025").FeeID

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ledger.Payments.MarkFeePaid(s.ctx, id, uuid.New()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, wins)
}

func (s *PaymentSuite) TestActorIsRequired() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("March 2025")

	_, err := s.ledger.Payments.MarkFeePaid(s.ctx, s.fee(ali.StudentID, "March 2025").FeeID, uuid.Nil)
	s.ErrorIs(err, ErrActorRequired)
	s.False(s.fee(ali.StudentID, "March 2025").FeePaid)
}

func (s *PaymentSuite) TestSalaryPaymentUpdatesMirror() {
	rina := s.employee("Rina", 3000)
	s.runFor("March 2025")
	sal := s.salary(rina.EmployeeID, "March 2025")

	paid, err := s.ledger.Payments.MarkSalaryPaid(s.ctx, sal.SalaryID, s.actor)
	s.Require().NoError(err)
	s.True(paid.SalaryPaid)
	s.True(s.mirror(sal.SalaryID).ExpensePaid)

	_, err = s.ledger.Payments.MarkSalaryPaid(s.ctx, sal.SalaryID, s.actor)
	s.ErrorIs(err, ErrAlreadyPaid)
}

func (s *PaymentSuite) TestSalaryPaymentWithoutMirrorStillSucceeds() {
	rina := s.employee("Rina", 3000)
	noActor := New(s.store, s.clock, Options{})
	_, err := noActor.Generator.GenerateCurrent(s.ctx, "manual")
	s.Require().NoError(err)
	sal := s.salary(rina.EmployeeID, "March 2025")

	_, err = noActor.Payments.MarkSalaryPaid(s.ctx, sal.SalaryID, s.actor)
	s.Require().NoError(err)

	res, err := s.ledger.Mirrors.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, res.Created)
	s.True(s.mirror(sal.SalaryID).ExpensePaid)
}

func (s *PaymentSuite) TestReconcileRepairsDrift() {
	rina := s.employee("Rina", 3000)
	s.runFor("March 2025")
	sal := s.salary(rina.EmployeeID, "March 2025")
	_, err := s.ledger.Payments.MarkSalaryPaid(s.ctx, sal.SalaryID, s.actor)
	s.Require().NoError(err)

	s.Require().NoError(s.store.SetExpensePaid(s.ctx, s.mirror(sal.SalaryID).ExpenseID, false))

	res, err := s.ledger.Mirrors.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, res.Checked)
	s.Equal(1, res.Repaired)
	s.True(s.mirror(sal.SalaryID).ExpensePaid)
}

func (s *PaymentSuite) TestMarkPaidResolvesRecordKind() {
	ali := s.student("Ali", "7", "REGULAR")
	rina := s.employee("Rina", 3000)
	s.runFor("March 2025")

	rec, err := s.ledger.Hooks.OnPaymentRecorded(s.ctx, s.fee(ali.StudentID, "March 2025").FeeID, s.actor)
	s.Require().NoError(err)
	s.Equal(RecordKindFee, rec.Kind)
	s.Nil(rec.Salary)

	rec, err = s.ledger.Payments.MarkPaid(s.ctx, s.salary(rina.EmployeeID, "March 2025").SalaryID, s.actor)
	s.Require().NoError(err)
	s.Equal(RecordKindSalary, rec.Kind)
	s.True(rec.Salary.SalaryPaid)

	_, err = s.ledger.Payments.MarkPaid(s.ctx, uuid.New(), s.actor)
	s.ErrorIs(err, repository.ErrNotFound)
}
