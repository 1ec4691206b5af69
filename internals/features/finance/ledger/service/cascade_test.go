package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/helpers/period"
)

type CascadeSuite struct{ LedgerSuite }

func TestCascadeSuite(t *testing.T) {
	suite.Run(t, new(CascadeSuite))
}

func (s *CascadeSuite) TestPromotionRepricesOnlyOpenFees() {
	ali := s.student("Ali", "7", "REGULAR")
	for _, key := range []string{"February 2025", "March 2025", "April 2025", "May 2025"} {
		s.runFor(key)
	}
	_, err := s.ledger.Payments.MarkFeePaid(s.ctx, s.fee(ali.StudentID, "April 2025").FeeID, s.actor)
	s.Require().NoError(err)

	odd := &model.FeeModel{FeeStudentID: ali.StudentID, FeeMonth: "Smarch 2025", FeeAmount: amount(100)}
	_, err = s.store.CreateFee(s.ctx, odd)
	s.Require().NoError(err)

	res, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{
		StudentID: ali.StudentID,
		To:        model.ClassificationSnapshot{Class: "8", Program: "BOARDING"},
		ActorID:   &s.actor,
	})
	s.Require().NoError(err)

	march := s.fee(ali.StudentID, "March 2025")
	may := s.fee(ali.StudentID, "May 2025")
	s.Equal([]uuid.UUID{march.FeeID, may.FeeID}, res.Cascade.Repriced)
	s.Equal(2, res.Cascade.Protected)
	s.Equal(OutcomeExisting, res.Cascade.CurrentFee)

	s.True(s.fee(ali.StudentID, "February 2025").FeeAmount.Equal(amount(100)))
	s.True(march.FeeAmount.Equal(amount(250)))
	s.True(s.fee(ali.StudentID, "April 2025").FeeAmount.Equal(amount(100)))
	s.True(may.FeeAmount.Equal(amount(250)))
	s.True(s.fee(ali.StudentID, "Smarch 2025").FeeAmount.Equal(amount(100)))
}

func (s *CascadeSuite) TestPromotionLeavesSnapshotsAlone() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("February 2025")
	s.runFor("March 2025")

	_, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{
		StudentID: ali.StudentID,
		To:        model.ClassificationSnapshot{Class: "8", Program: "BOARDING", Section: "B"},
	})
	s.Require().NoError(err)

	for _, key := range []string{"February 2025", "March 2025"} {
		f := s.fee(ali.StudentID, key)
		s.Equal("7", f.FeeHistorical.Class, key)
		s.Equal("REGULAR", f.FeeHistorical.Program, key)
		s.Equal("A", f.FeeHistorical.Section, key)
	}

	st, err := s.store.GetStudent(s.ctx, ali.StudentID)
	s.Require().NoError(err)
	s.Equal(model.ClassificationSnapshot{Class: "8", Program: "BOARDING", Section: "B", Session: "2024/2025"}, st.Classification())
}

func (s *CascadeSuite) TestPromotionIsAudited() {
	ali := s.student("Ali", "7", "REGULAR")
	res, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{
		StudentID: ali.StudentID,
		To:        model.ClassificationSnapshot{Class: "8"},
		ActorID:   &s.actor,
	})
	s.Require().NoError(err)

	promos, err := s.store.ListPromotions(s.ctx, ali.StudentID)
	s.Require().NoError(err)
	s.Require().Len(promos, 1)
	s.Equal(res.Promotion.StudentPromotionID, promos[0].StudentPromotionID)
	s.Equal("7", promos[0].StudentPromotionFrom.Class)
	s.Equal("8", promos[0].StudentPromotionTo.Class)
	s.Equal("REGULAR", promos[0].StudentPromotionTo.Program)
	s.Equal(&s.actor, promos[0].StudentPromotionBy)
}

func (s *CascadeSuite) TestPromotionBillsMissingCurrentPeriod() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("February 2025")

	res, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{StudentID: ali.StudentID, To: model.ClassificationSnapshot{Program: "BOARDING"}})
	s.Require().NoError(err)
	s.Equal(OutcomeCreated, res.Cascade.CurrentFee)

	march := s.fee(ali.StudentID, "March 2025")
	s.True(march.FeeAmount.Equal(amount(250)))
	s.Equal("BOARDING", march.FeeHistorical.Program)
}

func (s *CascadeSuite) TestPromotionDuringRunRepricesCurrentFee() {
	s.student("Ali", "7", "REGULAR")
	budi := s.student("Budi", "7", "REGULAR")

	gated := newGatedStore(s.store)
	l := New(gated, s.clock, Options{SystemActor: s.actor})

	runDone := make(chan error, 1)
	go func() {
		_, err := l.Generator.GenerateForPeriod(s.ctx, period.MustParse("March 2025"))
		runDone <- err
	}()
	<-gated.reached

	promoted := make(chan error, 1)
	go func() {
		_, err := l.Cascade.Promote(s.ctx, PromotionInput{
			StudentID: budi.StudentID,
			To:        model.ClassificationSnapshot{Class: "8", Program: "BOARDING"},
		})
		promoted <- err
	}()
	s.Eventually(func() bool {
		st, err := s.store.GetStudent(s.ctx, budi.StudentID)
		return err == nil && st.StudentProgram == "BOARDING"
	}, time.Second, 5*time.Millisecond)

	close(gated.release)
	s.Require().NoError(<-runDone)
	s.Require().NoError(<-promoted)

	march := s.fee(budi.StudentID, "March 2025")
	s.True(march.FeeAmount.Equal(amount(250)), march.FeeAmount.String())
}

func (s *CascadeSuite) TestFailedPromotionIsNotLogged() {
	ali := s.student("Ali", "7", "REGULAR")
	l := New(brokenClassificationStore{s.store}, s.clock, Options{SystemActor: s.actor})

	_, err := l.Cascade.Promote(s.ctx, PromotionInput{StudentID: ali.StudentID, To: model.ClassificationSnapshot{Class: "8"}})
	s.ErrorIs(err, errClassificationWrite)

	promos, err := s.store.ListPromotions(s.ctx, ali.StudentID)
	s.Require().NoError(err)
	s.Empty(promos)
}

func (s *CascadeSuite) TestPromotionRejectsInactiveOrUnknownStudent() {
	gone := s.student("Gone", "12", "REGULAR")
	s.Require().NoError(s.ledger.SetStudentStatus(s.ctx, gone.StudentID, model.StudentDropped))

	_, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{StudentID: gone.StudentID, To: model.ClassificationSnapshot{Class: "13"}})
	s.ErrorIs(err, ErrStudentInactive)

	_, err = s.ledger.Cascade.Promote(s.ctx, PromotionInput{StudentID: uuid.New()})
	s.ErrorIs(err, repository.ErrNotFound)

	promos, err := s.store.ListPromotions(s.ctx, gone.StudentID)
	s.Require().NoError(err)
	s.Empty(promos)
}

func (s *CascadeSuite) TestMissingPriceLeavesFeesUntouched() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("March 2025")

	res, err := s.ledger.Cascade.Promote(s.ctx, PromotionInput{StudentID: ali.StudentID, To: model.ClassificationSnapshot{Program: "EVENING"}})
	s.Require().NoError(err)
	s.True(res.Cascade.ProgramFeeMissing)
	s.Empty(res.Cascade.Repriced)
	s.True(s.fee(ali.StudentID, "March 2025").FeeAmount.Equal(amount(100)))
}

func (s *CascadeSuite) TestSectionEditDoesNotCascade() {
	ali := s.student("Ali", "7", "REGULAR")
	s.runFor("March 2025")
	s.price("REGULAR", 120)

	section := "C"
	res, err := s.ledger.Cascade.UpdateClassification(s.ctx, ali.StudentID, ClassificationPatch{Section: &section})
	s.Require().NoError(err)
	s.Nil(res)
	s.True(s.fee(ali.StudentID, "March 2025").FeeAmount.Equal(amount(100)))

	st, err := s.store.GetStudent(s.ctx, ali.StudentID)
	s.Require().NoError(err)
	s.Equal("C", st.StudentSection)

	program := "BOARDING"
	res, err = s.ledger.Cascade.UpdateClassification(s.ctx, ali.StudentID, ClassificationPatch{Program: &program})
	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.Len(res.Repriced, 1)
	s.True(s.fee(ali.StudentID, "March 2025").FeeAmount.Equal(amount(250)))
}

func (s *CascadeSuite) TestReassignClassProgram() {
	ali := s.student("Ali", "7", "REGULAR")
	budi := s.student("Budi", "7", "REGULAR")
	citra := s.student("Citra", "8", "REGULAR")
	s.runFor("March 2025")

	res, err := s.ledger.Cascade.ReassignClassProgram(s.ctx, "7", "BOARDING")
	s.Require().NoError(err)
	s.Equal(2, res.Students)
	s.Empty(res.Failures)

	s.True(s.fee(ali.StudentID, "March 2025").FeeAmount.Equal(amount(250)))
	s.True(s.fee(budi.StudentID, "March 2025").FeeAmount.Equal(amount(250)))
	s.True(s.fee(citra.StudentID, "March 2025").FeeAmount.Equal(amount(100)))

	st, err := s.store.GetStudent(s.ctx, budi.StudentID)
	s.Require().NoError(err)
	s.Equal("BOARDING", st.StudentProgram)
}

func (s *CascadeSuite) TestPriceChangeRepricesProgram() {
	ali := s.student("Ali", "7", "REGULAR")
	budi := s.student("Budi", "7", "REGULAR")
	s.runFor("February 2025")
	s.runFor("March 2025")
	_, err := s.ledger.Payments.MarkFeePaid(s.ctx, s.fee(budi.StudentID, "March 2025").FeeID, s.actor)
	s.Require().NoError(err)

	pf, res, err := s.ledger.SetProgramFee(s.ctx, "REGULAR", amount(120))
	s.Require().NoError(err)
	s.True(pf.ProgramFeeAmount.Equal(amount(120)))
	s.Equal(2, res.Students)

	s.True(s.fee(ali.StudentID, "February 2025").FeeAmount.Equal(amount(100)))
	s.True(s.fee(ali.StudentID, "March 2025").FeeAmount.Equal(amount(120)))
	s.True(s.fee(budi.StudentID, "March 2025").FeeAmount.Equal(amount(100)))

	_, _, err = s.ledger.SetProgramFee(s.ctx, "REGULAR", amount(-1))
	s.ErrorIs(err, ErrNegativeAmount)
}
