package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"schoolledger_backend/internals/features/finance/ledger/repository"
	ledgerRoute "schoolledger_backend/internals/features/finance/ledger/route"
	"schoolledger_backend/internals/features/finance/ledger/service"
	helper "schoolledger_backend/internals/helpers"
	"schoolledger_backend/internals/helpers/clock"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"error_code"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
}

type HTTPSuite struct {
	suite.Suite

	app    *fiber.App
	store  *repository.MemoryStore
	clock  *clock.Fixed
	ledger *service.Ledger
	actor  uuid.UUID
}

func TestHTTPSuite(t *testing.T) { suite.Run(t, new(HTTPSuite)) }

func (s *HTTPSuite) SetupTest() {
	wib := time.FixedZone("WIB", 7*60*60)
	s.store = repository.NewMemoryStore()
	s.clock = clock.NewFixed(time.Date(2025, time.March, 15, 10, 0, 0, 0, wib))
	s.actor = uuid.New()
	s.ledger = service.New(s.store, s.clock, service.Options{SystemActor: uuid.New()})

	s.app = fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	ledgerRoute.AdminLedgerRoutes(s.app.Group("/api/ledger"), s.ledger, nil)
}

func (s *HTTPSuite) do(method, path string, body any, actor uuid.UUID) (int, envelope) {
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		s.Require().NoError(err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if actor != uuid.Nil {
		req.Header.Set(helper.HeaderActorID, actor.String())
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(sonic.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *HTTPSuite) decode(env envelope, dst any) {
	s.Require().NoError(sonic.Unmarshal(env.Data, dst))
}

func (s *HTTPSuite) admit(name, program string) service.AdmissionResult {
	code, env := s.do("POST", "/api/ledger/students", map[string]any{
		"student_name":    name,
		"student_class":   "Grade 7",
		"student_program": program,
	}, uuid.Nil)
	s.Require().Equal(fiber.StatusCreated, code, env.Message)
	var res service.AdmissionResult
	s.decode(env, &res)
	return res
}

func (s *HTTPSuite) setPrice(program, amount string) {
	code, env := s.do("PUT", "/api/ledger/program-fees/"+program, map[string]any{"program_fee_amount": amount}, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code, env.Message)
}

func (s *HTTPSuite) fees(query string) []service.FeeView {
	code, env := s.do("GET", "/api/ledger/fees"+query, nil, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code, env.Message)
	var views []service.FeeView
	s.decode(env, &views)
	return views
}

/* ===================== scenarios ===================== */

func (s *HTTPSuite) TestAdmissionBillsCurrentPeriod() {
	s.setPrice("REGULAR", "100")
	res := s.admit("Aisyah", "REGULAR")
	s.Equal(service.OutcomeCreated, res.CurrentFee)

	views := s.fees("?status=pending")
	s.Require().Len(views, 1)
	s.Equal("March 2025", views[0].Fee.FeeMonth)
	s.Equal("100", views[0].Fee.FeeAmount.String())
	s.Equal("Grade 7", views[0].Classification.Class)
}

func (s *HTTPSuite) TestAdmissionWithoutPriceStillCreatesStudent() {
	res := s.admit("Bilal", "UNPRICED")
	s.Equal(service.OutcomeSkipped, res.CurrentFee)
	s.Empty(s.fees(""))
}

func (s *HTTPSuite) TestPaymentIsOneWay() {
	s.setPrice("REGULAR", "100")
	s.admit("Aisyah", "REGULAR")
	fee := s.fees("")[0].Fee

	path := "/api/ledger/fees/" + fee.FeeID.String() + "/pay"

	code, env := s.do("POST", path, nil, uuid.Nil)
	s.Equal(fiber.StatusBadRequest, code)
	s.Equal("BAD_REQUEST", env.Code)

	code, _ = s.do("POST", path, nil, s.actor)
	s.Equal(fiber.StatusOK, code)

	code, env = s.do("POST", path, nil, s.actor)
	s.Equal(fiber.StatusConflict, code)
	s.Equal("CONFLICT", env.Code)

	views := s.fees("?status=paid")
	s.Require().Len(views, 1)
	s.Require().NotNil(views[0].Fee.FeePaidBy)
	s.Equal(s.actor, *views[0].Fee.FeePaidBy)
}

func (s *HTTPSuite) TestPayRecordResolvesSalary() {
	code, env := s.do("POST", "/api/ledger/employees", map[string]any{
		"employee_name":   "Pak Umar",
		"employee_salary": "3000000",
	}, uuid.Nil)
	s.Require().Equal(fiber.StatusCreated, code, env.Message)

	sals, err := s.store.ListSalaries(context.Background(), repository.SalaryFilter{})
	s.Require().NoError(err)
	s.Require().Len(sals, 1)

	code, env = s.do("POST", "/api/ledger/records/"+sals[0].SalaryID.String()+"/pay", nil, s.actor)
	s.Require().Equal(fiber.StatusOK, code, env.Message)
	var rcpt service.PaymentReceipt
	s.decode(env, &rcpt)
	s.Equal(service.RecordKindSalary, rcpt.Kind)

	exp, err := s.store.FindExpenseBySalary(context.Background(), sals[0].SalaryID)
	s.Require().NoError(err)
	s.True(exp.ExpensePaid)
}

func (s *HTTPSuite) TestNotFoundAndBadIDs() {
	code, _ := s.do("POST", "/api/ledger/records/"+uuid.NewString()+"/pay", nil, s.actor)
	s.Equal(fiber.StatusNotFound, code)

	code, _ = s.do("GET", "/api/ledger/students/"+uuid.NewString(), nil, uuid.Nil)
	s.Equal(fiber.StatusNotFound, code)

	code, _ = s.do("GET", "/api/ledger/students/not-a-uuid", nil, uuid.Nil)
	s.Equal(fiber.StatusBadRequest, code)
}

func (s *HTTPSuite) TestValidation() {
	code, env := s.do("POST", "/api/ledger/students", map[string]any{"student_class": "Grade 7"}, uuid.Nil)
	s.Equal(fiber.StatusUnprocessableEntity, code)
	s.Contains(env.Errors, "student_name")
	s.Contains(env.Errors, "student_program")

	code, env = s.do("PUT", "/api/ledger/program-fees/REGULAR", map[string]any{"program_fee_amount": "-5"}, uuid.Nil)
	s.Equal(fiber.StatusUnprocessableEntity, code)
	s.Contains(env.Errors, "program_fee_amount")

	code, env = s.do("POST", "/api/ledger/expenses", map[string]any{
		"expense_title":    "Payroll",
		"expense_category": "Salary",
		"expense_amount":   "10",
	}, s.actor)
	s.Equal(fiber.StatusUnprocessableEntity, code)
	s.Contains(env.Errors, "expense_category")

	code, _ = s.do("GET", "/api/ledger/fees?status=late", nil, uuid.Nil)
	s.Equal(fiber.StatusUnprocessableEntity, code)
}

func (s *HTTPSuite) TestInvalidPeriodKeysAreBadRequests() {
	code, _ := s.do("GET", "/api/ledger/fees?month=Smarch%202025", nil, uuid.Nil)
	s.Equal(fiber.StatusBadRequest, code)

	code, _ = s.do("GET", "/api/ledger/summary?month=2025-03", nil, uuid.Nil)
	s.Equal(fiber.StatusBadRequest, code)

	code, _ = s.do("POST", "/api/ledger/generate", map[string]any{"period": "Smarch 2025"}, uuid.Nil)
	s.Equal(fiber.StatusBadRequest, code)
}

func (s *HTTPSuite) TestGenerateIsIdempotent() {
	s.setPrice("REGULAR", "100")
	s.admit("Aisyah", "REGULAR")

	for i, want := range []int{1, 0} {
		code, env := s.do("POST", "/api/ledger/generate", map[string]any{"period": "April 2025"}, uuid.Nil)
		s.Require().Equal(fiber.StatusOK, code, env.Message)
		var sum service.RunSummary
		s.decode(env, &sum)
		s.Equal("April 2025", sum.Period)
		s.Equal(want, sum.FeesCreated, "pass %d", i+1)
	}

	code, env := s.do("GET", "/api/ledger/runs", nil, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code)
	var runs []map[string]any
	s.decode(env, &runs)
	s.Len(runs, 2)
}

func (s *HTTPSuite) TestPromotionReprices() {
	s.setPrice("REGULAR", "100")
	s.setPrice("BOARDING", "250")
	st := s.admit("Aisyah", "REGULAR").Student

	code, env := s.do("POST", "/api/ledger/students/"+st.StudentID.String()+"/promote",
		map[string]any{"class": "Grade 8", "program": "BOARDING"}, s.actor)
	s.Require().Equal(fiber.StatusOK, code, env.Message)

	var res service.PromotionResult
	s.decode(env, &res)
	s.Len(res.Cascade.Repriced, 1)

	views := s.fees("")
	s.Require().Len(views, 1)
	s.Equal("250", views[0].Fee.FeeAmount.String())
	// bill keeps the placement it was issued under
	s.Equal("Grade 7", views[0].Fee.FeeHistorical.Class)

	code, env = s.do("POST", "/api/ledger/students/"+st.StudentID.String()+"/promote", map[string]any{}, s.actor)
	s.Equal(fiber.StatusUnprocessableEntity, code, env.Message)
}

func (s *HTTPSuite) TestDefaultersAndSummary() {
	s.setPrice("REGULAR", "100")
	s.admit("Aisyah", "REGULAR")

	code, env := s.do("GET", "/api/ledger/defaulters", nil, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code)
	var list []service.Defaulter
	s.decode(env, &list)
	s.Empty(list, "March is still running")

	s.clock.Set(time.Date(2025, time.April, 1, 0, 0, 0, 0, s.clock.Now().Location()))
	code, env = s.do("GET", "/api/ledger/defaulters", nil, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code)
	s.decode(env, &list)
	s.Require().Len(list, 1)
	s.Equal([]string{"March 2025"}, list[0].Months)

	code, env = s.do("GET", "/api/ledger/summary?month=March%202025", nil, uuid.Nil)
	s.Require().Equal(fiber.StatusOK, code)
	var sum service.MonthlySummary
	s.decode(env, &sum)
	s.Equal(1, sum.FeeCount)
	s.True(sum.Completed)
}

func TestErrorTableFallsBackTo500(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/", func(*fiber.Ctx) error {
		return helper.FromServiceError(assert.AnError)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
