// file: internals/features/finance/ledger/dto/record_dto.go
package dto

import (
	"github.com/google/uuid"

	"schoolledger_backend/internals/features/finance/ledger/service"
)

/* =========================================================
   GENERATE
========================================================= */

// Period defaults to the current one.
type GenerateRequest struct {
	Period string `json:"period" validate:"omitempty,max=32"`
}

/* =========================================================
   LISTINGS
========================================================= */

type ListFeesQuery struct {
	StudentID string `query:"student_id" validate:"omitempty,uuid"`
	Month     string `query:"month"`
	Status    string `query:"status" validate:"omitempty,oneof=paid pending overdue"`
}

func (q ListFeesQuery) ToQuery() service.FeeQuery {
	return service.FeeQuery{StudentID: parseOptionalUUID(q.StudentID), Month: q.Month, Status: q.Status}
}

type ListSalariesQuery struct {
	EmployeeID string `query:"employee_id" validate:"omitempty,uuid"`
	Month      string `query:"month"`
	Status     string `query:"status" validate:"omitempty,oneof=paid pending overdue"`
}

func (q ListSalariesQuery) ToQuery() service.SalaryQuery {
	return service.SalaryQuery{EmployeeID: parseOptionalUUID(q.EmployeeID), Month: q.Month, Status: q.Status}
}

type ListRunsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
}

func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
