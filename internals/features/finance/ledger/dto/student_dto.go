// file: internals/features/finance/ledger/dto/student_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	m "schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/service"
)

/* =========================================================
   CREATE STUDENT
========================================================= */

type CreateStudentRequest struct {
	StudentName    string `json:"student_name" validate:"required,max=160"`
	StudentClass   string `json:"student_class" validate:"required,max=64"`
	StudentProgram string `json:"student_program" validate:"required,max=64"`
	StudentSection string `json:"student_section" validate:"max=32"`
	StudentSession string `json:"student_session" validate:"max=32"`

	// ACTIVE when empty
	StudentStatus string `json:"student_status" validate:"omitempty,oneof=ACTIVE GRADUATED DROPPED"`
}

func (r CreateStudentRequest) ToModel() *m.StudentModel {
	return &m.StudentModel{
		StudentName:    strings.TrimSpace(r.StudentName),
		StudentClass:   strings.TrimSpace(r.StudentClass),
		StudentProgram: strings.TrimSpace(r.StudentProgram),
		StudentSection: strings.TrimSpace(r.StudentSection),
		StudentSession: strings.TrimSpace(r.StudentSession),
		StudentStatus:  m.StudentStatus(r.StudentStatus),
	}
}

/* =========================================================
   PATCH CLASSIFICATION
========================================================= */

// Absent fields are left as they are.
type PatchClassificationRequest struct {
	StudentClass   *string `json:"student_class" validate:"omitempty,min=1,max=64"`
	StudentProgram *string `json:"student_program" validate:"omitempty,min=1,max=64"`
	StudentSection *string `json:"student_section" validate:"omitempty,max=32"`
	StudentSession *string `json:"student_session" validate:"omitempty,max=32"`
}

func (p PatchClassificationRequest) ToPatch() service.ClassificationPatch {
	return service.ClassificationPatch{
		Class:   trimPtr(p.StudentClass),
		Program: trimPtr(p.StudentProgram),
		Section: trimPtr(p.StudentSection),
		Session: trimPtr(p.StudentSession),
	}
}

/* =========================================================
   PROMOTE
========================================================= */

// Empty fields keep the student's current value; at least one is required.
type PromoteRequest struct {
	Class   string `json:"class" validate:"required_without_all=Program Section Session,max=64"`
	Program string `json:"program" validate:"max=64"`
	Section string `json:"section" validate:"max=32"`
	Session string `json:"session" validate:"max=32"`
}

func (r PromoteRequest) ToInput(studentID uuid.UUID, actor uuid.UUID) service.PromotionInput {
	in := service.PromotionInput{
		StudentID: studentID,
		To: m.ClassificationSnapshot{
			Class:   strings.TrimSpace(r.Class),
			Program: strings.TrimSpace(r.Program),
			Section: strings.TrimSpace(r.Section),
			Session: strings.TrimSpace(r.Session),
		},
	}
	if actor != uuid.Nil {
		in.ActorID = &actor
	}
	return in
}

/* =========================================================
   STATUS
========================================================= */

type StudentStatusRequest struct {
	StudentStatus string `json:"student_status" validate:"required,oneof=ACTIVE GRADUATED DROPPED"`
}

/* =========================================================
   CLASS PROGRAM
========================================================= */

type ReassignClassProgramRequest struct {
	Program string `json:"program" validate:"required,max=64"`
}

/* =========================================================
   LIST
========================================================= */

type ListStudentsQuery struct {
	Status  string `query:"status" validate:"omitempty,oneof=ACTIVE GRADUATED DROPPED"`
	Class   string `query:"class"`
	Program string `query:"program"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
