// file: internals/features/finance/ledger/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentActive    StudentStatus = "ACTIVE"
	StudentGraduated StudentStatus = "GRADUATED"
	StudentDropped   StudentStatus = "DROPPED"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentGraduated, StudentDropped:
		return true
	}
	return false
}

type StudentModel struct {
	StudentID   uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentName string    `gorm:"column:student_name;type:varchar(160);not null" json:"student_name"`

	// Current classification (changes on promotion)
	StudentClass   string `gorm:"column:student_class;type:varchar(64);not null;index:idx_students_class" json:"student_class"`
	StudentSection string `gorm:"column:student_section;type:varchar(32)" json:"student_section"`
	StudentProgram string `gorm:"column:student_program;type:varchar(64);not null;index:idx_students_program" json:"student_program"`
	StudentSession string `gorm:"column:student_session;type:varchar(32)" json:"student_session"`

	StudentStatus StudentStatus `gorm:"column:student_status;type:varchar(16);not null;default:ACTIVE;index:idx_students_status" json:"student_status"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(*gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	if m.StudentStatus == "" {
		m.StudentStatus = StudentActive
	}
	return nil
}

func (m StudentModel) IsActive() bool { return m.StudentStatus == StudentActive }

// Classification is the student's current placement.
func (m StudentModel) Classification() ClassificationSnapshot {
	return ClassificationSnapshot{
		Class:   m.StudentClass,
		Program: m.StudentProgram,
		Section: m.StudentSection,
		Session: m.StudentSession,
	}
}

func (m *StudentModel) ApplyClassification(c ClassificationSnapshot) {
	m.StudentClass = c.Class
	m.StudentProgram = c.Program
	m.StudentSection = c.Section
	m.StudentSession = c.Session
}
