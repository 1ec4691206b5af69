// file: internals/features/finance/ledger/model/student_promotion_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentPromotionModel is append-only. Rows are inserted once per promotion
// and never updated.
type StudentPromotionModel struct {
	StudentPromotionID        uuid.UUID `gorm:"column:student_promotion_id;type:uuid;primaryKey" json:"student_promotion_id"`
	StudentPromotionStudentID uuid.UUID `gorm:"column:student_promotion_student_id;type:uuid;not null;index:idx_student_promotions_student" json:"student_promotion_student_id"`

	StudentPromotionFrom ClassificationSnapshot `gorm:"embedded;embeddedPrefix:student_promotion_from_" json:"student_promotion_from"`
	StudentPromotionTo   ClassificationSnapshot `gorm:"embedded;embeddedPrefix:student_promotion_to_"   json:"student_promotion_to"`

	StudentPromotionBy *uuid.UUID `gorm:"column:student_promotion_by;type:uuid" json:"student_promotion_by,omitempty"`

	StudentPromotionCreatedAt time.Time `gorm:"column:student_promotion_created_at;autoCreateTime" json:"student_promotion_created_at"`
}

func (StudentPromotionModel) TableName() string { return "student_promotions" }

func (m *StudentPromotionModel) BeforeCreate(*gorm.DB) error {
	if m.StudentPromotionID == uuid.Nil {
		m.StudentPromotionID = uuid.New()
	}
	return nil
}
