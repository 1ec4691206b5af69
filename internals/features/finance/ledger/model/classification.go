// file: internals/features/finance/ledger/model/classification.go
package model

// ClassificationSnapshot is where a student sits in the school: class, section,
// program and academic session. Embedded in Fee it is the frozen copy taken
// when the bill was issued; embedded in StudentPromotion it is the before/after.
type ClassificationSnapshot struct {
	Class   string `gorm:"column:class;type:varchar(64)"   json:"class"`
	Program string `gorm:"column:program;type:varchar(64)" json:"program"`
	Section string `gorm:"column:section;type:varchar(32)" json:"section"`
	Session string `gorm:"column:session;type:varchar(32)" json:"session"`
}

func (s ClassificationSnapshot) IsZero() bool {
	return s == ClassificationSnapshot{}
}
