// file: internals/features/finance/ledger/snapshot/classification_snapshot.go
package snapshot

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/helpers/period"
)

// ErrAlreadyStamped: the historical classification of a fee is written once.
var ErrAlreadyStamped = errors.New("fee classification snapshot already stamped")

// Stamp freezes the student's current classification onto a fee that has not
// been persisted yet.
func Stamp(fee *model.FeeModel, student model.StudentModel) error {
	if fee.FeeID != uuid.Nil || !fee.FeeHistorical.IsZero() {
		return ErrAlreadyStamped
	}
	fee.FeeHistorical = student.Classification()
	return nil
}

// Effective picks the classification to display with a fee: the frozen
// snapshot for past periods, the student's current placement otherwise.
// A non-comparable month falls back to the snapshot when there is one.
func Effective(fee model.FeeModel, student *model.StudentModel, now time.Time) model.ClassificationSnapshot {
	switch period.Classify(fee.FeeMonth, now) {
	case period.Current, period.Future:
		if student != nil {
			return student.Classification()
		}
	case period.NonComparable:
		if fee.FeeHistorical.IsZero() && student != nil {
			return student.Classification()
		}
	}
	return fee.FeeHistorical
}
