// file: internals/features/finance/ledger/service/status.go
package service

import (
	"time"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/helpers/period"
)

// Status is derived on every read and never stored.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPaid, StatusPending, StatusOverdue:
		return Status(s), true
	}
	return "", false
}

// DeriveStatus: paid wins; an unpaid record is overdue only when its month
// parses and lies strictly before the period containing now.
func DeriveStatus(paid bool, month string, now time.Time) Status {
	if paid {
		return StatusPaid
	}
	if period.Classify(month, now) == period.Past {
		return StatusOverdue
	}
	return StatusPending
}

func FeeStatus(f model.FeeModel, now time.Time) Status {
	return DeriveStatus(f.FeePaid, f.FeeMonth, now)
}

func SalaryStatus(s model.SalaryModel, now time.Time) Status {
	return DeriveStatus(s.SalaryPaid, s.SalaryMonth, now)
}

// MonthCompleted gates defaulter reporting: the first day of the following
// month must have been reached. Unparseable months never complete.
func MonthCompleted(month string, now time.Time) bool {
	p, err := period.Parse(month)
	if err != nil {
		return false
	}
	return period.Completed(p, now)
}
