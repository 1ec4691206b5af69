// file: internals/features/finance/ledger/service/errors.go
package service

import "errors"

var (
	// ErrProgramFeeMissing is a configuration gap: the student's program has
	// no price. Batch callers skip the student and keep going.
	ErrProgramFeeMissing = errors.New("no fee configured for program")

	// ErrAlreadyPaid: payment is a one-way transition.
	ErrAlreadyPaid = errors.New("record already paid")

	ErrStudentInactive = errors.New("student is not active")
	ErrActorRequired   = errors.New("actor id is required")
)

// ErrInvalidStatus is returned for a status filter other than paid, pending
// or overdue.
var ErrInvalidStatus = errors.New("invalid status filter")

var (
	ErrInvalidStudentStatus = errors.New("invalid student status")
	ErrNegativeAmount       = errors.New("amount must not be negative")
)

// ErrMirrorManaged: salary-linked expenses are owned by the generator.
var ErrMirrorManaged = errors.New("salary expenses are created by the ledger")
