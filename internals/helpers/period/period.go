// file: internals/helpers/period/period.go
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidKey is returned when a period key is not "<MonthName> <Year>".
var ErrInvalidKey = errors.New("invalid period key")

// Fixed calendar table. Keys never depend on the process locale.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Period is one calendar month, the unit of fee and salary billing.
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the period containing t (in t's own location).
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key canonicalizes t to its period key, e.g. "March 2025".
func Key(t time.Time) string {
	return Of(t).Key()
}

func (p Period) Key() string {
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

func (p Period) String() string { return p.Key() }

// Valid reports whether p names a real month.
func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.Year > 0
}

// Parse reads a key produced by Key. Month names match case-insensitively.
func Parse(key string) (Period, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	month := time.Month(0)
	for i, name := range monthNames {
		if strings.EqualFold(fields[0], name) {
			month = time.Month(i + 1)
			break
		}
	}
	if month == 0 {
		return Period{}, fmt.Errorf("%w: unknown month %q", ErrInvalidKey, fields[0])
	}

	if len(fields[1]) != 4 {
		return Period{}, fmt.Errorf("%w: year %q", ErrInvalidKey, fields[1])
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil || year <= 0 {
		return Period{}, fmt.Errorf("%w: year %q", ErrInvalidKey, fields[1])
	}
	return Period{Year: year, Month: month}, nil
}

// MustParse is Parse for keys known at compile time.
func MustParse(key string) Period {
	p, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Period) index() int { return p.Year*12 + int(p.Month) - 1 }

// Compare returns -1, 0 or +1.
func (p Period) Compare(q Period) int {
	switch a, b := p.index(), q.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (p Period) Before(q Period) bool { return p.Compare(q) < 0 }
func (p Period) After(q Period) bool  { return p.Compare(q) > 0 }

func (p Period) Next() Period { return p.AddMonths(1) }
func (p Period) Prev() Period { return p.AddMonths(-1) }

func (p Period) AddMonths(n int) Period {
	i := p.index() + n
	return Period{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// Start is the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// Completed reports whether the first day of the following month has been
// reached at now. The open month is never completed.
func Completed(p Period, now time.Time) bool {
	return !now.Before(p.Next().Start(now.Location()))
}

// Relation of a stored key to the current period.
type Relation int

const (
	NonComparable Relation = iota
	Past
	Current
	Future
)

// Classify places key relative to the period containing now. Keys that fail
// to parse are NonComparable instead of an error.
func Classify(key string, now time.Time) Relation {
	p, err := Parse(key)
	if err != nil {
		return NonComparable
	}
	switch p.Compare(Of(now)) {
	case -1:
		return Past
	case 0:
		return Current
	default:
		return Future
	}
}

// IsCurrentOrFuture is the repricing gate.
func IsCurrentOrFuture(key string, now time.Time) bool {
	r := Classify(key, now)
	return r == Current || r == Future
}
