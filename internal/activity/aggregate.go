package activity

import (
	"fmt"
	"sort"
	"time"

	"github.com/akashpatki/rupeelog/internal/domain"
)

// Filter narrows the activity feed. All fields are optional and
// AND-combined. Month/Year are an alternative spelling of the from/to
// range covering that calendar month; both surfaces share one code path
// because the range is rewritten before evaluation.
type Filter struct {
	// Type keeps only records of one activity type when set.
	Type domain.ActivityType

	// From and To bound the activity date, inclusive. To covers the
	// whole calendar day it names.
	From *time.Time
	To   *time.Time

	// Month (1-12) and Year select one calendar month. Both must be set
	// together.
	Month int
	Year  int
}

// Validate rejects filter values that fail to parse into a meaningful
// constraint. A filter that merely matches nothing is valid.
func (f Filter) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidFilter, f.Type)
	}
	if (f.Month != 0) != (f.Year != 0) {
		return fmt.Errorf("%w: month and year must be given together", domain.ErrInvalidFilter)
	}
	if f.Month != 0 && (f.Month < 1 || f.Month > 12) {
		return fmt.Errorf("%w: month %d out of range", domain.ErrInvalidFilter, f.Month)
	}
	if f.Year != 0 && (f.Year < 1900 || f.Year > 9999) {
		return fmt.Errorf("%w: year %d out of range", domain.ErrInvalidFilter, f.Year)
	}
	return nil
}

// DateRange resolves the effective inclusive date bounds of the filter,
// merging the month/year spelling into from/to. All bounds are
// AND-combined: when both a month and explicit from/to are given, the
// result is their intersection. The returned end is the last instant of
// To's calendar day. Zero times mean unbounded.
func (f Filter) DateRange() (start, end time.Time, err error) {
	if err := f.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if f.Month != 0 {
		start = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}

	if f.From != nil {
		if from := f.From.UTC(); start.IsZero() || from.After(start) {
			start = from
		}
	}
	if f.To != nil {
		// To is interpreted as end-of-day: anything timestamped within
		// that calendar day is in range.
		d := f.To.UTC()
		dayEnd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, 1).Add(-time.Nanosecond)
		if end.IsZero() || dayEnd.Before(end) {
			end = dayEnd
		}
	}
	return start, end, nil
}

// Aggregate applies the filter to a set of canonical records and orders
// the survivors newest first: descending activity date, ties broken by
// descending creation time, remaining ties by input order. The input
// slice is never modified; repeated calls over identical input produce
// identical output, which pagination depends on.
//
// Records flagged with an invalid date are kept (sorted after every
// valid date) so the caller can decide to exclude them; they only match
// date-unbounded filters.
func Aggregate(records []domain.ActivityRecord, f Filter) ([]domain.ActivityRecord, error) {
	start, end, err := f.DateRange()
	if err != nil {
		return nil, err
	}

	out := make([]domain.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if f.Type != "" && rec.Type != f.Type {
			continue
		}
		if !start.IsZero() && (rec.InvalidDate || rec.ActivityDate.Before(start)) {
			continue
		}
		if !end.IsZero() && (rec.InvalidDate || rec.ActivityDate.After(end)) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ActivityDate.Equal(b.ActivityDate) {
			return a.ActivityDate.After(b.ActivityDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return false
	})

	return out, nil
}
