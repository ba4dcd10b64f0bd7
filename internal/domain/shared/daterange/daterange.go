package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

const day = 24 * time.Hour

// DateRange represents a stay from check-in to check-out.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the span in whole days, rounding any partial day up.
// Always >= 1 for a valid range.
func (dr DateRange) Nights() int {
	span := dr.CheckOut.Sub(dr.CheckIn)
	nights := int(span / day)
	if span%day != 0 {
		nights++
	}
	return nights
}

// Conflicts reports whether two stays contend for the same room.
// Boundaries are inclusive: a stay ending on day N conflicts with one
// starting on day N. Same-day turnover is rejected on purpose; keep the
// policy here if it ever changes.
func (dr DateRange) Conflicts(other DateRange) bool {
	return !dr.CheckIn.After(other.CheckOut) && !dr.CheckOut.Before(other.CheckIn)
}
