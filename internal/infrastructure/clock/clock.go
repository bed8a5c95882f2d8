package clock

import "time"

// System is a usecase.Clock reading the wall clock in a fixed business location.
type System struct {
	loc *time.Location
}

// NewSystem creates a System clock. A nil location means UTC.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}

	return &System{loc: loc}
}

// Now returns the current time in the business location.
func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the business location.
func (c *System) Location() *time.Location {
	return c.loc
}
