package clock

import (
	"testing"
	"time"
)

func TestSystemNowUsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	c := NewSystem(loc)

	if got := c.Now().Location(); got != loc {
		t.Fatalf("expected %v, got %v", loc, got)
	}

	if c.Location() != loc {
		t.Fatalf("expected Location to return configured zone")
	}
}

func TestNewSystemDefaultsToUTC(t *testing.T) {
	if got := NewSystem(nil).Now().Location(); got != time.UTC {
		t.Fatalf("expected UTC, got %v", got)
	}
}
