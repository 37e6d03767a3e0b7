/*
term.go - Term resolution and day-count conventions

PURPOSE:
  Resolves the effective date window for a layer and classifies it as
  full-year or short. The cascade is layer override -> structure term;
  in practice expiration is almost always inherited and only the start
  is overridden (a mid-term excess placement joining an in-force
  program).

DAY COUNT:
  DaysBetween is the single day-count function in the engine. Every
  proration downstream goes through it, so the convention can never
  diverge between components.
*/
package tower

const (
	// daysPerYear is the proration denominator.
	daysPerYear = 365

	// fullTermFraction is the share of a 365-day year a window must
	// cover to count as full-term. The tolerance exists so normal
	// calendar rounding (364 vs 365 days) never looks like a short
	// placement.
	fullTermFraction = 0.96
)

// ResolveTerm resolves the layer's effective window: each endpoint is
// the layer's own override when present, otherwise the structure's.
func ResolveTerm(l Layer, structure DateWindow) DateWindow {
	w := structure
	if l.TermStart != nil {
		w.Start = *l.TermStart
	}
	if l.TermEnd != nil {
		w.End = *l.TermEnd
	}
	return w
}

// DaysBetween returns the calendar-day difference end minus start.
// Neither boundary is double-counted: Jan 1 to Jan 1 of the next year
// is 365 days.
func DaysBetween(start, end Date) int {
	return int(end.normalize().Sub(start.normalize()).Hours() / 24)
}

// IsShortTerm reports whether the window is short enough to be
// pro-rateable. Undetermined windows are never short: without real
// dates there is nothing to prorate.
func IsShortTerm(w DateWindow) bool {
	if !w.IsDetermined() {
		return false
	}
	days := DaysBetween(w.Start, w.End)
	if days < 0 {
		// End before start is malformed, not a short placement.
		return false
	}
	return float64(days)/daysPerYear < fullTermFraction
}
