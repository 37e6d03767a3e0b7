/*
dategroup.go - Date-effective segmentation

PURPOSE:
  A tower is not always bound in one sitting. Excess capacity placed
  mid-term incepts later than the capacity beneath it, so the stack
  splits into segments of layers that came on risk together. The
  grouping is purely organizational - it drives display and
  comparison, never attachment or premium math.

RESOLUTION:
  The tower's DateConfig maps attachment thresholds to inception
  dates: "capacity bound at this level started on this date". A layer
  resolves to the band with the greatest threshold at or below its
  own attachment; a layer no band covers falls back to the structure
  start. A band may carry the zero Date as an "undetermined" sentinel
  for capacity not yet bound - such groups are flagged and must stay
  out of day-count proration until a real date is supplied.
*/
package tower

// DateBand maps an attachment threshold to the inception date of the
// capacity bound at and above it (up to the next band).
type DateBand struct {
	Attachment Money
	Start      Date // zero = not yet bound
}

// DateConfig is the tower's set of bands. Order of declaration does
// not matter; resolution scans for the best match.
type DateConfig []DateBand

func (c DateConfig) clone() DateConfig {
	if c == nil {
		return nil
	}
	out := make(DateConfig, len(c))
	copy(out, c)
	return out
}

// resolveStart returns the effective start for a layer attaching at
// the given point, and whether any band covered it.
func (c DateConfig) resolveStart(attachment Money) (Date, bool) {
	best := -1
	for i, band := range c {
		if band.Attachment.GreaterThan(attachment) {
			continue
		}
		if best < 0 || band.Attachment.GreaterThan(c[best].Attachment) {
			best = i
		}
	}
	if best < 0 {
		return Date{}, false
	}
	return c[best].Start, true
}

// DateGroup is one contiguous run of layers sharing an effective
// inception date. From/To are inclusive indexes into the layer slice.
type DateGroup struct {
	EffectiveStart Date
	Undetermined   bool
	From           int
	To             int
}

// Layers returns the number of layers in the group.
func (g DateGroup) Layers() int { return g.To - g.From + 1 }

// GroupByEffectiveDate partitions the layers, in attachment order,
// into contiguous segments sharing a resolved effective start date.
// Layers the config does not cover resolve to fallbackStart; a zero
// resolved date marks the group undetermined.
func GroupByEffectiveDate(layers []Layer, config DateConfig, fallbackStart Date) []DateGroup {
	if len(layers) == 0 {
		return nil
	}

	starts := make([]Date, len(layers))
	for i, l := range layers {
		start, covered := config.resolveStart(l.Attachment)
		if !covered {
			start = fallbackStart
		}
		starts[i] = start
	}

	var groups []DateGroup
	current := DateGroup{EffectiveStart: starts[0], Undetermined: starts[0].IsZero(), From: 0, To: 0}
	for i := 1; i < len(layers); i++ {
		if starts[i].Equal(current.EffectiveStart) && starts[i].IsZero() == current.Undetermined {
			current.To = i
			continue
		}
		groups = append(groups, current)
		current = DateGroup{EffectiveStart: starts[i], Undetermined: starts[i].IsZero(), From: i, To: i}
	}
	groups = append(groups, current)
	return groups
}
