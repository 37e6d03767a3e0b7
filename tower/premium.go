/*
premium.go - Actual-premium allocation

PURPOSE:
  The single source of truth for ActualPremium. Given a layer's annual
  reference premium, its resolved term window, and its basis, derives
  the premium actually owed. No other component writes ActualPremium.

BASES:
  annual    actual = annual, verbatim; no proration
  pro_rata  actual = annual x days/365, rounded to the nearest whole
            currency unit
  minimum   actual = max(pro-rata, guaranteed minimum earned premium)
  flat      actual = the negotiated flat charge, term ignored

NULL PROPAGATION:
  A nil annual premium yields a nil actual premium under every basis
  except flat, which depends only on its own override. A basis whose
  override is missing (flat with no flat premium) is indeterminate,
  not an error: actual stays nil until the value is supplied.

ROUNDING:
  Half away from zero to the whole unit (decimal.Round). 120000 over
  182/365 days rounds to 59836.
*/
package tower

import "github.com/shopspring/decimal"

var yearDays = decimal.NewFromInt(daysPerYear)

// ProRataPremium returns the theoretical pro-rata premium for the
// window: annual x days/365, rounded to the whole unit. It is always
// derivable for display and comparison even when the stored basis is
// something else. Nil when the annual premium or the window is
// undetermined.
func ProRataPremium(l Layer, w DateWindow) *Money {
	if l.AnnualPremium == nil || !w.IsDetermined() {
		return nil
	}
	days := DaysBetween(w.Start, w.End)
	if days < 0 {
		return nil
	}
	prorated := l.AnnualPremium.Mul(decimal.NewFromInt(int64(days))).Div(yearDays).Round(0)
	return &prorated
}

// ActualPremium derives the premium owed for the layer's resolved
// window under its basis. Nil when indeterminate.
func ActualPremium(l Layer, w DateWindow) *Money {
	switch l.Basis {
	case BasisFlat:
		// Flat depends only on its override, never on term or annual.
		return cloneMoney(l.FlatPremium)

	case BasisProRata:
		return ProRataPremium(l, w)

	case BasisMinimum:
		prorata := ProRataPremium(l, w)
		if prorata == nil {
			return nil
		}
		if l.MinimumPremium != nil && l.MinimumPremium.GreaterThan(*prorata) {
			return cloneMoney(l.MinimumPremium)
		}
		return prorata

	default:
		// BasisAnnual, and anything unset before normalization.
		return cloneMoney(l.AnnualPremium)
	}
}

// =============================================================================
// STICKY-BASIS EDITS
// =============================================================================
// Editing the annual figure re-derives the actual figure under the
// CURRENT basis (a minimum floor stays a minimum floor); only an
// explicit basis change moves the basis itself. Edits are pure: the
// receiver is untouched and an edited copy is returned.

// WithAnnualPremium returns a copy of the layer with the annual
// reference premium replaced and the actual premium re-derived under
// the layer's existing basis.
func (l Layer) WithAnnualPremium(annual *Money, structure DateWindow) Layer {
	out := l.clone()
	out.AnnualPremium = cloneMoney(annual)
	out.ActualPremium = ActualPremium(out, ResolveTerm(out, structure))
	return out
}

// WithBasis returns a copy of the layer on a new basis, with the
// actual premium re-derived under it.
func (l Layer) WithBasis(basis PremiumBasis, structure DateWindow) Layer {
	out := l.clone()
	out.Basis = basis
	out.ActualPremium = ActualPremium(out, ResolveTerm(out, structure))
	return out
}

// WithMinimumPremium returns a copy with the minimum-earned floor
// replaced and the actual premium re-derived.
func (l Layer) WithMinimumPremium(minimum *Money, structure DateWindow) Layer {
	out := l.clone()
	out.MinimumPremium = cloneMoney(minimum)
	out.ActualPremium = ActualPremium(out, ResolveTerm(out, structure))
	return out
}

// WithFlatPremium returns a copy with the flat override replaced and
// the actual premium re-derived.
func (l Layer) WithFlatPremium(flat *Money, structure DateWindow) Layer {
	out := l.clone()
	out.FlatPremium = cloneMoney(flat)
	out.ActualPremium = ActualPremium(out, ResolveTerm(out, structure))
	return out
}
