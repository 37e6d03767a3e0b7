/*
normalize.go - Canonicalizes raw layer records

PURPOSE:
  Persisted towers arrive in two vintages. The current shape carries
  the dual premium model (annual reference premium + actual charged
  premium + basis). The older shape carries a single premium field
  that meant both things at once. Normalize migrates the old shape
  into the new one and applies defaults, so everything downstream can
  assume a fully-populated layer.

MIGRATION RULE:
  Only the legacy single premium present:
    AnnualPremium = ActualPremium = LegacyPremium, Basis = annual.
  Dual fields already present: left untouched (idempotent).

GUARANTEES:
  - Input is never mutated; a fresh slice is returned
  - Normalizing an already-normalized tower is a no-op
  - A missing limit is an error surfaced to the caller, never a
    silently defaulted value
*/
package tower

// Normalize canonicalizes raw layers into the dual premium model.
// It returns a new slice; the input is untouched.
func Normalize(layers []Layer) ([]Layer, error) {
	out := cloneLayers(layers)
	for i := range out {
		l := &out[i]

		if !l.Limit.IsPositive() {
			return nil, &LimitError{Index: i, Carrier: l.Carrier, Limit: l.Limit}
		}

		// Legacy single-premium migration. The old field meant "the
		// premium" for a full term, so it seeds both sides of the pair.
		if l.AnnualPremium == nil && l.ActualPremium == nil && l.LegacyPremium != nil {
			l.AnnualPremium = cloneMoney(l.LegacyPremium)
			l.ActualPremium = cloneMoney(l.LegacyPremium)
			if l.Basis == "" {
				l.Basis = BasisAnnual
			}
		}

		if !l.Basis.Valid() {
			l.Basis = BasisAnnual
		}
	}
	return out, nil
}
