/*
compute.go - The full read-path pipeline

PURPOSE:
  One call that takes a raw tower and returns everything the
  surrounding platform renders: normalized layers with attachments,
  actual premiums, rate metrics, date-effective segments, and a
  tower-level summary. The pipeline is the composition of the other
  files in this package, in dependency order:

    Normalize -> Recalculate -> ResolveTerm -> ActualPremium
      -> RatePerMillion / IncreasedLimitFactor -> GroupByEffectiveDate

GUARANTEES:
  - Pure and deterministic: same tower in, same result out
  - Idempotent: computing a computed tower's layers again is a no-op
  - A structural error anywhere rejects the whole tower; no partial
    ComputedTower is produced
*/
package tower

// LayerView is a layer with every derived figure populated (or
// explicitly nil).
type LayerView struct {
	Layer

	// Term is the resolved effective window for this layer.
	Term DateWindow

	// ShortTerm reports whether the resolved window is pro-rateable.
	ShortTerm bool

	// ProRata is the theoretical pro-rata premium, always derived for
	// comparison regardless of the stored basis.
	ProRata *Money

	// RatePerMillion is the full-term rate metric.
	RatePerMillion *Money

	// ILF is the increased-limit factor versus the nearest layer
	// beneath, as a whole percentage.
	ILF *int64

	// Ours flags the layer written by the designated carrier, so the
	// caller knows whose metrics to surface prominently. Display
	// selection only; no math depends on it.
	Ours bool
}

// Summary aggregates the tower for display.
type Summary struct {
	// TotalLimit is the tower's total capacity. Quota-share members
	// contribute their own limits here: the summary reports placed
	// capacity, not stack height.
	TotalLimit Money

	// TotalAnnualPremium and TotalActualPremium sum the layers whose
	// premiums are known. Nil when no layer is priced.
	TotalAnnualPremium *Money
	TotalActualPremium *Money

	// UnpricedLayers counts layers with no annual premium, so a
	// partially priced tower's totals are never mistaken for final.
	UnpricedLayers int

	// BlendedRatePerMillion is total annual premium over total
	// capacity in millions. Nil until every layer is priced.
	BlendedRatePerMillion *Money
}

// ComputedTower is the engine's complete read-path output.
type ComputedTower struct {
	Layers        []LayerView
	Groups        []DateGroup
	Summary       Summary
	Position      Position
	StructureTerm DateWindow
}

// Compute runs the whole pipeline over the tower. The input is
// untouched.
func Compute(t Tower) (ComputedTower, error) {
	if err := ValidateOrder(t.Layers); err != nil {
		return ComputedTower{}, err
	}

	normalized, err := Normalize(t.Layers)
	if err != nil {
		return ComputedTower{}, err
	}

	resolved, err := Recalculate(normalized)
	if err != nil {
		return ComputedTower{}, err
	}

	views := make([]LayerView, len(resolved))
	for i, l := range resolved {
		term := ResolveTerm(l, t.StructureTerm)
		l.ActualPremium = ActualPremium(l, term)
		views[i] = LayerView{
			Layer:          l,
			Term:           term,
			ShortTerm:      IsShortTerm(term),
			ProRata:        ProRataPremium(l, term),
			RatePerMillion: RatePerMillion(l),
			Ours:           t.OurCarrier != "" && l.Carrier == t.OurCarrier,
		}
	}
	// ILF needs every attachment resolved first.
	for i := range views {
		views[i].ILF = IncreasedLimitFactor(resolved, i)
	}

	return ComputedTower{
		Layers:        views,
		Groups:        GroupByEffectiveDate(resolved, t.DateConfig, t.StructureTerm.Start),
		Summary:       summarize(views),
		Position:      t.Position,
		StructureTerm: t.StructureTerm,
	}, nil
}

func summarize(views []LayerView) Summary {
	s := Summary{}
	annual := Money{}
	actual := Money{}
	haveAnnual := false
	haveActual := false

	for _, v := range views {
		s.TotalLimit = s.TotalLimit.Add(v.Limit)
		if v.AnnualPremium == nil {
			s.UnpricedLayers++
		} else {
			annual = annual.Add(*v.AnnualPremium)
			haveAnnual = true
		}
		if v.ActualPremium != nil {
			actual = actual.Add(*v.ActualPremium)
			haveActual = true
		}
	}

	if haveAnnual {
		s.TotalAnnualPremium = moneyPtr(annual)
	}
	if haveActual {
		s.TotalActualPremium = moneyPtr(actual)
	}
	if haveAnnual && s.UnpricedLayers == 0 && s.TotalLimit.IsPositive() {
		blended := Money{Value: annual.Value.Mul(million).Div(s.TotalLimit.Value)}
		s.BlendedRatePerMillion = &blended
	}
	return s
}
