/*
metrics.go - Comparative pricing metrics

PURPOSE:
  Rate-per-million (RPM) and increased-limit factor (ILF), the two
  figures an underwriter reads across a tower to judge whether a
  layer is priced in line with the capacity beneath it.

RPM:
  annual premium / (limit in millions). Always computed from the
  ANNUAL reference premium, never the actual charged premium - RPM is
  a full-term rate comparison and must not be distorted by short-term
  proration.

ILF:
  this layer's RPM over the RPM of the nearest layer beneath it at a
  strictly lower attachment, as a rounded percentage. Quota-share
  co-participants at the same attachment as either endpoint are
  skipped; the lowest-attaching layer has no layer beneath it and no
  ILF.

Both are nil, never zero, when their preconditions are not met. Nil
means "unknown"; zero would mean "free capacity".
*/
package tower

import "github.com/shopspring/decimal"

var (
	million = decimal.NewFromInt(1_000_000)
	hundred = decimal.NewFromInt(100)
)

// RatePerMillion returns the layer's full-term rate per million of
// limit, or nil when the layer is unpriced or its limit invalid.
func RatePerMillion(l Layer) *Money {
	if l.AnnualPremium == nil || !l.Limit.IsPositive() {
		return nil
	}
	rpm := Money{Value: l.AnnualPremium.Value.Mul(million).Div(l.Limit.Value)}
	return &rpm
}

// IncreasedLimitFactor returns the layer's rate relative to the
// nearest layer below it with a strictly lower attachment, as a
// rounded whole percentage. Nil when the layer or the preceding layer
// is unpriced, when the preceding rate is zero, or when no layer
// attaches beneath this one.
func IncreasedLimitFactor(layers []Layer, index int) *int64 {
	if index < 0 || index >= len(layers) {
		return nil
	}
	current := RatePerMillion(layers[index])
	if current == nil {
		return nil
	}

	below := precedingLayer(layers, index)
	if below < 0 {
		return nil
	}
	base := RatePerMillion(layers[below])
	if base == nil || base.IsZero() {
		return nil
	}

	ilf := current.Value.Div(base.Value).Mul(hundred).Round(0).IntPart()
	return &ilf
}

// precedingLayer finds the nearest layer below index whose attachment
// is strictly lower. Scanning backwards skips quota-share siblings at
// the current attachment and lands past any co-participants of the
// base level. Returns -1 when nothing attaches beneath.
func precedingLayer(layers []Layer, index int) int {
	for j := index - 1; j >= 0; j-- {
		if layers[j].Attachment.LessThan(layers[index].Attachment) {
			return j
		}
	}
	return -1
}
