/*
Package tower implements the premium-allocation engine for insurance
program towers.

PURPOSE:
  A tower is an ordered stack of coverage layers placed by a group of
  carriers over a single risk. Given the layers as entered (limits,
  premiums, term overrides, quota-share markers), this package derives
  everything the surrounding quoting platform displays and persists:
  each layer's attachment point, the premium actually owed for the
  layer's real term window, and the comparative rate metrics
  (rate-per-million, increased-limit factor).

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - Date/DateWindow: Day-granular dates and term windows
  - Layer: One carrier's participation at a limit and attachment
  - PremiumBasis: How actual premium relates to the annual reference
  - Tower: The full stack plus its structure-level term

DESIGN PRINCIPLES:
  1. Purity: every function takes values and returns values; the engine
     owns no state between calls and never mutates its input
  2. Precision: all money math on decimal.Decimal, never float64
  3. Null is not zero: an unpriced layer propagates nil through every
     dependent figure rather than collapsing to 0
  4. Attachment is derived: the cached Attachment field is always the
     output of Recalculate, never hand-entered

SEE ALSO:
  - attachment.go: attachment resolution and quota-share stacking
  - premium.go: actual-premium allocation per basis
  - metrics.go: rate-per-million and increased-limit factor
  - compute.go: the full read-path pipeline
*/
package tower

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount on decimal.Decimal
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func (m Money) Add(other Money) Money      { return Money{Value: m.Value.Add(other.Value)} }
func (m Money) Sub(other Money) Money      { return Money{Value: m.Value.Sub(other.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) Round(places int32) Money   { return Money{Value: m.Value.Round(places)} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) Equal(other Money) bool     { return m.Value.Equal(other.Value) }
func (m Money) GreaterThan(other Money) bool { return m.Value.GreaterThan(other.Value) }
func (m Money) LessThan(other Money) bool  { return m.Value.LessThan(other.Value) }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }
func (m Money) String() string             { return m.Value.String() }

func (m Money) MarshalJSON() ([]byte, error)  { return m.Value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }

// moneyPtr returns a pointer to a fresh copy, so edited layers never
// alias premium values with the layer they were derived from.
func moneyPtr(m Money) *Money { return &m }

func cloneMoney(m *Money) *Money {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// =============================================================================
// DATE - Day-granular calendar date
// =============================================================================

// Date is a calendar day in UTC. The engine never needs finer
// granularity: policy terms incept and expire on whole days.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date (2006-01-02). The zero Date is returned
// for an empty or malformed string; callers treat it as "undetermined".
func ParseDate(s string) Date {
	if s == "" {
		return Date{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}
	}
	return Date{Time: t.UTC()}
}

func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

func (d Date) AddDays(n int) Date  { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddYears(n int) Date { return Date{Time: d.Time.AddDate(n, 0, 0)} }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// DateWindow is an inception/expiration pair.
type DateWindow struct {
	Start Date
	End   Date
}

// IsDetermined reports whether both endpoints carry real dates.
func (w DateWindow) IsDetermined() bool { return !w.Start.IsZero() && !w.End.IsZero() }

// Days returns the calendar-day span of the window.
func (w DateWindow) Days() int { return DaysBetween(w.Start, w.End) }

func (w DateWindow) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// PREMIUM BASIS - Relationship between annual and actual premium
// =============================================================================

// PremiumBasis governs how ActualPremium is derived from AnnualPremium
// for the layer's resolved term window. Only the fields a basis names
// are meaningful under it: MinimumPremium under BasisMinimum,
// FlatPremium under BasisFlat.
type PremiumBasis string

const (
	// BasisAnnual charges the full annual reference premium with no
	// proration, regardless of term length.
	BasisAnnual PremiumBasis = "annual"

	// BasisProRata charges the annual premium scaled by the day-count
	// fraction of a 365-day year. The default once a term is short.
	BasisProRata PremiumBasis = "pro_rata"

	// BasisMinimum charges the greater of the pro-rata premium and a
	// contractually guaranteed minimum earned premium.
	BasisMinimum PremiumBasis = "minimum"

	// BasisFlat charges a negotiated fixed amount unrelated to either
	// the annual premium or the term length.
	BasisFlat PremiumBasis = "flat"
)

// Valid reports whether b is one of the defined bases.
func (b PremiumBasis) Valid() bool {
	switch b {
	case BasisAnnual, BasisProRata, BasisMinimum, BasisFlat:
		return true
	}
	return false
}

// =============================================================================
// LAYER - One carrier's participation in the program
// =============================================================================

type Layer struct {
	// Carrier is the display name of the participating market.
	Carrier string

	// Limit is the monetary capacity of the layer. Must be positive for
	// any of the engine's math to be defined.
	Limit Money

	// Attachment is the point at which this layer's capacity begins to
	// respond. Derived: always the output of Recalculate, persisted only
	// as a cache, never hand-edited.
	Attachment Money

	// Retention is the deductible beneath the first layer of a
	// primary-position tower. Ignored for excess layers.
	Retention *Money

	// QuotaShareGroupCapacity marks this layer as a co-participant in a
	// combined capacity block. Every member of one group declares the
	// same combined capacity and sits at the same attachment; the group
	// stacks against the rest of the tower once, by this capacity, not
	// by the sum of member limits.
	QuotaShareGroupCapacity *Money

	// AnnualPremium is the full-term (12-month) reference premium at
	// this limit. Nil while the layer is unpriced.
	AnnualPremium *Money

	// ActualPremium is the premium owed for the layer's real term
	// window. Derived by the allocator under Basis; nil when
	// indeterminate.
	ActualPremium *Money

	// Basis selects how ActualPremium relates to AnnualPremium.
	Basis PremiumBasis

	// MinimumPremium is the floor applied under BasisMinimum.
	MinimumPremium *Money

	// FlatPremium is the fixed charge applied under BasisFlat.
	FlatPremium *Money

	// TermStart/TermEnd override the structure term for this layer.
	// Nil inherits. A start-only override is the common case: a
	// mid-term excess placement joining an in-force program.
	TermStart *Date
	TermEnd   *Date

	// LegacyPremium carries the single premium field of the pre-dual
	// storage shape. Read once by Normalize to seed the annual/actual
	// pair; mirrored from ActualPremium on serialization so old readers
	// keep working. Never authoritative once the dual fields exist.
	LegacyPremium *Money
}

// clone deep-copies the layer so callers can edit the copy without the
// original observing it through shared pointers.
func (l Layer) clone() Layer {
	l.Retention = cloneMoney(l.Retention)
	l.QuotaShareGroupCapacity = cloneMoney(l.QuotaShareGroupCapacity)
	l.AnnualPremium = cloneMoney(l.AnnualPremium)
	l.ActualPremium = cloneMoney(l.ActualPremium)
	l.MinimumPremium = cloneMoney(l.MinimumPremium)
	l.FlatPremium = cloneMoney(l.FlatPremium)
	l.TermStart = cloneDate(l.TermStart)
	l.TermEnd = cloneDate(l.TermEnd)
	l.LegacyPremium = cloneMoney(l.LegacyPremium)
	return l
}

func cloneLayers(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = l.clone()
	}
	return out
}

// InQuotaShareGroup reports whether the layer declares quota-share
// co-participation.
func (l Layer) InQuotaShareGroup() bool { return l.QuotaShareGroupCapacity != nil }

// SameQuotaShareGroup reports whether two layers declare the same
// combined capacity block. Equal declared capacity is the membership
// signal; equal attachment is a consequence of it.
func (l Layer) SameQuotaShareGroup(other Layer) bool {
	return l.QuotaShareGroupCapacity != nil &&
		other.QuotaShareGroupCapacity != nil &&
		l.QuotaShareGroupCapacity.Equal(*other.QuotaShareGroupCapacity)
}

// =============================================================================
// TOWER - Ordered layer stack for one program/quote option
// =============================================================================

type Position string

const (
	PositionPrimary Position = "primary"
	PositionExcess  Position = "excess"
)

type Tower struct {
	// Layers in ascending attachment order. Ordering is the caller's
	// responsibility; the engine validates and refuses, it never sorts.
	Layers []Layer

	// StructureTerm is the term window inherited by every layer that
	// does not override it. Supplied by the owning quote/structure.
	StructureTerm DateWindow

	// DateConfig resolves per-attachment effective start dates for
	// towers assembled from capacity bound at different times. Nil when
	// every layer shares StructureTerm.Start.
	DateConfig DateConfig

	// Position determines whether the first layer's Retention is
	// meaningful. It does not participate in attachment math.
	Position Position

	// OurCarrier designates which carrier is "ours"; used only to flag
	// which layer's metrics are surfaced prominently.
	OurCarrier string
}

// Clone returns a deep copy of the tower.
func (t Tower) Clone() Tower {
	t.Layers = cloneLayers(t.Layers)
	t.DateConfig = t.DateConfig.clone()
	return t
}
