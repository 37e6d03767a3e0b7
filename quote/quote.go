/*
Package quote converts towers between the engine's in-memory model and
the persisted document shape.

PURPOSE:
  The owning quote/structure record stores a tower as a JSON document.
  This package is the only place that shape is known: Parse turns a
  document into a tower.Tower (running the normalizer so legacy
  single-premium documents migrate on load), and Serialize turns
  resolved layers back into the persisted shape.

LEGACY MIRROR:
  Older readers expect a single "premium" field per layer. Serialize
  mirrors the actual premium into it on every write - a pure, lossless,
  one-way mirror. Once the dual annual/actual fields exist, the legacy
  field is never read back as authoritative; Parse only consults it
  when the dual fields are absent.

SEE ALSO:
  - tower/normalize.go: the migration rule Parse applies
  - store/sqlite: persists the documents this package produces
*/
package quote

import (
	"encoding/json"
	"fmt"

	"github.com/warp/tower-engine/tower"
)

// =============================================================================
// PERSISTED SHAPE
// =============================================================================

// PersistedLayer is one layer as stored on the quote document.
type PersistedLayer struct {
	Carrier                 string        `json:"carrier"`
	Limit                   tower.Money   `json:"limit"`
	Attachment              tower.Money   `json:"attachment"`
	Retention               *tower.Money  `json:"retention,omitempty"`
	QuotaShareGroupCapacity *tower.Money  `json:"quota_share_group_capacity,omitempty"`
	Premium                 *tower.Money  `json:"premium,omitempty"` // legacy single-premium mirror
	AnnualPremium           *tower.Money  `json:"annual_premium,omitempty"`
	ActualPremium           *tower.Money  `json:"actual_premium,omitempty"`
	PremiumBasis            string        `json:"premium_basis,omitempty"`
	MinimumPremium          *tower.Money  `json:"minimum_premium,omitempty"`
	FlatPremium             *tower.Money  `json:"flat_premium,omitempty"`
	TermStart               string        `json:"term_start,omitempty"`
	TermEnd                 string        `json:"term_end,omitempty"`
}

// PersistedDateBand is one attachment-threshold/date pair of the
// tower's date config.
type PersistedDateBand struct {
	Attachment tower.Money `json:"attachment"`
	Start      string      `json:"start,omitempty"` // empty = not yet bound
}

// PersistedTower is the full stored document for one program/quote
// option.
type PersistedTower struct {
	Position   string              `json:"position"`
	OurCarrier string              `json:"our_carrier,omitempty"`
	TermStart  string              `json:"term_start"`
	TermEnd    string              `json:"term_end"`
	DateConfig []PersistedDateBand `json:"date_config,omitempty"`
	Layers     []PersistedLayer    `json:"layers"`
}

// =============================================================================
// DOCUMENT -> TOWER
// =============================================================================

// Parse decodes a persisted tower document and normalizes its layers.
func Parse(data []byte) (*tower.Tower, error) {
	var doc PersistedTower
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tower document: %w", err)
	}
	return FromPersisted(doc)
}

// FromPersisted maps the persisted shape into the engine model,
// running the normalizer.
func FromPersisted(doc PersistedTower) (*tower.Tower, error) {
	layers := make([]tower.Layer, len(doc.Layers))
	for i, pl := range doc.Layers {
		layers[i] = tower.Layer{
			Carrier:                 pl.Carrier,
			Limit:                   pl.Limit,
			Attachment:              pl.Attachment,
			Retention:               pl.Retention,
			QuotaShareGroupCapacity: pl.QuotaShareGroupCapacity,
			AnnualPremium:           pl.AnnualPremium,
			ActualPremium:           pl.ActualPremium,
			Basis:                   tower.PremiumBasis(pl.PremiumBasis),
			MinimumPremium:          pl.MinimumPremium,
			FlatPremium:             pl.FlatPremium,
			TermStart:               datePtr(pl.TermStart),
			TermEnd:                 datePtr(pl.TermEnd),
			LegacyPremium:           pl.Premium,
		}
	}

	normalized, err := tower.Normalize(layers)
	if err != nil {
		return nil, err
	}

	config := make(tower.DateConfig, 0, len(doc.DateConfig))
	for _, band := range doc.DateConfig {
		config = append(config, tower.DateBand{
			Attachment: band.Attachment,
			Start:      tower.ParseDate(band.Start),
		})
	}
	if len(config) == 0 {
		config = nil
	}

	position := tower.Position(doc.Position)
	if position == "" {
		position = tower.PositionPrimary
	}

	return &tower.Tower{
		Layers: normalized,
		StructureTerm: tower.DateWindow{
			Start: tower.ParseDate(doc.TermStart),
			End:   tower.ParseDate(doc.TermEnd),
		},
		DateConfig: config,
		Position:   position,
		OurCarrier: doc.OurCarrier,
	}, nil
}

// =============================================================================
// TOWER -> DOCUMENT
// =============================================================================

// Serialize converts resolved layers back to the persisted shape,
// mirroring each layer's actual premium into the legacy field.
func Serialize(layers []tower.Layer) []PersistedLayer {
	out := make([]PersistedLayer, len(layers))
	for i, l := range layers {
		out[i] = PersistedLayer{
			Carrier:                 l.Carrier,
			Limit:                   l.Limit,
			Attachment:              l.Attachment,
			Retention:               l.Retention,
			QuotaShareGroupCapacity: l.QuotaShareGroupCapacity,
			Premium:                 l.ActualPremium, // legacy readers see the charged premium
			AnnualPremium:           l.AnnualPremium,
			ActualPremium:           l.ActualPremium,
			PremiumBasis:            string(l.Basis),
			MinimumPremium:          l.MinimumPremium,
			FlatPremium:             l.FlatPremium,
			TermStart:               dateStr(l.TermStart),
			TermEnd:                 dateStr(l.TermEnd),
		}
	}
	return out
}

// ToPersisted serializes a whole tower. Attachments are resolved and
// each layer's actual premium is re-derived from its basis first:
// writes always flow through the resolvers before hitting storage, so
// a stored document and its computed view never disagree.
func ToPersisted(t tower.Tower) (PersistedTower, error) {
	resolved, err := tower.Recalculate(t.Layers)
	if err != nil {
		return PersistedTower{}, err
	}
	for i, l := range resolved {
		resolved[i].ActualPremium = tower.ActualPremium(l, tower.ResolveTerm(l, t.StructureTerm))
	}

	bands := make([]PersistedDateBand, 0, len(t.DateConfig))
	for _, band := range t.DateConfig {
		bands = append(bands, PersistedDateBand{
			Attachment: band.Attachment,
			Start:      band.Start.String(),
		})
	}
	if len(bands) == 0 {
		bands = nil
	}

	return PersistedTower{
		Position:   string(t.Position),
		OurCarrier: t.OurCarrier,
		TermStart:  t.StructureTerm.Start.String(),
		TermEnd:    t.StructureTerm.End.String(),
		DateConfig: bands,
		Layers:     Serialize(resolved),
	}, nil
}

// Marshal serializes a tower to its stored JSON document.
func Marshal(t tower.Tower) ([]byte, error) {
	doc, err := ToPersisted(t)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

func datePtr(s string) *tower.Date {
	if s == "" {
		return nil
	}
	d := tower.ParseDate(s)
	if d.IsZero() {
		return nil
	}
	return &d
}

func dateStr(d *tower.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
