package quote_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tower-engine/quote"
	"github.com/warp/tower-engine/tower"
)

func money(v int64) tower.Money {
	return tower.NewMoneyFromInt(v)
}

func moneyPtr(v int64) *tower.Money {
	m := tower.NewMoneyFromInt(v)
	return &m
}

// =============================================================================
// PARSE
// =============================================================================

func TestParse_LegacyDocument(t *testing.T) {
	// GIVEN: A document in the old single-premium shape
	doc := []byte(`{
		"position": "primary",
		"term_start": "2025-01-01",
		"term_end": "2025-12-31",
		"layers": [
			{"carrier": "Anchor Specialty", "limit": 1000000, "premium": 50000}
		]
	}`)

	// WHEN: Parsed
	tw, err := quote.Parse(doc)
	require.NoError(t, err)

	// THEN: The normalizer migrated the layer to the dual model
	require.Len(t, tw.Layers, 1)
	l := tw.Layers[0]
	require.NotNil(t, l.AnnualPremium)
	require.NotNil(t, l.ActualPremium)
	assert.True(t, l.AnnualPremium.Equal(money(50_000)))
	assert.True(t, l.ActualPremium.Equal(money(50_000)))
	assert.Equal(t, tower.BasisAnnual, l.Basis)

	assert.Equal(t, tower.PositionPrimary, tw.Position)
	assert.Equal(t, "2025-01-01", tw.StructureTerm.Start.String())
	assert.Equal(t, "2025-12-31", tw.StructureTerm.End.String())
}

func TestParse_RejectsMissingLimit(t *testing.T) {
	doc := []byte(`{"position": "primary", "term_start": "2025-01-01", "term_end": "2025-12-31",
		"layers": [{"carrier": "NoLimit"}]}`)

	_, err := quote.Parse(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, tower.ErrNonPositiveLimit)
}

func TestParse_DateConfig(t *testing.T) {
	doc := []byte(`{
		"position": "excess",
		"term_start": "2025-01-01",
		"term_end": "2025-12-31",
		"date_config": [
			{"attachment": 0, "start": "2025-01-01"},
			{"attachment": 5000000}
		],
		"layers": [{"carrier": "A", "limit": 5000000}]
	}`)

	tw, err := quote.Parse(doc)
	require.NoError(t, err)
	require.Len(t, tw.DateConfig, 2)
	assert.True(t, tw.DateConfig[0].Attachment.Equal(money(0)))
	assert.False(t, tw.DateConfig[0].Start.IsZero())
	assert.True(t, tw.DateConfig[1].Start.IsZero(), "empty start is the unbound sentinel")
	assert.Equal(t, tower.PositionExcess, tw.Position)
}

// =============================================================================
// SERIALIZE
// =============================================================================

func TestSerialize_MirrorsLegacyPremium(t *testing.T) {
	// GIVEN: Layers with distinct annual and actual premiums
	layers := []tower.Layer{
		{
			Carrier:       "Summit Excess",
			Limit:         money(10_000_000),
			AnnualPremium: moneyPtr(120_000),
			ActualPremium: moneyPtr(59_836),
			Basis:         tower.BasisProRata,
		},
		{
			Carrier: "Unbound Markets",
			Limit:   money(15_000_000),
			Basis:   tower.BasisAnnual,
		},
	}

	// WHEN: Serialized
	persisted := quote.Serialize(layers)

	// THEN: The legacy field mirrors the actual premium
	require.NotNil(t, persisted[0].Premium)
	assert.True(t, persisted[0].Premium.Equal(money(59_836)))
	assert.True(t, persisted[0].AnnualPremium.Equal(money(120_000)))

	// Nil stays nil: an unpriced layer writes no legacy premium.
	assert.Nil(t, persisted[1].Premium)
	assert.Nil(t, persisted[1].ActualPremium)
}

func TestMarshal_RoundTrip(t *testing.T) {
	// GIVEN: A tower built in memory
	original := tower.Tower{
		Layers: []tower.Layer{
			{Carrier: "Anchor", Limit: money(1_000_000), AnnualPremium: moneyPtr(50_000), Basis: tower.BasisAnnual},
			{Carrier: "Summit", Limit: money(4_000_000), AnnualPremium: moneyPtr(40_000), Basis: tower.BasisAnnual},
		},
		StructureTerm: tower.DateWindow{
			Start: tower.ParseDate("2025-01-01"),
			End:   tower.ParseDate("2025-12-31"),
		},
		Position:   tower.PositionPrimary,
		OurCarrier: "Summit",
	}

	// WHEN: Marshaled and parsed back
	data, err := quote.Marshal(original)
	require.NoError(t, err)

	parsed, err := quote.Parse(data)
	require.NoError(t, err)

	// THEN: The round trip preserves the layers, with attachments
	// resolved on the way out
	require.Len(t, parsed.Layers, 2)
	assert.Equal(t, "Summit", parsed.OurCarrier)
	assert.True(t, parsed.Layers[1].Attachment.Equal(money(1_000_000)))
	assert.True(t, parsed.Layers[0].AnnualPremium.Equal(money(50_000)))
	assert.Equal(t, tower.PositionPrimary, parsed.Position)
}

func TestToPersisted_DerivesActualPremiumBeforeWrite(t *testing.T) {
	// GIVEN: A pro-rata layer whose actual premium was never computed -
	// the stored document must still carry the derivable value, so
	// readers of the document and readers of the computed view agree
	start := tower.ParseDate("2025-07-02")
	original := tower.Tower{
		Layers: []tower.Layer{
			{
				Carrier:       "Summit Excess",
				Limit:         money(10_000_000),
				AnnualPremium: moneyPtr(120_000),
				Basis:         tower.BasisProRata,
				TermStart:     &start,
			},
		},
		StructureTerm: tower.DateWindow{
			Start: tower.ParseDate("2025-01-01"),
			End:   tower.ParseDate("2025-12-31"),
		},
		Position: tower.PositionExcess,
	}

	// WHEN: Persisted
	doc, err := quote.ToPersisted(original)
	require.NoError(t, err)

	// THEN: The actual premium is pro-rated over the 182 remaining
	// days and mirrored into the legacy field
	require.NotNil(t, doc.Layers[0].ActualPremium)
	assert.True(t, doc.Layers[0].ActualPremium.Equal(money(59_836)))
	require.NotNil(t, doc.Layers[0].Premium)
	assert.True(t, doc.Layers[0].Premium.Equal(money(59_836)))

	// AND: It matches what the full pipeline reports for the same tower
	computed, err := tower.Compute(original)
	require.NoError(t, err)
	require.NotNil(t, computed.Layers[0].ActualPremium)
	assert.True(t, computed.Layers[0].ActualPremium.Equal(*doc.Layers[0].ActualPremium))
}

func TestMarshal_ResolvesAttachmentsBeforeWrite(t *testing.T) {
	// Writes flow through the attachment resolver: stale caches never
	// reach storage.
	original := tower.Tower{
		Layers: []tower.Layer{
			{Carrier: "A", Limit: money(2_000_000), Basis: tower.BasisAnnual},
			{Carrier: "B", Limit: money(3_000_000), Basis: tower.BasisAnnual},
		},
		StructureTerm: tower.DateWindow{
			Start: tower.ParseDate("2025-01-01"),
			End:   tower.ParseDate("2025-12-31"),
		},
		Position: tower.PositionPrimary,
	}

	data, err := quote.Marshal(original)
	require.NoError(t, err)

	var doc quote.PersistedTower
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.True(t, doc.Layers[1].Attachment.Equal(money(2_000_000)))
}
