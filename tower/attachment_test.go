package tower_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tower-engine/tower"
)

// =============================================================================
// TEST HELPERS (shared across the package's test files)
// =============================================================================

func m(v int64) tower.Money {
	return tower.NewMoneyFromInt(v)
}

func mp(v int64) *tower.Money {
	money := tower.NewMoneyFromInt(v)
	return &money
}

func date(year int, month time.Month, day int) tower.Date {
	return tower.NewDate(year, month, day)
}

func datePtr(year int, month time.Month, day int) *tower.Date {
	d := tower.NewDate(year, month, day)
	return &d
}

func annualYear(year int) tower.DateWindow {
	return tower.DateWindow{
		Start: tower.NewDate(year, time.January, 1),
		End:   tower.NewDate(year+1, time.January, 1),
	}
}

func solo(carrier string, limit int64, annual *int64) tower.Layer {
	l := tower.Layer{Carrier: carrier, Limit: m(limit), Basis: tower.BasisAnnual}
	if annual != nil {
		l.AnnualPremium = mp(*annual)
	}
	return l
}

func i64(v int64) *int64 { return &v }

// =============================================================================
// ATTACHMENT RESOLUTION
// =============================================================================

func TestRecalculate_SequentialStack(t *testing.T) {
	// GIVEN: Three layers stacking 1M / 4M / 10M
	layers := []tower.Layer{
		solo("Alpha", 1_000_000, nil),
		solo("Beta", 4_000_000, nil),
		solo("Gamma", 10_000_000, nil),
	}

	// WHEN: Attachments are recalculated
	out, err := tower.Recalculate(layers)
	require.NoError(t, err)

	// THEN: Each layer attaches at the sum of the limits beneath
	assert.True(t, out[0].Attachment.Equal(m(0)))
	assert.True(t, out[1].Attachment.Equal(m(1_000_000)))
	assert.True(t, out[2].Attachment.Equal(m(5_000_000)))
}

func TestRecalculate_QuotaShareDoesNotStack(t *testing.T) {
	// GIVEN: A 1M primary, then two 5M quota-share co-participants
	// declaring a combined 5M block, then a 10M excess layer
	qs := mp(5_000_000)
	layers := []tower.Layer{
		solo("Primary", 1_000_000, nil),
		{Carrier: "QS-A", Limit: m(5_000_000), QuotaShareGroupCapacity: qs},
		{Carrier: "QS-B", Limit: m(5_000_000), QuotaShareGroupCapacity: qs},
		solo("Excess", 10_000_000, nil),
	}

	out, err := tower.Recalculate(layers)
	require.NoError(t, err)

	// THEN: Both co-participants share one attachment
	assert.True(t, out[1].Attachment.Equal(m(1_000_000)))
	assert.True(t, out[2].Attachment.Equal(m(1_000_000)))

	// AND: The group counts once against the excess layer:
	// 1M + 5M = 6M, not 1M + 5M + 5M = 11M
	assert.True(t, out[3].Attachment.Equal(m(6_000_000)),
		"group capacity must stack once, got %s", out[3].Attachment)
}

func TestRecalculate_Idempotent(t *testing.T) {
	qs := mp(3_000_000)
	layers := []tower.Layer{
		solo("Primary", 2_000_000, nil),
		{Carrier: "QS-A", Limit: m(1_500_000), QuotaShareGroupCapacity: qs},
		{Carrier: "QS-B", Limit: m(1_500_000), QuotaShareGroupCapacity: qs},
		solo("Excess", 5_000_000, nil),
	}

	once, err := tower.Recalculate(layers)
	require.NoError(t, err)
	twice, err := tower.Recalculate(once)
	require.NoError(t, err)

	for i := range once {
		assert.True(t, once[i].Attachment.Equal(twice[i].Attachment),
			"layer %d attachment changed on second pass", i)
	}
}

func TestRecalculate_InputUntouched(t *testing.T) {
	layers := []tower.Layer{
		solo("Primary", 1_000_000, nil),
		solo("Excess", 4_000_000, nil),
	}

	_, err := tower.Recalculate(layers)
	require.NoError(t, err)

	// The caller's slice keeps its zero attachment caches.
	assert.True(t, layers[1].Attachment.IsZero(), "input layer was mutated")
}

func TestRecalculate_NonPositiveLimit_Rejected(t *testing.T) {
	layers := []tower.Layer{
		solo("Primary", 1_000_000, nil),
		solo("Broken", 0, nil),
	}

	_, err := tower.Recalculate(layers)
	require.Error(t, err)
	assert.ErrorIs(t, err, tower.ErrNonPositiveLimit)

	var lerr *tower.LimitError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 1, lerr.Index)
	assert.Equal(t, "Broken", lerr.Carrier)
}

func TestAttachmentOf(t *testing.T) {
	layers := []tower.Layer{
		solo("Primary", 1_000_000, nil),
		solo("Excess", 4_000_000, nil),
	}

	att, err := tower.AttachmentOf(layers, 1)
	require.NoError(t, err)
	assert.True(t, att.Equal(m(1_000_000)))

	_, err = tower.AttachmentOf(layers, 5)
	assert.ErrorIs(t, err, tower.ErrLayerIndex)
}

func TestValidateOrder(t *testing.T) {
	// GIVEN: A persisted tower whose attachment cache is descending
	layers := []tower.Layer{
		{Carrier: "A", Limit: m(1_000_000), Attachment: m(5_000_000)},
		{Carrier: "B", Limit: m(1_000_000), Attachment: m(1_000_000)},
	}

	err := tower.ValidateOrder(layers)
	require.Error(t, err)
	assert.ErrorIs(t, err, tower.ErrAttachmentOrder)
	assert.True(t, tower.IsStructural(err))

	// Fresh caches (all zero) pass trivially.
	assert.NoError(t, tower.ValidateOrder([]tower.Layer{
		solo("A", 1_000_000, nil),
		solo("B", 1_000_000, nil),
	}))
}
