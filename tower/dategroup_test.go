package tower_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tower-engine/tower"
)

func TestGroupByEffectiveDate_NoConfig(t *testing.T) {
	// Without a date config, the whole tower is one segment at the
	// structure start.
	layers, err := tower.Recalculate([]tower.Layer{
		solo("A", 1_000_000, nil),
		solo("B", 4_000_000, nil),
	})
	require.NoError(t, err)

	groups := tower.GroupByEffectiveDate(layers, nil, date(2025, time.January, 1))
	require.Len(t, groups, 1)
	assert.True(t, groups[0].EffectiveStart.Equal(date(2025, time.January, 1)))
	assert.False(t, groups[0].Undetermined)
	assert.Equal(t, 0, groups[0].From)
	assert.Equal(t, 1, groups[0].To)
	assert.Equal(t, 2, groups[0].Layers())
}

func TestGroupByEffectiveDate_MidTermExcess(t *testing.T) {
	// GIVEN: 1M + 4M bound at inception, 10M bound mid-term
	layers, err := tower.Recalculate([]tower.Layer{
		solo("A", 1_000_000, nil),
		solo("B", 4_000_000, nil),
		solo("C", 10_000_000, nil),
	})
	require.NoError(t, err)

	config := tower.DateConfig{
		{Attachment: m(0), Start: date(2025, time.January, 1)},
		{Attachment: m(5_000_000), Start: date(2025, time.July, 2)},
	}

	groups := tower.GroupByEffectiveDate(layers, config, date(2025, time.January, 1))
	require.Len(t, groups, 2)

	assert.True(t, groups[0].EffectiveStart.Equal(date(2025, time.January, 1)))
	assert.Equal(t, 0, groups[0].From)
	assert.Equal(t, 1, groups[0].To)

	assert.True(t, groups[1].EffectiveStart.Equal(date(2025, time.July, 2)))
	assert.Equal(t, 2, groups[1].From)
	assert.Equal(t, 2, groups[1].To)
}

func TestGroupByEffectiveDate_UndeterminedSentinel(t *testing.T) {
	// Capacity above 5M has been structured but not bound yet.
	layers, err := tower.Recalculate([]tower.Layer{
		solo("A", 5_000_000, nil),
		solo("B", 10_000_000, nil),
	})
	require.NoError(t, err)

	config := tower.DateConfig{
		{Attachment: m(0), Start: date(2025, time.January, 1)},
		{Attachment: m(5_000_000)}, // zero Start = not yet bound
	}

	groups := tower.GroupByEffectiveDate(layers, config, date(2025, time.January, 1))
	require.Len(t, groups, 2)
	assert.False(t, groups[0].Undetermined)
	assert.True(t, groups[1].Undetermined, "unbound segment must be flagged")
	assert.True(t, groups[1].EffectiveStart.IsZero())
}

func TestGroupByEffectiveDate_FallbackForUncoveredLayers(t *testing.T) {
	// The config only starts at 5M; the layers beneath fall back to
	// the structure start.
	layers, err := tower.Recalculate([]tower.Layer{
		solo("A", 5_000_000, nil),
		solo("B", 10_000_000, nil),
	})
	require.NoError(t, err)

	config := tower.DateConfig{
		{Attachment: m(5_000_000), Start: date(2025, time.July, 2)},
	}

	groups := tower.GroupByEffectiveDate(layers, config, date(2025, time.January, 1))
	require.Len(t, groups, 2)
	assert.True(t, groups[0].EffectiveStart.Equal(date(2025, time.January, 1)))
	assert.True(t, groups[1].EffectiveStart.Equal(date(2025, time.July, 2)))
}

func TestGroupByEffectiveDate_ConfigOrderIrrelevant(t *testing.T) {
	// Bands declared highest-first resolve the same as ascending ones.
	layers, err := tower.Recalculate([]tower.Layer{
		solo("A", 1_000_000, nil),
		solo("B", 4_000_000, nil),
		solo("C", 10_000_000, nil),
	})
	require.NoError(t, err)

	config := tower.DateConfig{
		{Attachment: m(5_000_000), Start: date(2025, time.July, 2)},
		{Attachment: m(0), Start: date(2025, time.January, 1)},
	}

	groups := tower.GroupByEffectiveDate(layers, config, date(2025, time.January, 1))
	require.Len(t, groups, 2)
	assert.True(t, groups[0].EffectiveStart.Equal(date(2025, time.January, 1)))
	assert.Equal(t, 1, groups[0].To)
	assert.True(t, groups[1].EffectiveStart.Equal(date(2025, time.July, 2)))
	assert.Equal(t, 2, groups[1].From)
}

func TestGroupByEffectiveDate_Empty(t *testing.T) {
	assert.Nil(t, tower.GroupByEffectiveDate(nil, nil, date(2025, time.January, 1)))
}
