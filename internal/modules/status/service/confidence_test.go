package service

import (
	"testing"

	"status_engine/internal/models"

	"github.com/stretchr/testify/assert"
)

func strongInput() ConfidenceInput {
	return ConfidenceInput{
		HasSnapshot:   true,
		TradeCount:    150,
		WindowDays:    90,
		IntervalLower: 0.50,
		IntervalUpper: 0.52,
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier(0.20, 0.05)

	tests := []struct {
		name   string
		mutate func(*ConfidenceInput)
		want   models.StatusConfidence
	}{
		{"all strong", func(in *ConfidenceInput) {}, models.ConfidenceHigh},
		{"tiny sample", func(in *ConfidenceInput) { in.TradeCount = 5 }, models.ConfidenceLow},
		{"medium sample caps tier", func(in *ConfidenceInput) { in.TradeCount = 50 }, models.ConfidenceMedium},
		{"sample boundary 19", func(in *ConfidenceInput) { in.TradeCount = 19 }, models.ConfidenceLow},
		{"sample boundary 20", func(in *ConfidenceInput) { in.TradeCount = 20 }, models.ConfidenceMedium},
		{"sample boundary 100", func(in *ConfidenceInput) { in.TradeCount = 100 }, models.ConfidenceHigh},
		{"short window", func(in *ConfidenceInput) { in.WindowDays = 7 }, models.ConfidenceLow},
		{"window boundary 14", func(in *ConfidenceInput) { in.WindowDays = 14 }, models.ConfidenceMedium},
		{"window boundary 60", func(in *ConfidenceInput) { in.WindowDays = 60 }, models.ConfidenceHigh},
		{"wide interval", func(in *ConfidenceInput) { in.IntervalUpper = in.IntervalLower + 0.30 }, models.ConfidenceLow},
		{"middling interval", func(in *ConfidenceInput) { in.IntervalUpper = in.IntervalLower + 0.10 }, models.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strongInput()
			tt.mutate(&in)
			assert.Equal(t, tt.want, c.Classify(in))
		})
	}
}

func TestClassifyMissingSnapshotIsLow(t *testing.T) {
	c := NewClassifier(0.20, 0.05)
	assert.Equal(t, models.ConfidenceLow, c.Classify(ConfidenceInput{HasSnapshot: false}))
}

// Increasing the trade count while holding everything else fixed must
// never lower the resulting tier.
func TestClassifyMonotoneInTradeCount(t *testing.T) {
	c := NewClassifier(0.20, 0.05)

	rank := map[models.StatusConfidence]int{
		models.ConfidenceLow:    0,
		models.ConfidenceMedium: 1,
		models.ConfidenceHigh:   2,
	}

	in := strongInput()
	prev := -1
	for trades := 0; trades <= 200; trades += 5 {
		in.TradeCount = trades
		got := rank[c.Classify(in)]
		assert.GreaterOrEqual(t, got, prev, "tradeCount=%d", trades)
		prev = got
	}
}

func TestClassifyCombinedIsMinimum(t *testing.T) {
	c := NewClassifier(0.20, 0.05)

	// HIGH sample, HIGH window, LOW width => LOW
	in := strongInput()
	in.IntervalUpper = in.IntervalLower + 0.5
	assert.Equal(t, models.ConfidenceLow, c.Classify(in))

	// HIGH sample, MEDIUM window, HIGH width => MEDIUM
	in = strongInput()
	in.WindowDays = 30
	assert.Equal(t, models.ConfidenceMedium, c.Classify(in))
}
