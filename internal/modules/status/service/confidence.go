package service

import "status_engine/internal/models"

// ConfidenceInput — sample statistics from the latest health snapshot.
type ConfidenceInput struct {
	HasSnapshot   bool
	TradeCount    int
	WindowDays    int
	IntervalLower float64
	IntervalUpper float64
}

// Classifier maps sample statistics to a confidence tier. The combined
// tier is the minimum of the contributing tiers: confidence never
// exceeds the weakest signal.
type Classifier struct {
	intervalWide   float64 // width above this => LOW
	intervalNarrow float64 // width below this => HIGH
}

func NewClassifier(intervalWide, intervalNarrow float64) *Classifier {
	return &Classifier{
		intervalWide:   intervalWide,
		intervalNarrow: intervalNarrow,
	}
}

const (
	tierLow = iota
	tierMedium
	tierHigh
)

func (c *Classifier) Classify(in ConfidenceInput) models.StatusConfidence {
	if !in.HasSnapshot {
		return models.ConfidenceLow
	}

	tier := sampleTier(in.TradeCount)
	if t := windowTier(in.WindowDays); t < tier {
		tier = t
	}
	if t := c.widthTier(in.IntervalUpper - in.IntervalLower); t < tier {
		tier = t
	}

	switch tier {
	case tierHigh:
		return models.ConfidenceHigh
	case tierMedium:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func sampleTier(trades int) int {
	switch {
	case trades < 20:
		return tierLow
	case trades < 100:
		return tierMedium
	default:
		return tierHigh
	}
}

func windowTier(days int) int {
	switch {
	case days < 14:
		return tierLow
	case days < 60:
		return tierMedium
	default:
		return tierHigh
	}
}

func (c *Classifier) widthTier(width float64) int {
	switch {
	case width > c.intervalWide:
		return tierLow
	case width < c.intervalNarrow:
		return tierHigh
	default:
		return tierMedium
	}
}
