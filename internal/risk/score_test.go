package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/risk"
)

// scoreFor runs the single-entity pass over one subset.
func scoreFor(events []domain.TelemetryEvent) risk.RiskScore {
	dist := risk.CountDistribution(events)
	factors := risk.ComputeFactors(events)
	return risk.ComputeScore(dist, factors, events)
}

func TestComputeScore_BaselineOperator(t *testing.T) {
	// 5 fatigue + 2 distraction, no high speed, 7 distinct days with no day
	// reaching 3 events: base 19, both factors 1, raw 19.
	var events []domain.TelemetryEvent
	for day := 1; day <= 5; day++ {
		events = append(events, fatigue(at(day, 9), "B", "V1", 40))
	}
	events = append(events,
		distraction(at(6, 9), "B", "V1", 50),
		distraction(at(7, 9), "B", "V1", 60),
	)

	score := scoreFor(events)

	assert.Equal(t, 19, score.Base)
	assert.Equal(t, 1.0, score.SpeedFactor)
	assert.Equal(t, 1.0, score.RecurrenceFactor)
	assert.Equal(t, 19.0, score.RawScore)
}

func TestComputeScore_SpeedFactor(t *testing.T) {
	t.Run("proportional below the cap", func(t *testing.T) {
		// 1 high-speed of 4 recognized → factor 1.25.
		events := []domain.TelemetryEvent{
			fatigue(at(1, 9), "A", "V1", 120),
			fatigue(at(2, 9), "A", "V1", 40),
			distraction(at(3, 9), "A", "V1", 40),
			distraction(at(4, 9), "A", "V1", 40),
		}

		score := scoreFor(events)

		assert.Equal(t, 1.25, score.SpeedFactor)
	})

	t.Run("capped at 1.5", func(t *testing.T) {
		events := []domain.TelemetryEvent{
			fatigue(at(1, 9), "A", "V1", 120),
			fatigue(at(2, 9), "A", "V1", 130),
		}

		score := scoreFor(events)

		assert.Equal(t, 1.5, score.SpeedFactor)
	})

	t.Run("guarded denominator on empty distribution", func(t *testing.T) {
		// Only auxiliary events: total 0, but one is high-speed.
		aux := auxiliary(at(1, 9), "A", "V1")
		aux.Speed = 150
		events := []domain.TelemetryEvent{aux}

		score := scoreFor(events)

		assert.Zero(t, score.Base)
		assert.Equal(t, 1.5, score.SpeedFactor)
		assert.Zero(t, score.RawScore)
	})
}

func TestComputeScore_RecurrenceFactor(t *testing.T) {
	t.Run("ratio of critical to distinct days", func(t *testing.T) {
		// 2 distinct days, 1 critical → 1 + 0.5, at the cap exactly.
		events := []domain.TelemetryEvent{
			fatigue(at(1, 8), "A", "V1", 0),
			fatigue(at(1, 9), "A", "V1", 0),
			fatigue(at(1, 10), "A", "V1", 0),
			fatigue(at(2, 8), "A", "V1", 0),
		}

		score := scoreFor(events)

		assert.Equal(t, 1.5, score.RecurrenceFactor)
	})

	t.Run("single critical day", func(t *testing.T) {
		// 1 distinct day, 1 critical → ratio 1.0, capped to 1.5.
		events := []domain.TelemetryEvent{
			fatigue(at(1, 8), "A", "V1", 0),
			fatigue(at(1, 9), "A", "V1", 0),
			fatigue(at(1, 10), "A", "V1", 0),
		}

		score := scoreFor(events)

		assert.Equal(t, 1.5, score.RecurrenceFactor)
	})

	t.Run("empty subset never divides by zero", func(t *testing.T) {
		score := scoreFor(nil)

		assert.Equal(t, 1.0, score.RecurrenceFactor)
		assert.Zero(t, score.RawScore)
	})
}

func TestNormalizeScores(t *testing.T) {
	t.Run("rescales against the percentile reference", func(t *testing.T) {
		scores := []*risk.RiskScore{
			{RawScore: 10},
			{RawScore: 20},
			{RawScore: 40},
		}

		risk.NormalizeScores(scores)

		// n=3 → index floor(3*0.95)=2 → reference 40.
		assert.Equal(t, 25.0, scores[0].NormalizedScore)
		assert.Equal(t, 50.0, scores[1].NormalizedScore)
		assert.Equal(t, 100.0, scores[2].NormalizedScore)
		assert.Equal(t, risk.LevelMedium, scores[0].Level)
		assert.Equal(t, risk.LevelMedium, scores[1].Level)
		assert.Equal(t, risk.LevelHigh, scores[2].Level)
	})

	t.Run("outlier does not own the ceiling in a large population", func(t *testing.T) {
		scores := make([]*risk.RiskScore, 0, 21)
		for i := 0; i < 20; i++ {
			scores = append(scores, &risk.RiskScore{RawScore: float64(i + 1)})
		}
		scores = append(scores, &risk.RiskScore{RawScore: 1000})

		risk.NormalizeScores(scores)

		// n=21 → index floor(21*0.95)=19 → reference is the 20th value (20),
		// not the outlier; everything above clamps to 100.
		assert.Equal(t, 100.0, scores[20].NormalizedScore)
		assert.Equal(t, 100.0, scores[19].NormalizedScore)
		assert.Equal(t, 50.0, scores[9].NormalizedScore)
	})

	t.Run("scores stay within 0..100", func(t *testing.T) {
		scores := []*risk.RiskScore{
			{RawScore: 0}, {RawScore: 3.7}, {RawScore: 19}, {RawScore: 250},
		}

		risk.NormalizeScores(scores)

		for _, s := range scores {
			assert.GreaterOrEqual(t, s.NormalizedScore, 0.0)
			assert.LessOrEqual(t, s.NormalizedScore, 100.0)
		}
	})

	t.Run("all-zero population defaults to zero LOW", func(t *testing.T) {
		scores := []*risk.RiskScore{{RawScore: 0}, {RawScore: 0}}

		risk.NormalizeScores(scores)

		for _, s := range scores {
			assert.Zero(t, s.NormalizedScore)
			assert.Equal(t, risk.LevelLow, s.Level)
		}
	})

	t.Run("empty population is a no-op", func(t *testing.T) {
		require.NotPanics(t, func() {
			risk.NormalizeScores(nil)
		})
	})

	t.Run("single entity normalizes to 100", func(t *testing.T) {
		scores := []*risk.RiskScore{{RawScore: 7}}

		risk.NormalizeScores(scores)

		assert.Equal(t, 100.0, scores[0].NormalizedScore)
		assert.Equal(t, risk.LevelHigh, scores[0].Level)
	})
}

func TestClassifyLevel(t *testing.T) {
	tests := []struct {
		score    float64
		expected risk.RiskLevel
	}{
		{0, risk.LevelLow},
		{20, risk.LevelLow},
		{20.1, risk.LevelMedium},
		{50, risk.LevelMedium},
		{50.1, risk.LevelHigh},
		{100, risk.LevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, risk.ClassifyLevel(tt.score), "score %v", tt.score)
	}
}

func TestClassifyLevel_Monotonic(t *testing.T) {
	rank := map[risk.RiskLevel]int{risk.LevelLow: 0, risk.LevelMedium: 1, risk.LevelHigh: 2}

	prev := risk.LevelLow
	for score := 0.0; score <= 100; score += 0.5 {
		level := risk.ClassifyLevel(score)
		assert.GreaterOrEqual(t, rank[level], rank[prev], "classification regressed at %v", score)
		prev = level
	}
}
