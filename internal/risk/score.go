package risk

import (
	"math"
	"sort"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// Severity weights for the two recognized event kinds.
const (
	fatigueWeight     = 3
	distractionWeight = 2
)

// factorCap bounds both multipliers: a factor can at most add 50% to the base.
const factorCap = 0.5

// percentileRank selects the population reference for normalization. Using the
// 95th percentile of the same population instead of the maximum means one
// extreme outlier does not compress every other entity's score toward zero.
const percentileRank = 0.95

// RiskLevel is the normalized-score tier.
type RiskLevel string

const (
	LevelLow    RiskLevel = "LOW"
	LevelMedium RiskLevel = "MEDIUM"
	LevelHigh   RiskLevel = "HIGH"
)

// RiskScore carries one entity's weighted severity score through both passes:
// ComputeScore fills the raw fields, NormalizeScores fills NormalizedScore and
// Level once the whole population's raw scores are known.
type RiskScore struct {
	Base             int       `json:"base"`
	SpeedFactor      float64   `json:"speed_factor"`
	RecurrenceFactor float64   `json:"recurrence_factor"`
	RawScore         float64   `json:"raw_score"`
	NormalizedScore  float64   `json:"normalized_score"`
	Level            RiskLevel `json:"level"`
}

// ComputeScore combines a distribution and its factors into a raw score.
// subsetEvents must be the same subset the distribution and factors were
// derived from: the distinct-day denominator comes from it directly so one
// entity's activity window never leaks into another's recurrence ratio.
func ComputeScore(dist EventDistribution, factors RiskFactors, subsetEvents []domain.TelemetryEvent) RiskScore {
	base := dist.FatigueCount*fatigueWeight + dist.DistractionCount*distractionWeight

	speedDen := dist.Total
	if speedDen < 1 {
		speedDen = 1
	}
	speedFactor := 1 + math.Min(factorCap, float64(factors.HighSpeedCount)/float64(speedDen))

	distinctDays := distinctDayCount(subsetEvents)
	if distinctDays < 1 {
		distinctDays = 1
	}
	recurrenceFactor := 1 + math.Min(factorCap, float64(factors.RecurrenceDays)/float64(distinctDays))

	return RiskScore{
		Base:             base,
		SpeedFactor:      speedFactor,
		RecurrenceFactor: recurrenceFactor,
		RawScore:         float64(base) * speedFactor * recurrenceFactor,
		Level:            LevelLow,
	}
}

// NormalizeScores runs the population pass over every entity's raw score.
// It must be called exactly once per population, after ComputeScore has run
// for all members: the reference is the raw score at the floor(n*0.95) index
// of the ascending order (clamped to the last element). A non-positive
// reference zeroes every normalized score instead of dividing; otherwise each
// score is rescaled to min(100, raw/reference*100) at one decimal. Never
// normalize incrementally — a partial population shifts the reference.
func NormalizeScores(scores []*RiskScore) {
	if len(scores) == 0 {
		return
	}

	raws := make([]float64, len(scores))
	for i, s := range scores {
		raws[i] = s.RawScore
	}
	sort.Float64s(raws)

	idx := int(float64(len(raws)) * percentileRank)
	if idx >= len(raws) {
		idx = len(raws) - 1
	}
	reference := raws[idx]

	for _, s := range scores {
		if reference <= 0 {
			s.NormalizedScore = 0
		} else {
			s.NormalizedScore = math.Round(math.Min(100, s.RawScore/reference*100)*10) / 10
		}
		s.Level = ClassifyLevel(s.NormalizedScore)
	}
}

// ClassifyLevel maps a normalized score to its tier. Bands are checked in
// order with inclusive upper bounds: ≤20 LOW, ≤50 MEDIUM, else HIGH.
func ClassifyLevel(score float64) RiskLevel {
	switch {
	case score <= 20:
		return LevelLow
	case score <= 50:
		return LevelMedium
	default:
		return LevelHigh
	}
}
