package classifier

import (
	"math"

	"github.com/ironsheep/digit-sketch-mcp/internal/detection"
)

// Rule is one step of the classification cascade.
type Rule struct {
	// Name identifies the rule in decisions and logs.
	Name string

	// Digit is the answer when Match reports true.
	Digit int

	// Match tests the features against the rule's archetype.
	Match func(f detection.FeatureSet) bool
}

// Rules is the ordered cascade. The first matching rule wins, so earlier
// rules shadow later ones; the order is part of the classifier's behaviour.
var Rules = []Rule{
	{
		Name:  "zero: two loops, medium density",
		Digit: 0,
		Match: func(f detection.FeatureSet) bool {
			return f.HasTopLoop && f.HasBottomLoop && f.Density > 0.15 && f.Density < 0.4
		},
	},
	{
		Name:  "one: sparse vertical stroke, lopsided",
		Digit: 1,
		Match: func(f detection.FeatureSet) bool {
			return f.HasVerticalLine && f.Density < 0.2 &&
				math.Abs(float64(f.LeftCount-f.RightCount)) > float64(f.TotalInkPixels)*0.3
		},
	},
	{
		Name:  "two: top loop over a bar",
		Digit: 2,
		Match: func(f detection.FeatureSet) bool {
			return f.HasTopLoop && f.HasHorizontalLine &&
				float64(f.TopCount) > float64(f.BottomCount)*0.7 && f.Density > 0.2
		},
	},
	{
		Name:  "three: curves opening left",
		Digit: 3,
		Match: func(f detection.FeatureSet) bool {
			return (f.HasTopLoop || f.HasBottomLoop) &&
				float64(f.RightCount) > float64(f.LeftCount)*1.2 && f.Density > 0.2
		},
	},
	{
		Name:  "four: crossing bars, top heavy",
		Digit: 4,
		Match: func(f detection.FeatureSet) bool {
			return f.HasVerticalLine && f.HasHorizontalLine &&
				f.TopCount > f.BottomCount && float64(f.LeftCount) > float64(f.RightCount)*0.8
		},
	},
	{
		Name:  "five: bar with heavy top",
		Digit: 5,
		Match: func(f detection.FeatureSet) bool {
			return f.HasHorizontalLine && float64(f.TopCount) > float64(f.BottomCount)*1.3 && f.Density > 0.2
		},
	},
	{
		Name:  "six: lower loop only",
		Digit: 6,
		Match: func(f detection.FeatureSet) bool {
			return f.HasBottomLoop && !f.HasTopLoop && float64(f.TopCount) > float64(f.BottomCount)*0.8
		},
	},
	{
		Name:  "seven: sparse bar, very top heavy",
		Digit: 7,
		Match: func(f detection.FeatureSet) bool {
			return f.HasHorizontalLine && float64(f.TopCount) > float64(f.BottomCount)*2 && f.Density < 0.3
		},
	},
	{
		Name:  "eight: two loops, dense, balanced",
		Digit: 8,
		Match: func(f detection.FeatureSet) bool {
			return f.HasTopLoop && f.HasBottomLoop && f.Density > 0.3 &&
				math.Abs(float64(f.TopCount-f.BottomCount)) < float64(f.TotalInkPixels)*0.3
		},
	},
	{
		Name:  "nine: upper loop only, top heavy",
		Digit: 9,
		Match: func(f detection.FeatureSet) bool {
			return f.HasTopLoop && !f.HasBottomLoop && float64(f.TopCount) > float64(f.BottomCount)*1.2
		},
	},
}

// DigitWeights is the prior used when nothing structural is recognised.
var DigitWeights = [10]float64{0.10, 0.15, 0.12, 0.10, 0.10, 0.08, 0.08, 0.10, 0.09, 0.08}

// Fallback step names reported in Decision.Rule.
const (
	FallbackSparse       = "fallback: sparse"
	FallbackDense        = "fallback: dense"
	FallbackTopHeavy     = "fallback: top heavy"
	FallbackVertical     = "fallback: vertical line"
	FallbackLoopCoinFlip = "fallback: loop coin flip"
	FallbackWeighted     = "fallback: weighted draw"
	FallbackDefault      = "fallback: default"
)
