package classifier

import (
	"math/rand/v2"
	"sync"

	"github.com/ironsheep/digit-sketch-mcp/internal/detection"
)

// RandomSource supplies uniform draws in [0,1) for the fallback steps.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// Decision is the outcome of running the cascade.
type Decision struct {
	Digit int `json:"digit"`

	// Rule is the name of the cascade rule or fallback step that produced Digit.
	Rule string `json:"rule"`

	// Fallback is true when no cascade rule matched.
	Fallback bool `json:"fallback"`

	// Random is true when Digit came from a random draw.
	Random bool `json:"random"`
}

// Classifier maps a FeatureSet to a digit.
//
// The cascade is deterministic. Only the last two fallback steps draw from
// the random source, so two calls with equal features agree whenever a rule
// or one of the first four fallback steps applies.
type Classifier struct {
	mu  sync.Mutex
	rnd RandomSource
}

// New creates a Classifier drawing fallback randomness from rnd.
// A nil rnd uses an unseeded math/rand/v2 generator.
func New(rnd RandomSource) *Classifier {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Classifier{rnd: rnd}
}

// Classify returns the digit for f, always in [0,9].
func (c *Classifier) Classify(f detection.FeatureSet) int {
	return c.Decide(f).Digit
}

// Decide runs the cascade and reports which step answered.
func (c *Classifier) Decide(f detection.FeatureSet) Decision {
	for _, r := range Rules {
		if r.Match(f) {
			return Decision{Digit: r.Digit, Rule: r.Name}
		}
	}
	return c.fallback(f)
}

func (c *Classifier) fallback(f detection.FeatureSet) Decision {
	switch {
	case f.Density < 0.15:
		return Decision{Digit: 1, Rule: FallbackSparse, Fallback: true}
	case f.Density > 0.4:
		return Decision{Digit: 8, Rule: FallbackDense, Fallback: true}
	case float64(f.TopCount) > float64(f.BottomCount)*1.5:
		return Decision{Digit: 7, Rule: FallbackTopHeavy, Fallback: true}
	case f.HasVerticalLine:
		return Decision{Digit: 1, Rule: FallbackVertical, Fallback: true}
	case f.HasTopLoop:
		digit := 9
		if c.draw() < 0.5 {
			digit = 6
		}
		return Decision{Digit: digit, Rule: FallbackLoopCoinFlip, Fallback: true, Random: true}
	}

	u := c.draw()
	sum := 0.0
	for digit, w := range DigitWeights {
		sum += w
		if u < sum {
			return Decision{Digit: digit, Rule: FallbackWeighted, Fallback: true, Random: true}
		}
	}
	return Decision{Digit: 5, Rule: FallbackDefault, Fallback: true, Random: true}
}

// draw serializes access to the random source; math/rand generators are not
// safe for concurrent use.
func (c *Classifier) draw() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.Float64()
}
