package prediction

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/ironsheep/digit-sketch-mcp/internal/classifier"
	"github.com/ironsheep/digit-sketch-mcp/internal/detection"
	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
	"github.com/ironsheep/digit-sketch-mcp/internal/learning"
)

// Confidence synthesis bounds.
const (
	MinConfidence = 0.5
	MaxConfidence = 0.95

	baseConfidence   = 0.65
	confidenceSpread = 0.25
	learnedBoost     = 0.15
)

// Outcome sources.
const (
	SourceLearned   = "learned"
	SourceHeuristic = "heuristic"

	ruleLearnedMatch = "learned example match"
)

// Outcome is the answer to one prediction request.
type Outcome struct {
	Digit      int     `json:"digit"`
	Confidence float64 `json:"confidence"`

	// Source is SourceLearned when a stored correction answered, otherwise
	// SourceHeuristic.
	Source string `json:"source"`

	// Rule names the cascade rule or fallback step, or the learned match.
	Rule string `json:"rule"`
}

// Analysis is the full feature view of a drawing, without consulting the
// learned examples.
type Analysis struct {
	Grid     imaging.Grid         `json:"-"`
	Features detection.FeatureSet `json:"features"`
	Decision classifier.Decision  `json:"decision"`
}

// Service runs drawings through preprocessing, learned-example lookup and
// the heuristic classifier.
//
// A Service is built once at startup and shared; its store is the only
// mutable state and is safe for concurrent use.
type Service struct {
	store      *learning.Store
	classifier *classifier.Classifier
	logger     *slog.Logger

	mu  sync.Mutex
	rnd classifier.RandomSource
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRandom sets the source for confidence draws.
func WithRandom(rnd classifier.RandomSource) Option {
	return func(s *Service) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// NewService wires a Service around store and cls.
func NewService(store *learning.Store, cls *classifier.Classifier, opts ...Option) *Service {
	s := &Service{
		store:      store,
		classifier: cls,
		logger:     slog.Default(),
		rnd:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the learned-example store.
func (s *Service) Store() *learning.Store {
	return s.store
}

// Predict classifies a drawing.
//
// The drawing is reduced to a grid; if a stored correction matches it, that
// correction's digit is returned with boosted confidence, otherwise the
// heuristic cascade decides. The only failure is a drawing that cannot be
// preprocessed, returned as *PredictionError.
func (s *Service) Predict(img image.Image) (*Outcome, error) {
	grid, err := imaging.Preprocess(img)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	return s.PredictGrid(grid), nil
}

// PredictDrawing decodes a data URL or base64 drawing and classifies it.
func (s *Service) PredictDrawing(data string) (*Outcome, error) {
	img, err := imaging.DecodeDrawing(data)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	return s.Predict(img)
}

// PredictGrid classifies an already preprocessed grid. It never fails.
func (s *Service) PredictGrid(grid imaging.Grid) *Outcome {
	out := &Outcome{Source: SourceHeuristic}

	learned := false
	if s.store.Len() > 0 {
		if digit, ok := s.store.Lookup(grid); ok {
			learned = true
			out.Digit = digit
			out.Source = SourceLearned
			out.Rule = ruleLearnedMatch
		}
	}

	if !learned {
		features := detection.Extract(grid)
		decision := s.classifier.Decide(features)
		out.Digit = decision.Digit
		out.Rule = decision.Rule

		s.logger.Debug("pattern analysis",
			"total_ink", features.TotalInkPixels,
			"density", features.Density,
			"top_loop", features.HasTopLoop,
			"bottom_loop", features.HasBottomLoop,
			"vertical_line", features.HasVerticalLine,
			"horizontal_line", features.HasHorizontalLine,
			"top", features.TopCount,
			"bottom", features.BottomCount,
			"left", features.LeftCount,
			"right", features.RightCount)
	}

	out.Confidence = s.confidence(learned)

	s.logger.Info("digit predicted",
		"digit", out.Digit,
		"confidence", fmt.Sprintf("%.1f%%", out.Confidence*100),
		"source", out.Source,
		"rule", out.Rule)

	return out
}

// confidence draws a base in [0.65, 0.90), boosts learned matches by 0.15,
// and clamps the result to [MinConfidence, MaxConfidence].
func (s *Service) confidence(learned bool) float64 {
	s.mu.Lock()
	c := baseConfidence + s.rnd.Float64()*confidenceSpread
	s.mu.Unlock()

	if learned {
		c = min(MaxConfidence, c+learnedBoost)
	}
	return max(MinConfidence, min(MaxConfidence, c))
}

// Correct records that img shows correctDigit although incorrectPrediction
// was predicted. Later predictions of similar drawings return correctDigit.
func (s *Service) Correct(img image.Image, correctDigit, incorrectPrediction int) (learning.Example, error) {
	if err := validateDigit("correct digit", correctDigit); err != nil {
		return learning.Example{}, err
	}
	if err := validateDigit("incorrect prediction", incorrectPrediction); err != nil {
		return learning.Example{}, err
	}

	grid, err := imaging.Preprocess(img)
	if err != nil {
		return learning.Example{}, &PredictionError{Err: err}
	}

	ex := learning.NewExample(grid, correctDigit, incorrectPrediction)
	s.store.Add(ex)

	s.logger.Info("learning example added",
		"correct_digit", correctDigit,
		"previously_predicted", incorrectPrediction,
		"examples", s.store.Len())

	return ex, nil
}

// CorrectDrawing decodes a data URL or base64 drawing and records a correction.
func (s *Service) CorrectDrawing(data string, correctDigit, incorrectPrediction int) (learning.Example, error) {
	img, err := imaging.DecodeDrawing(data)
	if err != nil {
		return learning.Example{}, &PredictionError{Err: err}
	}
	return s.Correct(img, correctDigit, incorrectPrediction)
}

// Analyze preprocesses img and reports its features and the cascade's
// decision, without consulting or changing the learned examples.
func (s *Service) Analyze(img image.Image) (*Analysis, error) {
	grid, err := imaging.Preprocess(img)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	features := detection.Extract(grid)
	return &Analysis{
		Grid:     grid,
		Features: features,
		Decision: s.classifier.Decide(features),
	}, nil
}

func validateDigit(field string, d int) error {
	if d < 0 || d > 9 {
		return fmt.Errorf("%s %d: %w", field, d, ErrInvalidDigit)
	}
	return nil
}
