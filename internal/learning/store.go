package learning

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
)

const (
	// MaxExamples is the hard cap on stored corrections.
	MaxExamples = 100

	// MatchThreshold is the similarity a stored example must exceed to
	// answer a lookup.
	MatchThreshold = 0.7
)

// Example is a user correction: the drawing and the digit it really shows.
type Example struct {
	ID                  uuid.UUID
	Grid                imaging.Grid
	CorrectDigit        int
	IncorrectPrediction int
	AddedAt             time.Time
}

// NewExample builds an Example with a fresh ID and timestamp.
func NewExample(grid imaging.Grid, correctDigit, incorrectPrediction int) Example {
	return Example{
		ID:                  uuid.New(),
		Grid:                grid,
		CorrectDigit:        correctDigit,
		IncorrectPrediction: incorrectPrediction,
		AddedAt:             time.Now(),
	}
}

// Summary describes an example without its grid.
type Summary struct {
	ID                  string    `json:"id"`
	CorrectDigit        int       `json:"correct_digit"`
	IncorrectPrediction int       `json:"incorrect_prediction"`
	AddedAt             time.Time `json:"added_at"`
}

// Summary returns the example's metadata.
func (e Example) Summary() Summary {
	return Summary{
		ID:                  e.ID.String(),
		CorrectDigit:        e.CorrectDigit,
		IncorrectPrediction: e.IncorrectPrediction,
		AddedAt:             e.AddedAt,
	}
}

// Store is a bounded, insertion-ordered buffer of corrections.
//
// When full, adding an example evicts the oldest. Store is safe for
// concurrent use: lookups share a read lock and Add takes the write lock, so
// an Add never runs while a lookup is scanning.
type Store struct {
	mu       sync.RWMutex
	capacity int
	examples []Example
}

// NewStore creates an empty store holding at most capacity examples.
// capacity is clamped to [1, MaxExamples].
func NewStore(capacity int) *Store {
	if capacity < 1 || capacity > MaxExamples {
		capacity = MaxExamples
	}
	return &Store{
		capacity: capacity,
		examples: make([]Example, 0, capacity),
	}
}

// Capacity returns the maximum number of examples kept.
func (s *Store) Capacity() int {
	return s.capacity
}

// Add appends ex, evicting the oldest examples beyond capacity.
func (s *Store) Add(ex Example) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.examples = append(s.examples, ex)
	if over := len(s.examples) - s.capacity; over > 0 {
		s.examples = append(s.examples[:0:0], s.examples[over:]...)
	}
}

// Lookup returns the correct digit of the oldest stored example whose
// similarity to grid exceeds MatchThreshold. ok is false when nothing
// qualifies, including when the store is empty.
func (s *Store) Lookup(grid imaging.Grid) (digit int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.examples {
		if Similarity(grid, s.examples[i].Grid) > MatchThreshold {
			return s.examples[i].CorrectDigit, true
		}
	}
	return 0, false
}

// Len returns the number of stored examples.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.examples)
}

// Examples returns a copy of the stored examples, oldest first.
func (s *Store) Examples() []Example {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Example, len(s.examples))
	copy(out, s.examples)
	return out
}

// Clear removes all examples.
func (s *Store) Clear() {
	s.mu.Lock()
	s.examples = make([]Example, 0, s.capacity)
	s.mu.Unlock()
}

func (s *Store) String() string {
	return fmt.Sprintf("learning.Store(%d/%d)", s.Len(), s.capacity)
}

// Similarity scores two grids in [0,1] as one minus their mean absolute
// cell difference. It is symmetric and equals 1 for identical grids.
func Similarity(a, b imaging.Grid) float64 {
	mad := floats.Distance(a[:], b[:], 1) / imaging.GridCells
	if sim := 1 - mad; sim > 0 {
		return sim
	}
	return 0
}
