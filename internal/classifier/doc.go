// Package classifier guesses a digit from detection features.
//
// There is no trained model. Rules holds ten hand-written archetypes (two
// loops is a zero, a sparse lopsided vertical stroke is a one, ...) checked in
// order; the first match wins. When none match, a fallback chain applies:
//
//  1. density < 0.15            -> 1
//  2. density > 0.4             -> 8
//  3. top > 1.5 * bottom        -> 7
//  4. vertical line             -> 1
//  5. top loop                  -> 6 or 9, fair coin
//  6. otherwise                 -> draw from DigitWeights (5 if no bucket is hit)
//
// Steps 5 and 6 use the RandomSource given to New, so tests can pin them with
// a fixed sequence.
package classifier
