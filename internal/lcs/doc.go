// Package lcs computes shortest edit scripts between two sequences.
//
// The algorithm is a linear-space variant of Myers' O(ND) difference algorithm: a bidirectional search finds a point on some shortest edit path, and the problem is split
// there and solved recursively. While the search still has its full per-iteration history in memory (see maxDifferencesHistory), the path is reconstructed directly from
// that history instead of recursing.
//
// Sequences: Diff accepts any Sequence that also implements CodeSequence (elements compared as int32 codes, ex: UTF-16 code units) or TextSequence (elements compared as
// exact strings, ex: trimmed lines). Text sequences additionally let Prettify favor blank-line boundaries and longer matched lines. A sequence may implement StrictSequence
// to report an exact element value that Prettify uses to avoid shifting a change across elements that compare equal but are not identical.
//
// Changes: the result is an ordered list of non-overlapping Change values. A Change replaces OriginalLength elements at OriginalStart with ModifiedLength elements at ModifiedStart.
// Elements not covered by any change are matched one-to-one, in order.
//
// Time budget: a ContinueFunc is polled once per search iteration. When it returns false the search stops and Diff returns a coarser, still covering, result with QuitEarly
// set. Quitting early is not an error.
//
// Concurrency: Diff allocates all of its state per call. Calls may run concurrently as long as the sequences they read are not mutated.
package lcs
