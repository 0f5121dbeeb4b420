// Package linediff computes line-level diffs between two snapshots of a text, optionally refined with character-level changes inside small changed chunks.
//
// Compute is the entry point. It diffs lines with leading and trailing whitespace ignored, since that placement reads best, and then (unless the caller also ignores trim
// whitespace) reports lines that differ only in that whitespace as separate single-line changes. Line numbers and columns in the result are 1-based; columns count UTF-16
// code units, matching editor models that consume them.
//
// Both the line pass and the character pass are bounded by Options.MaxComputationTime. A budget that runs out never causes an error: the result is still a valid covering
// of both inputs, just coarser, and Result.QuitEarly is set.
//
// Compute keeps no state between calls and is safe to call concurrently.
package linediff
