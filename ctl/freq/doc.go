// Package freq evaluates loop frequency responses over logarithmically
// spaced grids and extracts closed-loop stability margins.
//
// Gains are in decibels (20*log10 of magnitude) and phases in degrees,
// unwrapped so that the phase column is continuous across branch cuts.
// Crossover frequencies are located by linear interpolation between the
// two samples bracketing each 0 dB or -180(+360k) degree crossing, and the
// gain/phase margins are read off at those interpolated frequencies.
//
// Per-frequency evaluation failures are substituted with L = 0; the gain
// column then carries -Inf at that sample under ordinary IEEE semantics
// and no special clamping is applied.
package freq
