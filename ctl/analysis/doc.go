// Package analysis orchestrates a full open-loop study: one call turns a
// symbolic loop expression plus numeric parameter bindings into poles,
// zeros, closed-loop poles, frequency response, stability margins, the
// Nyquist analysis and step-response traces.
//
// An Engine memoizes two things between calls. The Pade-expanded form of
// the expression is cached by a content hash of its structure, so moving a
// numeric parameter never repeats the symbolic rewrite. The complete Result
// is cached by a hash of the fully bound expression, so an unchanged input
// returns the previous aggregate untouched. Results are immutable once
// returned; a renderer may keep reading one while the next analysis runs.
//
// Closed-loop pole extraction runs on a background worker fed through a
// task channel with last-writer-wins semantics: a submission arriving while
// an older one is still pending replaces it, mirroring the fact that only
// the latest parameter value matters during interactive use.
package analysis
