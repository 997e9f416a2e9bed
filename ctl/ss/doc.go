// Package ss converts transfer-function coefficient pairs into
// single-input single-output state-space realizations and simulates their
// step responses with a fixed-step fourth-order Runge-Kutta integrator.
//
// The realization produced by [FromTransferFunction] is the observable
// canonical form with the companion structure in the first column and the
// output taken from the first state. Downstream simulation relies on that
// exact structure (y = x[0] + D*u), so an equivalent-but-different
// realization is not acceptable here.
//
// Two simulation entry points exist: [SimulateStep] integrates one or two
// independent systems under a delayed unit step, and
// [SimulateClosedLoopStep] closes a unity-feedback loop around a rational
// block with the dead time inside the loop, interpolating the delayed error
// signal from the history computed so far.
package ss
