// Package poly provides polynomial arithmetic and root finding over the
// complex plane for continuous-time transfer functions.
//
// Coefficients are stored in ascending power order throughout:
// c[0] + c[1]*s + c[2]*s^2 + ... . Trailing coefficients whose magnitude
// falls below [CleanupTol] are considered numerical noise and are stripped
// by [Trim] before degree-sensitive processing.
//
// Root finding uses the Durand-Kerner (Weierstrass) simultaneous iteration,
// which returns all roots of a polynomial at once and handles complex
// coefficients directly. Convergence is reported explicitly via
// [RootResult]: callers that receive Converged == false should treat the
// roots as best-effort estimates.
//
// # Usage
//
//	// (s+1)(s+2)(s+3) = 6 + 11s + 6s^2 + s^3
//	res, err := poly.FindRootsReal([]float64{6, 11, 6, 1})
//	if err != nil {
//	    ...
//	}
//	roots := poly.SortRoots(res.Roots) // {-1, -2, -3}
package poly
