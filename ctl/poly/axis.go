package poly

import "math"

// ImagAxisTol is the real-part magnitude below which a root is treated as
// lying on the imaginary axis. Every axis test in the module uses this one
// constant; mixing tolerances here would let a borderline pole count as RHP
// for the pole counter but off-axis for the contour indentation logic.
const ImagAxisTol = 1e-6

// OnImagAxis reports whether the root sits on the imaginary axis within
// ImagAxisTol.
func OnImagAxis(r complex128) bool {
	return math.Abs(real(r)) <= ImagAxisTol
}

// ImagAxisRoots returns the roots lying on the imaginary axis.
func ImagAxisRoots(roots []complex128) []complex128 {
	var out []complex128

	for _, r := range roots {
		if OnImagAxis(r) {
			out = append(out, r)
		}
	}

	return out
}

// CountRHP returns the number of roots strictly in the open right half
// plane. Roots within ImagAxisTol of the axis are not counted.
func CountRHP(roots []complex128) int {
	n := 0

	for _, r := range roots {
		if real(r) > ImagAxisTol {
			n++
		}
	}

	return n
}
