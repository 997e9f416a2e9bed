// Package nyquist builds the D-shaped evaluation contour on the s-plane
// and derives the winding number of L(s) around the critical point -1.
//
// The contour is traversed as: negative imaginary axis from -j*wMax to
// -j*wMin (the conjugate-reversed mirror of the positive sweep, never
// recomputed), a right-half-plane semicircle around the origin when a pole
// sits there, then the positive imaginary axis from j*wMin to j*wMax with
// small right-half-plane semicircular indentations around every unique
// imaginary-axis pole frequency. The loop response is evaluated exactly
// once per contour point; the plotted curve and the winding number both
// read from that single pass.
//
// The winding number follows the clockwise-positive convention of the
// Nyquist criterion Z = N + P: a clockwise encirclement of -1 counts +1.
package nyquist
