package poly

import (
	"math"
	"math/cmplx"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if mag := math.Max(math.Abs(a), math.Abs(b)); mag > 1 {
		return diff/mag < tol
	}

	return diff < tol
}

func TestTrim_StripsTrailingNoise(t *testing.T) {
	c := Trim([]float64{1, 2, 3, 1e-16, 0})
	if len(c) != 3 {
		t.Fatalf("expected 3 coefficients, got %d: %v", len(c), c)
	}
}

func TestTrim_ZeroPolynomial(t *testing.T) {
	c := Trim([]float64{0, 0, 0})
	if len(c) != 1 || c[0] != 0 {
		t.Errorf("expected [0], got %v", c)
	}
}

func TestDegree(t *testing.T) {
	tests := []struct {
		name string
		c    []float64
		want int
	}{
		{"cubic", []float64{6, 11, 6, 1}, 3},
		{"constant", []float64{5}, 0},
		{"padded", []float64{1, 1, 0, 0}, 1},
		{"zero", []float64{0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Degree(tt.c); got != tt.want {
				t.Errorf("Degree(%v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestEval_Ascending(t *testing.T) {
	// p(s) = 5 - 3s + 2s^3, p(2) = 5 - 6 + 16 = 15
	c := []float64{5, -3, 0, 2}

	v := Eval(c, 2)
	if !almostEqual(real(v), 15, 1e-12) || !almostEqual(imag(v), 0, 1e-12) {
		t.Errorf("Eval: expected 15, got %v", v)
	}
}

func TestEval_AtImaginaryAxis(t *testing.T) {
	// p(s) = 1 + s^2, p(j) = 0
	c := []float64{1, 0, 1}

	v := Eval(c, complex(0, 1))
	if cmplx.Abs(v) > 1e-14 {
		t.Errorf("expected 0 at s=j, got %v", v)
	}
}

func TestAddSubScale(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{3, 4, 5}

	sum := Add(a, b)
	want := []float64{4, 6, 5}
	for i := range want {
		if !almostEqual(sum[i], want[i], 1e-15) {
			t.Fatalf("Add: got %v, want %v", sum, want)
		}
	}

	diff := Sub(b, a)
	want = []float64{2, 2, 5}
	for i := range want {
		if !almostEqual(diff[i], want[i], 1e-15) {
			t.Fatalf("Sub: got %v, want %v", diff, want)
		}
	}

	scaled := Scale(a, -2)
	if scaled[0] != -2 || scaled[1] != -4 {
		t.Errorf("Scale: got %v", scaled)
	}
}

func TestMul_Direct(t *testing.T) {
	// (1+s)(1+s) = 1 + 2s + s^2
	prod, err := Mul([]float64{1, 1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 2, 1}
	for i := range want {
		if !almostEqual(prod[i], want[i], 1e-14) {
			t.Errorf("Mul: got %v, want %v", prod, want)
		}
	}
}

func TestMul_FFTPathMatchesDirect(t *testing.T) {
	a := make([]float64, 48)
	b := make([]float64, 48)
	for i := range a {
		a[i] = math.Sin(float64(i) + 1)
		b[i] = math.Cos(float64(i) * 0.7)
	}

	// 48+48-1 = 95 coefficients, above the FFT crossover.
	got, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}

	want := mulDirect(a, b)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d != %d", len(got), len(want))
	}

	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Fatalf("coefficient %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPow(t *testing.T) {
	// (1+s)^3 = 1 + 3s + 3s^2 + s^3
	p, err := Pow([]float64{1, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 3, 3, 1}
	for i := range want {
		if !almostEqual(p[i], want[i], 1e-13) {
			t.Errorf("Pow: got %v, want %v", p, want)
		}
	}
}

func TestPow_NegativeExponent(t *testing.T) {
	if _, err := Pow([]float64{1, 1}, -1); err == nil {
		t.Error("expected error for negative exponent")
	}
}
