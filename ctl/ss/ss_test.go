package ss

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-control/ctl/poly"
)

func TestFromTransferFunction_FirstOrderStructure(t *testing.T) {
	// 1/(s+1): A = [-1], B = [1], C = [1], D = 0.
	m, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	if m.N != 1 {
		t.Fatalf("order: got %d, want 1", m.N)
	}

	if m.A[0][0] != -1 || m.B[0] != 1 || m.C[0] != 1 || m.D != 0 {
		t.Errorf("realization: A=%v B=%v C=%v D=%v", m.A, m.B, m.C, m.D)
	}
}

func TestFromTransferFunction_ObservableCanonicalSecondOrder(t *testing.T) {
	// (3s^2 + 2s + 1) / (s^2 + 4s + 5): biproper, D = 3.
	num := []float64{1, 2, 3}
	den := []float64{5, 4, 1}

	m, err := FromTransferFunction(num, den)
	if err != nil {
		t.Fatal(err)
	}

	if m.D != 3 {
		t.Errorf("D: got %v, want 3", m.D)
	}

	// First column: -a1, -a0 (highest-order first); superdiagonal ones.
	if m.A[0][0] != -4 || m.A[1][0] != -5 || m.A[0][1] != 1 || m.A[1][1] != 0 {
		t.Errorf("A: got %v", m.A)
	}

	// B_i = b_{n-1-i} - a_{n-1-i}*D.
	if math.Abs(m.B[0]-(2-4*3)) > 1e-15 || math.Abs(m.B[1]-(1-5*3)) > 1e-15 {
		t.Errorf("B: got %v", m.B)
	}
}

func TestFromTransferFunction_NonMonicNormalized(t *testing.T) {
	// 4/(2s+2) == 2/(s+1).
	m, err := FromTransferFunction([]float64{4}, []float64{2, 2})
	if err != nil {
		t.Fatal(err)
	}

	if m.A[0][0] != -1 || m.B[0] != 2 {
		t.Errorf("normalization: A=%v B=%v", m.A, m.B)
	}
}

func TestFromTransferFunction_GainOnly(t *testing.T) {
	m, err := FromTransferFunction([]float64{6}, []float64{3})
	if err != nil {
		t.Fatal(err)
	}

	if m.N != 0 || m.D != 2 {
		t.Errorf("gain model: N=%d D=%v", m.N, m.D)
	}
}

func TestFromTransferFunction_ImproperRejected(t *testing.T) {
	_, err := FromTransferFunction([]float64{0, 0, 1}, []float64{1, 1})
	if !errors.Is(err, ErrImproper) {
		t.Errorf("expected ErrImproper, got %v", err)
	}
}

func TestResponseAt_MatchesPolynomialRatio(t *testing.T) {
	// Round trip: the realization's frequency response must match
	// num/den at assorted test frequencies.
	num := []float64{2, 1}
	den := []float64{5, 2, 1}

	m, err := FromTransferFunction(num, den)
	if err != nil {
		t.Fatal(err)
	}

	points := []complex128{
		complex(0, 0.1),
		complex(0, 1),
		complex(0, 10),
		complex(1, 2),
		complex(-0.5, 3),
	}
	for _, s := range points {
		got, err := m.ResponseAt(s)
		if err != nil {
			t.Fatalf("s=%v: %v", s, err)
		}

		want := poly.Eval(num, s) / poly.Eval(den, s)
		if cmplx.Abs(got-want) > 1e-10 {
			t.Errorf("s=%v: got %v, want %v", s, got, want)
		}
	}
}

func TestResponseAt_BiproperFeedthrough(t *testing.T) {
	// (s+2)/(s+1) -> 1 as |s| -> inf; D must carry that.
	m, err := FromTransferFunction([]float64{2, 1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.ResponseAt(complex(0, 1e6))
	if err != nil {
		t.Fatal(err)
	}

	if cmplx.Abs(got-1) > 1e-4 {
		t.Errorf("high-frequency limit: got %v, want ~1", got)
	}
}
