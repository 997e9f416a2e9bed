package ss_test

import (
	"fmt"

	"github.com/cwbudde/algo-control/ctl/ss"
)

func ExampleFromTransferFunction() {
	// 1/(s+1)
	m, _ := ss.FromTransferFunction([]float64{1}, []float64{1, 1})
	fmt.Printf("n=%d a=%.0f b=%.0f d=%.0f\n", m.N, m.A[0][0], m.B[0], m.D)

	// Output:
	// n=1 a=-1 b=1 d=0
}

func ExampleSimulateStep() {
	m, _ := ss.FromTransferFunction([]float64{1}, []float64{1, 1})

	trace, _ := ss.SimulateStep(m, nil, 0, 0, ss.StepConfig{TMax: 5, Points: 501})
	fmt.Printf("y(0)=%.0f y(5)=%.2f\n", trace.YL[0], trace.YL[len(trace.YL)-1])

	// Output:
	// y(0)=0 y(5)=0.99
}
