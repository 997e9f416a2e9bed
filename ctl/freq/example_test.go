package freq_test

import (
	"fmt"

	"github.com/cwbudde/algo-control/ctl/freq"
)

func ExampleComputeMargins() {
	// L = 2/(s*(s+1))
	eval := func(s complex128) (complex128, error) {
		return 2 / (s * (s + 1)), nil
	}

	w, _ := freq.LogSpace(0.01, 100, 400)
	m := freq.ComputeMargins(freq.Sweep(eval, w))

	fmt.Printf("gain margins=%d phase margins=%d stable=%v\n",
		len(m.Gain), len(m.Phase), m.Stable())

	// Output:
	// gain margins=0 phase margins=1 stable=true
}
