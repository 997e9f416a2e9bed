// Command ctlplot renders Bode, Nyquist and step-response plots for a
// rational open-loop transfer function, optionally with a dead time.
//
// Coefficients are given in ascending power order, comma separated.
//
// Examples:
//
//	ctlplot -num 2 -den 0,1,1
//	ctlplot -num 1 -den 1,1 -delay 0.5 -out loop
//	ctlplot -num 6 -den 6,11,6,1 -wmin 0.001 -wmax 1000
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-control/ctl/analysis"
	"github.com/cwbudde/algo-control/ctl/ss"
	"github.com/cwbudde/algo-control/ctl/symb"
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	numFlag := flag.String("num", "", "numerator coefficients, ascending, comma separated")
	denFlag := flag.String("den", "", "denominator coefficients, ascending, comma separated")
	delay := flag.Float64("delay", 0, "dead time in seconds")
	out := flag.String("out", "ctlplot", "output file prefix")
	wMin := flag.Float64("wmin", 0, "sweep lower bound in rad/s (0 = auto)")
	wMax := flag.Float64("wmax", 0, "sweep upper bound in rad/s (0 = auto)")
	points := flag.Int("points", 0, "frequency sample count (0 = default)")
	tMax := flag.Float64("tmax", 0, "step-response horizon in seconds (0 = default)")
	samples := flag.Int("samples", 0, "step-response sample count (0 = default)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ctlplot -num COEFFS -den COEFFS [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders <out>-gain.png, <out>-phase.png, <out>-nyquist.png and <out>-step.png.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	num, err := parseCoeffs(*numFlag)
	if err != nil {
		slog.Error("invalid numerator", "err", err)
		os.Exit(1)
	}

	den, err := parseCoeffs(*denFlag)
	if err != nil {
		slog.Error("invalid denominator", "err", err)
		os.Exit(1)
	}

	opts := analysis.Options{WMin: *wMin, WMax: *wMax, FreqPoints: *points}
	if *tMax > 0 || *samples > 0 {
		opts.Step = ss.StepConfig{TMax: *tMax, Points: *samples}
		if err := opts.Step.Validate(); err != nil {
			slog.Error("invalid step grid", "err", err)
			os.Exit(1)
		}
	}

	res, err := analysis.Analyze(loopExpr(num, den, *delay), nil, opts)
	if err != nil {
		slog.Error("analysis failed", "err", err)
		os.Exit(1)
	}

	slog.Info("analysis complete",
		"kind", res.Kind.String(),
		"poles", len(res.Poles.Roots),
		"zeros", len(res.Zeros.Roots),
		"winding", res.Nyquist.N,
		"stable", res.NyquistStable)

	for _, m := range res.Margins.Gain {
		slog.Info("gain margin", "w", m.Frequency, "db", m.MarginDB)
	}

	for _, m := range res.Margins.Phase {
		slog.Info("phase margin", "w", m.Frequency, "deg", m.MarginDeg)
	}

	if err := renderAll(res, *out); err != nil {
		slog.Error("rendering failed", "err", err)
		os.Exit(1)
	}
}

func parseCoeffs(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no coefficients given")
	}

	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}

		out[i] = v
	}

	return out, nil
}

// loopExpr builds num(s)/den(s), optionally times exp(-delay*s).
func loopExpr(num, den []float64, delay float64) symb.Expr {
	var e symb.Expr = symb.Div(polyExpr(num), polyExpr(den))

	if delay > 0 {
		e = symb.Mul(e, symb.Fn("exp", symb.Neg(symb.Mul(symb.Con(delay), symb.Sym("s")))))
	}

	return e
}

func polyExpr(coeffs []float64) symb.Expr {
	s := symb.Sym("s")

	var e symb.Expr = symb.Con(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		e = symb.Add(symb.Mul(e, s), symb.Con(coeffs[i]))
	}

	return e
}

func renderAll(res *analysis.Result, prefix string) error {
	if err := renderBode(res, prefix); err != nil {
		return err
	}

	if err := renderNyquist(res, prefix); err != nil {
		return err
	}

	return renderStep(res, prefix)
}

func renderBode(res *analysis.Result, prefix string) error {
	gain := plot.New()
	gain.Title.Text = "Open-Loop Gain"
	gain.X.Label.Text = "w [rad/s]"
	gain.Y.Label.Text = "gain [dB]"
	gain.X.Scale = plot.LogScale{}
	gain.X.Tick.Marker = plot.LogTicks{Prec: -1}
	gain.Add(plotter.NewGrid())

	phase := plot.New()
	phase.Title.Text = "Open-Loop Phase"
	phase.X.Label.Text = "w [rad/s]"
	phase.Y.Label.Text = "phase [deg]"
	phase.X.Scale = plot.LogScale{}
	phase.X.Tick.Marker = plot.LogTicks{Prec: -1}
	phase.Add(plotter.NewGrid())

	var gainPts, phasePts plotter.XYs

	for i, w := range res.Response.W {
		if res.Response.Failed[i] {
			continue
		}

		if g := res.Response.GainDB[i]; !math.IsInf(g, 0) && !math.IsNaN(g) {
			gainPts = append(gainPts, plotter.XY{X: w, Y: g})
		}

		phasePts = append(phasePts, plotter.XY{X: w, Y: res.Response.PhaseDeg[i]})
	}

	gainLine, err := plotter.NewLine(gainPts)
	if err != nil {
		return fmt.Errorf("gain line: %w", err)
	}

	phaseLine, err := plotter.NewLine(phasePts)
	if err != nil {
		return fmt.Errorf("phase line: %w", err)
	}

	gain.Add(gainLine)
	phase.Add(phaseLine)

	if err := gain.Save(8*vg.Inch, 5*vg.Inch, prefix+"-gain.png"); err != nil {
		return fmt.Errorf("saving gain plot: %w", err)
	}

	if err := phase.Save(8*vg.Inch, 5*vg.Inch, prefix+"-phase.png"); err != nil {
		return fmt.Errorf("saving phase plot: %w", err)
	}

	return nil
}

func renderNyquist(res *analysis.Result, prefix string) error {
	p := plot.New()
	p.Title.Text = "Nyquist"
	p.X.Label.Text = "Re L(s)"
	p.Y.Label.Text = "Im L(s)"
	p.Add(plotter.NewGrid())

	curve := make(plotter.XYs, 0, len(res.Nyquist.Points))
	for _, pt := range res.Nyquist.Points {
		curve = append(curve, plotter.XY{X: real(pt.L), Y: imag(pt.L)})
	}

	line, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("nyquist line: %w", err)
	}

	critical, err := plotter.NewScatter(plotter.XYs{{X: -1, Y: 0}})
	if err != nil {
		return fmt.Errorf("critical point: %w", err)
	}

	critical.GlyphStyle.Radius = vg.Points(4)

	p.Add(line, critical)
	p.Legend.Add(fmt.Sprintf("N = %d", res.Nyquist.N), line)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, prefix+"-nyquist.png"); err != nil {
		return fmt.Errorf("saving nyquist plot: %w", err)
	}

	return nil
}

func renderStep(res *analysis.Result, prefix string) error {
	if res.Step == nil {
		slog.Warn("no step trace for this input, skipping step plot")
		return nil
	}

	p := plot.New()
	p.Title.Text = "Step Response"
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	open, err := plotter.NewLine(tracePoints(res.Step.Time, res.Step.YL))
	if err != nil {
		return fmt.Errorf("open-loop line: %w", err)
	}

	p.Add(open)
	p.Legend.Add("open loop", open)

	closedY := res.Step.YT
	label := "closed loop"

	if res.Loop != nil {
		closedY = res.Loop.Y
		label = "closed loop (dead time)"
	}

	if closedY != nil {
		closed, err := plotter.NewLine(tracePoints(res.Step.Time, closedY))
		if err != nil {
			return fmt.Errorf("closed-loop line: %w", err)
		}

		closed.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(closed)
		p.Legend.Add(label, closed)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, prefix+"-step.png"); err != nil {
		return fmt.Errorf("saving step plot: %w", err)
	}

	return nil
}

func tracePoints(t, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(t))
	for i := range t {
		pts[i] = plotter.XY{X: t[i], Y: y[i]}
	}

	return pts
}
