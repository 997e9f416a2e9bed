// Command ctlserve exposes the loop-analysis engine as a JSON HTTP API.
//
// Usage:
//
//	ctlserve [flags]
//
// The server accepts POST /v1/analyze with an expression document and
// numeric parameter bindings and returns the full analysis aggregate:
// poles, zeros, closed-loop poles, margins, Nyquist data and step traces.
//
// Examples:
//
//	ctlserve
//	ctlserve -addr :9090 -wmin 0.001 -wmax 1000 -points 800
//	ctlserve -tmax 20 -samples 1001
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	"github.com/cwbudde/algo-control/ctl/analysis"
	"github.com/cwbudde/algo-control/ctl/ss"
	"github.com/cwbudde/algo-control/internal/httpapi"
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
	addr := flag.String("addr", ":8080", "listen address")
	wMin := flag.Float64("wmin", 0, "sweep lower bound in rad/s (0 = auto)")
	wMax := flag.Float64("wmax", 0, "sweep upper bound in rad/s (0 = auto)")
	points := flag.Int("points", 0, "frequency sample count (0 = default)")
	tMax := flag.Float64("tmax", 0, "step-response horizon in seconds (0 = default)")
	samples := flag.Int("samples", 0, "step-response sample count (0 = default)")
	debug := flag.Bool("debug", false, "verbose request logging")
	flag.Parse()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := analysis.Options{
		WMin:       *wMin,
		WMax:       *wMax,
		FreqPoints: *points,
	}

	if *tMax > 0 || *samples > 0 {
		opts.Step = ss.StepConfig{TMax: *tMax, Points: *samples}
		if err := opts.Step.Validate(); err != nil {
			slog.Error("invalid step grid", "err", err)
			os.Exit(1)
		}
	}

	engine := analysis.New(opts)
	defer engine.Close()

	router := httpapi.SetupRouter(engine)

	slog.Info("serving loop analysis", "addr", *addr)

	if err := router.Run(*addr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
