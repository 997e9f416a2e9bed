package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cwbudde/algo-control/ctl/analysis"
	"github.com/cwbudde/algo-control/ctl/freq"
	"github.com/cwbudde/algo-control/ctl/nyquist"
	"github.com/cwbudde/algo-control/ctl/poly"
	"github.com/cwbudde/algo-control/ctl/symb"
)

// Handler serves loop-analysis requests on top of a shared Engine.
type Handler struct {
	engine *analysis.Engine
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *analysis.Engine) *Handler {
	return &Handler{engine: engine}
}

// AnalyzeRequest is the POST /v1/analyze body: an expression document in
// the symb node schema plus numeric parameter bindings.
type AnalyzeRequest struct {
	Expression json.RawMessage    `json:"expression"`
	Bindings   map[string]float64 `json:"bindings"`
}

// Analyze handles POST /v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Expression) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expression is required"})
		return
	}

	expr, err := symb.UnmarshalExpr(req.Expression)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.engine.Analyze(expr, req.Bindings)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toAnalyzeResponse(res))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ComplexJSON is a complex number on the wire.
type ComplexJSON struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// RootsJSON carries a root set with its convergence signal.
type RootsJSON struct {
	Roots       []ComplexJSON `json:"roots"`
	Converged   bool          `json:"converged"`
	MaxResidual float64       `json:"max_residual"`
}

// MarginJSON is one gain or phase margin entry.
type MarginJSON struct {
	Frequency float64 `json:"frequency"`
	Margin    float64 `json:"margin"`
}

// MarginsJSON groups all crossovers. Gain margins are in dB, phase margins
// in degrees.
type MarginsJSON struct {
	Gain   []MarginJSON `json:"gain"`
	Phase  []MarginJSON `json:"phase"`
	Stable bool         `json:"stable"`
}

// ResponseJSON is the sampled frequency response. Failed samples carry
// gain_db = null since -Inf is not representable in JSON.
type ResponseJSON struct {
	W        []float64  `json:"w"`
	GainDB   []*float64 `json:"gain_db"`
	PhaseDeg []float64  `json:"phase_deg"`
}

// NyquistPointJSON is one evaluated contour sample.
type NyquistPointJSON struct {
	S ComplexJSON `json:"s"`
	L ComplexJSON `json:"l"`
}

// NyquistJSON is the evaluated contour and winding number.
type NyquistJSON struct {
	Points        []NyquistPointJSON `json:"points"`
	N             int                `json:"n"`
	PoleFreqs     []float64          `json:"pole_freqs"`
	HasOriginPole bool               `json:"has_origin_pole"`
	Epsilon       float64            `json:"epsilon"`
}

// StepJSON is the open-loop step trace; yt is absent when the closed loop
// is not realizable.
type StepJSON struct {
	Time []float64 `json:"time"`
	YL   []float64 `json:"yl"`
	YT   []float64 `json:"yt,omitempty"`
}

// LoopJSON is the closed-loop trace with the dead time inside the loop.
type LoopJSON struct {
	Time []float64 `json:"time"`
	Y    []float64 `json:"y"`
	E    []float64 `json:"e"`
}

// AnalyzeResponse is the full analysis aggregate on the wire.
type AnalyzeResponse struct {
	Kind       string  `json:"kind"`
	DelayTime  float64 `json:"delay_time,omitempty"`
	InputHash  uint64  `json:"input_hash,string"`
	Poles      RootsJSON `json:"poles"`
	Zeros      RootsJSON `json:"zeros"`
	ClosedLoop RootsJSON `json:"closed_loop"`
	RHPPoles   int       `json:"rhp_poles"`

	Margins  MarginsJSON  `json:"margins"`
	Response ResponseJSON `json:"response"`
	Nyquist  NyquistJSON  `json:"nyquist"`

	CriterionKnown bool `json:"criterion_known"`
	ClosedLoopRHP  int  `json:"closed_loop_rhp"`
	NyquistStable  bool `json:"nyquist_stable"`

	Step *StepJSON `json:"step,omitempty"`
	Loop *LoopJSON `json:"loop,omitempty"`
}

func toAnalyzeResponse(res *analysis.Result) AnalyzeResponse {
	out := AnalyzeResponse{
		Kind:           res.Kind.String(),
		DelayTime:      res.DelayTime,
		InputHash:      res.InputHash,
		Poles:          toRootsJSON(res.Poles),
		Zeros:          toRootsJSON(res.Zeros),
		ClosedLoop:     toRootsJSON(res.ClosedLoop),
		RHPPoles:       res.RHPPoles,
		Margins:        toMarginsJSON(res.Margins),
		Response:       toResponseJSON(res.Response),
		Nyquist:        toNyquistJSON(res.Nyquist),
		CriterionKnown: res.CriterionKnown,
		ClosedLoopRHP:  res.ClosedLoopRHP,
		NyquistStable:  res.NyquistStable,
	}

	if res.Step != nil {
		out.Step = &StepJSON{Time: res.Step.Time, YL: res.Step.YL, YT: res.Step.YT}
	}

	if res.Loop != nil {
		out.Loop = &LoopJSON{Time: res.Loop.Time, Y: res.Loop.Y, E: res.Loop.E}
	}

	return out
}

func toComplexJSON(v complex128) ComplexJSON {
	return ComplexJSON{Re: real(v), Im: imag(v)}
}

func toRootsJSON(r poly.RootResult) RootsJSON {
	roots := make([]ComplexJSON, len(r.Roots))
	for i, v := range r.Roots {
		roots[i] = toComplexJSON(v)
	}

	return RootsJSON{Roots: roots, Converged: r.Converged, MaxResidual: r.MaxResidual}
}

func toMarginsJSON(m freq.Margins) MarginsJSON {
	out := MarginsJSON{
		Gain:   make([]MarginJSON, len(m.Gain)),
		Phase:  make([]MarginJSON, len(m.Phase)),
		Stable: m.Stable(),
	}

	for i, g := range m.Gain {
		out.Gain[i] = MarginJSON{Frequency: g.Frequency, Margin: g.MarginDB}
	}

	for i, p := range m.Phase {
		out.Phase[i] = MarginJSON{Frequency: p.Frequency, Margin: p.MarginDeg}
	}

	return out
}

func toResponseJSON(r freq.Response) ResponseJSON {
	out := ResponseJSON{
		W:        r.W,
		GainDB:   make([]*float64, len(r.GainDB)),
		PhaseDeg: r.PhaseDeg,
	}

	for i := range r.GainDB {
		// Failed samples read -Inf, which JSON cannot carry.
		g := r.GainDB[i]
		if r.Failed[i] || math.IsInf(g, 0) || math.IsNaN(g) {
			continue
		}

		out.GainDB[i] = &g
	}

	return out
}

func toNyquistJSON(a nyquist.Analysis) NyquistJSON {
	points := make([]NyquistPointJSON, len(a.Points))
	for i, p := range a.Points {
		points[i] = NyquistPointJSON{S: toComplexJSON(p.S), L: toComplexJSON(p.L)}
	}

	return NyquistJSON{
		Points:        points,
		N:             a.N,
		PoleFreqs:     a.PoleFreqs,
		HasOriginPole: a.HasOriginPole,
		Epsilon:       a.Epsilon,
	}
}
