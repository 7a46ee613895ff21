// File: internal/render/render.go
// Package render draws the standard diagram set for a solved plant: the HRSG
// temperature-duty profile, the gas and steam cycle T-s diagrams, and the
// energy and exergy breakdowns.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/combicycle/ccgt/internal/cycle"
	"github.com/combicycle/ccgt/internal/props"
)

// profileSamples is the sampling density of the rendered HRSG profile. It is
// deliberately finer than the solver's own sweep so plotted kinks are sharp.
const profileSamples = 257

// domeSamples is the number of saturation-line samples per branch of the T-s
// dome.
const domeSamples = 160

// isobarSamples is the number of points per constant-pressure leg of the gas
// cycle path, enough to draw the logarithmic T-s isobars smoothly.
const isobarSamples = 48

var (
	gasColor   = color.RGBA{R: 0xd6, G: 0x45, B: 0x2c, A: 0xff}
	steamColor = color.RGBA{R: 0x2c, G: 0x6f, B: 0xd6, A: 0xff}
	domeColor  = color.RGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
)

// Renderer writes the diagram set for solved plants into one directory.
type Renderer struct {
	provider props.Provider
	dir      string
	logger   *zap.Logger
}

// New creates a renderer targeting dir. The directory is created on demand.
func New(provider props.Provider, dir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		provider: provider,
		dir:      dir,
		logger:   logger.With(zap.String("component", "render")),
	}
}

// All renders every diagram and returns the written file paths.
func (r *Renderer) All(p cycle.Params, res *cycle.Result) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory %s: %w", r.dir, err)
	}

	var paths []string
	for _, job := range []struct {
		name string
		fn   func(string, cycle.Params, *cycle.Result) error
	}{
		{"hrsg_profile.png", r.hrsgProfile},
		{"gas_ts.png", r.gasTS},
		{"steam_ts.png", r.steamTS},
		{"energy_breakdown.png", r.energyBreakdown},
		{"exergy_breakdown.png", r.exergyBreakdown},
	} {
		path := filepath.Join(r.dir, job.name)
		if err := job.fn(path, p, res); err != nil {
			return paths, err
		}
		r.logger.Debug("Rendered diagram", zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// hrsgProfile draws both stream temperatures against the duty fraction, the
// plane in which the pinch point lives.
func (r *Renderer) hrsgProfile(path string, p cycle.Params, res *cycle.Result) error {
	pts, err := cycle.HRSGProfile(r.provider, p, res, profileSamples)
	if err != nil {
		return err
	}

	gasXY := make(plotter.XYs, len(pts))
	steamXY := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		gasXY[i] = plotter.XY{X: pt.DutyFraction, Y: pt.GasTemperature}
		steamXY[i] = plotter.XY{X: pt.DutyFraction, Y: pt.SteamTemperature}
	}

	pl := plot.New()
	pl.Title.Text = "HRSG temperature profile"
	pl.X.Label.Text = "duty fraction"
	pl.Y.Label.Text = "temperature [K]"

	gasLine, err := plotter.NewLine(gasXY)
	if err != nil {
		return err
	}
	gasLine.Color = gasColor
	steamLine, err := plotter.NewLine(steamXY)
	if err != nil {
		return err
	}
	steamLine.Color = steamColor

	pl.Add(gasLine, steamLine, plotter.NewGrid())
	pl.Legend.Add("exhaust gas", gasLine)
	pl.Legend.Add("steam", steamLine)
	pl.Legend.Top = true

	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}

// gasTS draws the topping cycle in the temperature-entropy plane. The two
// constant-pressure legs (combustor heat addition, and the HRSG plus stack
// back to ambient) are sampled along their isobars so the logarithmic shape
// shows; the turbomachine legs connect their endpoints directly.
func (r *Renderer) gasTS(path string, p cycle.Params, res *cycle.Result) error {
	s5 := res.States[cycle.CompressorInlet]
	s6 := res.States[cycle.CompressorOutlet]
	s7 := res.States[cycle.CombustorOutlet]
	s8 := res.States[cycle.GasTurbineOutlet]

	heatAddition, err := r.isobar(p.GasFluid, s6.Pressure, s6.Temperature, s7.Temperature)
	if err != nil {
		return err
	}
	// The open cycle closes through the HRSG, the stack and the atmosphere,
	// all at ambient pressure.
	heatRejection, err := r.isobar(p.GasFluid, s5.Pressure, s8.Temperature, s5.Temperature)
	if err != nil {
		return err
	}

	loop := plotter.XYs{
		{X: s5.Entropy / 1e3, Y: s5.Temperature},
		{X: s6.Entropy / 1e3, Y: s6.Temperature},
	}
	loop = append(loop, heatAddition...)
	loop = append(loop, plotter.XY{X: s8.Entropy / 1e3, Y: s8.Temperature})
	loop = append(loop, heatRejection...)

	corners := plotter.XYs{
		{X: s5.Entropy / 1e3, Y: s5.Temperature},
		{X: s6.Entropy / 1e3, Y: s6.Temperature},
		{X: s7.Entropy / 1e3, Y: s7.Temperature},
		{X: s8.Entropy / 1e3, Y: s8.Temperature},
		{X: res.Exhaust.Entropy / 1e3, Y: res.Exhaust.Temperature},
	}

	pl := plot.New()
	pl.Title.Text = "Gas cycle T-s diagram"
	pl.X.Label.Text = "entropy [kJ/(kg K)]"
	pl.Y.Label.Text = "temperature [K]"

	cycleLine, err := plotter.NewLine(loop)
	if err != nil {
		return err
	}
	cycleLine.Color = gasColor

	markers, err := plotter.NewScatter(corners)
	if err != nil {
		return err
	}
	markers.Color = gasColor

	pl.Add(cycleLine, markers, plotter.NewGrid())
	pl.Legend.Add("cycle", cycleLine)
	pl.Legend.Top = true

	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}

// isobar samples entropy along a constant-pressure leg between two
// temperatures.
func (r *Renderer) isobar(fluid props.Fluid, pr, t1, t2 float64) (plotter.XYs, error) {
	pts := make(plotter.XYs, 0, isobarSamples)
	for i := 0; i < isobarSamples; i++ {
		tt := t1 + (t2-t1)*float64(i)/float64(isobarSamples-1)
		s, err := r.provider.Evaluate(fluid, props.Entropy, props.Pressure, pr, props.Temperature, tt)
		if err != nil {
			return nil, err
		}
		pts = append(pts, plotter.XY{X: s / 1e3, Y: tt})
	}
	return pts, nil
}

// steamTS draws the bottoming cycle in the temperature-entropy plane together
// with the saturation dome of the working fluid.
func (r *Renderer) steamTS(path string, p cycle.Params, res *cycle.Result) error {
	dome, err := r.saturationDome(p.SteamFluid)
	if err != nil {
		return err
	}
	path4, err := r.cyclePath(p, res)
	if err != nil {
		return err
	}

	pl := plot.New()
	pl.Title.Text = "Steam cycle T-s diagram"
	pl.X.Label.Text = "entropy [kJ/(kg K)]"
	pl.Y.Label.Text = "temperature [K]"

	domeLine, err := plotter.NewLine(dome)
	if err != nil {
		return err
	}
	domeLine.Color = domeColor
	domeLine.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}

	cycleLine, err := plotter.NewLine(path4)
	if err != nil {
		return err
	}
	cycleLine.Color = steamColor

	markers, err := plotter.NewScatter(path4)
	if err != nil {
		return err
	}
	markers.Color = steamColor

	pl.Add(domeLine, cycleLine, markers, plotter.NewGrid())
	pl.Legend.Add("saturation dome", domeLine)
	pl.Legend.Add("cycle", cycleLine)
	pl.Legend.Top = true

	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}

// saturationDome samples the saturated liquid and vapor lines between the
// triple and critical points, log-spaced in pressure so the low-pressure end
// is well resolved.
func (r *Renderer) saturationDome(fluid props.Fluid) (plotter.XYs, error) {
	trip, err := r.provider.TriplePoint(fluid)
	if err != nil {
		return nil, err
	}
	crit, err := r.provider.CriticalPoint(fluid)
	if err != nil {
		return nil, err
	}

	lo := math.Log(trip.P * 1.001)
	hi := math.Log(crit.P * 0.999)

	liquid := make(plotter.XYs, 0, domeSamples)
	vapor := make(plotter.XYs, 0, domeSamples)
	for i := 0; i < domeSamples; i++ {
		pr := math.Exp(lo + (hi-lo)*float64(i)/float64(domeSamples-1))
		ts, err := r.provider.Evaluate(fluid, props.Temperature, props.Pressure, pr, props.Quality, 0)
		if err != nil {
			return nil, err
		}
		// The simplified saturation curve is anchored at the triple point, so
		// its apex need not coincide with the tabulated critical pressure.
		// Stop at the critical temperature rather than extrapolate past it.
		if ts > crit.T {
			break
		}
		sf, err := r.provider.Evaluate(fluid, props.Entropy, props.Pressure, pr, props.Quality, 0)
		if err != nil {
			return nil, err
		}
		sg, err := r.provider.Evaluate(fluid, props.Entropy, props.Pressure, pr, props.Quality, 1)
		if err != nil {
			return nil, err
		}
		liquid = append(liquid, plotter.XY{X: sf / 1e3, Y: ts})
		vapor = append(vapor, plotter.XY{X: sg / 1e3, Y: ts})
	}

	// One polyline: up the liquid branch, back down the vapor branch.
	dome := liquid
	for i := len(vapor) - 1; i >= 0; i-- {
		dome = append(dome, vapor[i])
	}
	return dome, nil
}

// cyclePath traces the four corner states plus the boiler's saturation
// plateau, closed back on itself.
func (r *Renderer) cyclePath(p cycle.Params, res *cycle.Result) (plotter.XYs, error) {
	tSat, err := r.provider.Evaluate(p.SteamFluid, props.Temperature,
		props.Pressure, p.BoilerPressure, props.Quality, 0)
	if err != nil {
		return nil, err
	}
	sf, err := r.provider.Evaluate(p.SteamFluid, props.Entropy,
		props.Pressure, p.BoilerPressure, props.Quality, 0)
	if err != nil {
		return nil, err
	}
	sg, err := r.provider.Evaluate(p.SteamFluid, props.Entropy,
		props.Pressure, p.BoilerPressure, props.Quality, 1)
	if err != nil {
		return nil, err
	}

	s1 := res.States[cycle.CondenserOutlet]
	s2 := res.States[cycle.PumpOutlet]
	s3 := res.States[cycle.HRSGOutlet]
	s4 := res.States[cycle.SteamTurbineOutlet]

	return plotter.XYs{
		{X: s1.Entropy / 1e3, Y: s1.Temperature},
		{X: s2.Entropy / 1e3, Y: s2.Temperature},
		{X: sf / 1e3, Y: tSat},
		{X: sg / 1e3, Y: tSat},
		{X: s3.Entropy / 1e3, Y: s3.Temperature},
		{X: s4.Entropy / 1e3, Y: s4.Temperature},
		{X: s1.Entropy / 1e3, Y: s1.Temperature},
	}, nil
}

// energyBreakdown draws the signed first-law duty of every component in
// megawatts, with the plant net power alongside. Each balance carries either
// work or heat, never both.
func (r *Renderer) energyBreakdown(path string, _ cycle.Params, res *cycle.Result) error {
	labels := make([]string, 0, len(res.Balances)+1)
	values := make(plotter.Values, 0, len(res.Balances)+1)
	for _, b := range res.Balances {
		labels = append(labels, string(b.Component))
		values = append(values, (b.Work+b.Heat)/1e6)
	}
	labels = append(labels, "net power")
	values = append(values, res.Summary.NetPower/1e6)

	pl := plot.New()
	pl.Title.Text = "Energy balance"
	pl.Y.Label.Text = "work or heat duty [MW]"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = gasColor
	bars.LineStyle.Width = 0

	pl.Add(bars)
	pl.NominalX(labels...)
	pl.X.Tick.Label.Rotation = math.Pi / 5
	pl.X.Tick.Label.YAlign = -0.3
	pl.X.Tick.Label.XAlign = -0.8

	return pl.Save(7*vg.Inch, 4*vg.Inch, path)
}

// exergyBreakdown draws where the incoming exergy ends up: destroyed per
// component, or lost with the condenser heat and the stack gas.
func (r *Renderer) exergyBreakdown(path string, _ cycle.Params, res *cycle.Result) error {
	labels := make([]string, 0, len(res.Balances)+2)
	values := make(plotter.Values, 0, len(res.Balances)+2)
	for _, b := range res.Balances {
		labels = append(labels, string(b.Component))
		values = append(values, b.ExergyDestruction/1e6)
	}
	labels = append(labels, "condenser loss", "exhaust loss")
	values = append(values, res.Summary.CondenserExergyLoss/1e6, res.Summary.ExhaustExergyLoss/1e6)

	pl := plot.New()
	pl.Title.Text = "Exergy destruction and losses"
	pl.Y.Label.Text = "exergy [MW]"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = steamColor
	bars.LineStyle.Width = 0

	pl.Add(bars)
	pl.NominalX(labels...)
	pl.X.Tick.Label.Rotation = math.Pi / 5
	pl.X.Tick.Label.YAlign = -0.3
	pl.X.Tick.Label.XAlign = -0.8

	return pl.Save(7*vg.Inch, 4*vg.Inch, path)
}
