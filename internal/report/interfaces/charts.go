package interfaces

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"energy-report/internal/analytics/domain/statistic"
	telemetry "energy-report/internal/telemetry/domain"
)

const tickLayout = "15:04"

var (
	markerColor = color.RGBA{R: 220, A: 255}
	energyColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	powerColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// ChartOptions controls chart geometry and label placement.
type ChartOptions struct {
	Width  vg.Length
	Height vg.Length
	// MaxLabelOffsetW lifts the peak label above the marker, in watts.
	MaxLabelOffsetW float64
	// MinLabelOffsetW drops the trough label below the marker, in watts.
	MinLabelOffsetW float64
	// MinLabelShift moves the trough label left along the time axis.
	MinLabelShift time.Duration
}

// DefaultChartOptions mirrors the reference report layout.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:           8 * vg.Inch,
		Height:          4 * vg.Inch,
		MaxLabelOffsetW: 15,
		MinLabelOffsetW: 60,
		MinLabelShift:   150 * 2 * time.Minute,
	}
}

// ChartRenderer draws report charts. Every chart gets its own plot.
type ChartRenderer struct {
	opts ChartOptions
}

// NewChartRenderer constructs a renderer.
func NewChartRenderer(opts ChartOptions) (*ChartRenderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("chart renderer: invalid size")
	}
	return &ChartRenderer{opts: opts}, nil
}

// PowerPlot builds the power curve with annotated extrema.
func (r *ChartRenderer) PowerPlot(title string, series telemetry.Series, extrema statistic.Extrema) (*plot.Plot, error) {
	if series.Len() == 0 {
		return nil, telemetry.ErrNoData
	}
	p := newTimePlot(title, series.Samples[0].At.Location())
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Power [W]"

	line, err := plotter.NewLine(seriesXYs(series))
	if err != nil {
		return nil, fmt.Errorf("power line: %w", err)
	}
	line.LineStyle.Color = powerColor
	p.Add(line)

	markers, err := plotter.NewScatter(plotter.XYs{
		{X: unixSeconds(extrema.Max.At), Y: extrema.Max.Value},
		{X: unixSeconds(extrema.Min.At), Y: extrema.Min.Value},
	})
	if err != nil {
		return nil, fmt.Errorf("extrema markers: %w", err)
	}
	markers.GlyphStyle.Color = markerColor
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(markers)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: unixSeconds(extrema.Max.At), Y: extrema.Max.Value + r.opts.MaxLabelOffsetW},
			{X: unixSeconds(extrema.Min.At.Add(-r.opts.MinLabelShift)), Y: extrema.Min.Value - r.opts.MinLabelOffsetW},
		},
		Labels: []string{extrema.MaxString(), extrema.MinString()},
	})
	if err != nil {
		return nil, fmt.Errorf("extrema labels: %w", err)
	}
	p.Add(labels)
	return p, nil
}

// EnergyPlot builds the cumulative energy curve.
func (r *ChartRenderer) EnergyPlot(title string, series telemetry.Series, energy statistic.EnergySeries) (*plot.Plot, error) {
	if series.Len() == 0 {
		return nil, telemetry.ErrNoData
	}
	if energy.Len() != series.Len() {
		return nil, fmt.Errorf("%w: %d samples, %d energy points", telemetry.ErrRowLength, series.Len(), energy.Len())
	}
	p := newTimePlot(title, series.Samples[0].At.Location())
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Energy [kWh]"

	xys := make(plotter.XYs, series.Len())
	for i, sample := range series.Samples {
		xys[i].X = unixSeconds(sample.At)
		xys[i].Y = energy.KWh[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("energy line: %w", err)
	}
	line.LineStyle.Color = energyColor
	p.Add(line)
	p.Legend.Add("Energy", line)
	p.Legend.Top = true
	return p, nil
}

// RenderPowerChart draws and saves the power chart to path.
func (r *ChartRenderer) RenderPowerChart(path, title string, series telemetry.Series, extrema statistic.Extrema) error {
	p, err := r.PowerPlot(title, series, extrema)
	if err != nil {
		return err
	}
	return p.Save(r.opts.Width, r.opts.Height, path)
}

// RenderEnergyChart draws and saves the energy chart to path.
func (r *ChartRenderer) RenderEnergyChart(path, title string, series telemetry.Series, energy statistic.EnergySeries) error {
	p, err := r.EnergyPlot(title, series, energy)
	if err != nil {
		return err
	}
	return p.Save(r.opts.Width, r.opts.Height, path)
}

func newTimePlot(title string, loc *time.Location) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Tick.Marker = plot.TimeTicks{
		Format: tickLayout,
		Time: func(v float64) time.Time {
			return time.Unix(int64(v), 0).In(loc)
		},
	}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.Add(plotter.NewGrid())
	return p
}

func seriesXYs(series telemetry.Series) plotter.XYs {
	xys := make(plotter.XYs, series.Len())
	for i, sample := range series.Samples {
		xys[i].X = unixSeconds(sample.At)
		xys[i].Y = sample.PowerW
	}
	return xys
}

func unixSeconds(at time.Time) float64 {
	return float64(at.Unix())
}
