package types

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/zeu5/dropmind/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// MovingAverageWindow is the largest window used when smoothing series
const MovingAverageWindow = 100

var outcomeColors = []color.Color{
	color.RGBA{G: 128, A: 255},
	color.RGBA{R: 200, A: 255},
	color.RGBA{B: 200, A: 255},
}

// OutcomeLabels names the win, loss and draw series in the legends
type OutcomeLabels [3]string

var (
	SelfPlayLabels = OutcomeLabels{"Primary Agent", "Opponent Agent", "Draws"}
	SoloLabels     = OutcomeLabels{"Wins", "Losses", "Draws"}
)

// MovingAverage returns the mean of every full window of values.
// The window shrinks to len(values) for short series.
func MovingAverage(values []float64, window int) []float64 {
	if window > len(values) {
		window = len(values)
	}
	if window <= 0 {
		return []float64{}
	}
	out := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

func cumulative(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func points(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	return pts
}

func newPanel(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func addLine(p *plot.Plot, name string, c color.Color, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	line, err := plotter.NewLine(points(values))
	if err != nil {
		return err
	}
	line.Color = c
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
	return nil
}

func historyPanels(h *History, labels OutcomeLabels) ([][]*plot.Plot, error) {
	window := MovingAverageWindow
	var err error
	check := func(e error) {
		if err == nil {
			err = e
		}
	}

	rewards := newPanel("Rewards per Episode", "Episode", "Total Reward")
	check(addLine(rewards, "", plotutil.Color(0), h.Rewards))
	check(addLine(rewards, "", plotutil.Color(1), MovingAverage(h.Rewards, window)))

	rates := newPanel("Outcome Rates (Moving Average)", "Episode", "Rate")
	rates.Y.Min, rates.Y.Max = 0, 1
	for i, series := range [][]float64{h.Wins, h.Losses, h.Draws} {
		check(addLine(rates, labels[i], plotutil.Color(i), MovingAverage(series, window)))
	}

	outcomes := newPanel("Cumulative Game Outcomes", "Episode", "Count")
	outcomes.Legend.Top = true
	outcomes.Legend.Left = true
	for i, series := range [][]float64{h.Wins, h.Losses, h.Draws} {
		check(addLine(outcomes, labels[i], outcomeColors[i], cumulative(series)))
	}

	sizes := newPanel("Q-table Size Growth", "Episode", "Number of States")
	check(addLine(sizes, "", plotutil.Color(0), toFloats(h.TableSizes)))

	epsilons := newPanel("Exploration Rate Decay", "Episode", "Epsilon")
	epsilons.Y.Min, epsilons.Y.Max = 0, 1
	check(addLine(epsilons, "", plotutil.Color(0), h.Epsilons))

	var last *plot.Plot
	if h.Ratings != nil {
		last = newPanel("ELO Rating Progression", "Episode", "ELO Rating")
		check(addLine(last, "", plotutil.Color(0), h.Ratings))
	} else {
		last = newPanel("Invalid Moves per Episode", "Episode", "Invalid Moves")
		check(addLine(last, "", plotutil.Color(0), toFloats(h.InvalidMoves)))
	}

	return [][]*plot.Plot{
		{rewards, rates},
		{outcomes, sizes},
		{epsilons, last},
	}, err
}

// PlotHistory renders the six metric panels of a run into a PNG file
func PlotHistory(h *History, labels OutcomeLabels, path string) error {
	if h.Len() == 0 {
		return nil
	}
	panels, err := historyPanels(h, labels)
	if err != nil {
		return fmt.Errorf("building plots: %w", err)
	}

	img := vgimg.New(15*vg.Inch, 12*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      3,
		Cols:      2,
		PadX:      8 * vg.Millimeter,
		PadY:      8 * vg.Millimeter,
		PadTop:    4 * vg.Millimeter,
		PadBottom: 4 * vg.Millimeter,
		PadLeft:   4 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	canvases := plot.Align(panels, tiles, dc)
	for j := range panels {
		for i := range panels[j] {
			panels[j][i].Draw(canvases[j][i])
		}
	}

	buf := new(bytes.Buffer)
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(buf); err != nil {
		return fmt.Errorf("rendering plot: %w", err)
	}
	return util.WriteFileAtomic(path, buf.Bytes())
}
