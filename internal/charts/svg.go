package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Title is the heading drawn on every chart.
const Title = "Real Estate Trends Analysis"

const (
	defaultWidth  = 800
	defaultHeight = 400
	barWidth      = 60
	strokeWidth   = 2
)

// ErrNothingToRender is returned when a plan has no series to draw.
var ErrNothingToRender = errors.New("chart has no series to render")

// Render draws the plan as SVG into w. Series names are escaped, as go-chart writes text into the SVG
// verbatim.
func Render(w io.Writer, p Plan) error {
	if p.Empty() {
		return ErrNothingToRender
	}

	switch p.Form {
	case FormTrend:
		return renderTrend(w, p)
	case FormComparison:
		return renderComparison(w, p)
	default:
		return fmt.Errorf("unknown chart form %d", p.Form)
	}
}

// SVG renders the plan and returns the SVG document.
func SVG(p Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderTrend(w io.Writer, p Plan) error {
	series := make([]chart.Series, 0, len(p.Series))
	lo, hi := math.Inf(1), math.Inf(-1)
	first, last := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			xs[i] = float64(pt.Year)
			ys[i] = pt.Value
			first = math.Min(first, xs[i])
			last = math.Max(last, xs[i])
			lo = math.Min(lo, pt.Value)
			hi = math.Max(hi, pt.Value)
		}

		color := drawing.ColorFromHex(s.Color)
		st := chart.Style{
			StrokeColor: color,
			StrokeWidth: strokeWidth,
			DotColor:    color,
			DotWidth:    3,
		}
		if s.Dashed {
			st.StrokeDashArray = []float64{5, 5}
		}

		series = append(series, chart.ContinuousSeries{
			Name:    html.EscapeString(s.Name),
			XValues: xs,
			YValues: ys,
			Style:   st,
		})
	}

	ch := chart.Chart{
		Title:      Title,
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 10}},
		XAxis:      chart.XAxis{Name: "Year", Ticks: yearTicks(p.Years)},
		YAxis:      chart.YAxis{},
		Series:     series,
	}
	// go-chart refuses zero-width ranges, which flat lines or a single year would give it.
	if lo == hi {
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if first == last {
		ch.XAxis.Range = &chart.ContinuousRange{Min: first - 1, Max: last + 1}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render trend chart: %w", err)
	}
	return nil
}

func renderComparison(w io.Writer, p Plan) error {
	bars := make([]chart.Value, 0, len(p.Series))
	lo, hi := 0.0, 0.0
	for _, s := range p.Series {
		if len(s.Points) == 0 {
			continue
		}
		v := s.Points[0].Value
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)

		color := drawing.ColorFromHex(s.Color)
		bars = append(bars, chart.Value{
			Label: html.EscapeString(s.Name),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return ErrNothingToRender
	}

	// A single bar would give go-chart a zero-height range, so the axis always starts at zero.
	hi *= 1.1
	if hi <= lo {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:      Title,
		Width:      defaultWidth,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Bars:       bars,
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return nil
}

func yearTicks(years []int) []chart.Tick {
	sorted := slices.Clone(years)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ticks := make([]chart.Tick, len(sorted))
	for i, y := range sorted {
		ticks[i] = chart.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	return ticks
}
