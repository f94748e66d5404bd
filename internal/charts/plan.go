// Package charts decides how an analysis series is drawn and renders it as SVG. The decision is kept apart
// from the drawing so it can be inspected without parsing any image output.
package charts

import "github.com/MegaGrindStone/estate-analyst-web/internal/models"

// Form is the kind of chart drawn for a series.
type Form int

// Metric identifies which per-area value a series plots.
type Metric string

// Series is one drawn line or bar group.
type Series struct {
	Name   string
	Area   string
	Metric Metric
	Color  string
	Dashed bool
	Points []Point
}

// Point is a single (year, value) pair of a series.
type Point struct {
	Year  int
	Value float64
}

// Plan is the result of picking a chart form for a series and mapping its per-area fields into drawable
// series.
type Plan struct {
	Form   Form
	Series []Series
	Years  []int
}

const (
	// FormNone means nothing is drawn.
	FormNone Form = iota
	// FormTrend draws one line per area and metric across all points.
	FormTrend
	// FormComparison draws one price bar per area for a single point.
	FormComparison
)

const (
	// MetricPrice plots the area's price per square foot.
	MetricPrice Metric = "price"
	// MetricDemand plots the area's demand indicator.
	MetricDemand Metric = "demand"
)

// Palette holds the series colors. Areas pick a color by their position in the area list.
var Palette = [...]string{"#8884d8", "#82ca9d", "#ffc658", "#ff7300", "#0088fe", "#00C49F"}

// demandColorOffset shifts demand lines away from the color of their paired price line.
const demandColorOffset = 3

func (f Form) String() string {
	switch f {
	case FormTrend:
		return "trend"
	case FormComparison:
		return "comparison"
	default:
		return "none"
	}
}

// Empty reports whether the plan draws nothing.
func (p Plan) Empty() bool {
	return p.Form == FormNone || len(p.Series) == 0
}

// Build picks the chart form for points and lays out the series for every area.
//
// More than one point yields the trend form, with a solid price line and a dashed demand line per area.
// A single point yields the comparison form, which only has price bars. In both forms a metric is drawn
// for an area only when the first point carries it.
func Build(points []models.SeriesPoint, areas []string) Plan {
	if len(points) == 0 {
		return Plan{Form: FormNone}
	}

	years := make([]int, len(points))
	for i, p := range points {
		years[i] = p.Year
	}

	first := points[0]

	if len(points) == 1 {
		plan := Plan{Form: FormComparison, Years: years}
		for i, area := range areas {
			price, ok := first.Price(area)
			if !ok {
				continue
			}
			plan.Series = append(plan.Series, Series{
				Name:   area + " Price",
				Area:   area,
				Metric: MetricPrice,
				Color:  paletteColor(i),
				Points: []Point{{Year: first.Year, Value: price}},
			})
		}
		return plan
	}

	plan := Plan{Form: FormTrend, Years: years}
	for i, area := range areas {
		if _, ok := first.Price(area); ok {
			plan.Series = append(plan.Series, Series{
				Name:   area + " Price",
				Area:   area,
				Metric: MetricPrice,
				Color:  paletteColor(i),
				Points: collect(points, func(p models.SeriesPoint) (float64, bool) { return p.Price(area) }),
			})
		}
		if _, ok := first.Demand(area); ok {
			plan.Series = append(plan.Series, Series{
				Name:   area + " Demand",
				Area:   area,
				Metric: MetricDemand,
				Color:  paletteColor(i + demandColorOffset),
				Dashed: true,
				Points: collect(points, func(p models.SeriesPoint) (float64, bool) { return p.Demand(area) }),
			})
		}
	}
	return plan
}

func paletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// collect gathers the points where value is present. Missing values are skipped, not drawn as zero.
func collect(points []models.SeriesPoint, value func(models.SeriesPoint) (float64, bool)) []Point {
	res := make([]Point, 0, len(points))
	for _, p := range points {
		v, ok := value(p)
		if !ok {
			continue
		}
		res = append(res, Point{Year: p.Year, Value: v})
	}
	return res
}
