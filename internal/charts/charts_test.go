package charts_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/MegaGrindStone/estate-analyst-web/internal/charts"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(t *testing.T, data string) []models.SeriesPoint {
	t.Helper()
	var res []models.SeriesPoint
	require.NoError(t, json.Unmarshal([]byte(data), &res))
	return res
}

func TestBuildEmpty(t *testing.T) {
	plan := charts.Build(nil, []string{"wakad"})
	assert.Equal(t, charts.FormNone, plan.Form)
	assert.True(t, plan.Empty())

	err := charts.Render(&bytes.Buffer{}, plan)
	assert.ErrorIs(t, err, charts.ErrNothingToRender)
}

func TestBuildComparisonSinglePoint(t *testing.T) {
	plan := charts.Build(points(t, `[{"year":2020,"wakad_price":100}]`), []string{"wakad"})

	assert.Equal(t, charts.FormComparison, plan.Form)
	require.Len(t, plan.Series, 1)

	bar := plan.Series[0]
	assert.Equal(t, "wakad Price", bar.Name)
	assert.Equal(t, charts.MetricPrice, bar.Metric)
	assert.Equal(t, charts.Palette[0], bar.Color)
	assert.False(t, bar.Dashed)
	assert.Equal(t, []charts.Point{{Year: 2020, Value: 100}}, bar.Points)
}

func TestBuildComparisonDropsDemand(t *testing.T) {
	plan := charts.Build(
		points(t, `[{"year":2020,"a_price":1,"a_demand":2,"b_demand":5}]`),
		[]string{"a", "b"},
	)

	assert.Equal(t, charts.FormComparison, plan.Form)
	require.Len(t, plan.Series, 1)
	assert.Equal(t, charts.MetricPrice, plan.Series[0].Metric)
	assert.Equal(t, "a", plan.Series[0].Area)
}

func TestBuildTrend(t *testing.T) {
	plan := charts.Build(
		points(t, `[{"year":2020,"a_price":1,"a_demand":2},{"year":2021,"a_price":3,"a_demand":4}]`),
		[]string{"a"},
	)

	assert.Equal(t, charts.FormTrend, plan.Form)
	require.Len(t, plan.Series, 2)

	price, demand := plan.Series[0], plan.Series[1]

	assert.Equal(t, "a Price", price.Name)
	assert.False(t, price.Dashed)
	assert.Equal(t, charts.Palette[0], price.Color)
	assert.Equal(t, []charts.Point{{Year: 2020, Value: 1}, {Year: 2021, Value: 3}}, price.Points)

	assert.Equal(t, "a Demand", demand.Name)
	assert.True(t, demand.Dashed)
	assert.Equal(t, charts.Palette[3], demand.Color)
	assert.Equal(t, []charts.Point{{Year: 2020, Value: 2}, {Year: 2021, Value: 4}}, demand.Points)
}

func TestBuildTrendPresenceFromFirstPoint(t *testing.T) {
	plan := charts.Build(
		points(t, `[
			{"year":2020,"a_price":1},
			{"year":2021,"a_price":2,"a_demand":9,"c_price":7},
			{"year":2022,"a_demand":10}
		]`),
		[]string{"a", "b", "c"},
	)

	assert.Equal(t, charts.FormTrend, plan.Form)
	require.Len(t, plan.Series, 1, "only metrics present on the first point are drawn")
	assert.Equal(t, "a Price", plan.Series[0].Name)
	assert.Equal(t, []charts.Point{{Year: 2020, Value: 1}, {Year: 2021, Value: 2}}, plan.Series[0].Points)
}

func TestBuildPaletteWraps(t *testing.T) {
	areas := []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6"}
	var sb bytes.Buffer
	sb.WriteString(`[{"year":2020`)
	for _, a := range areas {
		sb.WriteString(`,"` + a + `_price":1,"` + a + `_demand":1`)
	}
	sb.WriteString(`},{"year":2021}]`)

	plan := charts.Build(points(t, sb.String()), areas)
	require.Len(t, plan.Series, 14)

	// a6 wraps onto the first color; its demand line is shifted by three.
	assert.Equal(t, charts.Palette[0], plan.Series[12].Color)
	assert.Equal(t, charts.Palette[3], plan.Series[13].Color)
	// a4's demand line wraps past the end of the palette.
	assert.Equal(t, charts.Palette[1], plan.Series[9].Color)
}

func TestRenderSVG(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		areas []string
		form  charts.Form
	}{
		{
			name:  "comparison",
			data:  `[{"year":2020,"wakad_price":100,"aundh_price":120}]`,
			areas: []string{"wakad", "aundh"},
			form:  charts.FormComparison,
		},
		{
			name:  "trend",
			data:  `[{"year":2020,"a_price":1,"a_demand":2},{"year":2021,"a_price":3,"a_demand":4}]`,
			areas: []string{"a"},
			form:  charts.FormTrend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := charts.Build(points(t, tt.data), tt.areas)
			require.Equal(t, tt.form, plan.Form)

			svg, err := charts.SVG(plan)
			require.NoError(t, err)
			assert.Contains(t, string(svg), "<svg")
			assert.Contains(t, string(svg), charts.Title)
		})
	}
}

func TestRenderNoDrawableSeries(t *testing.T) {
	plan := charts.Build(points(t, `[{"year":2020,"wakad_demand":3}]`), []string{"wakad"})

	assert.Equal(t, charts.FormComparison, plan.Form)
	assert.True(t, plan.Empty())

	_, err := charts.SVG(plan)
	assert.ErrorIs(t, err, charts.ErrNothingToRender)
}

func TestRenderFlatTrend(t *testing.T) {
	plan := charts.Build(points(t, `[{"year":2020,"wakad_price":100},{"year":2021,"wakad_price":100}]`), []string{"wakad"})
	require.Equal(t, charts.FormTrend, plan.Form)

	svg, err := charts.SVG(plan)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "wakad Price")
}

func TestRenderEscapesNames(t *testing.T) {
	for _, data := range []string{
		`[{"year":2020,"a<b>_price":1}]`,
		`[{"year":2020,"a<b>_price":1},{"year":2021,"a<b>_price":2}]`,
	} {
		plan := charts.Build(points(t, data), []string{"a<b>"})
		svg, err := charts.SVG(plan)
		require.NoError(t, err)
		assert.Contains(t, string(svg), "a&lt;b&gt;")
		assert.NotContains(t, string(svg), "<b>")
	}
}

func TestRenderTrendWithinOneYear(t *testing.T) {
	plan := charts.Build(points(t, `[{"year":2020,"wakad_price":100},{"year":2020,"wakad_price":120}]`), []string{"wakad"})
	require.Equal(t, charts.FormTrend, plan.Form)

	svg, err := charts.SVG(plan)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "wakad Price")
	assert.Contains(t, string(svg), "2020")
}
