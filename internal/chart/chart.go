// Package chart renders statistics time series as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"tg_covid_bot/internal/domain"
)

// ErrEmptySeries is returned when there are no points to plot. Callers
// surface it as "no data".
var ErrEmptySeries = errors.New("no points to plot")

// Renderer adapts the package functions to the renderer contract the
// telegram router consumes.
type Renderer struct{}

func (Renderer) RenderTimeseries(series *domain.CaseSeries) ([]byte, error) {
	return RenderTimeseries(series)
}

func (Renderer) RenderVaccinationSeries(series *domain.VaccinationSeries) ([]byte, error) {
	return RenderVaccinationSeries(series)
}

const (
	chartWidth  = 1024
	chartHeight = 560
)

var (
	caseColor  = drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	deathColor = drawing.Color{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	doseColor  = drawing.Color{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// RenderTimeseries plots cumulative cases and deaths over time.
func RenderTimeseries(series *domain.CaseSeries) ([]byte, error) {
	if series == nil || len(series.Cases) == 0 {
		return nil, ErrEmptySeries
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: compactValueFormatter,
		},
		Series: []chart.Series{
			timeSeries("Cases", series.Cases, caseColor),
			timeSeries("Deaths", series.Deaths, deathColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(graph)
}

// RenderVaccinationSeries plots cumulative administered doses over time.
func RenderVaccinationSeries(series *domain.VaccinationSeries) ([]byte, error) {
	if series == nil || len(series.Doses) == 0 {
		return nil, ErrEmptySeries
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: compactValueFormatter,
		},
		Series: []chart.Series{
			timeSeries("Vaccine doses", series.Doses, doseColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(graph)
}

func timeSeries(name string, points []domain.SeriesPoint, color drawing.Color) chart.TimeSeries {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date
		ys[i] = p.Value
	}

	return chart.TimeSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2.0,
		},
	}
}

func renderPNG(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// compactValueFormatter shortens large axis labels (1.2M instead of
// 1200000).
func compactValueFormatter(v interface{}) string {
	value, ok := v.(float64)
	if !ok {
		return ""
	}

	switch {
	case value >= 1e9:
		return fmt.Sprintf("%.1fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("%.1fM", value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("%.0fk", value/1e3)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}
