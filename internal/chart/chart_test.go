package chart

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"tg_covid_bot/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func samplePoints(n int, start float64) []domain.SeriesPoint {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.SeriesPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, domain.SeriesPoint{
			Date:  base.AddDate(0, 0, i),
			Value: start + float64(i*10),
		})
	}
	return points
}

func TestRenderTimeseriesProducesPNG(t *testing.T) {
	series := &domain.CaseSeries{
		Cases:  samplePoints(30, 100),
		Deaths: samplePoints(30, 5),
	}

	png, err := RenderTimeseries(series)
	if err != nil {
		t.Fatalf("expected chart, got error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG output, got %d bytes starting with %v", len(png), png[:4])
	}
}

func TestRenderTimeseriesRejectsEmptySeries(t *testing.T) {
	for _, series := range []*domain.CaseSeries{nil, {}} {
		if _, err := RenderTimeseries(series); !errors.Is(err, ErrEmptySeries) {
			t.Fatalf("expected ErrEmptySeries, got %v", err)
		}
	}
}

func TestRenderVaccinationSeriesProducesPNG(t *testing.T) {
	series := &domain.VaccinationSeries{Doses: samplePoints(30, 1000)}

	png, err := RenderVaccinationSeries(series)
	if err != nil {
		t.Fatalf("expected chart, got error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderVaccinationSeriesRejectsEmptySeries(t *testing.T) {
	if _, err := RenderVaccinationSeries(&domain.VaccinationSeries{}); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestRendererAdapterDelegates(t *testing.T) {
	var r Renderer

	if _, err := r.RenderTimeseries(nil); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected adapter to delegate, got %v", err)
	}

	png, err := r.RenderVaccinationSeries(&domain.VaccinationSeries{Doses: samplePoints(10, 1)})
	if err != nil || !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG from adapter, got err=%v", err)
	}
}

func TestCompactValueFormatter(t *testing.T) {
	cases := map[float64]string{
		999:        "999",
		1200:       "1k",
		2000000:    "2.0M",
		3500000000: "3.5B",
	}
	for in, want := range cases {
		if got := compactValueFormatter(in); got != want {
			t.Fatalf("compactValueFormatter(%v) = %q, want %q", in, got, want)
		}
	}

	if got := compactValueFormatter("text"); got != "" {
		t.Fatalf("expected empty label for non-numeric value, got %q", got)
	}
}
