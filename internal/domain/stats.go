package domain

import "time"

// StatsRecord is a point-in-time snapshot of case numbers for one entity.
// Optional fields are pointers: they are only present for detailed sources.
// Updated is epoch milliseconds, UTC.
type StatsRecord struct {
	Cases                int64    `json:"cases"`
	Deaths               int64    `json:"deaths"`
	Active               *int64   `json:"active,omitempty"`
	Recovered            *int64   `json:"recovered,omitempty"`
	Vaccinations         *int64   `json:"vaccinations,omitempty"`
	TodayCases           *int64   `json:"todayCases,omitempty"`
	TodayDeaths          *int64   `json:"todayDeaths,omitempty"`
	CasesPerOneMillion   *float64 `json:"casesPerOneMillion,omitempty"`
	DeathsPerOneMillion  *float64 `json:"deathsPerOneMillion,omitempty"`
	TestsPerOneMillion   *float64 `json:"testsPerOneMillion,omitempty"`
	Updated              int64    `json:"updated"`
}

// Detailed reports whether the record came from a detailed source. The
// presence of both active and todayCases is the sentinel.
func (r StatsRecord) Detailed() bool {
	return r.Active != nil && r.TodayCases != nil
}

// UpdatedTime converts the epoch-millisecond timestamp to UTC time.
func (r StatsRecord) UpdatedTime() time.Time {
	return time.UnixMilli(r.Updated).UTC()
}

// SeriesPoint is one dated value in a time series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// CaseSeries holds cumulative case and death curves for one entity.
type CaseSeries struct {
	Cases  []SeriesPoint
	Deaths []SeriesPoint
}

// VaccinationSeries holds the cumulative administered-dose curve.
type VaccinationSeries struct {
	Doses []SeriesPoint
}
