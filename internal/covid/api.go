package covid

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/logging"
)

const (
	pathAll              = "/v3/covid-19/all"
	pathCountries        = "/v3/covid-19/countries"
	pathStates           = "/v3/covid-19/states"
	pathGermanStates     = "/v3/covid-19/gov/Germany"
	pathHistoricalAll    = "/v3/covid-19/historical/all?lastdays=all"
	pathHistorical       = "/v3/covid-19/historical/"
	pathVaccWorld        = "/v3/covid-19/vaccine/coverage?lastdays="
	pathVaccCountries    = "/v3/covid-19/vaccine/coverage/countries?lastdays=1"
	pathVaccCountry      = "/v3/covid-19/vaccine/coverage/countries/"
	historicalDateLayout = "1/2/06"
)

// RankedEntry is one row of an ordered country list.
type RankedEntry struct {
	Entity domain.Entity
	Record domain.StatsRecord
}

type countryInfoJSON struct {
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
	Flag string `json:"flag"`
}

type countryJSON struct {
	Country     string          `json:"country"`
	CountryInfo countryInfoJSON `json:"countryInfo"`
	domain.StatsRecord
}

type stateJSON struct {
	State   string `json:"state"`
	Cases   int64  `json:"cases"`
	Deaths  int64  `json:"deaths"`
	Updated int64  `json:"updated"`
}

type germanStateJSON struct {
	Province string `json:"province"`
	Cases    int64  `json:"cases"`
	Deaths   int64  `json:"deaths"`
	Updated  int64  `json:"updated"`
}

type coverageCountryJSON struct {
	Country  string           `json:"country"`
	Timeline map[string]int64 `json:"timeline"`
}

type historicalTimelineJSON struct {
	Cases  map[string]int64 `json:"cases"`
	Deaths map[string]int64 `json:"deaths"`
}

type historicalCountryJSON struct {
	Country  string                 `json:"country"`
	Timeline historicalTimelineJSON `json:"timeline"`
}

// Countries loads the country reference table. Entries without an ISO2 code
// (cruise ships and similar) are skipped.
func (c *Client) Countries(ctx context.Context) ([]domain.Entity, error) {
	var raw []countryJSON
	found, err := c.getJSON(ctx, pathCountries, &raw)
	if err != nil || !found {
		return nil, err
	}

	entities := make([]domain.Entity, 0, len(raw))
	for _, item := range raw {
		if item.CountryInfo.ISO2 == "" {
			continue
		}
		entities = append(entities, domain.Entity{
			Code: strings.ToLower(item.CountryInfo.ISO2),
			Name: item.Country,
			ISO3: item.CountryInfo.ISO3,
			Flag: "",
		})
	}

	return entities, nil
}

// USStates loads the US state name list.
func (c *Client) USStates(ctx context.Context) ([]string, error) {
	var raw []stateJSON
	found, err := c.getJSON(ctx, pathStates, &raw)
	if err != nil || !found {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if item.State != "" {
			names = append(names, item.State)
		}
	}

	return names, nil
}

// GermanStates loads the German state name list.
func (c *Client) GermanStates(ctx context.Context) ([]string, error) {
	var raw []germanStateJSON
	found, err := c.getJSON(ctx, pathGermanStates, &raw)
	if err != nil || !found {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if item.Province != "" && !strings.EqualFold(item.Province, "total") {
			names = append(names, item.Province)
		}
	}

	return names, nil
}

// WorldStats returns the global aggregate snapshot, enriched with the
// latest vaccination count when the coverage endpoint has one.
func (c *Client) WorldStats(ctx context.Context) (*domain.StatsRecord, error) {
	var record domain.StatsRecord
	found, err := c.getJSON(ctx, pathAll, &record)
	if err != nil || !found {
		return nil, err
	}

	c.attachWorldVaccinations(ctx, &record)
	return &record, nil
}

// CountryStats returns the snapshot for one country code.
func (c *Client) CountryStats(ctx context.Context, code string) (*domain.StatsRecord, error) {
	var raw countryJSON
	found, err := c.getJSON(ctx, pathCountries+"/"+url.PathEscape(code), &raw)
	if err != nil || !found {
		return nil, err
	}

	record := raw.StatsRecord
	c.attachCountryVaccinations(ctx, code, &record)
	return &record, nil
}

// USStateStats returns the simple snapshot for a US state.
func (c *Client) USStateStats(ctx context.Context, name string) (*domain.StatsRecord, error) {
	var raw stateJSON
	found, err := c.getJSON(ctx, pathStates+"/"+url.PathEscape(name), &raw)
	if err != nil || !found {
		return nil, err
	}

	return simpleRecord(raw.Cases, raw.Deaths, raw.Updated), nil
}

// GermanStateStats returns the simple snapshot for a German state.
func (c *Client) GermanStateStats(ctx context.Context, name string) (*domain.StatsRecord, error) {
	var raw []germanStateJSON
	found, err := c.getJSON(ctx, pathGermanStates, &raw)
	if err != nil || !found {
		return nil, err
	}

	for _, item := range raw {
		if strings.EqualFold(item.Province, name) {
			return simpleRecord(item.Cases, item.Deaths, item.Updated), nil
		}
	}

	return nil, nil
}

// CountryList returns the full country collection ordered descending by the
// sort key. Vaccination ordering is served from the coverage endpoint and
// sorted client-side; everything else is ordered by the API.
func (c *Client) CountryList(ctx context.Context, key domain.SortKey) ([]RankedEntry, error) {
	if key.Vaccination() {
		return c.vaccinationLeaders(ctx)
	}

	var raw []countryJSON
	found, err := c.getJSON(ctx, pathCountries+"?sort="+url.QueryEscape(string(key)), &raw)
	if err != nil || !found {
		return nil, err
	}

	entries := make([]RankedEntry, 0, len(raw))
	for _, item := range raw {
		if item.CountryInfo.ISO2 == "" {
			continue
		}
		entries = append(entries, RankedEntry{
			Entity: domain.Entity{
				Code: strings.ToLower(item.CountryInfo.ISO2),
				Name: item.Country,
				ISO3: item.CountryInfo.ISO3,
			},
			Record: item.StatsRecord,
		})
	}

	return entries, nil
}

// vaccinationLeaders joins the country reference with the latest coverage
// numbers and orders the result descending by administered doses.
func (c *Client) vaccinationLeaders(ctx context.Context) ([]RankedEntry, error) {
	countries, err := c.countriesByName(ctx)
	if err != nil {
		return nil, err
	}

	var coverage []coverageCountryJSON
	found, err := c.getJSON(ctx, pathVaccCountries, &coverage)
	if err != nil || !found {
		return nil, err
	}

	entries := make([]RankedEntry, 0, len(coverage))
	for _, item := range coverage {
		ent, ok := countries[strings.ToLower(item.Country)]
		if !ok {
			continue
		}
		doses := latestValue(item.Timeline)
		if doses == 0 {
			continue
		}
		vacc := doses
		entries = append(entries, RankedEntry{
			Entity: ent,
			Record: domain.StatsRecord{Vaccinations: &vacc},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return *entries[i].Record.Vaccinations > *entries[j].Record.Vaccinations
	})

	return entries, nil
}

// Timeseries returns the historical case and death curves. An empty code
// selects the global aggregate.
func (c *Client) Timeseries(ctx context.Context, code string) (*domain.CaseSeries, error) {
	if code == "" || code == domain.WorldCode {
		var raw historicalTimelineJSON
		found, err := c.getJSON(ctx, pathHistoricalAll, &raw)
		if err != nil || !found {
			return nil, err
		}
		return caseSeries(raw), nil
	}

	var raw historicalCountryJSON
	found, err := c.getJSON(ctx, pathHistorical+url.PathEscape(code)+"?lastdays=all", &raw)
	if err != nil || !found {
		return nil, err
	}
	return caseSeries(raw.Timeline), nil
}

// VaccinationSeries returns the cumulative administered-dose curve. An empty
// code selects the global aggregate.
func (c *Client) VaccinationSeries(ctx context.Context, code string) (*domain.VaccinationSeries, error) {
	if code == "" || code == domain.WorldCode {
		var raw map[string]int64
		found, err := c.getJSON(ctx, pathVaccWorld+"all", &raw)
		if err != nil || !found {
			return nil, err
		}
		return &domain.VaccinationSeries{Doses: seriesPoints(raw)}, nil
	}

	var raw coverageCountryJSON
	found, err := c.getJSON(ctx, pathVaccCountry+url.PathEscape(code)+"?lastdays=all", &raw)
	if err != nil || !found {
		return nil, err
	}
	return &domain.VaccinationSeries{Doses: seriesPoints(raw.Timeline)}, nil
}

func (c *Client) countriesByName(ctx context.Context) (map[string]domain.Entity, error) {
	var raw []countryJSON
	found, err := c.getJSON(ctx, pathCountries, &raw)
	if err != nil || !found {
		return nil, err
	}

	byName := make(map[string]domain.Entity, len(raw))
	for _, item := range raw {
		if item.CountryInfo.ISO2 == "" {
			continue
		}
		byName[strings.ToLower(item.Country)] = domain.Entity{
			Code: strings.ToLower(item.CountryInfo.ISO2),
			Name: item.Country,
			ISO3: item.CountryInfo.ISO3,
		}
	}

	return byName, nil
}

// attachWorldVaccinations is best effort: a missing coverage value leaves
// the record without vaccinations rather than failing the stats request.
func (c *Client) attachWorldVaccinations(ctx context.Context, record *domain.StatsRecord) {
	var raw map[string]int64
	found, err := c.getJSON(ctx, pathVaccWorld+"1", &raw)
	if err != nil || !found {
		if err != nil {
			c.logger.WithField("event", "covid_vacc_lookup_failed").WithError(err).Debug("world vaccination lookup failed")
		}
		return
	}

	if doses := latestValue(raw); doses > 0 {
		record.Vaccinations = &doses
	}
}

func (c *Client) attachCountryVaccinations(ctx context.Context, code string, record *domain.StatsRecord) {
	var raw coverageCountryJSON
	found, err := c.getJSON(ctx, pathVaccCountry+url.PathEscape(code)+"?lastdays=1", &raw)
	if err != nil || !found {
		if err != nil {
			c.logger.WithFields(logging.Fields{
				"event":  "covid_vacc_lookup_failed",
				"entity": code,
			}).WithError(err).Debug("country vaccination lookup failed")
		}
		return
	}

	if doses := latestValue(raw.Timeline); doses > 0 {
		record.Vaccinations = &doses
	}
}

func simpleRecord(cases, deaths, updated int64) *domain.StatsRecord {
	if updated == 0 {
		updated = time.Now().UTC().UnixMilli()
	}
	return &domain.StatsRecord{Cases: cases, Deaths: deaths, Updated: updated}
}

func caseSeries(raw historicalTimelineJSON) *domain.CaseSeries {
	return &domain.CaseSeries{
		Cases:  seriesPoints(raw.Cases),
		Deaths: seriesPoints(raw.Deaths),
	}
}

// seriesPoints converts the API's date-keyed map into a date-ordered slice.
func seriesPoints(raw map[string]int64) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(raw))
	for dateKey, value := range raw {
		date, err := time.Parse(historicalDateLayout, dateKey)
		if err != nil {
			continue
		}
		points = append(points, domain.SeriesPoint{Date: date, Value: float64(value)})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// latestValue returns the value for the most recent date key in a coverage
// timeline.
func latestValue(timeline map[string]int64) int64 {
	var latest time.Time
	var value int64
	for dateKey, v := range timeline {
		date, err := time.Parse(historicalDateLayout, dateKey)
		if err != nil {
			continue
		}
		if latest.IsZero() || date.After(latest) {
			latest = date
			value = v
		}
	}
	return value
}

// SortValue extracts the field a list is ordered by, for rendering list
// items. Absent optional fields render as zero.
func SortValue(record domain.StatsRecord, key domain.SortKey) float64 {
	switch key {
	case domain.SortCases:
		return float64(record.Cases)
	case domain.SortDeaths:
		return float64(record.Deaths)
	case domain.SortCasesPerOneMillion:
		return deref(record.CasesPerOneMillion)
	case domain.SortDeathsPerOneMillion:
		return deref(record.DeathsPerOneMillion)
	case domain.SortTodayCases:
		return float64(derefInt(record.TodayCases))
	case domain.SortTodayDeaths:
		return float64(derefInt(record.TodayDeaths))
	case domain.SortVaccinations:
		return float64(derefInt(record.Vaccinations))
	}
	return 0
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
