package domain

// SortKey selects the field a country list is ordered by. Values match the
// data provider's field names so they can be passed through unmodified.
type SortKey string

const (
	SortCases               SortKey = "cases"
	SortDeaths              SortKey = "deaths"
	SortCasesPerOneMillion  SortKey = "casesPerOneMillion"
	SortDeathsPerOneMillion SortKey = "deathsPerOneMillion"
	SortTodayCases          SortKey = "todayCases"
	SortTodayDeaths         SortKey = "todayDeaths"
	SortVaccinations        SortKey = "vaccinations"
)

// SortKeys lists every valid key in menu display order. The first entry is
// the default for conversations without a stored preference.
var SortKeys = []SortKey{
	SortCases,
	SortDeaths,
	SortCasesPerOneMillion,
	SortDeathsPerOneMillion,
	SortTodayCases,
	SortTodayDeaths,
	SortVaccinations,
}

// DefaultSortKey is used when a conversation has no stored preference.
const DefaultSortKey = SortCases

// ParseSortKey validates a raw token against the known key set.
func ParseSortKey(raw string) (SortKey, bool) {
	for _, key := range SortKeys {
		if string(key) == raw {
			return key, true
		}
	}
	return "", false
}

// Vaccination reports whether the key orders by vaccination counts, which
// the data provider serves from a separate endpoint.
func (k SortKey) Vaccination() bool {
	return k == SortVaccinations
}
