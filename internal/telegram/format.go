package telegram

import (
	"context"
	"fmt"
	"strings"

	"tg_covid_bot/internal/covid"
	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/i18n"
	"tg_covid_bot/internal/paging"
)

const updatedTimeLayout = "2006-01-02 15:04"

// formatStats renders the message body for one entity snapshot, choosing
// the detailed or simple template from the record's completeness. ok is
// false when the record has a zero case count: fractions cannot be computed
// and the caller must reply with the no-data message instead.
func (r *Router) formatStats(lang, name, icon string, rec domain.StatsRecord, detailed bool) (string, bool) {
	if rec.Cases == 0 {
		return "", false
	}

	deathFraction := float64(rec.Deaths) / float64(rec.Cases)

	var text string
	if rec.Detailed() {
		active := *rec.Active
		recovered := int64(0)
		if rec.Recovered != nil {
			recovered = *rec.Recovered
		}
		todayDeaths := int64(0)
		if rec.TodayDeaths != nil {
			todayDeaths = *rec.TodayDeaths
		}

		activeFraction := float64(active) / float64(rec.Cases)
		recoveredFraction := float64(recovered) / float64(rec.Cases)

		text = r.text.Render(lang, "stats_table", map[string]interface{}{
			"Name":         name,
			"Icon":         icon,
			"Cases":        r.text.FormatInt(lang, rec.Cases),
			"Active":       r.text.FormatInt(lang, active),
			"ActivePct":    r.text.FormatFraction(activeFraction),
			"Recovered":    r.text.FormatInt(lang, recovered),
			"RecoveredPct": r.text.FormatFraction(recoveredFraction),
			"Deaths":       r.text.FormatInt(lang, rec.Deaths),
			"DeathPct":     r.text.FormatFraction(deathFraction),
			"Vaccinations": r.optionalInt(lang, rec.Vaccinations),
			"TodayCases":   r.text.FormatInt(lang, *rec.TodayCases),
			"TodayDeaths":  r.text.FormatInt(lang, todayDeaths),
		})

		if detailed {
			text += "\n" + r.text.Render(lang, "stats_table_more", map[string]interface{}{
				"CasesPerMillion":  r.optionalFloat(lang, rec.CasesPerOneMillion),
				"DeathsPerMillion": r.optionalFloat(lang, rec.DeathsPerOneMillion),
				"TestsPerMillion":  r.optionalFloat(lang, rec.TestsPerOneMillion),
			})
		}
	} else {
		text = r.text.Render(lang, "stats_table_simple", map[string]interface{}{
			"Name":     name,
			"Icon":     icon,
			"Cases":    r.text.FormatInt(lang, rec.Cases),
			"Deaths":   r.text.FormatInt(lang, rec.Deaths),
			"DeathPct": r.text.FormatFraction(deathFraction),
		})
	}

	text += "\n" + r.text.Render(lang, "stats_updated", map[string]interface{}{
		"Timestamp": rec.UpdatedTime().Format(updatedTimeLayout),
	})

	return text, true
}

// statusReport builds the /today text, reused verbatim by the daily
// broadcast. countryCode may be empty.
func (r *Router) statusReport(ctx context.Context, lang, countryCode string) string {
	world, err := r.stats.WorldStats(ctx)
	if err != nil {
		r.logger.WithField("event", "status_report_failed").WithError(err).Warn("world stats fetch failed")
		world = nil
	}
	if world == nil {
		return r.text.Render(lang, "no_data", nil)
	}

	todayCases := int64(0)
	if world.TodayCases != nil {
		todayCases = *world.TodayCases
	}
	todayDeaths := int64(0)
	if world.TodayDeaths != nil {
		todayDeaths = *world.TodayDeaths
	}

	text := r.text.Render(lang, "today", map[string]interface{}{
		"Date":         world.UpdatedTime().Format("2006-01-02"),
		"Cases":        r.text.FormatInt(lang, world.Cases),
		"Deaths":       r.text.FormatInt(lang, world.Deaths),
		"TodayCases":   r.text.FormatInt(lang, todayCases),
		"TodayDeaths":  r.text.FormatInt(lang, todayDeaths),
		"Vaccinations": r.optionalInt(lang, world.Vaccinations),
	})

	if countryCode != "" {
		text += "\n" + r.countryReportLine(ctx, lang, countryCode)
	} else {
		text += "\n_" + r.text.Render(lang, "no_country_set", nil) + "_\n"
	}

	text += "\n" + r.text.Render(lang, "today_footer", nil)

	return text
}

func (r *Router) countryReportLine(ctx context.Context, lang, code string) string {
	record, err := r.stats.CountryStats(ctx, code)
	if err != nil {
		r.logger.WithField("event", "status_report_failed").WithError(err).Warn("country stats fetch failed")
		record = nil
	}
	if record == nil {
		return "_" + r.text.Render(lang, "no_data", nil) + "_"
	}

	name, icon := r.index.DisplayName(code)
	todayCases := int64(0)
	if record.TodayCases != nil {
		todayCases = *record.TodayCases
	}
	todayDeaths := int64(0)
	if record.TodayDeaths != nil {
		todayDeaths = *record.TodayDeaths
	}

	return r.text.Render(lang, "today_country", map[string]interface{}{
		"Icon":         icon,
		"Name":         name,
		"Cases":        r.text.FormatInt(lang, record.Cases),
		"Deaths":       r.text.FormatInt(lang, record.Deaths),
		"TodayCases":   r.text.FormatInt(lang, todayCases),
		"TodayDeaths":  r.text.FormatInt(lang, todayDeaths),
		"Vaccinations": r.optionalInt(lang, record.Vaccinations),
		"Code":         strings.ToLower(code),
	})
}

// renderListPage fetches the ordered collection and renders one page of
// list items. empty reports a valid empty page, not an error.
func (r *Router) renderListPage(ctx context.Context, lang string, key domain.SortKey, pageIndex, limit int) (text string, resolved int, last, empty bool, err error) {
	entries, err := r.stats.CountryList(ctx, key)
	if err != nil {
		return "", 0, false, false, err
	}

	window, resolved, _, hasNext := paging.Page(entries, pageIndex, limit)
	if len(window) == 0 {
		return "", resolved, true, true, nil
	}

	var b strings.Builder
	b.WriteString(r.text.Render(lang, "list_header", map[string]interface{}{
		"Order": r.text.Render(lang, "sort_order_"+string(key), nil),
	}))

	icon := r.text.SortIcon(lang, string(key))
	for _, entry := range window {
		b.WriteString(r.formatListItem(lang, entry, key, icon))
	}

	return b.String(), resolved, !hasNext, false, nil
}

func (r *Router) formatListItem(lang string, entry covid.RankedEntry, key domain.SortKey, icon string) string {
	value := covid.SortValue(entry.Record, key)

	var number string
	switch key {
	case domain.SortCasesPerOneMillion, domain.SortDeathsPerOneMillion:
		number = r.text.FormatFloat(lang, value)
	default:
		number = r.text.FormatInt(lang, int64(value))
	}

	flag := entry.Entity.Flag
	if flag == "" {
		flag = r.flagFor(entry.Entity.Code)
	}

	return fmt.Sprintf("\n%s *%s  -  /%s*  -  %s `%s`\n", flag, entry.Entity.Name, entry.Entity.Code, icon, number)
}

func (r *Router) flagFor(code string) string {
	_, icon := r.index.DisplayName(code)
	return icon
}

func (r *Router) optionalInt(lang string, v *int64) string {
	if v == nil {
		return i18n.NaN
	}
	return r.text.FormatInt(lang, *v)
}

func (r *Router) optionalFloat(lang string, v *float64) string {
	if v == nil {
		return i18n.NaN
	}
	return r.text.FormatFloat(lang, *v)
}
