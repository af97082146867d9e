package i18n

import goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

// Message IDs used by the bot. The first token of each sort_order message is
// its icon, reused for list items.
var englishMessages = []*goi18n.Message{
	{ID: "start", Other: "Hello {{.Name}}! 👋\nI can show you up-to-date COVID-19 statistics for the whole world, every country and US and German states.\n\nJust send me a country name, ISO code or flag emoji, or try /help."},
	{ID: "help", Other: "*Commands*\n/world - global statistics\n/today - daily status report\n/list `[order] [limit]` - ranked country list\n/map `[country]` - case map\n/graph `[country]` - case chart\n/vacc `[country]` - vaccination chart\n/setcountry - set your home country\n/subscribe - daily report subscription\n/unsubscribe - stop daily reports\n\nYou can also send a country name, ISO code or flag emoji directly, or use me inline in any chat."},
	{ID: "donate", Other: "This bot is free and ad-free. If it helps you, consider donating to your local public-health charity instead."},
	{ID: "faqs1", Other: "*Where does the data come from?*\nThe numbers are aggregated from official sources (WHO, Johns Hopkins CSSE and national health agencies) by a public statistics API and refreshed several times per hour."},
	{ID: "faqs2", Other: "*Why do numbers differ from my local news?*\nReporting windows differ between countries and agencies. Cumulative counts may be corrected retroactively."},

	{ID: "stats_table", Other: "{{.Icon}} *{{.Name}}*\n🦠 Cases: `{{.Cases}}`\n🤒 Active: `{{.Active}}` ({{.ActivePct}})\n✅ Recovered: `{{.Recovered}}` ({{.RecoveredPct}})\n☠️ Deaths: `{{.Deaths}}` ({{.DeathPct}})\n💉 Vaccine doses: `{{.Vaccinations}}`\n🆕 Today: `{{.TodayCases}}` cases, `{{.TodayDeaths}}` deaths"},
	{ID: "stats_table_more", Other: "🦠 Cases per million: `{{.CasesPerMillion}}`\n☠️ Deaths per million: `{{.DeathsPerMillion}}`\n🧪 Tests per million: `{{.TestsPerMillion}}`"},
	{ID: "stats_table_simple", Other: "{{.Icon}} *{{.Name}}*\n🦠 Cases: `{{.Cases}}`\n☠️ Deaths: `{{.Deaths}}` ({{.DeathPct}})"},
	{ID: "stats_updated", Other: "_Last updated at {{.Timestamp}} UTC_"},

	{ID: "today", Other: "*Daily report - {{.Date}}*\n🌐 Cases: `{{.Cases}}` (+`{{.TodayCases}}` today)\n☠️ Deaths: `{{.Deaths}}` (+`{{.TodayDeaths}}` today)\n💉 Vaccine doses: `{{.Vaccinations}}`"},
	{ID: "today_country", Other: "{{.Icon}} *{{.Name}}*: `{{.Cases}}` cases, `{{.Deaths}}` deaths (+`{{.TodayCases}}`/+`{{.TodayDeaths}}` today), doses `{{.Vaccinations}}` - /{{.Code}}"},
	{ID: "no_country_set", Other: "No home country set for this chat. Use /setcountry to include one here."},
	{ID: "today_footer", Other: "Stay safe! Use /unsubscribe to stop these reports."},

	{ID: "list_header", Other: "*Countries by {{.Order}}*\n"},
	{ID: "sort_order", Other: "🔀 Sort order"},
	{ID: "sort_order_cases", Other: "🦠 Cases"},
	{ID: "sort_order_deaths", Other: "☠️ Deaths"},
	{ID: "sort_order_casesPerOneMillion", Other: "🦠 Cases per million"},
	{ID: "sort_order_deathsPerOneMillion", Other: "☠️ Deaths per million"},
	{ID: "sort_order_todayCases", Other: "🆕 Cases today"},
	{ID: "sort_order_todayDeaths", Other: "📉 Deaths today"},
	{ID: "sort_order_vaccinations", Other: "💉 Vaccine doses"},
	{ID: "page_left", Other: "⬅️ Page {{.Page}}"},
	{ID: "page_right", Other: "Page {{.Page}} ➡️"},
	{ID: "to_start", Other: "⏮ First page"},
	{ID: "to_end", Other: "⏭ Last page"},
	{ID: "back", Other: "🔙 Back"},

	{ID: "stats_map", Other: "🗺 Map"},
	{ID: "stats_graph_cases", Other: "📈 Cases"},
	{ID: "stats_graph_vacc", Other: "💉 Vaccinations"},
	{ID: "map_caption", Other: "{{.Icon}} Current case map of *{{.Name}}*"},

	{ID: "more", Other: "_Get more statistics from this bot._"},

	{ID: "setcountry_start", Other: "Which country should I remember for this chat? Send me a name, ISO code or flag emoji. /cancel to abort."},
	{ID: "setcountry_success", Other: "Done! Your home country is now {{.Icon}} *{{.Name}}*."},
	{ID: "cancel", Other: "Okay, cancelled."},

	{ID: "subscribe", Other: "You are subscribed to the daily report. 📬\nUse /unsubscribe to stop."},
	{ID: "unsubscribe", Other: "You will no longer receive daily reports."},

	{ID: "no_data", Other: "Sorry, there is no data available."},
	{ID: "unknown_place", Other: "I don't know that place. Try a country name, ISO code or flag emoji."},
	{ID: "error_generic", Other: "Something went wrong. Please try again later."},
}
