package telegram

import (
	"context"
	"strings"
	"testing"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/i18n"
)

func TestFormatStatsDetailedFractions(t *testing.T) {
	fx := newRouterFixture(t)

	record := detailedRecord(100, 5, 20, 75, 7, 2)

	text, ok := fx.router.formatStats("en", "Germany", "\U0001F1E9\U0001F1EA", *record, true)
	if !ok {
		t.Fatalf("expected a renderable record")
	}

	for _, want := range []string{"Germany", "5.00%", "20.00%", "75.00%"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in message, got %q", want, text)
		}
	}
	if !strings.Contains(text, "2021-05-03") {
		t.Fatalf("expected UTC update timestamp, got %q", text)
	}
}

func TestFormatStatsZeroCasesIsNotRenderable(t *testing.T) {
	fx := newRouterFixture(t)

	record := domain.StatsRecord{Cases: 0, Deaths: 0, Updated: 1620000000000}

	if text, ok := fx.router.formatStats("en", "Nowhere", "", record, true); ok {
		t.Fatalf("expected zero-case record to be rejected, got %q", text)
	}
}

func TestFormatStatsSimpleTemplateForSparseRecords(t *testing.T) {
	fx := newRouterFixture(t)

	record := domain.StatsRecord{Cases: 50, Deaths: 2, Updated: 1620000000000}

	text, ok := fx.router.formatStats("en", "California", "\U0001F1FA\U0001F1F8", record, false)
	if !ok {
		t.Fatalf("expected simple record to render")
	}

	if !strings.Contains(text, "4.00%") {
		t.Fatalf("expected death fraction, got %q", text)
	}
	if strings.Contains(text, i18n.NaN) {
		t.Fatalf("expected no placeholders in the simple template, got %q", text)
	}
}

func TestFormatStatsAbsentOptionalFieldsRenderPlaceholders(t *testing.T) {
	fx := newRouterFixture(t)

	active := int64(20)
	todayCases := int64(7)
	record := domain.StatsRecord{
		Cases:      100,
		Deaths:     5,
		Active:     &active,
		TodayCases: &todayCases,
		Updated:    1620000000000,
	}

	text, ok := fx.router.formatStats("en", "Germany", "", record, true)
	if !ok {
		t.Fatalf("expected record to render")
	}
	if !strings.Contains(text, i18n.NaN) {
		t.Fatalf("expected NaN placeholder for missing vaccinations, got %q", text)
	}
}

func TestStatusReportWithoutCountryMentionsSetup(t *testing.T) {
	fx := newRouterFixture(t)

	report := fx.router.statusReport(context.Background(), "en", "")

	hint := fx.router.text.Render("en", "no_country_set", nil)
	if !strings.Contains(report, hint) {
		t.Fatalf("expected set-country hint, got %q", report)
	}
}

func TestStatusReportIncludesCountryLine(t *testing.T) {
	fx := newRouterFixture(t)

	report := fx.router.statusReport(context.Background(), "en", "de")

	if !strings.Contains(report, "Germany") {
		t.Fatalf("expected country line, got %q", report)
	}
	if !strings.Contains(report, "/de") {
		t.Fatalf("expected country command hint, got %q", report)
	}
}

func TestStatusReportWorldOutageIsNoData(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.world = nil

	report := fx.router.statusReport(context.Background(), "en", "de")

	noData := fx.router.text.Render("en", "no_data", nil)
	if report != noData {
		t.Fatalf("expected no data report, got %q", report)
	}
}

func TestRenderListPagePagination(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = rankedEntries(10)

	text, resolved, last, empty, err := fx.router.renderListPage(context.Background(), "en", domain.SortCases, -1, 4)
	if err != nil || empty {
		t.Fatalf("expected last page, got err=%v empty=%v", err, empty)
	}
	if resolved != 2 || !last {
		t.Fatalf("expected resolved last page 2, got resolved=%d last=%v", resolved, last)
	}
	if got := strings.Count(text, "`") / 2; got != 2 {
		t.Fatalf("expected 2 remainder items, got %d", got)
	}
}

func TestRenderListPageEmptyCollection(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = nil

	_, _, _, empty, err := fx.router.renderListPage(context.Background(), "en", domain.SortCases, 0, 4)
	if err != nil {
		t.Fatalf("expected empty page without error, got %v", err)
	}
	if !empty {
		t.Fatalf("expected empty page to be reported")
	}
}
