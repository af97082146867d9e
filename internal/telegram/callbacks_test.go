package telegram

import (
	"context"
	"strings"
	"testing"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/nav"
)

func TestCallbackAlwaysAnswersQuery(t *testing.T) {
	fx := newRouterFixture(t)

	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, "garbage token"))

	if len(fx.api.answered) != 1 {
		t.Fatalf("expected callback to be answered, got %d answers", len(fx.api.answered))
	}
	if fx.api.answered[0].CallbackQueryID != "cb-1" {
		t.Fatalf("expected answer for cb-1, got %q", fx.api.answered[0].CallbackQueryID)
	}
}

func TestCallbackUnknownTokenIsDropped(t *testing.T) {
	fx := newRouterFixture(t)

	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, "frobnicate 1 2"))

	if len(fx.api.sent) != 0 || len(fx.api.edits) != 0 || len(fx.api.photos) != 0 {
		t.Fatalf("expected no side effects for unknown token")
	}
}

func TestCallbackListPageEditsInPlace(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = rankedEntries(10)

	token := nav.MustEncode(nav.ListPage{Page: 1, Limit: 4})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))

	if len(fx.api.edits) != 1 {
		t.Fatalf("expected one message edit, got %d", len(fx.api.edits))
	}
	edit := fx.api.edits[0]
	if edit.MessageID != 10 {
		t.Fatalf("expected edit of message 10, got %d", edit.MessageID)
	}
	if got := strings.Count(edit.Text, "`") / 2; got != 4 {
		t.Fatalf("expected 4 items on page 1, got %d", got)
	}
	if edit.ReplyMarkup == nil {
		t.Fatalf("expected paging keyboard on edited message")
	}
}

func TestCallbackLastPageSentinel(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = rankedEntries(10)

	token := nav.MustEncode(nav.ListPage{Page: -1, Limit: 4})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))

	if len(fx.api.edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(fx.api.edits))
	}
	if got := strings.Count(fx.api.edits[0].Text, "`") / 2; got != 2 {
		t.Fatalf("expected 2 remainder items on the last page, got %d", got)
	}
}

func TestCallbackEmptyListPageKeepsKeyboard(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = rankedEntries(10)

	token := nav.MustEncode(nav.ListPage{Page: 9, Limit: 8})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))

	if len(fx.api.edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(fx.api.edits))
	}
	edit := fx.api.edits[0]
	if want := fx.router.text.Render("en", "no_data", nil); edit.Text != want {
		t.Fatalf("expected no-data text, got %q", edit.Text)
	}
	if edit.ReplyMarkup == nil {
		t.Fatalf("expected paging keyboard to survive an empty page")
	}
}

func TestCallbackSortMenuTogglesKeyboardOnly(t *testing.T) {
	fx := newRouterFixture(t)

	show := nav.MustEncode(nav.SortMenu{Show: true, Page: 1, Limit: 4, Last: false})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, show))

	if len(fx.api.markupEdits) != 1 {
		t.Fatalf("expected keyboard edit, got %d", len(fx.api.markupEdits))
	}
	if len(fx.api.edits) != 0 {
		t.Fatalf("expected message text to be untouched")
	}

	hide := nav.MustEncode(nav.SortMenu{Show: false, Page: 1, Limit: 4, Last: false})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, hide))

	if len(fx.api.markupEdits) != 2 {
		t.Fatalf("expected second keyboard edit, got %d", len(fx.api.markupEdits))
	}
}

func TestCallbackSortSelectPersistsAndRerenders(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.list = rankedEntries(10)

	token := nav.MustEncode(nav.SortSelect{Key: domain.SortDeaths, Limit: 4})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))

	if len(fx.prefs.setSortKeys) == 0 || fx.prefs.setSortKeys[0] != domain.SortDeaths {
		t.Fatalf("expected sort key to be persisted, got %v", fx.prefs.setSortKeys)
	}
	if len(fx.api.edits) != 1 {
		t.Fatalf("expected list to be re-rendered, got %d edits", len(fx.api.edits))
	}
	if len(fx.stats.listKeys) == 0 || fx.stats.listKeys[len(fx.stats.listKeys)-1] != domain.SortDeaths {
		t.Fatalf("expected list fetched with new key, got %v", fx.stats.listKeys)
	}
}

func TestCallbackMediaActionsSendNewMessages(t *testing.T) {
	fx := newRouterFixture(t)
	fx.stats.series = &domain.CaseSeries{}
	fx.stats.vaccines = &domain.VaccinationSeries{}

	for _, token := range []string{
		nav.MustEncode(nav.ShowMap{Code: "de"}),
		nav.MustEncode(nav.ShowGraph{Code: "de"}),
		nav.MustEncode(nav.ShowVacc{Code: "de"}),
	} {
		fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))
	}

	if len(fx.api.photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(fx.api.photos))
	}
	if len(fx.api.edits) != 0 {
		t.Fatalf("expected media to be sent as new messages, got %d edits", len(fx.api.edits))
	}
}

func TestCallbackWorldMapAction(t *testing.T) {
	fx := newRouterFixture(t)

	token := nav.MustEncode(nav.ShowMap{Code: domain.WorldCode})
	fx.router.HandleUpdate(context.Background(), fx.api, callbackUpdate(1, 10, token))

	if len(fx.api.photos) != 1 {
		t.Fatalf("expected world map photo, got %d", len(fx.api.photos))
	}
	if !strings.Contains(fx.api.photos[0].Caption, "the World") {
		t.Fatalf("expected world caption, got %q", fx.api.photos[0].Caption)
	}
}
