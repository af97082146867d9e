package telegram

import (
	"github.com/go-telegram/bot/models"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/nav"
)

// statsKeyboard offers the map and chart actions below an entity reply.
func (r *Router) statsKeyboard(lang, code string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{
					Text:         r.text.Render(lang, "stats_map", nil),
					CallbackData: nav.MustEncode(nav.ShowMap{Code: code}),
				},
			},
			{
				{
					Text:         r.text.Render(lang, "stats_graph_cases", nil),
					CallbackData: nav.MustEncode(nav.ShowGraph{Code: code}),
				},
				{
					Text:         r.text.Render(lang, "stats_graph_vacc", nil),
					CallbackData: nav.MustEncode(nav.ShowVacc{Code: code}),
				},
			},
		},
	}
}

// listKeyboard builds the paging keyboard: previous/next, jump to first or
// last page, and the sort-menu toggle carrying the current paging state.
func (r *Router) listKeyboard(lang string, pageIndex, limit int, last bool) *models.InlineKeyboardMarkup {
	var navRow []models.InlineKeyboardButton
	if pageIndex > 0 {
		navRow = append(navRow, models.InlineKeyboardButton{
			Text: r.text.Render(lang, "page_left", map[string]interface{}{
				"Page": pageIndex,
			}),
			CallbackData: nav.MustEncode(nav.ListPage{Page: pageIndex - 1, Limit: limit}),
		})
	}
	if !last {
		navRow = append(navRow, models.InlineKeyboardButton{
			Text: r.text.Render(lang, "page_right", map[string]interface{}{
				"Page": pageIndex + 2,
			}),
			CallbackData: nav.MustEncode(nav.ListPage{Page: pageIndex + 1, Limit: limit}),
		})
	}

	keyboard := [][]models.InlineKeyboardButton{navRow}

	if pageIndex > 0 {
		keyboard = append(keyboard, []models.InlineKeyboardButton{
			{
				Text:         r.text.Render(lang, "to_start", nil),
				CallbackData: nav.MustEncode(nav.ListPage{Page: 0, Limit: limit}),
			},
		})
	} else {
		keyboard = append(keyboard, []models.InlineKeyboardButton{
			{
				Text:         r.text.Render(lang, "to_end", nil),
				CallbackData: nav.MustEncode(nav.ListPage{Page: -1, Limit: limit}),
			},
		})
	}

	keyboard = append(keyboard, []models.InlineKeyboardButton{
		{
			Text:         r.text.Render(lang, "sort_order", nil),
			CallbackData: nav.MustEncode(nav.SortMenu{Show: true, Page: pageIndex, Limit: limit, Last: last}),
		},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// sortMenuKeyboard lists every sort key two per row, with a back button
// restoring the paging keyboard.
func (r *Router) sortMenuKeyboard(lang string, pageIndex, limit int, last bool) *models.InlineKeyboardMarkup {
	var keyboard [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton

	for _, key := range domain.SortKeys {
		row = append(row, models.InlineKeyboardButton{
			Text:         r.text.Render(lang, "sort_order_"+string(key), nil),
			CallbackData: nav.MustEncode(nav.SortSelect{Key: key, Limit: limit}),
		})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, []models.InlineKeyboardButton{
		{
			Text:         r.text.Render(lang, "back", nil),
			CallbackData: nav.MustEncode(nav.SortMenu{Show: false, Page: pageIndex, Limit: limit, Last: last}),
		},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
