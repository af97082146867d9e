package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_covid_bot/internal/logging"
	"tg_covid_bot/internal/nav"
)

// handleCallback answers the query first so the client stops its spinner,
// then performs the decoded navigation action. Tokens that fail to decode
// are acknowledged and dropped.
func (r *Router) handleCallback(ctx context.Context, tg api, cq *models.CallbackQuery) {
	if _, err := tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
	}); err != nil {
		r.logger.WithField("event", "callback_answer_failed").WithError(err).Warn("failed to answer callback query")
	}

	chatID := messageChatID(cq.Message)
	if chatID == 0 {
		return
	}
	msgID := messageID(cq.Message)
	lang := r.lang(&cq.From)

	action, ok := nav.Decode(cq.Data)
	if !ok {
		r.logger.WithFields(logging.Fields{
			"event":   "callback_token_invalid",
			"chat_id": chatID,
		}).Warn(cq.Data)
		return
	}

	switch a := action.(type) {
	case nav.ListPage:
		r.showListPage(ctx, tg, chatID, msgID, lang, a.Page, a.Limit)

	case nav.SortMenu:
		var keyboard *models.InlineKeyboardMarkup
		if a.Show {
			keyboard = r.sortMenuKeyboard(lang, a.Page, a.Limit, a.Last)
		} else {
			keyboard = r.listKeyboard(lang, a.Page, a.Limit, a.Last)
		}
		r.editKeyboard(ctx, tg, chatID, msgID, keyboard)

	case nav.SortSelect:
		if err := r.prefs.SetSortKey(ctx, chatID, a.Key); err != nil {
			r.logPrefError(chatID, err)
		}
		r.showListPage(ctx, tg, chatID, msgID, lang, 0, a.Limit)

	case nav.ShowMap:
		r.sendMap(ctx, tg, chatID, lang, a.Code)

	case nav.ShowGraph:
		r.sendTimeseriesChart(ctx, tg, chatID, lang, a.Code)

	case nav.ShowVacc:
		r.sendVaccinationChart(ctx, tg, chatID, lang, a.Code)
	}
}

// showListPage re-renders the list message in place with the chat's stored
// sort order.
func (r *Router) showListPage(ctx context.Context, tg api, chatID int64, msgID int, lang string, pageIndex, limit int) {
	key := r.resolveSortKey(ctx, chatID, nil)

	text, resolved, last, empty, err := r.renderListPage(ctx, lang, key, pageIndex, limit)
	if err != nil {
		r.logFetchError(chatID, "list", err)
		r.editText(ctx, tg, chatID, msgID, r.text.Render(lang, "no_data", nil), nil)
		return
	}
	if empty {
		// Keep the navigation keyboard so the user can page back out.
		r.editText(ctx, tg, chatID, msgID, r.text.Render(lang, "no_data", nil), r.listKeyboard(lang, resolved, limit, last))
		return
	}

	r.editText(ctx, tg, chatID, msgID, text, r.listKeyboard(lang, resolved, limit, last))
}

func (r *Router) editText(ctx context.Context, tg api, chatID int64, msgID int, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msgID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if keyboard != nil {
		params.ReplyMarkup = *keyboard
	}

	if _, err := tg.EditMessageText(ctx, params); err != nil {
		r.logSendError(chatID, err)
	}
}

func (r *Router) editKeyboard(ctx context.Context, tg api, chatID int64, msgID int, keyboard *models.InlineKeyboardMarkup) {
	if _, err := tg.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   msgID,
		ReplyMarkup: *keyboard,
	}); err != nil {
		r.logSendError(chatID, err)
	}
}
