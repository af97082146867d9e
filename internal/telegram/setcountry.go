package telegram

import (
	"context"

	"tg_covid_bot/internal/entity"
	"tg_covid_bot/internal/logging"
)

// beginSetCountry marks the chat as waiting for a country name. A repeated
// /setcountry just restarts the clock.
func (r *Router) beginSetCountry(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awaiting[chatID] = r.now()
}

// clearSetCountry drops any pending set-country conversation for the chat.
func (r *Router) clearSetCountry(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.awaiting, chatID)
}

// pendingSetCountry reports whether the chat has a live set-country
// conversation. Conversations older than setCountryTimeout are expired
// silently, so the message falls through to normal handling.
func (r *Router) pendingSetCountry(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	started, ok := r.awaiting[chatID]
	if !ok {
		return false
	}
	if r.now().Sub(started) > setCountryTimeout {
		delete(r.awaiting, chatID)
		return false
	}
	return true
}

// handleSetCountryInput resolves the awaited reply and stores the country
// preference. Anything but a country, including "world", rejects the input
// and keeps the conversation open, so the user can just try again.
func (r *Router) handleSetCountryInput(ctx context.Context, tg api, chatID int64, lang, text string) {
	match, ok := r.index.Resolve(text)
	if !ok || match.Kind != entity.KindCountry {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "unknown_place", nil))
		return
	}
	r.clearSetCountry(chatID)

	if err := r.prefs.SetCountry(ctx, chatID, match.Code); err != nil {
		r.logPrefError(chatID, err)
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "error_generic", nil))
		return
	}

	name, icon := r.index.DisplayName(match.Code)
	r.logger.WithFields(logging.Fields{
		"event":   "country_set",
		"chat_id": chatID,
		"entity":  match.Code,
	}).Info("chat home country updated")

	r.replyMarkdown(ctx, tg, chatID, r.text.Render(lang, "setcountry_success", map[string]interface{}{
		"Name": name,
		"Icon": icon,
	}), nil)
}
