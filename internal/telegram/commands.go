package telegram

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/entity"
	"tg_covid_bot/internal/logging"
	"tg_covid_bot/internal/paging"
)

func (r *Router) handleCommand(ctx context.Context, tg api, msg *models.Message, text string) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	args := fields[1:]

	chatID := msg.Chat.ID
	lang := r.lang(msg.From)

	switch cmd {
	case "start":
		firstName := ""
		if msg.From != nil {
			firstName = msg.From.FirstName
		}
		r.replyMarkdown(ctx, tg, chatID, r.text.Render(lang, "start", map[string]interface{}{
			"Name": firstName,
		}), nil)

	case "help", "donate", "faqs1", "faqs2":
		r.replyMarkdownNoPreview(ctx, tg, chatID, r.text.Render(lang, cmd, nil))

	case "today":
		countryCode := ""
		if pref, err := r.prefs.Get(ctx, chatID); err == nil {
			countryCode = pref.CountryCode
		} else {
			r.logPrefError(chatID, err)
		}
		r.replyMarkdown(ctx, tg, chatID, r.statusReport(ctx, lang, countryCode), nil)

	case "world":
		r.sendWorldStats(ctx, tg, chatID, lang)

	case "list":
		r.commandList(ctx, tg, chatID, lang, args)

	case "map":
		r.commandMap(ctx, tg, chatID, lang, args)

	case "graph":
		r.commandGraph(ctx, tg, chatID, lang, args)

	case "vacc", "vaccinations":
		r.commandVacc(ctx, tg, chatID, lang, args)

	case "setcountry":
		r.beginSetCountry(chatID)
		r.replyMarkdown(ctx, tg, chatID, r.text.Render(lang, "setcountry_start", nil), nil)

	case "cancel":
		r.clearSetCountry(chatID)
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "cancel", nil))

	case "subscribe":
		if err := r.subs.Add(ctx, chatID); err != nil {
			r.logger.WithField("event", "subscribe_failed").WithError(err).Error("subscriber add failed")
			r.replyText(ctx, tg, chatID, r.text.Render(lang, "error_generic", nil))
			return
		}
		r.replyMarkdown(ctx, tg, chatID, r.text.Render(lang, "subscribe", nil), nil)

	case "unsubscribe":
		if err := r.subs.Remove(ctx, chatID); err != nil {
			r.logger.WithField("event", "unsubscribe_failed").WithError(err).Error("subscriber remove failed")
			r.replyText(ctx, tg, chatID, r.text.Render(lang, "error_generic", nil))
			return
		}
		r.replyMarkdown(ctx, tg, chatID, r.text.Render(lang, "unsubscribe", nil), nil)

	default:
		// Per-entity commands: /de, /usa, /germany and every other alias.
		if match, ok := r.index.Resolve(cmd); ok && match.Kind == entity.KindCountry {
			r.sendCountryStats(ctx, tg, chatID, lang, match.Code)
			return
		}
		r.logger.WithFields(logging.Fields{
			"event":   "unknown_command",
			"chat_id": chatID,
		}).Debug(cmd)
	}
}

// handleText serves free-form messages: pending set-country input first,
// then entity resolution.
func (r *Router) handleText(ctx context.Context, tg api, msg *models.Message, text string) {
	chatID := msg.Chat.ID
	lang := r.lang(msg.From)

	if r.pendingSetCountry(chatID) {
		r.handleSetCountryInput(ctx, tg, chatID, lang, text)
		return
	}

	match, ok := r.index.Resolve(text)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "unknown_place", nil))
		return
	}

	switch match.Kind {
	case entity.KindCountry:
		r.sendCountryStats(ctx, tg, chatID, lang, match.Code)
	case entity.KindWorld:
		r.sendWorldStats(ctx, tg, chatID, lang)
	case entity.KindSubdivision:
		r.sendSubdivisionStats(ctx, tg, chatID, lang, match)
	}
}

func (r *Router) sendWorldStats(ctx context.Context, tg api, chatID int64, lang string) {
	record, err := r.stats.WorldStats(ctx)
	if err != nil {
		r.logFetchError(chatID, domain.WorldCode, err)
		record = nil
	}
	if record == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	name, icon := r.index.DisplayName(domain.WorldCode)
	text, ok := r.formatStats(lang, name, icon, *record, true)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyMarkdown(ctx, tg, chatID, text, r.statsKeyboard(lang, domain.WorldCode))
}

func (r *Router) sendCountryStats(ctx context.Context, tg api, chatID int64, lang, code string) {
	record, err := r.stats.CountryStats(ctx, code)
	if err != nil {
		r.logFetchError(chatID, code, err)
		record = nil
	}
	if record == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	name, icon := r.index.DisplayName(code)
	text, ok := r.formatStats(lang, name, icon, *record, true)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyMarkdown(ctx, tg, chatID, text, r.statsKeyboard(lang, code))
}

func (r *Router) sendSubdivisionStats(ctx context.Context, tg api, chatID int64, lang string, match entity.Match) {
	var record *domain.StatsRecord
	var err error

	switch match.Parent {
	case entity.ParentUS:
		record, err = r.stats.USStateStats(ctx, match.Subdivision)
	case entity.ParentDE:
		record, err = r.stats.GermanStateStats(ctx, match.Subdivision)
	}
	if err != nil {
		r.logFetchError(chatID, match.Subdivision, err)
		record = nil
	}
	if record == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	text, ok := r.formatStats(lang, match.Subdivision, entity.SubdivisionIcon(match.Parent), *record, false)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyMarkdown(ctx, tg, chatID, text, nil)
}

// commandList handles "/list [order] [limit]". The chosen order becomes the
// conversation's default for subsequent list requests.
func (r *Router) commandList(ctx context.Context, tg api, chatID int64, lang string, args []string) {
	key := r.resolveSortKey(ctx, chatID, args)

	limit := paging.DefaultLimit
	if len(args) > 1 {
		if parsed, err := strconv.Atoi(args[1]); err == nil {
			limit = parsed
		}
	}
	limit = paging.ClampLimit(limit)

	text, resolved, last, empty, err := r.renderListPage(ctx, lang, key, 0, limit)
	if err != nil {
		r.logFetchError(chatID, "list", err)
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}
	if empty {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyMarkdown(ctx, tg, chatID, text, r.listKeyboard(lang, resolved, limit, last))
}

// resolveSortKey applies the precedence: explicit argument, stored
// preference, default. Explicit and defaulted choices are persisted.
func (r *Router) resolveSortKey(ctx context.Context, chatID int64, args []string) domain.SortKey {
	if len(args) > 0 {
		if key, ok := domain.ParseSortKey(args[0]); ok {
			if err := r.prefs.SetSortKey(ctx, chatID, key); err != nil {
				r.logPrefError(chatID, err)
			}
			return key
		}
	}

	if pref, err := r.prefs.Get(ctx, chatID); err == nil {
		if key, ok := domain.ParseSortKey(pref.SortKey); ok {
			return key
		}
	} else {
		r.logPrefError(chatID, err)
	}

	if err := r.prefs.SetSortKey(ctx, chatID, domain.DefaultSortKey); err != nil {
		r.logPrefError(chatID, err)
	}
	return domain.DefaultSortKey
}

func (r *Router) commandMap(ctx context.Context, tg api, chatID int64, lang string, args []string) {
	code, ok := r.resolveTargetCode(ctx, chatID, args)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "unknown_place", nil))
		return
	}

	r.sendMap(ctx, tg, chatID, lang, code)
}

func (r *Router) sendMap(ctx context.Context, tg api, chatID int64, lang, code string) {
	var photo []byte
	var err error
	if code == domain.WorldCode {
		photo, err = r.maps.WorldMapImage(ctx)
	} else {
		photo, err = r.maps.CountryMapImage(ctx, code)
	}
	if err != nil {
		r.logFetchError(chatID, code, err)
		photo = nil
	}
	if photo == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	name, icon := r.index.DisplayName(code)
	caption := r.text.Render(lang, "map_caption", map[string]interface{}{
		"Name": name,
		"Icon": icon,
	})

	r.replyPhoto(ctx, tg, chatID, photo, "map.png", caption)
}

func (r *Router) commandGraph(ctx context.Context, tg api, chatID int64, lang string, args []string) {
	code, ok := r.resolveTargetCode(ctx, chatID, args)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "unknown_place", nil))
		return
	}

	r.sendTimeseriesChart(ctx, tg, chatID, lang, code)
}

func (r *Router) sendTimeseriesChart(ctx context.Context, tg api, chatID int64, lang, code string) {
	series, err := r.stats.Timeseries(ctx, seriesCode(code))
	if err != nil {
		r.logFetchError(chatID, code, err)
		series = nil
	}
	if series == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	png, err := r.charts.RenderTimeseries(series)
	if err != nil {
		r.logFetchError(chatID, code, err)
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyPhoto(ctx, tg, chatID, png, "timeseries.png", "")
}

func (r *Router) commandVacc(ctx context.Context, tg api, chatID int64, lang string, args []string) {
	code, ok := r.resolveTargetCode(ctx, chatID, args)
	if !ok {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "unknown_place", nil))
		return
	}

	r.sendVaccinationChart(ctx, tg, chatID, lang, code)
}

func (r *Router) sendVaccinationChart(ctx context.Context, tg api, chatID int64, lang, code string) {
	series, err := r.stats.VaccinationSeries(ctx, seriesCode(code))
	if err != nil {
		r.logFetchError(chatID, code, err)
		series = nil
	}
	if series == nil {
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	png, err := r.charts.RenderVaccinationSeries(series)
	if err != nil {
		r.logFetchError(chatID, code, err)
		r.replyText(ctx, tg, chatID, r.text.Render(lang, "no_data", nil))
		return
	}

	r.replyPhoto(ctx, tg, chatID, png, "vaccinations.png", "")
}

// resolveTargetCode picks the entity for map/graph commands: the argument
// when present, otherwise the chat's home country, otherwise the world.
// Subdivisions have no maps or series, so they resolve like unknown input.
func (r *Router) resolveTargetCode(ctx context.Context, chatID int64, args []string) (string, bool) {
	if len(args) > 0 {
		match, ok := r.index.Resolve(args[0])
		if !ok || match.Kind == entity.KindSubdivision {
			return "", false
		}
		return match.Code, true
	}

	if pref, err := r.prefs.Get(ctx, chatID); err == nil && pref.CountryCode != "" {
		return pref.CountryCode, true
	} else if err != nil {
		r.logPrefError(chatID, err)
	}

	return domain.WorldCode, true
}

// seriesCode maps the world sentinel to the provider's "no code" form.
func seriesCode(code string) string {
	if code == domain.WorldCode {
		return ""
	}
	return code
}

func (r *Router) replyPhoto(ctx context.Context, tg api, chatID int64, data []byte, filename, caption string) {
	params := &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
	}
	if caption != "" {
		params.Caption = caption
		params.ParseMode = models.ParseModeMarkdownV1
	}

	if _, err := tg.SendPhoto(ctx, params); err != nil {
		r.logSendError(chatID, err)
	}
}

func (r *Router) logFetchError(chatID int64, target string, err error) {
	r.logger.WithFields(logging.Fields{
		"event":   "data_fetch_failed",
		"chat_id": chatID,
		"entity":  target,
	}).WithError(err).Warn("data provider call failed")
}

func (r *Router) logPrefError(chatID int64, err error) {
	r.logger.WithFields(logging.Fields{
		"event":   "preference_error",
		"chat_id": chatID,
	}).WithError(err).Warn("preference store call failed")
}
