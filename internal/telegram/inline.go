package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/entity"
)

// handleInlineQuery answers "@bot <prefix>" with up to a handful of
// matching entities, each carrying its full stats message. Suggestions
// whose data cannot be fetched are skipped rather than failing the query.
func (r *Router) handleInlineQuery(ctx context.Context, tg api, q *models.InlineQuery) {
	lang := r.lang(q.From)

	var results []models.InlineQueryResult
	for suggestion := range r.index.Suggest(q.Query) {
		article, ok := r.inlineArticle(ctx, lang, suggestion)
		if !ok {
			continue
		}
		results = append(results, article)
	}

	if _, err := tg.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
		InlineQueryID: q.ID,
		Results:       results,
		CacheTime:     60,
	}); err != nil {
		r.logger.WithField("event", "inline_answer_failed").WithError(err).Warn("failed to answer inline query")
	}
}

func (r *Router) inlineArticle(ctx context.Context, lang string, suggestion entity.Suggestion) (models.InlineQueryResult, bool) {
	var record *domain.StatsRecord
	var err error
	var name, icon string
	detailed := true

	match := suggestion.Match
	switch match.Kind {
	case entity.KindWorld:
		record, err = r.stats.WorldStats(ctx)
		name, icon = r.index.DisplayName(domain.WorldCode)
	case entity.KindCountry:
		record, err = r.stats.CountryStats(ctx, match.Code)
		name, icon = r.index.DisplayName(match.Code)
	case entity.KindSubdivision:
		detailed = false
		name, icon = match.Subdivision, entity.SubdivisionIcon(match.Parent)
		switch match.Parent {
		case entity.ParentUS:
			record, err = r.stats.USStateStats(ctx, match.Subdivision)
		case entity.ParentDE:
			record, err = r.stats.GermanStateStats(ctx, match.Subdivision)
		}
	}
	if err != nil {
		r.logFetchError(0, suggestion.Label, err)
		return nil, false
	}
	if record == nil {
		return nil, false
	}

	text, ok := r.formatStats(lang, name, icon, *record, detailed)
	if !ok {
		return nil, false
	}
	text += "\n" + r.text.Render(lang, "more", nil)

	return &models.InlineQueryResultArticle{
		ID:    suggestion.Label,
		Title: icon + " " + name,
		InputMessageContent: &models.InputTextMessageContent{
			MessageText: text,
			ParseMode:   models.ParseModeMarkdownV1,
		},
	}, true
}
