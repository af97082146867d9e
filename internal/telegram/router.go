package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"tg_covid_bot/internal/covid"
	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/entity"
	"tg_covid_bot/internal/i18n"
	"tg_covid_bot/internal/logging"
	"tg_covid_bot/internal/metrics"
)

// api is the subset of bot.Bot methods the router calls, narrowed so
// handlers can be exercised against a fake transport.
type api interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	AnswerInlineQuery(ctx context.Context, params *bot.AnswerInlineQueryParams) (bool, error)
}

// statsAPI is the data-provider contract consumed by the router. Absence is
// reported as (nil, nil), never as an error.
type statsAPI interface {
	WorldStats(ctx context.Context) (*domain.StatsRecord, error)
	CountryStats(ctx context.Context, code string) (*domain.StatsRecord, error)
	USStateStats(ctx context.Context, name string) (*domain.StatsRecord, error)
	GermanStateStats(ctx context.Context, name string) (*domain.StatsRecord, error)
	CountryList(ctx context.Context, key domain.SortKey) ([]covid.RankedEntry, error)
	Timeseries(ctx context.Context, code string) (*domain.CaseSeries, error)
	VaccinationSeries(ctx context.Context, code string) (*domain.VaccinationSeries, error)
}

// mapProvider serves map images; (nil, nil) means no map available.
type mapProvider interface {
	CountryMapImage(ctx context.Context, iso2 string) ([]byte, error)
	WorldMapImage(ctx context.Context) ([]byte, error)
}

// chartRenderer turns series into PNG bytes.
type chartRenderer interface {
	RenderTimeseries(series *domain.CaseSeries) ([]byte, error)
	RenderVaccinationSeries(series *domain.VaccinationSeries) ([]byte, error)
}

// preferenceStore persists per-conversation settings.
type preferenceStore interface {
	Get(ctx context.Context, chatID int64) (domain.ChatPreference, error)
	SetCountry(ctx context.Context, chatID int64, code string) error
	SetSortKey(ctx context.Context, chatID int64, key domain.SortKey) error
}

// subscriberStore persists the broadcast subscriber list.
type subscriberStore interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
	All(ctx context.Context) ([]int64, error)
}

// setCountryTimeout is how long the set-country conversation waits for
// input before silently returning to idle.
const setCountryTimeout = 10 * time.Minute

// Router dispatches inbound updates to handlers and assembles replies. It
// is stateless apart from the in-flight set-country conversations.
type Router struct {
	stats    statsAPI
	maps     mapProvider
	charts   chartRenderer
	index    *entity.Index
	prefs    preferenceStore
	subs     subscriberStore
	text     *i18n.Translator
	logger   *logrus.Entry
	fallback string // default language tag

	mu       sync.Mutex
	awaiting map[int64]time.Time // set-country conversations by chat id
	now      func() time.Time
}

// NewRouter wires the router with its collaborators.
func NewRouter(
	stats statsAPI,
	maps mapProvider,
	charts chartRenderer,
	index *entity.Index,
	prefs preferenceStore,
	subs subscriberStore,
	text *i18n.Translator,
	fallbackLang string,
	logger *logrus.Entry,
) *Router {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Router{
		stats:    stats,
		maps:     maps,
		charts:   charts,
		index:    index,
		prefs:    prefs,
		subs:     subs,
		text:     text,
		logger:   logger,
		fallback: fallbackLang,
		awaiting: make(map[int64]time.Time),
		now:      time.Now,
	}
}

// HandleUpdate is the single entry point for every inbound update.
func (r *Router) HandleUpdate(ctx context.Context, tg api, update *models.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logging.Fields{
				"event": "handler_panic",
				"panic": rec,
			}).Error("recovered from handler panic")
		}
	}()

	switch {
	case update.Message != nil:
		r.handleMessage(ctx, tg, update.Message)
	case update.CallbackQuery != nil:
		metrics.UpdateHandled("callback")
		r.handleCallback(ctx, tg, update.CallbackQuery)
	case update.InlineQuery != nil:
		metrics.UpdateHandled("inline")
		r.handleInlineQuery(ctx, tg, update.InlineQuery)
	}
}

func (r *Router) handleMessage(ctx context.Context, tg api, msg *models.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		metrics.UpdateHandled("command")
		r.handleCommand(ctx, tg, msg, text)
		return
	}

	metrics.UpdateHandled("text")
	r.handleText(ctx, tg, msg, text)
}

// lang derives the localization tag for a message sender.
func (r *Router) lang(from *models.User) string {
	if from != nil && strings.TrimSpace(from.LanguageCode) != "" {
		return from.LanguageCode
	}
	return r.fallback
}

// replyText sends a plain text reply, logging delivery failures.
func (r *Router) replyText(ctx context.Context, tg api, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		r.logSendError(chatID, err)
	}
}

// replyMarkdown sends a markdown reply with an optional keyboard.
func (r *Router) replyMarkdown(ctx context.Context, tg api, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if keyboard != nil {
		params.ReplyMarkup = *keyboard
	}

	if _, err := tg.SendMessage(ctx, params); err != nil {
		r.logSendError(chatID, err)
	}
}

// replyMarkdownNoPreview suppresses link previews for long help-style texts.
func (r *Router) replyMarkdownNoPreview(ctx context.Context, tg api, chatID int64, text string) {
	disabled := true
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disabled,
		},
	}

	if _, err := tg.SendMessage(ctx, params); err != nil {
		r.logSendError(chatID, err)
	}
}

func (r *Router) logSendError(chatID int64, err error) {
	r.logger.WithFields(logging.Fields{
		"event":   "reply_failed",
		"chat_id": chatID,
	}).WithError(err).Warn("failed to deliver reply")
}
