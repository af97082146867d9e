package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"tg_covid_bot/internal/logging"
	"tg_covid_bot/internal/metrics"
)

// broadcastInterval spaces outgoing broadcast messages to stay under the
// Bot API flood limits.
const broadcastInterval = 50 * time.Millisecond

// Broadcast sends the daily status report to every subscriber. Each
// recipient gets the report personalized with their stored home country.
// Delivery failures are isolated per recipient; chats that blocked the bot
// are unsubscribed.
func (r *Router) Broadcast(ctx context.Context, tg api) error {
	chatIDs, err := r.subs.All(ctx)
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Every(broadcastInterval), 1)
	sent := 0

	for _, chatID := range chatIDs {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		countryCode := ""
		if pref, prefErr := r.prefs.Get(ctx, chatID); prefErr == nil {
			countryCode = pref.CountryCode
		} else {
			r.logPrefError(chatID, prefErr)
		}

		text := r.statusReport(ctx, r.fallback, countryCode)

		_, sendErr := tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeMarkdownV1,
		})
		switch {
		case sendErr == nil:
			sent++
			metrics.BroadcastResult(metrics.BroadcastSent)

		case errors.Is(sendErr, bot.ErrorForbidden):
			metrics.BroadcastResult(metrics.BroadcastUnsubscribed)
			r.logger.WithFields(logging.Fields{
				"event":   "broadcast_blocked",
				"chat_id": chatID,
			}).Info("chat blocked the bot, removing subscription")
			if rmErr := r.subs.Remove(ctx, chatID); rmErr != nil {
				r.logger.WithFields(logging.Fields{
					"event":   "unsubscribe_failed",
					"chat_id": chatID,
				}).WithError(rmErr).Error("subscriber remove failed")
			}

		default:
			metrics.BroadcastResult(metrics.BroadcastFailed)
			r.logSendError(chatID, sendErr)
		}
	}

	r.logger.WithFields(logging.Fields{
		"event":       "broadcast_done",
		"subscribers": len(chatIDs),
		"sent":        sent,
	}).Info("daily broadcast finished")

	return nil
}

// RunDaily fires Broadcast at the given UTC wall-clock time once per day
// until the context is canceled.
func (r *Router) RunDaily(ctx context.Context, tg api, hour, minute int) {
	for {
		next := nextOccurrence(r.now().UTC(), hour, minute)
		timer := time.NewTimer(next.Sub(r.now().UTC()))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := r.Broadcast(ctx, tg); err != nil {
			r.logger.WithField("event", "broadcast_failed").WithError(err).Error("daily broadcast failed")
		}
	}
}

// nextOccurrence returns the next time the given UTC wall clock comes
// around, strictly after now.
func nextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
