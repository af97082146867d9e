package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_covid_bot/internal/config"
)

type stubRunner struct {
	fakeAPI
	started bool
}

func (s *stubRunner) Start(context.Context) {
	s.started = true
}

func stubCreateBot(runner botRunner, err error) (restore func(), gotOptions *int) {
	prev := createBot
	count := 0
	createBot = func(token string, options ...bot.Option) (botRunner, error) {
		count = len(options)
		return runner, err
	}
	return func() { createBot = prev }, &count
}

func TestNewClientRequiresTokenAndRouter(t *testing.T) {
	fx := newRouterFixture(t)

	if _, err := NewClient(config.Config{}, fx.router, nil); err == nil {
		t.Fatalf("expected error for missing token")
	}
	if _, err := NewClient(config.Config{TelegramToken: "token"}, nil, nil); err == nil {
		t.Fatalf("expected error for missing router")
	}
}

func TestNewClientWiresBotOptions(t *testing.T) {
	fx := newRouterFixture(t)

	runner := &stubRunner{}
	restore, gotOptions := stubCreateBot(runner, nil)
	t.Cleanup(restore)

	client, err := NewClient(config.Config{TelegramToken: "token"}, fx.router, nil)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}

	if *gotOptions != 3 {
		t.Fatalf("expected allowed-updates, handler and error options, got %d", *gotOptions)
	}

	client.Start(context.Background())
	if !runner.started {
		t.Fatalf("expected polling to start")
	}
}

func TestNewClientPropagatesInitError(t *testing.T) {
	fx := newRouterFixture(t)

	restore, _ := stubCreateBot(nil, errors.New("bad token"))
	t.Cleanup(restore)

	if _, err := NewClient(config.Config{TelegramToken: "token"}, fx.router, nil); err == nil {
		t.Fatalf("expected init error to propagate")
	}
}

func TestMessageHelpersHandleInaccessibleMessages(t *testing.T) {
	accessible := models.MaybeInaccessibleMessage{
		Type:    models.MaybeInaccessibleMessageTypeMessage,
		Message: &models.Message{ID: 7, Chat: models.Chat{ID: 42}},
	}
	if messageChatID(accessible) != 42 || messageID(accessible) != 7 {
		t.Fatalf("unexpected helpers for accessible message")
	}

	inaccessible := models.MaybeInaccessibleMessage{
		Type: models.MaybeInaccessibleMessageTypeInaccessibleMessage,
		InaccessibleMessage: &models.InaccessibleMessage{
			MessageID: 9,
			Chat:      models.Chat{ID: 43},
		},
	}
	if messageChatID(inaccessible) != 43 || messageID(inaccessible) != 9 {
		t.Fatalf("unexpected helpers for inaccessible message")
	}

	if messageChatID(models.MaybeInaccessibleMessage{}) != 0 {
		t.Fatalf("expected zero chat for empty wrapper")
	}
}
