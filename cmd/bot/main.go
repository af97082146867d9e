package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg_covid_bot/internal/chart"
	"tg_covid_bot/internal/config"
	"tg_covid_bot/internal/covid"
	"tg_covid_bot/internal/entity"
	"tg_covid_bot/internal/geo"
	"tg_covid_bot/internal/health"
	"tg_covid_bot/internal/i18n"
	"tg_covid_bot/internal/logging"
	"tg_covid_bot/internal/store"
	"tg_covid_bot/internal/telegram"
)

const (
	mongoConnectTimeout     = 10 * time.Second
	mongoIndexTimeout       = 5 * time.Second
	mongoDisconnectTimeout  = 5 * time.Second
	referenceLoadTimeout    = 30 * time.Second
	httpShutdownTimeout     = 5 * time.Second
	telegramShutdownTimeout = 10 * time.Second
)

func main() {
	configOnly := flag.Bool("config-only", false, "load and validate configuration then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("configuration error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Error("logger setup error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}

	if *configOnly {
		logging.Info("configuration check", logging.Fields{"event": "config_only"})
		fmt.Println("configuration check: ok")
		return
	}

	logger.WithFields(logging.Fields{
		"event":    "startup",
		"mongo_db": cfg.MongoDB,
		"api_base": cfg.CovidAPIBase,
	}).Info("configuration loaded")

	connectCtx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	mongoManager, err := store.NewManager(connectCtx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Error("mongo connection error")
		fmt.Fprintf(os.Stderr, "mongo connection error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "mongo_connect").Info("connected to mongo")

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), mongoIndexTimeout)
	if err := mongoManager.EnsureBaseIndexes(indexCtx); err != nil {
		cancelIndexes()
		logger.WithError(err).Error("mongo index setup error")
		fmt.Fprintf(os.Stderr, "mongo index setup error: %v\n", err)
		os.Exit(1)
	}
	cancelIndexes()

	logger.WithField("event", "mongo_indexes").Info("ensured base mongo indexes")

	covidClient := covid.NewClient(cfg.CovidAPIBase, logger)

	index, err := loadEntityIndex(covidClient)
	if err != nil {
		logger.WithError(err).Error("reference data load error")
		fmt.Fprintf(os.Stderr, "reference data load error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "reference_loaded").Info("entity reference data loaded")

	router := telegram.NewRouter(
		covidClient,
		geo.NewClient(logger),
		chart.Renderer{},
		index,
		store.NewPreferenceStore(mongoManager.Preferences()),
		store.NewSubscriberStore(mongoManager.Subscribers()),
		i18n.New(cfg.DefaultLang),
		cfg.DefaultLang,
		logger,
	)

	tgClient, err := telegram.NewClient(cfg, router, logger)
	if err != nil {
		logger.WithError(err).Error("telegram client setup error")
		fmt.Fprintf(os.Stderr, "telegram client setup error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "telegram_ready").Info("telegram client initialized")

	healthServer := health.NewServer(cfg.HTTPPort, mongoManager, logger)
	go func() {
		if serveErr := healthServer.ListenAndServe(); serveErr != nil {
			logger.WithError(serveErr).Error("http server error")
		}
	}()

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancelRun := context.WithCancel(context.Background())
	tgDone := make(chan struct{})

	go func() {
		tgClient.Start(runCtx)
		close(tgDone)
	}()

	if hour, minute, ok := cfg.NotifyClock(); ok {
		logger.WithFields(logging.Fields{
			"event":       "notifier_scheduled",
			"notify_time": cfg.NotifyTime,
		}).Info("daily broadcast scheduled")
		go tgClient.RunDailyBroadcast(runCtx, hour, minute)
	}

	select {
	case <-signalCtx.Done():
		logger.WithField("event", "shutdown_signal").Info("received termination signal, stopping")
	case <-tgDone:
		logger.WithField("event", "telegram_stopped_early").Warn("telegram client stopped before shutdown signal")
	}

	cancelRun()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), telegramShutdownTimeout)
	select {
	case <-tgDone:
	case <-waitCtx.Done():
		logger.WithField("event", "telegram_shutdown_timeout").Warn("timed out waiting for telegram client to stop")
	}
	cancelWait()

	httpCtx, cancelHTTP := context.WithTimeout(context.Background(), httpShutdownTimeout)
	if err := healthServer.Shutdown(httpCtx); err != nil {
		logger.WithError(err).Error("http server shutdown error")
	}
	cancelHTTP()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	if err := mongoManager.Close(shutdownCtx); err != nil {
		logger.WithError(err).Error("mongo disconnect error")
	} else {
		logger.WithField("event", "mongo_disconnect").Info("mongo client disconnected")
	}
	cancelShutdown()

	logger.WithField("event", "shutdown_complete").Info("shutdown complete")
}

// loadEntityIndex fetches the country and state reference lists once at
// startup and builds the alias index from them.
func loadEntityIndex(client *covid.Client) (*entity.Index, error) {
	ctx, cancel := context.WithTimeout(context.Background(), referenceLoadTimeout)
	defer cancel()

	countries, err := client.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}

	usStates, err := client.USStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load us states: %w", err)
	}

	deStates, err := client.GermanStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load german states: %w", err)
	}

	return entity.NewIndex(countries, usStates, deStates), nil
}
