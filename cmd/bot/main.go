package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/app"
	"github.com/Freeeeeet/barber_bot/internal/config"
	"github.com/Freeeeeet/barber_bot/internal/controller"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc := cfg.Location()

	logger.Sugar().Infow("Starting barber bot",
		"environment", cfg.Environment,
		"api", cfg.APIBaseURL,
		"timezone", loc.String(),
		"token_length", len(cfg.TelegramToken))

	catalog, err := labels.Load()
	if err != nil {
		return err
	}

	store, closeStore, err := app.NewSurveyStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, logger)

	surveyService := service.NewSurveyService(store, api, logger)
	slotService := service.NewSlotService(api, loc, service.SystemClock, logger)
	bookingService := service.NewBookingService(api, surveyService, loc, service.SystemClock, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(botInstance, controller.Deps{
		API:            api,
		SlotService:    slotService,
		BookingService: bookingService,
		SurveyService:  surveyService,
		Labels:         catalog,
		Location:       loc,
		Clock:          service.SystemClock,
	}, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// без меню команд бот работает
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	dispatcher := service.NewSurveyDispatcher(store, api, botController.Handlers(), service.SystemClock, logger)
	scheduler := app.NewScheduler(dispatcher, cfg.DispatchInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	botController.Start(ctx)
	return nil
}
