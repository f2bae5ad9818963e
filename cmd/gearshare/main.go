package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/dto"
	bookingapp "gearshare/internal/app/handlers/booking"
	listingapp "gearshare/internal/app/handlers/listings"
	notificationapp "gearshare/internal/app/handlers/notifications"
	reviewapp "gearshare/internal/app/handlers/reviews"
	"gearshare/internal/app/middleware"
	appoutbox "gearshare/internal/app/outbox"
	"gearshare/internal/app/policies"
	"gearshare/internal/app/queries"
	"gearshare/internal/app/sweep"
	"gearshare/internal/app/uow"
	"gearshare/internal/app/validate"
	domainlisting "gearshare/internal/domain/listing"
	domainnotification "gearshare/internal/domain/notification"
	domainmoney "gearshare/internal/domain/shared/money"
	"gearshare/internal/infra/broker/kafka"
	"gearshare/internal/infra/config"
	mongodb "gearshare/internal/infra/db/mongo"
	ginserver "gearshare/internal/infra/http/gin"
	"gearshare/internal/infra/obs"
	infraoutbox "gearshare/internal/infra/outbox"
	"gearshare/internal/infra/relay"
	"gearshare/internal/infra/storage/memory"
	"gearshare/internal/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	if err := app.loadListingFixtures(cfg.ListingFixtures, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "path", cfg.ListingFixtures)
	}

	go func() {
		if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()
	if app.consumer != nil {
		go func() {
			if err := app.consumer.Run(ctx, app.topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("kafka consumer stopped", "error", err)
			}
		}()
	}
	if err := app.sweep.Start(); err != nil {
		logger.Error("completion sweep failed to start", "error", err)
		os.Exit(1)
	}
	defer app.sweep.Stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", app.storageMode, "broker", app.brokerMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	sweep       *sweep.CompletionSweep
	worker      *infraoutbox.Worker
	consumer    *kafka.Consumer
	topics      []string
	storageMode string
	brokerMode  string

	memoryCatalog *memory.ListingCatalog
	ready         func() error
	close         func()
}

func buildApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		ready: func() error { return nil },
		close: func() {},
	}

	var (
		uowFactory    uow.UoWFactory
		outboxStore   outboxBackend
		idStore       middleware.IdempotencyStore
		notifications domainnotification.Repository
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		mongoNotifications := mongodb.NewNotificationRepository(client.DB)
		uowFactory = mongodb.Factory{
			DB:               client.DB,
			Catalog:          mongodb.NewListingRepository(client.DB),
			BookingRepo:      mongodb.NewBookingRepository(client.DB),
			ReviewRepo:       mongodb.NewReviewRepository(client.DB),
			NotificationRepo: mongoNotifications,
		}
		outboxStore = mongodb.NewOutboxStore(client.DB)
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		notifications = mongoNotifications
		app.storageMode = "mongo"
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		app.close = func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}
	} else {
		catalog := memory.NewListingCatalog()
		memNotifications := memory.NewNotificationRepository()
		app.memoryCatalog = catalog
		uowFactory = memory.Factory{
			Catalog:          catalog,
			BookingRepo:      memory.NewBookingRepository(),
			ReviewRepo:       memory.NewReviewRepository(),
			NotificationRepo: memNotifications,
		}
		outboxStore = memory.NewOutboxStore()
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		notifications = memNotifications
		app.storageMode = "memory"
	}

	bus := notify.NewBus()
	eventRelay := &relay.Relay{Notifications: notifications, Bus: bus, Logger: logger}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(),
		&bookingapp.RequestBookingHandler{UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingStatusCommand{}.Key(),
		&bookingapp.UpdateBookingStatusHandler{UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.CompleteElapsedCommand{}.Key(),
		&bookingapp.CompleteElapsedHandler{UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(),
		&reviewapp.SubmitReviewHandler{UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, notificationapp.MarkNotificationReadCommand{}.Key(),
		&notificationapp.MarkNotificationReadHandler{UoWFactory: uowFactory})

	queryBus := queries.NewInMemoryBus()
	listHandler := &bookingapp.ListBookingsHandler{UoWFactory: uowFactory, Logger: logger}
	queries.RegisterHandler(queryBus, bookingapp.ListRenterBookingsQuery{}.Key(),
		queries.HandlerFunc[bookingapp.ListRenterBookingsQuery, dto.BookingCollection](listHandler.HandleRenter))
	queries.RegisterHandler(queryBus, bookingapp.ListOwnerBookingsQuery{}.Key(),
		queries.HandlerFunc[bookingapp.ListOwnerBookingsQuery, dto.BookingCollection](listHandler.HandleOwner))
	queries.RegisterHandler(queryBus, reviewapp.ListListingReviewsQuery{}.Key(),
		&reviewapp.ListListingReviewsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, notificationapp.ListNotificationsQuery{}.Key(),
		&notificationapp.ListNotificationsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(),
		&listingapp.GetListingHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Authorization(policies.Access{}),
		middleware.Validation(validate.NewStructValidator()),
		middleware.Transaction(uowFactory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryAuthorization(policies.Access{}),
	)

	var workerProducer infraoutbox.Producer = eventRelay
	app.brokerMode = "relay"
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "gearshare-notifier", nil, kafka.NotifierHandler{Relay: eventRelay})
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		workerProducer = producer
		app.consumer = consumer
		app.topics = []string{
			cfg.KafkaTopicPrefix + "booking.events.v1",
			cfg.KafkaTopicPrefix + "review.events.v1",
		}
		app.brokerMode = "kafka"
	}

	app.worker = &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    workerProducer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	app.sweep = &sweep.CompletionSweep{
		Commands: commandBusWithMiddleware,
		Schedule: cfg.SweepSchedule,
		Logger:   logger,
	}
	app.handlers = ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Review:       ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Notification: ginserver.NotificationHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Bus: bus},
		Listing:      ginserver.ListingHandler{Queries: queryBusWithMiddleware},
	}
	return app, nil
}

// outboxBackend is satisfied by both the memory and mongo outbox stores:
// handlers append through the app port, the worker drains through the
// claim/ack port.
type outboxBackend interface {
	appoutbox.Outbox
	infraoutbox.Store
}

// loadListingFixtures seeds the in-memory catalog from a JSON file. With
// Mongo storage the catalog is populated out of band, so fixtures are
// skipped.
func (a *application) loadListingFixtures(path string, logger *slog.Logger) error {
	if path == "" || a.memoryCatalog == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	now := time.Now().UTC()
	for _, fx := range fixtures {
		l := domainlisting.Listing{
			ID:          domainlisting.ListingID(fx.ID),
			Owner:       domainlisting.OwnerID(fx.OwnerID),
			Title:       fx.Title,
			Price:       domainmoney.Money{Amount: fx.PriceCents, Currency: fx.Currency},
			Unit:        domainlisting.PriceUnit(fx.Unit),
			IsService:   fx.IsService,
			IsAvailable: true,
			Deposit:     domainmoney.Money{Amount: fx.DepositCents, Currency: fx.Currency},
			CreatedAt:   now,
		}
		if !l.Unit.Valid() {
			logger.Error("fixture invalid", "listing_id", fx.ID, "unit", fx.Unit)
			continue
		}
		a.memoryCatalog.Put(l)
		logger.Info("listing fixture imported", "listing_id", fx.ID)
	}
	return nil
}

type listingFixture struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Title        string `json:"title"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	Unit         string `json:"unit"`
	IsService    bool   `json:"is_service"`
	DepositCents int64  `json:"deposit_cents"`
}
