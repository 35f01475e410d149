package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetrent/internal/app/commands"
	apoutbox "fleetrent/internal/app/outbox"
	"fleetrent/internal/app/queries"

	agentapp "fleetrent/internal/app/handlers/agent"
	availabilityapp "fleetrent/internal/app/handlers/availability"
	bookingapp "fleetrent/internal/app/handlers/booking"
	carsapp "fleetrent/internal/app/handlers/cars"
	companiesapp "fleetrent/internal/app/handlers/companies"
	couponsapp "fleetrent/internal/app/handlers/coupons"
	handoverapp "fleetrent/internal/app/handlers/handover"
	reportsapp "fleetrent/internal/app/handlers/reports"
	reviewsapp "fleetrent/internal/app/handlers/reviews"
	usersapp "fleetrent/internal/app/handlers/users"

	"fleetrent/internal/app/middleware"
	authsvc "fleetrent/internal/app/services/auth"
	"fleetrent/internal/app/uow"
	domainavailability "fleetrent/internal/domain/availability"
	domainuser "fleetrent/internal/domain/user"
	"fleetrent/internal/infra/broker/kafka"
	"fleetrent/internal/infra/config"
	mongodb "fleetrent/internal/infra/db/mongo"
	ginserver "fleetrent/internal/infra/http/gin"
	"fleetrent/internal/infra/notify"
	"fleetrent/internal/infra/obs"
	infraoutbox "fleetrent/internal/infra/outbox"
	"fleetrent/internal/infra/security"
	"fleetrent/internal/infra/storage/memory"
	"fleetrent/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	storage, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage initialization failed", "error", err)
		os.Exit(1)
	}

	uploader := buildUploader(cfg, logger)
	notifier := notify.LogNotifier{Logger: logger}

	authService := &authsvc.Service{
		Users:      storage.users,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	handlers := buildHandlers(cfg, logger, storage, uploader, notifier, authService)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: storage.ready,
	}, handlers)

	if storage.worker != nil {
		go func() {
			if err := storage.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if len(cfg.KafkaBrokers) > 0 {
		go runNotificationConsumer(ctx, cfg, logger, notifier)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	if storage.close != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.close(closeCtx); err != nil {
			logger.Error("storage shutdown failed", "error", err)
		}
	}
	logger.Info("HTTP server stopped")
}

type storageBundle struct {
	uowFactory  uow.UoWFactory
	users       domainuser.Repository
	outboxStore apoutbox.Outbox
	idStore     middleware.IdempotencyStore
	ready       func() error
	close       func(context.Context) error
	worker      *infraoutbox.Worker
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storageBundle, error) {
	switch cfg.StorageMode {
	case "memory":
		factory := memory.NewFactory()
		return storageBundle{
			uowFactory:  factory,
			users:       factory.UserRepo,
			outboxStore: memory.NewOutbox(),
			idStore:     memory.NewIdempotencyStore(),
			ready:       func() error { return nil },
		}, nil
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return storageBundle{}, err
		}
		factory := mongodb.NewFactory(client.DB)
		store := infraoutbox.NewStore(client.DB)
		bundle := storageBundle{
			uowFactory:  factory,
			users:       factory.UserRepo,
			outboxStore: store,
			idStore:     mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL),
			ready: func() error {
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			},
			close: client.Close,
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return storageBundle{}, fmt.Errorf("kafka producer: %w", err)
			}
			bundle.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Logger:      logger,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "app://fleetrent",
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("kafka brokers not configured, outbox events stay queued")
		}
		return bundle, nil
	default:
		return storageBundle{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3EvidenceTTL, logger)
	if err != nil {
		logger.Warn("object storage unavailable, handover uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func buildHandlers(cfg config.Config, logger *slog.Logger, storage storageBundle, uploader s3.Uploader, notifier notify.LogNotifier, authService *authsvc.Service) ginserver.Handlers {
	encoder := apoutbox.JSONEventEncoder{}
	resolver := domainavailability.Resolver{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: storage.uowFactory,
		Resolver:   resolver,
		Outbox:     storage.outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: storage.uowFactory,
		Outbox:     storage.outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.ExtendBookingCommand{}.Key(), &bookingapp.ExtendBookingHandler{
		UoWFactory: storage.uowFactory,
		Outbox:     storage.outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ResendInvoiceCommand{}.Key(), &bookingapp.ResendInvoiceHandler{
		UoWFactory: storage.uowFactory,
		Notifier:   notifier,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, handoverapp.CompleteLegCommand{}.Key(), &handoverapp.CompleteLegHandler{
		UoWFactory:     storage.uowFactory,
		Uploader:       uploader,
		Outbox:         storage.outboxStore,
		Encoder:        encoder,
		SignatureTypes: cfg.SignatureMIMETypes,
		Logger:         logger,
	})
	commands.RegisterHandler(commandBus, agentapp.AssignAgentCommand{}.Key(), &agentapp.AssignAgentHandler{
		UoWFactory: storage.uowFactory,
	})
	commands.RegisterHandler(commandBus, carsapp.CreateCarCommand{}.Key(), &carsapp.CreateCarHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, carsapp.UpdateCarCommand{}.Key(), &carsapp.UpdateCarHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, carsapp.DeleteCarCommand{}.Key(), &carsapp.DeleteCarHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, carsapp.SetCarCalendarCommand{}.Key(), &carsapp.SetCarCalendarHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, companiesapp.CreateCompanyCommand{}.Key(), &companiesapp.CreateCompanyHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, companiesapp.UpdateCompanyCommand{}.Key(), &companiesapp.UpdateCompanyHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, companiesapp.ChangeCompanyStatusCommand{}.Key(), &companiesapp.ChangeCompanyStatusHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, companiesapp.SetCancellationPolicyCommand{}.Key(), &companiesapp.SetCancellationPolicyHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, companiesapp.DeleteCompanyCommand{}.Key(), &companiesapp.DeleteCompanyHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, couponsapp.CreateCouponCommand{}.Key(), &couponsapp.CreateCouponHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, couponsapp.UpdateCouponCommand{}.Key(), &couponsapp.UpdateCouponHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, couponsapp.DeleteCouponCommand{}.Key(), &couponsapp.DeleteCouponHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, reviewsapp.SubmitReviewCommand{}.Key(), &reviewsapp.SubmitReviewHandler{UoWFactory: storage.uowFactory, Logger: logger})
	commands.RegisterHandler(commandBus, reviewsapp.UpdateReviewCommand{}.Key(), &reviewsapp.UpdateReviewHandler{UoWFactory: storage.uowFactory, Logger: logger})
	commands.RegisterHandler(commandBus, reportsapp.FileReportCommand{}.Key(), &reportsapp.FileReportHandler{UoWFactory: storage.uowFactory, Logger: logger})
	commands.RegisterHandler(commandBus, reportsapp.ResolveReportCommand{}.Key(), &reportsapp.ResolveReportHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, usersapp.VerifyUserCommand{}.Key(), &usersapp.VerifyUserHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, usersapp.UpdateDeviceTokenCommand{}.Key(), &usersapp.UpdateDeviceTokenHandler{UoWFactory: storage.uowFactory})
	commands.RegisterHandler(commandBus, usersapp.DeleteUserCommand{}.Key(), &usersapp.DeleteUserHandler{UoWFactory: storage.uowFactory})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{
		UoWFactory: storage.uowFactory,
		Resolver:   resolver,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{UoWFactory: storage.uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, handoverapp.ListHandoversQuery{}.Key(), &handoverapp.ListHandoversHandler{UoWFactory: storage.uowFactory, Uploader: uploader, Logger: logger})
	queries.RegisterHandler(queryBus, agentapp.ListAssignmentsQuery{}.Key(), &agentapp.ListAssignmentsHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, carsapp.ListCarsQuery{}.Key(), &carsapp.ListCarsHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, carsapp.GetCarQuery{}.Key(), &carsapp.GetCarHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, companiesapp.ListCompaniesQuery{}.Key(), &companiesapp.ListCompaniesHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, companiesapp.GetCompanyQuery{}.Key(), &companiesapp.GetCompanyHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, couponsapp.ListCouponsQuery{}.Key(), &couponsapp.ListCouponsHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, couponsapp.ApplyCouponQuery{}.Key(), &couponsapp.ApplyCouponHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, reviewsapp.ListCarReviewsQuery{}.Key(), &reviewsapp.ListCarReviewsHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, reportsapp.ListReportsQuery{}.Key(), &reportsapp.ListReportsHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, usersapp.ListUsersQuery{}.Key(), &usersapp.ListUsersHandler{UoWFactory: storage.uowFactory})
	queries.RegisterHandler(queryBus, usersapp.GetUserQuery{}.Key(), &usersapp.GetUserHandler{UoWFactory: storage.uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(storage.idStore, nil),
		middleware.Transaction(storage.uowFactory, nil),
		middleware.OutboxFlush(storage.outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	return ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Availability:   ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Booking:        ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Handover:       ginserver.HandoverHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Agent:          ginserver.AgentHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Car:            ginserver.CarHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Company:        ginserver.CompanyHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Coupon:         ginserver.CouponHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Review:         ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Report:         ginserver.ReportHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		User:           ginserver.UserHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		AuthMiddleware: authMW.Handle,
	}
}

func runNotificationConsumer(ctx context.Context, cfg config.Config, logger *slog.Logger, notifier notify.LogNotifier) {
	handler := notify.EventHandler{Notifier: notifier, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "fleetrent-notifications", nil, handler, logger)
	if err != nil {
		logger.Error("notification consumer unavailable", "error", err)
		return
	}
	defer consumer.Close()
	topics := []string{
		cfg.KafkaTopicPrefix + "booking.events.v1",
		cfg.KafkaTopicPrefix + "handover.events.v1",
	}
	if err := consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("notification consumer stopped", "error", err)
	}
}
