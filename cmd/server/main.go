// Command server is the entry point of the campus bus reservation core. It
// mirrors the teacher's bootstrap shape (load config, open DB, construct
// Redis client, register routes, e.Start) extended with the logger,
// metrics, AMQP publishers, blob store, and the full set of repositories,
// services, and handlers spec.md §2 names.
package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/blob"
	"github.com/campusbus/reservation-core/internal/broker"
	"github.com/campusbus/reservation-core/internal/config"
	"github.com/campusbus/reservation-core/internal/coord"
	"github.com/campusbus/reservation-core/internal/database"
	"github.com/campusbus/reservation-core/internal/handler"
	"github.com/campusbus/reservation-core/internal/logger"
	"github.com/campusbus/reservation-core/internal/metrics"
	"github.com/campusbus/reservation-core/internal/middleware"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/router"
	"github.com/campusbus/reservation-core/internal/service"
	"github.com/campusbus/reservation-core/internal/token"
)

func main() {
	// godotenv is a no-op (and its error is ignored) when no .env file is
	// present, which is the normal case in a deployed container.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", "error", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable at startup: cache and rate-limit will degrade, booking/cancel/scan/assignment routes will fail closed with STORE_UNAVAILABLE")
	}

	locker := coord.NewLocker(rdb)
	tokens := token.NewService(token.Secrets{
		Passenger: cfg.PassengerTokenSecret,
		Operator:  cfg.OperatorTokenSecret,
		Boarding:  cfg.BoardingTokenSecret,
	})
	blobs := blob.NewStore(cfg.BlobRoot)
	telemetryPub := broker.NewTelemetryPublisher(cfg.AMQPURL)
	m := metrics.New(cfg.MetricsNamespace)

	go func() {
		if err := broker.StartLifecycleConsumer(cfg.AMQPURL, log); err != nil {
			log.Error("lifecycle consumer stopped", "error", err)
		}
	}()

	passengers := repository.NewPassengerRepo(db)
	operators := repository.NewOperatorRepo(db)
	trips := repository.NewTripRepo(db)
	bookings := repository.NewBookingRepo(db)
	assignments := repository.NewAssignmentRepo(db)
	reports := repository.NewReportRepo(db)

	lifecyclePub := broker.NewLifecyclePublisher(cfg.AMQPURL)

	allocator := &service.Allocator{
		Passengers: passengers,
		Trips:      trips,
		Bookings:   bookings,
		Locker:     locker,
		Tokens:     tokens,
		Lifecycle:  lifecyclePub,
		Log:        log,
	}
	waitlist := &service.Waitlist{
		Trips:     trips,
		Bookings:  bookings,
		Locker:    locker,
		Tokens:    tokens,
		Lifecycle: lifecyclePub,
		Log:       log,
	}
	boardingValidator := &service.BoardingValidator{
		Bookings:  bookings,
		Locker:    locker,
		Tokens:    tokens,
		Lifecycle: lifecyclePub,
		Log:       log,
	}
	passengerAuth := &service.PassengerAuth{
		Passengers:         passengers,
		Tokens:             tokens,
		AllowedEmailDomain: cfg.AllowedEmailDomain,
	}
	operatorSession := &service.OperatorSession{
		Operators:   operators,
		Trips:       trips,
		Assignments: assignments,
		Locker:      locker,
		Tokens:      tokens,
	}
	telemetry := &service.Telemetry{Publisher: telemetryPub}
	evidence := &service.Evidence{Reports: reports, Blobs: blobs, Log: log}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(passengerAuth),
		Trips:        handler.NewTripHandler(trips),
		Bookings:     handler.NewBookingHandler(allocator, waitlist, bookings),
		Profile:      handler.NewProfileHandler(passengers, bookings),
		Operator:     handler.NewOperatorHandler(operatorSession, bookings),
		Boarding:     handler.NewBoardingHandler(boardingValidator),
		Reports:      handler.NewReportHandler(evidence),
		GPS:          handler.NewGPSHandler(telemetry),
		BoardingPass: handler.NewBoardingPassHandler(bookings, trips, passengers),
	}

	e := echo.New()
	e.HideBanner = true

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e, handlers, tokens, cache, limiter, m)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
