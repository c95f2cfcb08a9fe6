package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/get_available_slots"
	getBookingTotalHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/get_booking_total"
	getFinancialRealityHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/get_financial_reality"
	getLinePriceHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/get_line_price"
	validateCartHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/validate_cart"
	validateDiscountCodeHandler "github.com/m04kA/SMC-CourseEngine/internal/api/handlers/validate_discount_code"
	"github.com/m04kA/SMC-CourseEngine/internal/api/middleware"
	"github.com/m04kA/SMC-CourseEngine/internal/config"
	"github.com/m04kA/SMC-CourseEngine/internal/infra/cache"
	"github.com/m04kA/SMC-CourseEngine/internal/infra/migrations"
	bookingRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/booking"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
	discountRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/discount"
	schoolRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/school"
	"github.com/m04kA/SMC-CourseEngine/internal/service/availability"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	"github.com/m04kA/SMC-CourseEngine/internal/service/occupancy"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
	"github.com/m04kA/SMC-CourseEngine/internal/service/totals"
	cancelBookingUC "github.com/m04kA/SMC-CourseEngine/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-CourseEngine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourseEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/logger"
	"github.com/m04kA/SMC-CourseEngine/pkg/metrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CourseEngine...")

	// Метрики (nil, если выключены: все методы *metrics.Metrics безопасны для nil)
	var metricsCollector *metrics.Metrics
	var dbObserver dbmetrics.Observer
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	migrator, err := migrations.NewMigrator(db, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	courseRepository := courseRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	discountRepository := discountRepo.NewRepository(wrappedDB)
	schoolRepository := schoolRepo.NewRepository(wrappedDB)

	// Кэш свободных мест и периодическая очистка просроченных записей
	store := cache.NewMemoryStore()
	availabilityCache := cache.NewAvailabilityCache(store, cfg.Cache.TTL())
	purger, err := cache.NewPurger(store, cfg.Cache.PurgeSchedule, log)
	if err != nil {
		log.Fatal("Failed to schedule cache purge: %v", err)
	}
	purger.Start()
	log.Info("Availability cache initialized (ttl=%s, purge=%q)", cfg.Cache.TTL(), cfg.Cache.PurgeSchedule)

	// Сервисы
	capacitySvc := capacity.NewService(courseRepository, log)
	occupancyCounter := occupancy.NewCounter(bookingRepository, log)
	availabilitySvc := availability.NewService(capacitySvc, occupancyCounter, availabilityCache, metricsCollector, log)
	calculator := pricing.NewCalculator(metricsCollector, log)
	pricingSvc := pricing.NewService(
		courseRepository,
		bookingRepository,
		schoolRepository,
		calculator,
		pricing.Options{DefaultInsurancePercent: cfg.Pricing.DefaultInsurancePercent},
		log,
	)
	totalsSvc := totals.NewService(pricingSvc, calculator, bookingRepository, log)
	discountSvc := discount.NewService(discountRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		courseRepository,
		bookingRepository,
		capacitySvc,
		occupancyCounter,
		calculator,
		pricingSvc,
		discountSvc,
		availabilitySvc,
		txMgr,
		metricsCollector,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(bookingRepository, availabilitySvc, txMgr, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(availabilitySvc, log)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateCart := validateCartHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	validateDiscountCode := validateDiscountCodeHandler.NewHandler(discountSvc, log)
	getLinePrice := getLinePriceHandler.NewHandler(pricingSvc, log)
	getBookingTotal := getBookingTotalHandler.NewHandler(totalsSvc, log)
	getFinancialReality := getFinancialRealityHandler.NewHandler(totalsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Свободные места ---
	api.HandleFunc("/subgroups/{subgroupId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/cart", validateCart.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Цены и сверка ---
	api.HandleFunc("/booking-users/{bookingUserId}/price", getLinePrice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/total", getBookingTotal.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/financial-reality", getFinancialReality.Handle).Methods(http.MethodGet)

	// --- Промокоды ---
	api.HandleFunc("/discount-codes/validate", validateDiscountCode.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	<-purger.Stop().Done()
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
