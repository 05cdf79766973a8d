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

	addBlackoutDateHandler "github.com/signcraft/scheduling-service/internal/api/handlers/add_blackout_date"
	cancelBookingHandler "github.com/signcraft/scheduling-service/internal/api/handlers/cancel_booking"
	capacitySummaryHandler "github.com/signcraft/scheduling-service/internal/api/handlers/capacity_summary"
	completeBookingHandler "github.com/signcraft/scheduling-service/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/signcraft/scheduling-service/internal/api/handlers/confirm_booking"
	getAvailableSlotsHandler "github.com/signcraft/scheduling-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/signcraft/scheduling-service/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/signcraft/scheduling-service/internal/api/handlers/get_calendar"
	getCustomerBookingsHandler "github.com/signcraft/scheduling-service/internal/api/handlers/get_customer_bookings"
	getOrderHandler "github.com/signcraft/scheduling-service/internal/api/handlers/get_order"
	listBlackoutDatesHandler "github.com/signcraft/scheduling-service/internal/api/handlers/list_blackout_dates"
	removeBlackoutDateHandler "github.com/signcraft/scheduling-service/internal/api/handlers/remove_blackout_date"
	requestEmergencyHandler "github.com/signcraft/scheduling-service/internal/api/handlers/request_emergency"
	reserveSlotHandler "github.com/signcraft/scheduling-service/internal/api/handlers/reserve_slot"
	updateCalendarHandler "github.com/signcraft/scheduling-service/internal/api/handlers/update_calendar"
	updateOrderDepositHandler "github.com/signcraft/scheduling-service/internal/api/handlers/update_order_deposit"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/config"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
	paymentRepo "github.com/signcraft/scheduling-service/internal/infra/storage/payment"
	quoteServiceClient "github.com/signcraft/scheduling-service/internal/integrations/quoteservice"
	bookingsService "github.com/signcraft/scheduling-service/internal/service/bookings"
	calendarService "github.com/signcraft/scheduling-service/internal/service/calendar"
	confirmBookingUC "github.com/signcraft/scheduling-service/internal/usecase/confirm_booking"
	getAvailableSlotsUC "github.com/signcraft/scheduling-service/internal/usecase/get_available_slots"
	recomputeOrderUC "github.com/signcraft/scheduling-service/internal/usecase/recompute_order"
	requestEmergencyUC "github.com/signcraft/scheduling-service/internal/usecase/request_emergency"
	reserveSlotUC "github.com/signcraft/scheduling-service/internal/usecase/reserve_slot"
	"github.com/signcraft/scheduling-service/pkg/dbmetrics"
	"github.com/signcraft/scheduling-service/pkg/logger"
	"github.com/signcraft/scheduling-service/pkg/metrics"
	"github.com/signcraft/scheduling-service/pkg/simpletxmanager"
	"github.com/signcraft/scheduling-service/pkg/txmanager"
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

	log.Info("Starting scheduling-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент сервиса смет
	quoteClient := quoteServiceClient.NewClient(
		cfg.QuoteService.URL,
		time.Duration(cfg.QuoteService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (QuoteService=%s timeout=%ds)",
		cfg.QuoteService.URL, cfg.QuoteService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		calendarRepository *calendarRepo.Repository
		orderRepository    *orderRepo.Repository
		paymentRepository  *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		orderRepository = orderRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		orderRepository = orderRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		orderRepository,
		paymentRepository,
		log,
	)
	calendarSvc := calendarService.NewService(
		calendarRepository,
		bookingRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		log,
	)

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		orderRepository,
		quoteClient,
		txMgr,
		log,
	)

	requestEmergencyUseCase := requestEmergencyUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		orderRepository,
		quoteClient,
		txMgr,
		log,
	)

	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		orderRepository,
		paymentRepository,
		txMgr,
		log,
	)

	recomputeOrderUseCase := recomputeOrderUC.NewUseCase(
		bookingRepository,
		orderRepository,
		paymentRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	requestEmergency := requestEmergencyHandler.NewHandler(requestEmergencyUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getOrder := getOrderHandler.NewHandler(bookingSvc, log)
	updateOrderDeposit := updateOrderDepositHandler.NewHandler(recomputeOrderUseCase, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)
	listBlackoutDates := listBlackoutDatesHandler.NewHandler(calendarSvc, log)
	addBlackoutDate := addBlackoutDateHandler.NewHandler(calendarSvc, log)
	removeBlackoutDate := removeBlackoutDateHandler.NewHandler(calendarSvc, log)
	capacitySummary := capacitySummaryHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты магазина за период
	api.HandleFunc("/shops/{shopId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Календарная политика магазина
	api.HandleFunc("/shops/{shopId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)

	// Список blackout-дат магазина
	api.HandleFunc("/shops/{shopId}/blackout-dates",
		listBlackoutDates.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Резервирование регулярного слота
	protected.HandleFunc("/bookings", reserveSlot.Handle).Methods(http.MethodPost)

	// Аварийное overflow-бронирование
	protected.HandleFunc("/bookings/emergency", requestEmergency.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение бронирования с фиксацией депозита
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Завершение выполненного бронирования (для сотрудников)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Заказы ---
	// Финансовая проекция заказа
	protected.HandleFunc("/orders/{orderId}", getOrder.Handle).Methods(http.MethodGet)

	// Изменение доли депозита с пересчётом заказа (для сотрудников)
	protected.HandleFunc("/orders/{orderId}/deposit", updateOrderDeposit.Handle).Methods(http.MethodPatch)

	// --- Управление календарём (для сотрудников) ---
	// Полная замена календарной политики
	protected.HandleFunc("/shops/{shopId}/calendar", updateCalendar.Handle).Methods(http.MethodPut)

	// Добавление blackout-даты
	protected.HandleFunc("/shops/{shopId}/blackout-dates", addBlackoutDate.Handle).Methods(http.MethodPost)

	// Удаление blackout-даты
	protected.HandleFunc("/shops/{shopId}/blackout-dates/{blackoutId}", removeBlackoutDate.Handle).Methods(http.MethodDelete)

	// Сводка занятости по дням
	protected.HandleFunc("/shops/{shopId}/capacity-summary", capacitySummary.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
