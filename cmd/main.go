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
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/create_appointment"
	createSpecialDateHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/create_special_date"
	deleteSpecialDateHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/delete_special_date"
	getAppointmentHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_appointment"
	getBusinessAppointmentsHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_business_appointments"
	getDayAvailabilityHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_day_availability"
	getRangeAvailabilityHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_range_availability"
	getScheduleHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_schedule"
	getUserAppointmentsHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/get_user_appointments"
	previewDayAvailabilityHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/preview_day_availability"
	updateAppointmentStatusHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/update_appointment_status"
	updateScheduleHandler "github.com/termini-mk/AvailabilityService/internal/api/handlers/update_schedule"
	"github.com/termini-mk/AvailabilityService/internal/api/middleware"
	"github.com/termini-mk/AvailabilityService/internal/config"
	availabilityCache "github.com/termini-mk/AvailabilityService/internal/infra/cache"
	appointmentRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/appointment"
	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
	scheduleRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/schedule"
	appointmentsService "github.com/termini-mk/AvailabilityService/internal/service/appointments"
	scheduleService "github.com/termini-mk/AvailabilityService/internal/service/schedule"
	createAppointmentUC "github.com/termini-mk/AvailabilityService/internal/usecase/create_appointment"
	getDayAvailabilityUC "github.com/termini-mk/AvailabilityService/internal/usecase/get_day_availability"
	getRangeAvailabilityUC "github.com/termini-mk/AvailabilityService/internal/usecase/get_range_availability"
	"github.com/termini-mk/AvailabilityService/pkg/dbmetrics"
	"github.com/termini-mk/AvailabilityService/pkg/logger"
	"github.com/termini-mk/AvailabilityService/pkg/metrics"
	"github.com/termini-mk/AvailabilityService/pkg/simpletxmanager"
	"github.com/termini-mk/AvailabilityService/pkg/txmanager"
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

	log.Info("Starting AvailabilityService...")
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

	// Интерфейсы опциональных зависимостей: nil при выключенной подсистеме
	type AvailabilityCache interface {
		Get(ctx context.Context, key availabilityCache.DayKey, dest interface{}) error
		Set(ctx context.Context, key availabilityCache.DayKey, value interface{}) error
		InvalidateBusiness(ctx context.Context, businessID int64) error
	}
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Кэш доступности (если включен Redis)
	var availCache AvailabilityCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			// Кэш best-effort: без Redis сервис продолжает работать
			log.Warn("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		availCache = availabilityCache.NewAvailabilityCache(
			redisClient,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second,
		)
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		businessRepository    *businessRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		availCache,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		businessRepository,
		availCache,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getDayAvailabilityUseCase := getDayAvailabilityUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		businessRepository,
		availCache,
		txMgr,
		log,
	)

	getRangeAvailabilityUseCase := getRangeAvailabilityUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		businessRepository,
		txMgr,
		cfg.Availability.RangeParallelism,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		businessRepository,
		availCache,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getDayAvailability := getDayAvailabilityHandler.NewHandler(getDayAvailabilityUseCase, log)
	getRangeAvailability := getRangeAvailabilityHandler.NewHandler(getRangeAvailabilityUseCase, log)
	previewDayAvailability := previewDayAvailabilityHandler.NewHandler(getDayAvailabilityUseCase, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	createSpecialDate := createSpecialDateHandler.NewHandler(scheduleSvc, log)
	deleteSpecialDate := deleteSpecialDateHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

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
	// PUBLIC ROUTES (без аутентификации, с rate limiting)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		public.Use(rateLimiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Доступность на одну дату
	public.HandleFunc("/businesses/{businessId}/availability",
		getDayAvailability.Handle).Methods(http.MethodGet)

	// Доступность на диапазон дат
	public.HandleFunc("/businesses/{businessId}/availability/range",
		getRangeAvailability.Handle).Methods(http.MethodGet)

	// Просмотр расписания
	public.HandleFunc("/businesses/{businessId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Превью доступности с прошедшими слотами (только владелец)
	protected.HandleFunc("/businesses/{businessId}/availability/preview",
		previewDayAvailability.Handle).Methods(http.MethodGet)

	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (только владелец бизнеса)
	protected.HandleFunc("/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments",
		getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельцев) ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/appointments",
		getBusinessAppointments.Handle).Methods(http.MethodGet)

	// Замена еженедельного расписания
	protected.HandleFunc("/businesses/{businessId}/schedule",
		updateSchedule.Handle).Methods(http.MethodPut)

	// Особые даты
	protected.HandleFunc("/businesses/{businessId}/special-dates",
		createSpecialDate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/special-dates/{specialDateId}",
		deleteSpecialDate.Handle).Methods(http.MethodDelete)

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
