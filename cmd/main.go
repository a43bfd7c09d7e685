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

	changeStatusHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/change_status"
	createReservationHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/create_reservation"
	getMerchantReservationsHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/get_merchant_reservations"
	getReservationHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/get_reservation"
	paymentWebhookHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/payment_webhook"
	rescheduleHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/reschedule_reservation"
	retryPaymentHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/retry_payment"
	sweepHandler "github.com/reservado/Reservado-BookingService/internal/api/handlers/sweep_expired"
	"github.com/reservado/Reservado-BookingService/internal/api/middleware"
	"github.com/reservado/Reservado-BookingService/internal/config"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
	paymentRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/payment"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	paymentsService "github.com/reservado/Reservado-BookingService/internal/service/payments"
	reservationsService "github.com/reservado/Reservado-BookingService/internal/service/reservations"
	createReservationUC "github.com/reservado/Reservado-BookingService/internal/usecase/create_reservation"
	rescheduleUC "github.com/reservado/Reservado-BookingService/internal/usecase/reschedule_reservation"
	sweepUC "github.com/reservado/Reservado-BookingService/internal/usecase/sweep_expired"
	"github.com/reservado/Reservado-BookingService/pkg/dbmetrics"
	"github.com/reservado/Reservado-BookingService/pkg/logger"
	"github.com/reservado/Reservado-BookingService/pkg/metrics"
	"github.com/reservado/Reservado-BookingService/pkg/simpletxmanager"
	"github.com/reservado/Reservado-BookingService/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Reservado-BookingService...")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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
	log.Info("Connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Repositories and transaction manager, with or without the metrics
	// wrapper around the pool.
	var (
		reservationRepository *reservationRepo.Repository
		paymentRepository     *paymentRepo.Repository
		catalogRepository     *catalogRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Payment gateway selection: Mercado Pago for merchants with credentials,
	// the deterministic stub for the rest.
	gatewaySelector := paymentsService.NewSelector(
		cfg.Payments.MercadoPagoBaseURL,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		log,
	)

	// Interface-typed nils would slip past the services' nil checks, so the
	// business metrics are only handed over when enabled.
	var (
		paymentMetrics paymentsService.Metrics
		createMetrics  createReservationUC.Metrics
		moveMetrics    rescheduleUC.Metrics
		sweepMetrics   sweepUC.Metrics
	)
	if cfg.Metrics.Enabled {
		paymentMetrics = metricsCollector
		createMetrics = metricsCollector
		moveMetrics = metricsCollector
		sweepMetrics = metricsCollector
	}

	paymentSvc := paymentsService.NewService(
		reservationRepository,
		paymentRepository,
		catalogRepository,
		gatewaySelector,
		txMgr,
		paymentMetrics,
		log,
	)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		paymentRepository,
		catalogRepository,
		txMgr,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		paymentSvc,
		txMgr,
		createMetrics,
		log,
	)
	rescheduleUseCase := rescheduleUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		txMgr,
		moveMetrics,
		log,
	)
	sweepUseCase := sweepUC.NewUseCase(
		reservationRepository,
		paymentRepository,
		txMgr,
		sweepMetrics,
		log,
	)

	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getMerchantReservations := getMerchantReservationsHandler.NewHandler(reservationSvc, log)
	changeStatus := changeStatusHandler.NewHandler(reservationSvc, log)
	reschedule := rescheduleHandler.NewHandler(rescheduleUseCase, log)
	retryPayment := retryPaymentHandler.NewHandler(paymentSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentSvc, log)
	sweepExpired := sweepHandler.NewHandler(sweepUseCase, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Provider notifications carry no merchant identity; the webhook stays
	// outside the authenticated group.
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// Merchant routes, behind the X-Merchant-ID header set by the gateway.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.MerchantAuth(log))

	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}/status", changeStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id}/reschedule", reschedule.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id}/payments/retry", retryPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/merchants/{merchantId}/reservations", getMerchantReservations.Handle).Methods(http.MethodGet)

	// Operational endpoint; reachable only from the internal network.
	r.HandleFunc("/internal/sweep-expired", sweepExpired.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Background sweeper: cancels reservations whose deposit deadline passed.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeperDone := make(chan struct{})
	if cfg.Sweeper.Enabled {
		go func() {
			defer close(sweeperDone)
			ticker := time.NewTicker(time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second)
			defer ticker.Stop()
			log.Info("Expiration sweeper started (interval=%ds)", cfg.Sweeper.IntervalSeconds)

			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if _, err := sweepUseCase.Execute(sweepCtx); err != nil {
						log.Error("Expiration sweep failed: %v", err)
					}
				}
			}
		}()
	} else {
		close(sweeperDone)
	}

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

	stopSweeper()
	<-sweeperDone

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
