package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"travelbooking/cfg"
	_ "travelbooking/cmd/travel/docs" // swagger docs
	"travelbooking/internal/booking"
	"travelbooking/internal/flight"
	"travelbooking/pkg/auth"
	"travelbooking/pkg/cache"
	"travelbooking/pkg/db"
	"travelbooking/pkg/events"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/idgen"
	"travelbooking/pkg/logger"
	"travelbooking/pkg/mailer"
	"travelbooking/pkg/metrics"
	"travelbooking/pkg/payment"
	"travelbooking/pkg/telemetry"
)

const attemptTerminalTTL = 15 * time.Minute

// @title           Travel Booking API
// @version         1.0
// @description     Flight search, price confirmation and booking with hosted payment.
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLogWithFile(config.App.Env, logger.FileOptions{
		Path:       config.Log.File,
		MaxSizeMB:  config.Log.MaxSizeMB,
		MaxBackups: config.Log.MaxBackups,
		MaxAgeDays: config.Log.MaxAgeDays,
	})

	// ============
	// Otel
	// ============
	shutdownOtel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  config.Observability.ServiceName,
		Environment:  config.App.Env,
		OTLPEndpoint: config.Observability.OTLPEndpoint,
	}, zlogger)
	if err != nil {
		zlogger.Warn("continuing without tracing/metrics export", logger.Field{Key: "err", Value: err})
		shutdownOtel = func(context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(ctx); err != nil {
			zlogger.Error("failed to shutdown OpenTelemetry", logger.Field{Key: "err", Value: err})
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	// ============
	// Cache
	// ============
	var store cache.Cache
	if addr := config.Redis.Addr(); addr != "" {
		store = cache.NewRedisCache(cache.RedisOptions{
			Addr:     addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := cache.Ping(ctx, store); err != nil {
			log.Fatalf("redis unreachable at %s: %v", addr, err)
		}
	} else {
		zlogger.Warn("REDIS_HOST not set, using in-process cache")
		store = cache.NewMemoryCache()
	}

	// ============
	// Database
	// ============
	pg := db.PostgresConfig{
		Host:     config.Postgres.Host,
		Port:     config.Postgres.Port,
		User:     config.Postgres.User,
		Password: config.Postgres.Password,
		DBName:   config.Postgres.DBName,
		SSLMode:  config.Postgres.SSLMode,
	}
	if config.Postgres.MigrateOnStart {
		if err := db.Migrate(config.Postgres.MigrationsPath, pg.DSN()); err != nil {
			log.Fatal(err)
		}
		zlogger.Info("database migrations applied")
	}
	sqlClient, err := db.NewSQLClient(ctx, "pgx", pg.DSN(), db.PoolOptions{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer sqlClient.Close()

	ids, err := idgen.NewSnowflakeGenerator(config.SnowflakeNodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	gdsClient := gds.NewClient(gds.Config{
		BaseURL:       config.GDS.BaseURL,
		ClientID:      config.GDS.ClientID,
		ClientSecret:  config.GDS.ClientSecret,
		Timeout:       config.GDS.Timeout,
		RatePerSecond: config.GDS.RatePerSecond,
		MaxOffers:     config.GDS.MaxOffers,
	}, zlogger, m)

	payments := payment.NewStripeGateway(config.Payment.StripeSecretKey, zlogger)

	var mail mailer.Mailer = mailer.Noop{}
	if config.Mail.Enabled() {
		smtp, err := mailer.NewSMTPMailer(mailer.Config{
			Host:     config.Mail.Host,
			Port:     config.Mail.Port,
			Username: config.Mail.Username,
			Password: config.Mail.Password,
			From:     config.Mail.From,
			Timeout:  config.Mail.Timeout,
		})
		if err != nil {
			log.Fatal(err)
		}
		mail = smtp
	} else {
		zlogger.Warn("SMTP not configured, confirmation emails disabled")
	}

	var publisher events.Publisher = events.Noop{}
	if len(config.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.Config{
			Brokers: config.Kafka.Brokers,
			Topic:   config.Kafka.Topic,
		})
	}
	defer publisher.Close()

	// ============
	// Internal Service
	// ============
	flightSvc := flight.NewService(gdsClient, store, flight.NewEnricher(config.GDS.LogoURLTemplate), flight.Options{
		CacheTTL:    config.Cache.SearchTTL,
		LocationTTL: config.Cache.LocationTTL,
		QuoteTTL:    config.Cache.QuoteTTL,
	}, zlogger, m)
	flightHandler := flight.NewFlightHandler(flightSvc)

	orchestrator := booking.NewOrchestrator(booking.Dependencies{
		Pricer:     flightSvc,
		Orders:     gdsClient,
		Payments:   payments,
		Mailer:     mail,
		Events:     publisher,
		Repository: booking.NewPostgresRepository(sqlClient),
		Store:      booking.NewAttemptStore(store, config.Cache.AttemptTTL, attemptTerminalTTL),
		IDs:        ids,
		Logger:     zlogger,
		Metrics:    m,
	}, booking.Options{
		FrontendURL:     config.App.FrontendURL,
		PaymentCurrency: config.Payment.Currency,
		MailTimeout:     config.Mail.Timeout,
	})
	bookingHandler := booking.NewBookingHandler(orchestrator)

	jwtManager := auth.NewJWTManager(config.Auth.JWTSecret, config.Auth.JWTTTL)

	// ============
	// HTTP
	// ============
	gin.SetMode(ginMode(config.App.Env))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(telemetry.TraceLoggerMiddleware(zlogger))
	r.Use(corsMiddleware(config.App.CORSAllowedOrigins, config.App.FrontendURL))
	r.Use(rateLimit(config.App.RequestsPerSecond))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	flightHandler.RegisterRoutes(r)
	bookingHandler.RegisterRoutes(r, auth.Middleware(jwtManager))

	if config.Auth.GoogleEnabled() {
		google, err := auth.NewGoogleOIDCProvider(ctx, config.Auth.GoogleClientID, config.Auth.GoogleClientSecret, config.Auth.GoogleRedirectURL)
		if err != nil {
			log.Fatal(err)
		}
		secure := config.App.Env == "production"
		auth.NewLoginHandler(google, jwtManager, config.Auth.SessionSecret, secure, zlogger).RegisterRoutes(r)
	}
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zlogger.Info("server listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("graceful shutdown failed", logger.Field{Key: "err", Value: err})
	}
}

func ginMode(env string) string {
	if env == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func corsMiddleware(origins []string, frontendURL string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{frontendURL}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(200, html)
	})
}
