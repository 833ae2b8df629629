package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/handlers"
	"github.com/ukydev/fleet-dashboard/internal/ingest"
	"github.com/ukydev/fleet-dashboard/internal/kpi"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/video"
	"github.com/ukydev/fleet-dashboard/internal/ws"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	colls := db.NewCollections(client, cfg.MongoDB)
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, caching and suppression degraded")
	}
	defer rdb.Close()

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	engine := alerts.NewEngine(colls, rdb, alerts.DefaultThresholds(), hub)
	workflow := alerts.NewWorkflow(colls.Alerts, rdb)

	videoClient := video.NewClient(cfg.VideoAPIURL, cfg.VideoAPIKey, rdb, cfg.VideoCacheTTL)
	composer := feed.NewComposer(colls, videoClient, rdb, feed.Options{
		VideoEvery: cfg.FeedVideoEvery,
		PageSize:   cfg.FeedPageSize,
		Lookahead:  time.Duration(cfg.FeedLookaheadHrs) * time.Hour,
		CacheTTL:   cfg.FeedCacheTTL,
	})

	kpiService := kpi.NewService(colls, cfg.KPIWindowHours)
	go kpiService.Run(ctx, time.Duration(cfg.KPIRefreshMinutes)*time.Minute)

	consumer := ingest.NewConsumer(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, colls.Telemetry, engine)
	if err := consumer.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start MQTT consumer")
	}
	defer consumer.Stop()

	authHandler := handlers.NewAuthHandler(authService, colls.Users)
	vehicleHandler := handlers.NewVehicleHandler(colls.Vehicles)
	driverHandler := handlers.NewDriverHandler(colls.Drivers)
	tripHandler := handlers.NewTripHandler(colls.Trips, hub)
	maintenanceHandler := handlers.NewMaintenanceHandler(colls.Maintenance, engine, hub)
	documentHandler := handlers.NewDocumentHandler(colls.Documents, hub)
	costHandler := handlers.NewCostHandler(colls.Costs)
	telemetryHandler := handlers.NewTelemetryHandler(colls.Telemetry, engine)
	alertHandler := handlers.NewAlertHandler(colls.Alerts, workflow)
	kpiHandler := handlers.NewKPIHandler(colls.KPIs, cfg.KPIWindowHours)
	feedHandler := handlers.NewFeedHandler(composer)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)

	mux.HandleFunc("/api/vehicles", vehicleHandler.Collection)
	mux.HandleFunc("/api/vehicles/{id}", vehicleHandler.Item)
	mux.HandleFunc("/api/drivers", driverHandler.Collection)
	mux.HandleFunc("/api/drivers/{id}", driverHandler.Item)
	mux.HandleFunc("/api/trips", tripHandler.Collection)
	mux.HandleFunc("/api/trips/{id}", tripHandler.Item)
	mux.HandleFunc("/api/maintenance", maintenanceHandler.Collection)
	mux.HandleFunc("/api/maintenance/{id}", maintenanceHandler.Item)
	mux.HandleFunc("/api/documents", documentHandler.Collection)
	mux.HandleFunc("/api/documents/{id}", documentHandler.Item)
	mux.HandleFunc("/api/costs", costHandler.Collection)
	mux.HandleFunc("/api/costs/{id}", costHandler.Item)
	mux.HandleFunc("/api/telemetry", telemetryHandler.Ingest)
	mux.HandleFunc("/api/telemetry/{vehicle_id}", telemetryHandler.Recent)
	mux.HandleFunc("/api/alerts", alertHandler.List)
	mux.HandleFunc("/api/alerts/{id}", alertHandler.Get)
	mux.HandleFunc("/api/alerts/{id}/action", alertHandler.Action)
	mux.HandleFunc("/api/kpis", kpiHandler.Latest)
	mux.HandleFunc("/api/kpis/history", kpiHandler.History)
	mux.HandleFunc("/api/feed", feedHandler.Get)
	mux.HandleFunc("/ws/feed", ws.ServeFeed(hub, authService))
	mux.HandleFunc("/health", healthHandler(client, rdb))

	authMW := middleware.NewAuthMiddleware(authService)
	rateMW := middleware.NewRateLimitMiddleware()
	handler := rateMW.RateLimit(300, 60)(authMW.Authenticate(mux))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("Server stopped")
}

// healthHandler reports liveness of the service and its backing stores.
func healthHandler(client *mongo.Client, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "mongo": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			status["status"] = "degraded"
			status["mongo"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}
