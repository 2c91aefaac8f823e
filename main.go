package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeboss-backend/controller"
	"timeboss-backend/metrics"
	"timeboss-backend/middelware"
	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/planner"
	"timeboss-backend/realtime"
	"timeboss-backend/repository"
	"timeboss-backend/services"
	"timeboss-backend/utils"
	"timeboss-backend/utils/logger"
	"timeboss-backend/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title TimeBoss Backend API
// @version 1.0
// @description Job dispatch for field service crews: scheduling, crew assignment, on-site
// @description check-in and check-out, invoicing and daily summaries.
// @description
// @description ## AUTHENTICATION FLOW:
// @description 1. **POST /auth/signup** creates an account. The first account is the administrator.
// @description 2. **POST /auth/login** returns a bearer token.
// @description 3. Send `Authorization: Bearer YOUR_TOKEN` on every protected call.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:4000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token in the text input below.
func main() {
	Init()

	appLog := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLog.Infof("Config loaded: %s", utils.PrintPrettyJSON(utils.RedactedConfig(config)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewStore(ctx, config, appLog)
	if err != nil {
		appLog.Fatalf("Failed to open %s store: %v", config.StoreDriver, err)
	}

	sender, closeSender := buildSender(config, appLog)
	dispatcher := notifier.NewDispatcher(sender, notifier.DispatcherConfig{
		QueueSize:   config.NotifyQueueSize,
		Workers:     config.NotifyWorkers,
		SendTimeout: config.NotifySendTimeout,
	}, appLog)
	dispatcher.Start()

	hub := realtime.NewHub(appLog)

	// A nil interface keeps Optimize on the heuristic
	var plan planner.Planner
	if config.PlannerAPIKey != "" {
		plan = planner.NewOpenAIPlanner(config.PlannerAPIKey, config.PlannerBaseURL, config.PlannerModel, config.PlannerTimeout)
		appLog.Infof("Planner enabled with model %s", config.PlannerModel)
	}

	svc := services.NewService(store, notifier.Multi{dispatcher, hub}, plan, dispatcher, config, appLog)
	jwtManager := middelware.NewJWTManager(config, appLog, svc.GetUserService())

	var digest *worker.Service
	if config.DigestSchedule != "" {
		digest, err = worker.NewService(config, svc.GetReportService(), dispatcher, appLog)
		if err != nil {
			appLog.Fatalf("Failed to create digest worker: %v", err)
		}
		if err := digest.StartInBackground(); err != nil {
			appLog.Fatalf("Failed to start digest worker: %v", err)
		}
	}

	limiter := middelware.NewRateLimiter(config.RateLimitRequests, config.RateLimitWindow, appLog)
	go limiter.RunCleanup(ctx, time.Minute)
	go cleanupTokens(ctx, jwtManager, time.Hour)

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	logging := middelware.NewLoggingMiddleware(appLog)
	r.Use(
		logging.Recovery(),
		logging.StructuredLogger(),
		middelware.Metrics(),
		middelware.NewCORSMiddleware(config).CORS(),
		limiter.Middleware(),
	)

	var runner controller.DigestRunner
	if digest != nil {
		runner = digest
	}
	ctrl := controller.NewController(svc, jwtManager, hub.ServeWS, runner, config, appLog)
	ctrl.RegisterRoutes(r, config.BasePath)
	metrics.RegisterDefault()

	srv := &http.Server{
		Addr:              net.JoinHostPort(config.AppHost, config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Infof("%s %s listening on %s", config.AppName, config.AppVersion, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Errorf("HTTP server shutdown: %v", err)
	}
	if digest != nil {
		digest.Stop()
	}
	hub.Close()
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		appLog.Warnf("Notification queue not drained: %v", err)
	}
	closeSender()
	if err := store.Close(); err != nil {
		appLog.Errorf("Failed to close store: %v", err)
	}
}

// buildSender picks delivery channels from config; the log sender is always on
func buildSender(cfg *models.Config, log logger.Logger) (notifier.Sender, func()) {
	senders := notifier.MultiSender{notifier.NewLogSender(log)}
	closeFn := func() {}

	if cfg.NotifyWebhookURL != "" {
		senders = append(senders, notifier.NewWebhookSender(cfg.NotifyWebhookURL, cfg.NotifyWebhookSecret))
		log.Infof("Notifications delivered to webhook %s", cfg.NotifyWebhookURL)
	}

	if cfg.RedisURL != "" {
		rs, err := notifier.NewRedisSender(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			log.Errorf("Redis notifications disabled: %v", err)
		} else {
			senders = append(senders, rs)
			closeFn = func() {
				if err := rs.Close(); err != nil {
					log.Warnf("Failed to close redis client: %v", err)
				}
			}
			log.Infof("Notifications published to redis channel %s", cfg.RedisChannel)
		}
	}

	return senders, closeFn
}

func cleanupTokens(ctx context.Context, j *middelware.JWTManager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.CleanupExpiredTokens()
		}
	}
}
