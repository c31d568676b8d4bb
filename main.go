package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secondlife/config"
	"secondlife/cron"
	"secondlife/database"
	ecoRepo "secondlife/database/repository/eco"
	itemRepo "secondlife/database/repository/item"
	suggestionRepo "secondlife/database/repository/suggestion"
	themeRepo "secondlife/database/repository/theme"
	userRepoPkg "secondlife/database/repository/user"
	"secondlife/handlers"
	"secondlife/routes"
	"secondlife/services/auth"
	"secondlife/services/eco"
	ai "secondlife/services/intelligence"
	"secondlife/services/items"
	"secondlife/services/ratelimit"
	"secondlife/services/suggestions"
	"secondlife/services/themes"
	"secondlife/services/user"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("main: invalid configuration: %v", err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	db := database.DB()

	firebaseAuth, err := utils.FirebaseInit(rootCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize firebase auth: %v", err)
	}

	redisClients := map[string]*redis.Client{}
	if cfg.UsesRedis() {
		client, err := utils.InitRateLimitCache(rootCtx)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		redisClients["ratelimit"] = client
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitStore == "redis" {
		limiter = ratelimit.NewRedisLimiter(utils.RateLimitClient)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	profileRepo := userRepoPkg.NewMongoProfileRepo(db)
	itemStore := itemRepo.NewMongoItemRepo(db)
	themeStore := themeRepo.NewMongoThemeRepo(db)
	ecoStore := ecoRepo.NewMongoEcoRepo(db)
	suggestionStore := suggestionRepo.NewMongoSuggestionRepo(db)

	provider, err := ai.NewProvider(rootCtx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize AI provider: %v", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	var guard suggestions.RunGuard = suggestions.NewLocalRunGuard()
	if utils.RateLimitClient != nil {
		guard = suggestions.NewRedisRunGuard(utils.RateLimitClient)
	}

	// services.
	userService := &user.DefaultUserService{Repo: userRepo, Profiles: profileRepo}
	itemService := &items.DefaultItemService{Repo: itemStore}
	themeService := &themes.DefaultThemeService{Repo: themeStore}
	ecoService := &eco.DefaultEcoService{Repo: ecoStore}
	generator := &suggestions.Generator{
		Themes:      themeStore,
		Suggestions: suggestionStore,
		Provider:    provider,
		Guard:       guard,
	}
	suggestionService := &suggestions.DefaultSuggestionService{Repo: suggestionStore, Generator: generator}

	scheduler := newScheduler(cfg, generator)
	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			logger.Sugar().Fatalf("main: failed to start scheduler: %v", err)
		}
	}

	go utils.StartHealthMonitor(rootCtx, redisClients, database.MongoClient)

	handlerBundle := &handlers.HandlerBundle{
		Resolver:       auth.NewResolver(auth.NewFirebaseVerifier(firebaseAuth), userRepo),
		Limiter:        limiter,
		RatePolicy:     ratelimit.Policy{MaxTokens: cfg.RateLimitMax, Window: cfg.RateLimitWindow()},
		TrustedProxies: cfg.TrustedProxies,
		Health:         handlers.NewHealthHandler(),
		User:           handlers.NewUserHandler(userService),
		Admin:          handlers.NewAdminHandler(userService),
		Items:          handlers.NewItemHandler(itemService),
		Themes:         handlers.NewThemeHandler(themeService),
		Eco:            handlers.NewEcoHandler(ecoService),
		Suggestions:    handlers.NewSuggestionHandler(suggestionService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s with %s provider...", srv.Addr, provider.Name())
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	stop()
	if utils.RateLimitClient != nil {
		_ = utils.RateLimitClient.Close()
	}
	if err := database.Close(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newScheduler returns nil when SCHEDULER_MODE is off.
func newScheduler(cfg config.Config, gen cron.WeeklyGenerator) cron.Scheduler {
	loc, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		loc = time.UTC
	}
	switch cfg.SchedulerMode {
	case "asynq":
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}
		return cron.NewAsynqScheduler(redisOpt, cfg.SchedulerCron, loc, gen)
	case "local":
		return cron.NewLocalScheduler(cfg.SchedulerCron, loc, gen)
	}
	return nil
}
