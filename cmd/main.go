package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sanadlabs/sanad-backend/internal/clients/openai"
	redisclient "github.com/sanadlabs/sanad-backend/internal/clients/redis"
	"github.com/sanadlabs/sanad-backend/internal/db"
	"github.com/sanadlabs/sanad-backend/internal/handlers"
	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/middleware"
	"github.com/sanadlabs/sanad-backend/internal/moderation"
	"github.com/sanadlabs/sanad-backend/internal/observability"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/server"
	"github.com/sanadlabs/sanad-backend/internal/services"
	"github.com/sanadlabs/sanad-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	denylistPath := utils.GetEnv("DENYLIST_PATH", "config/denylist.yaml", log)
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "sanad-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	collectionRepo := repos.NewCollectionRepo(thePG, log)
	narrationRepo := repos.NewNarrationRepo(thePG, log)
	savedRepo := repos.NewSavedNarrationRepo(thePG, log)
	postRepo := repos.NewDiscussionPostRepo(thePG, log)
	reportRepo := repos.NewPostReportRepo(thePG, log)
	dailyUsageRepo := repos.NewDailyUsageRepo(thePG, log)
	monthlyUsageRepo := repos.NewMonthlyUsageRepo(thePG, log)
	statsRepo := repos.NewUserStatsRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	userAchievementRepo := repos.NewUserAchievementRepo(thePG, log)
	quizAttemptRepo := repos.NewQuizAttemptRepo(thePG, log)
	aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

	// Clients
	log.Info("Setting up Clients from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Fatal("Could not init OpenAI client", "error", err)
	}
	counters, err := redisclient.NewCounters(log)
	if err != nil {
		log.Warn("Redis counters unavailable, AI quota falls back to the soft path", "error", err)
		counters = nil
	} else {
		defer counters.Close()
	}

	matcher, err := moderation.LoadMatcher(denylistPath)
	if err != nil {
		log.Fatal("Could not load moderation denylist", "path", denylistPath, "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, avatars stay local-only", "error", err)
		bucketService = nil
	}
	avatarService, err := services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Fatal("Could not init AvatarService", "error", err)
	}
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(log, userRepo)
	tierService := services.NewTierService(log, userRepo)
	quotaService := services.NewQuotaService(thePG, log, services.NewUTCClock(), dailyUsageRepo, monthlyUsageRepo, savedRepo, counters)
	reviewer := services.NewOpenAIReviewer(log, openaiClient)
	moderationService := services.NewModerationService(log, matcher, reviewer)
	achievementService := services.NewAchievementService(thePG, log, statsRepo, achievementRepo, userAchievementRepo)
	activityService := services.NewActivityService(thePG, log, statsRepo, achievementService)
	narrationService := services.NewNarrationService(thePG, log, collectionRepo, narrationRepo)
	discussionService := services.NewDiscussionService(thePG, log, postRepo, narrationRepo, tierService, quotaService, moderationService, activityService)
	reportService := services.NewReportService(thePG, log, postRepo, reportRepo)
	savedService := services.NewSavedService(thePG, log, savedRepo, tierService, quotaService, activityService)
	quizService := services.NewQuizService(thePG, log, narrationRepo, quizAttemptRepo, tierService, quotaService, activityService)
	aiService := services.NewAIService(thePG, log, openaiClient, aiCallLogRepo, tierService, quotaService, activityService)
	progressService := services.NewProgressService(thePG, log, statsRepo, savedRepo, achievementService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:    splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AuthMiddleware:    authMiddleware,
		AuthHandler:       handlers.NewAuthHandler(authService),
		UserHandler:       handlers.NewUserHandler(userService),
		NarrationHandler:  handlers.NewNarrationHandler(narrationService),
		DiscussionHandler: handlers.NewDiscussionHandler(discussionService, reportService),
		SavedHandler:      handlers.NewSavedHandler(savedService),
		QuizHandler:       handlers.NewQuizHandler(quizService),
		AIHandler:         handlers.NewAIHandler(aiService),
		ProgressHandler:   handlers.NewProgressHandler(progressService, achievementService),
		QuotaHandler:      handlers.NewQuotaHandler(tierService, quotaService),
	})

	log.Info("Starting server...", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
