package router

import (
	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/service"
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// In a development environment, we want to ensure that SSL is disabled for
	// local testing. In production, the connection string should be provided
	// with the correct SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	// For non-development environments that use a transaction pooler like pgbouncer,
	// we must use the simple query protocol to avoid issues with server-side prepared statements.
	if cfg.Environment != "development" {
		if !strings.Contains(dsn, "prefer_simple_protocol") {
			separator := "&"
			if !strings.Contains(dsn, "?") {
				separator = "?"
			}
			dsn += separator + "prefer_simple_protocol=true"
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
		return nil, nil, err
	}

	// Ping the database to ensure connection is valid
	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// Set reasonable connection pool limits
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Initialize S3 client for lesson resource uploads
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to load S3 config: %v", err)
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Initialize Pub/Sub publisher for the view analytics stream. Without
	// a GCP project the activity service just skips publishing.
	var viewPublisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(context.Background(), cfg.GCPProjectID)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
			return nil, nil, err
		}
		viewPublisher = p
	}

	// Resolve the completion-service API key. The environment wins; a
	// deployed instance reads it from Secret Manager instead.
	openRouterKey := cfg.OpenRouterAPIKey
	if openRouterKey == "" && cfg.GCPProjectID != "" {
		sm, err := service.NewSecretManagerService(context.Background(), cfg.GCPProjectID)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
			return nil, nil, err
		}
		openRouterKey, err = sm.GetSecret(context.Background(), cfg.OpenRouterSecretName)
		if err != nil {
			logger.Fatal().Msgf("Failed to fetch completion API key: %v", err)
			return nil, nil, err
		}
		if err := sm.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close Secret Manager client")
		}
	}
	completionClient := service.NewOpenRouterClient(cfg.OpenRouterBaseURL, openRouterKey, cfg.OpenRouterModel, logger)

	// Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db, logger)
	lessonRepo := repository.NewLessonRepo(db)
	quizRepo := repository.NewQuizRepo(db)
	activityRepo := repository.NewActivityRepo(db)

	userSvc := service.NewUserService(userRepo)
	courseSvc := service.NewCourseService(courseRepo, lessonRepo, quizRepo, userRepo)
	contentSvc := service.NewContentService(courseRepo, lessonRepo, quizRepo)
	recommendSvc := service.NewRecommendationService(userRepo, activityRepo, courseRepo, logger)
	chatbotSvc := service.NewChatbotService(courseRepo, lessonRepo, quizRepo, completionClient, logger)
	activitySvc := service.NewActivityService(activityRepo, userRepo, courseRepo, lessonRepo, viewPublisher, cfg.ViewEventsTopic, logger)
	mediaSvc := service.NewMediaService(lessonRepo, s3Client, cfg.S3Bucket, logger)

	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	courseHandler := handler.NewCourseHandler(courseSvc, recommendSvc, validate, logger)
	chatHandler := handler.NewChatHandler(chatbotSvc, validate, logger)
	activityHandler := handler.NewActivityHandler(activitySvc, validate, logger)
	lessonHandler := handler.NewLessonHandler(contentSvc, mediaSvc, validate, logger)
	quizHandler := handler.NewQuizHandler(contentSvc, logger)
	mediaHandler := handler.NewMediaHandler(mediaSvc, validate, logger)

	// Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /api/v1 prefix
	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	chatHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	activityHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	lessonHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	quizHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	mediaHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect /api/* to /v1/* for backward compatibility
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	// Redirect all other root-level requests to /v1/{path}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Avoid redirect loops by checking if already under /v1 or /api
		if strings.HasPrefix(r.URL.Path, "/v1/") || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Allow all origins for development
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), db, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Only remove the middleware if it exists.
		// This makes the client more robust, especially for operations like presigned URLs
		// that might inspect the middleware stack.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
