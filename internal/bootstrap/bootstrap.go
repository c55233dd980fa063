package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/jdiamond4/CourseSearch/internal/app/controllers"
	appMigrations "github.com/jdiamond4/CourseSearch/internal/app/migrations"
	appRepos "github.com/jdiamond4/CourseSearch/internal/app/repositories"
	appRoutes "github.com/jdiamond4/CourseSearch/internal/app/routes"
	appServices "github.com/jdiamond4/CourseSearch/internal/app/services"
	"github.com/jdiamond4/CourseSearch/internal/app/sis"
	"github.com/jdiamond4/CourseSearch/internal/config"
	"github.com/jdiamond4/CourseSearch/internal/db"
	appMiddleware "github.com/jdiamond4/CourseSearch/internal/middleware"
	pkgAuth "github.com/jdiamond4/CourseSearch/internal/pkg/auth"
	"github.com/jdiamond4/CourseSearch/internal/pkg/helpers"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
	"github.com/jdiamond4/CourseSearch/internal/pkg/websocket"
	"github.com/jdiamond4/CourseSearch/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CatalogService    appServices.CatalogService // Interface type
	SyncService       appServices.SyncService    // Interface type
	AuthService       *appServices.AuthService
	AuthController    *appControllers.AuthController
	CatalogController *appControllers.CatalogController
	SyncController    *appControllers.SyncController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	SISClient         *sis.Client
	Hub               *websocket.Hub
	WSHandler         *websocket.Handler
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// An empty configPath falls back to configs/config.yaml.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the subject directory.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed the subject directory (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to seed subject directory, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.SISClient = sis.NewClient(sis.Config{
		BaseURL:           cfg.SIS.BaseURL,
		RequestTimeout:    helpers.ParseDuration(cfg.SIS.RequestTimeout, 30*time.Second),
		RequestsPerSecond: cfg.SIS.RequestsPerSecond,
		Burst:             cfg.SIS.Burst,
		MaxRetries:        cfg.SIS.MaxRetries,
	})

	// The hub fans sync progress out to websocket subscribers
	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	deps.AuthService = appServices.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, deps.JWTService)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.CourseRepository, deps.Repos.SubjectRepository)
	deps.SyncService = appServices.NewSyncService(
		deps.SISClient,
		deps.Repos.CourseRepository,
		deps.Repos.SyncRunRepository,
		deps.Repos.SubjectRepository,
		deps.Hub,
		cfg.Ratings.SnapshotPath,
		cfg.Sync.StoreFailureLimit,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.SyncController = appControllers.NewSyncController(deps.SyncService, deps.Logger)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger())
	router.Use(gin.Recovery())

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CatalogController,
		deps.SyncController,
		deps.WSHandler,
		deps.AuthMiddleware,
		database,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
