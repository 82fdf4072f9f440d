package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/tutorhub/internal/app/auth"
	appControllers "github.com/yigit/tutorhub/internal/app/controllers"
	"github.com/yigit/tutorhub/internal/app/jobs"
	appMigrations "github.com/yigit/tutorhub/internal/app/migrations"
	appRepos "github.com/yigit/tutorhub/internal/app/repositories"
	appRoutes "github.com/yigit/tutorhub/internal/app/routes"
	appServices "github.com/yigit/tutorhub/internal/app/services"
	"github.com/yigit/tutorhub/internal/config"
	"github.com/yigit/tutorhub/internal/db"
	appMiddleware "github.com/yigit/tutorhub/internal/middleware"
	pkgAuth "github.com/yigit/tutorhub/internal/pkg/auth"
	"github.com/yigit/tutorhub/internal/pkg/changefeed"
	"github.com/yigit/tutorhub/internal/pkg/email"
	"github.com/yigit/tutorhub/internal/pkg/filestorage"
	"github.com/yigit/tutorhub/internal/pkg/helpers"
	"github.com/yigit/tutorhub/internal/pkg/logger"
	"github.com/yigit/tutorhub/internal/pkg/validation"
	"github.com/yigit/tutorhub/internal/pkg/websocket"
	"github.com/yigit/tutorhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	FileStorage  filestorage.FileStorage
	Mailer       *email.Mailer

	AuthService                 *appServices.AuthService
	HomeService                 *appServices.HomeService
	AdminDashboardService       *appServices.AdminDashboardService
	ModerationService           *appServices.ModerationService
	InstitutionApprovalService  *appServices.InstitutionApprovalService
	FeeService                  *appServices.FeeService
	InstitutionDashboardService *appServices.InstitutionDashboardService
	CourseService               *appServices.CourseService
	InstitutionSettingsService  *appServices.InstitutionSettingsService

	HomeController        *appControllers.HomeController
	AuthController        *appControllers.AuthController
	AdminController       *appControllers.AdminController
	InstitutionController *appControllers.InstitutionController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Metrics        *appMiddleware.Metrics

	// Realtime fan-out. Listener and KafkaSink are nil when disabled.
	Hub             *websocket.Hub
	RealtimeHandler *websocket.Handler
	Listener        *changefeed.Listener
	KafkaSink       *changefeed.KafkaSink

	Sweeper *jobs.Sweeper
	Logger  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		admin := seed.AdminAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
		if err := seed.CreateDefaultData(ctx, appRepos.NewRepositories(database.Pool), admin, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// inTx runs fn against repositories bound to a fresh transaction
func inTx[S any](database *db.PostgresDB, repos *appRepos.Repositories, bind func(*appRepos.Repositories) S) appServices.TxRunner[S] {
	return func(ctx context.Context, fn func(ctx context.Context, store S) error) error {
		return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return fn(ctx, bind(repos.WithTx(tx)))
		})
	}
}

func newFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	if cfg.Storage.Driver == config.StorageCloudinary {
		storage, err := filestorage.NewCloudinaryStorage(cfg.Storage.CloudinaryURL, cfg.Storage.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return storage, nil
	}

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(database.Pool)
	deps.Repos = repos

	var err error
	deps.FileStorage, err = newFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Mailer = email.NewMailer(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, logger.Component("mailer"))
	if !deps.Mailer.Enabled() {
		lgr.Warn().Msg("SMTP host not configured, decision emails will only be logged")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos)

	// Services
	asUploads := func(r *appRepos.Repositories) appServices.UploadStore { return r }

	deps.AuthService = appServices.NewAuthService(
		repos,
		inTx(database, repos, func(r *appRepos.Repositories) appServices.RegistrationStore { return r }),
		deps.JWTService,
		logger.Component("auth"),
	)
	deps.HomeService = appServices.NewHomeService(repos, logger.Component("home"))
	deps.AdminDashboardService = appServices.NewAdminDashboardService(repos, logger.Component("admin_dashboard"))
	deps.ModerationService = appServices.NewModerationService(repos, logger.Component("moderation"))
	deps.InstitutionApprovalService = appServices.NewInstitutionApprovalService(
		repos,
		inTx(database, repos, func(r *appRepos.Repositories) appServices.ApprovalStore { return r }),
		cfg.Moderation.InstitutionApproval,
		appServices.NewEmailDecisionNotifier(deps.Mailer),
		logger.Component("institution_approval"),
	)
	deps.FeeService = appServices.NewFeeService(repos, logger.Component("fees"))
	deps.InstitutionDashboardService = appServices.NewInstitutionDashboardService(repos, deps.AuthzService, logger.Component("institution_dashboard"))
	deps.CourseService = appServices.NewCourseService(repos, deps.AuthzService, deps.FileStorage, inTx(database, repos, asUploads), logger.Component("courses"))
	deps.InstitutionSettingsService = appServices.NewInstitutionSettingsService(repos, deps.AuthzService, deps.FileStorage, inTx(database, repos, asUploads), logger.Component("institution_settings"))

	// HTTP layer
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = appMiddleware.NewMetrics(registry)

	deps.HomeController = appControllers.NewHomeController(deps.HomeService, database.Pool, lgr)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.AdminController = appControllers.NewAdminController(
		deps.AdminDashboardService,
		deps.ModerationService,
		deps.InstitutionApprovalService,
		deps.FeeService,
		lgr,
	)
	deps.InstitutionController = appControllers.NewInstitutionController(
		deps.InstitutionDashboardService,
		deps.CourseService,
		deps.InstitutionSettingsService,
		lgr,
	)

	// Realtime
	deps.Hub = websocket.NewHub(logger.Component("hub"))
	if cfg.Realtime.Enabled {
		deps.RealtimeHandler = websocket.NewHandler(deps.Hub, deps.JWTService, deps.AuthzService, cfg.CORSAllowedOrigins(), logger.Component("realtime"))
		deps.Listener = changefeed.NewListener(
			cfg.GetPostgresConnectionString(),
			cfg.Realtime.ReconnectDelay,
			deps.Hub,
			logger.Component("changefeed"),
		)
	}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		deps.KafkaSink = changefeed.NewKafkaSink(changefeed.KafkaConfig{
			Brokers:  brokers,
			Topic:    cfg.Kafka.Topic,
			Username: cfg.Kafka.Username,
			Password: cfg.Kafka.Password,
		}, logger.Component("kafka"))
		deps.Hub.AddListener(deps.KafkaSink.Listener())
	}

	deps.Sweeper, err = jobs.NewSweeper(cfg.Moderation.SweeperSchedule, deps.InstitutionApprovalService, repos, logger.Component("sweeper"))
	if err != nil {
		return nil, err
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validation rules")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(logger.Component("http")),
		gin.Recovery(),
		appMiddleware.CORS(cfg.CORSAllowedOrigins()),
		deps.Metrics.Middleware(),
	)

	appRoutes.SetupSwagger(router)

	// Uploads are only served from disk for the local driver
	storagePath := ""
	if cfg.Storage.Driver == config.StorageLocal {
		storagePath = cfg.Server.StoragePath
	}

	appRoutes.SetupRouter(router,
		deps.HomeController,
		deps.AuthController,
		deps.AdminController,
		deps.InstitutionController,
		deps.RealtimeHandler,
		deps.AuthMiddleware,
		deps.Metrics,
		storagePath,
	)

	return router
}
