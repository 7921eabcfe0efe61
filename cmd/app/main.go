package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	apihttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/dispatchrepo"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/recipientrepo"
	"dispatch/internal/adapters/out/push"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	pushSender, err := push.NewFCMSender(
		configs.FCMServerKey,
		configs.FCMEndpoint,
		time.Duration(configs.PushTimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("Failed to create push sender: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, pushSender, logger)

	jobManager := jobs.NewJobManager(
		app.CreateSyncStatusesCommandHandler(),
		app.CreateDeliverNotificationsCommandHandler(),
		configs.SyncIntervalMinutes,
		configs.DeliveryBatchSize,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		APIToken:            goDotEnvVariable("API_TOKEN"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		FCMServerKey:        goDotEnvVariable("FCM_SERVER_KEY"),
		FCMEndpoint:         os.Getenv("FCM_ENDPOINT"),
		SyncIntervalMinutes: envInt("SYNC_INTERVAL_MINUTES", 5),
		DeliveryBatchSize:   envInt("DELIVERY_BATCH_SIZE", 50),
		PushTimeoutSeconds:  envInt("PUSH_TIMEOUT_SECONDS", 10),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func mustMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&dispatchrepo.DispatchDTO{},
		&dispatchrepo.AssignmentDTO{},
		&assignmentrepo.AssignmentRecordDTO{},
		&notificationrepo.NotificationDTO{},
		&recipientrepo.DriverDTO{},
		&recipientrepo.CustomerDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := apihttp.NewServer(
		app.CreateCreateDispatchCommandHandler(),
		app.CreateAssignDriversCommandHandler(),
		app.CreateUpdateDriverStatusCommandHandler(),
		app.CreateSendBulkNotificationsCommandHandler(),
		app.CreateUpdatePushTokenCommandHandler(),
		app.CreateGetActiveDispatchesQueryHandler(),
		app.CreateGetUnreadNotificationsQueryHandler(),
	)
	server.RegisterRoutes(e, configs.APIToken)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
