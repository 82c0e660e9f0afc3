package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/dispatcher"
	"github.com/mkowalsky/expensegate/internal/application/observer"
	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/config"
	"github.com/mkowalsky/expensegate/internal/infrastructure/persistence/repository"
	"github.com/mkowalsky/expensegate/internal/infrastructure/persistence/sqlite"
	"github.com/mkowalsky/expensegate/internal/infrastructure/storage"
	"github.com/mkowalsky/expensegate/internal/report"
	"github.com/mkowalsky/expensegate/internal/webapi"
	"github.com/mkowalsky/expensegate/pkg/database"
	"github.com/mkowalsky/expensegate/pkg/utils"
)

func main() {
	// Load .env if present; real environment wins
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense gate server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Database
	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(sqlDB, logger)

	// Repositories
	directory := repository.NewAccountRepository(sqlDB, logger)
	profileStore := repository.NewProfileRepository(sqlDB, logger)
	roleStore := repository.NewRoleRepository(sqlDB, logger)
	expenseStore := repository.NewExpenseRepository(sqlDB, logger)

	// Blob storage
	blobStore, err := storage.NewBlobStore(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	if err := blobStore.EnsureBucket(context.Background()); err != nil {
		logger.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	// Services
	svcLogger := utils.NewZapAdapter(logger)
	authz := service.NewAuthorizationEngine(roleStore, svcLogger)
	accountService := service.NewAccountService(directory, profileStore, roleStore, authz, svcLogger)
	userService := service.NewUserService(profileStore, roleStore, directory, authz, svcLogger)
	fileGuard := service.NewFileAccessGuard(blobStore, expenseStore, authz, svcLogger)

	// Lifecycle events and the blob reconciler
	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(svcLogger))
	reconciler := observer.NewFileReconciler(fileGuard, svcLogger)
	reconciler.Register(disp)

	expenseService := service.NewExpenseService(expenseStore, authz, txManager, disp, svcLogger)
	exporter := report.NewExpenseExporter(authz, expenseStore, logger)

	// HTTP server
	server := webapi.NewServer(
		webapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		accountService,
		userService,
		expenseService,
		fileGuard,
		exporter,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
