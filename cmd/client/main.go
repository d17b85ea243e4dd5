package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/famboard/internal/client/api"
	"github.com/iudanet/famboard/internal/client/cli"
	"github.com/iudanet/famboard/internal/client/config"
	"github.com/iudanet/famboard/internal/client/conflict"
	"github.com/iudanet/famboard/internal/client/data"
	"github.com/iudanet/famboard/internal/client/storage/boltdb"
	"github.com/iudanet/famboard/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to config file")
	serverURL := flag.String("server", "", "Server URL (overrides config)")
	dbPath := flag.String("db", "", "Path to local database (overrides config)")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Флаги командной строки приоритетнее файла конфигурации
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	// Создаем контекст
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Создаем API клиент
	apiClient := api.NewClient(cfg.ServerURL, api.StaticToken(cfg.Token), cfg.RequestTimeout)

	// Собираем сервисы движка синхронизации
	resolver := conflict.NewResolver(logger)

	coordinator := sync.NewCoordinator(
		apiClient,
		boltStorage,
		boltStorage,
		boltStorage,
		boltStorage,
		resolver,
		sync.Config{
			Debounce:       cfg.Debounce,
			BackoffInitial: cfg.BackoffInitial,
			BackoffMax:     cfg.BackoffMax,
			BackoffElapsed: cfg.BackoffElapsed,
		},
		logger,
	)

	// Координатор дебаунсит сигналы мутаций в фоновый цикл синхронизации
	dataService := data.NewService(boltStorage, boltStorage, apiClient, coordinator, logger)
	manualService := conflict.NewService(boltStorage, boltStorage, apiClient, resolver, logger)

	app := cli.New(dataService, manualService, coordinator, boltStorage, boltStorage)

	// Выполняем команду
	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Famboard Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
