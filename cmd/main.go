package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/application"
	"github.com/ScrpTrx-Go/GoVKStat/internal/config"
	"github.com/ScrpTrx-Go/GoVKStat/internal/infra/database"
	"github.com/ScrpTrx-Go/GoVKStat/internal/infra/vk"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/analyzer"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/fetcher"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/reporter"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/validator"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./internal/config/config.yaml", "path to the config file")
	ownerID := flag.Int64("id", 0, "wall owner id, negative for communities")
	startFlag := flag.String("start", "", "collect posts published since this date, YYYY-MM-DD (UTC)")
	flag.Parse()

	start, err := time.ParseInLocation(time.DateOnly, *startFlag, time.UTC)
	if err != nil {
		log.Printf("invalid -start %q: %v", *startFlag, err)
		return 2
	}

	config, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("error load config %v", err)
		return 1
	}

	zaplogger, err := pkg.NewZapLogger(config.Logger)
	if err != nil {
		log.Printf("error initialize logger: %v", err)
		return 1
	}
	defer zaplogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := vk.NewClient(config.VK, zaplogger.WithPackage("vk"))
	fetchLog := zaplogger.WithPackage("fetcher")
	probe := fetcher.NewProbe(client, fetchLog)

	app := application.NewApp(
		probe,
		fetcher.NewScheduler(client, fetchLog, config.VK.Concurrency),
		validator.NewValidator(probe, zaplogger.WithPackage("validator")),
		reporter.NewCSVSink(config.Report.OutputDir, zaplogger),
		reporter.NewExcelRenderer(config.Report.OutputDir, zaplogger),
		zaplogger,
	)

	if len(config.Report.Keywords) > 0 {
		app.Mentions = analyzer.NewDefaultMentionPipeline(zaplogger.WithPackage("analyzer"), config.Report.Keywords, 5)
	}
	if config.Report.Summary {
		app.Summary = reporter.NewSummaryWriter(config.Report.OutputDir, zaplogger)
	}

	if config.DatabaseConfig.DSN != "" {
		db, err := database.NewPostgresPool(ctx, zaplogger.WithPackage("database"), config.DatabaseConfig)
		if err != nil {
			zaplogger.Error("failed to init DB", "err", err)
			return 1
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			zaplogger.Error("failed to prepare DB schema", "err", err)
			return 1
		}
		app.Store = db
	}

	res, err := app.Run(ctx, *ownerID, start)
	if err != nil {
		zaplogger.Error("Run failed", "owner_id", *ownerID, "start", *startFlag, "err", err)
		return 1
	}

	for _, path := range res.Artifacts {
		zaplogger.Info("Artifact written", "path", path)
	}
	return 0
}
