package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/wcreports/internal/charts"
	"github.com/angelmondragon/wcreports/internal/fetch"
	"github.com/angelmondragon/wcreports/internal/reports"
	"github.com/angelmondragon/wcreports/pkg/config"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/logger"
	"github.com/angelmondragon/wcreports/pkg/metrics"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

const serviceName = "wcreports"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(exitCode(err))
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if err := run(ctx, cfg, logg); err != nil {
		if errors.Is(err, context.Canceled) {
			logg.Warn(ctx, "report interrupted")
		}
		stop()
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	registry := prometheus.NewRegistry()
	reportMetrics := metrics.NewReportMetrics(registry)
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			logg.Error(ctx, "failed to write metrics textfile", err)
		}
	}()

	client, err := woocommerce.NewClient(cfg.WooCommerce)
	if err != nil {
		logg.Error(ctx, "failed to create store client", err)
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "create store client")
	}

	fetcher, err := fetch.NewFetcher(fetch.FetcherParams{
		Client:   client,
		PageSize: cfg.WooCommerce.PageSize,
		Logger:   logg,
		Metrics:  reportMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create fetcher", err)
		return err
	}

	theme, err := charts.NewTheme(cfg.Theme, cfg.Report.Language())
	if err != nil {
		logg.Error(ctx, "invalid chart theme", err)
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build chart theme")
	}

	service, err := reports.NewService(reports.ServiceParams{
		Logger:    logg,
		Registry:  reports.DefaultRegistry(),
		Fetcher:   fetcher,
		Products:  client,
		Metrics:   reportMetrics,
		Theme:     theme,
		ExportDir: cfg.Report.ExportDir,
	})
	if err != nil {
		logg.Error(ctx, "failed to create report service", err)
		return err
	}

	req, err := reports.RequestFromConfig(cfg.Report, time.Now())
	if err != nil {
		logg.Error(ctx, "invalid report request", err)
		return err
	}
	result, err := service.Run(ctx, req)
	if err != nil {
		return err
	}
	if result.Skipped {
		logg.Info(ctx, "no chart written: "+result.Reason)
		return nil
	}
	logg.Info(logg.WithField(ctx, "path", result.Path), "chart written")
	return nil
}

// exitCode maps typed errors to their configured process exit codes.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	code := pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).ExitCode
	if code == 0 {
		return 1
	}
	return code
}
