package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ytget/game-system/internal/catalog"
	"github.com/ytget/game-system/internal/config"
	"github.com/ytget/game-system/internal/gateway"
	"github.com/ytget/game-system/internal/platform"
	"github.com/ytget/game-system/internal/render"
	"github.com/ytget/game-system/internal/session"
	"github.com/ytget/game-system/internal/telemetry"
	"github.com/ytget/game-system/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.game-system"
	AppName = "Game System"
)

func main() {
	env, err := config.LoadEnvironment(os.Getenv("GAMESYS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		env = config.DefaultEnvironment()
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewDashboardTheme())

	settings := config.NewSettings(myApp, env)
	values := settings.Values()

	if values.LogFile == "" {
		if path, err := platform.DefaultLogFile(); err == nil {
			values.LogFile = path
		}
	}
	logCloser := telemetry.InitLogger(values.Debug, values.LogFile)
	defer logCloser.Close()
	slog.Info("Starting", "app", AppName, "version", version)

	catalogPath, err := platform.FindCatalog(values.CatalogPath)
	if err != nil {
		slog.Warn("Catalog not found in search paths", "error", err)
		catalogPath = values.CatalogPath
		if catalogPath == "" {
			catalogPath = platform.CatalogFileName
		}
	}
	games, err := catalog.Load(catalogPath)
	if err != nil {
		slog.Error("Cannot start without the game catalog", "error", err)
		logCloser.Close()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)
	if values.MetricsAddr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(ctx, values.MetricsAddr, registry); err != nil {
				slog.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	client := gateway.New(gateway.Options{
		PredictURL:   values.Model1URL,
		RecommendURL: values.Model2URL,
		WakeURLs:     values.WakeURLs,
		Timeout:      values.RequestTimeout,
		Metrics:      metrics,
	})

	controller := session.NewController(games, client, session.Options{
		BannerDuration: values.BannerDuration,
		Metrics:        metrics,
		Renderer:       render.New(ui.LanguageTag(values.Language)),
	})

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(ctx, myWindow, settings, controller, games.Len())

	go func() {
		<-ctx.Done()
		fyne.Do(myApp.Quit)
	}()

	myWindow.ShowAndRun()
	cancel()
}
