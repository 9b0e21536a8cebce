package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ytget/game-system/internal/catalog"
	"github.com/ytget/game-system/internal/config"
	"github.com/ytget/game-system/internal/gateway"
	"github.com/ytget/game-system/internal/platform"
	"github.com/ytget/game-system/internal/render"
	"github.com/ytget/game-system/internal/session"
	"github.com/ytget/game-system/internal/telemetry"
)

// app holds what every subcommand needs, built once flags are parsed
type app struct {
	values   config.Values
	catalog  *catalog.Catalog
	gateway  gateway.Caller
	renderer *render.Renderer
	metrics  *telemetry.Metrics
	logs     io.Closer
}

// flags shared by every subcommand
type rootFlags struct {
	cfgFile     string
	debug       bool
	catalogPath string
	model1URL   string
	model2URL   string
	wakeURLs    []string
	timeout     int
}

// newGateway is replaced in tests
var newGateway = func(opts gateway.Options) gateway.Caller {
	return gateway.New(opts)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	cmd := &cobra.Command{
		Use:           "game-system",
		Short:         "Player count predictions and game recommendations",
		Long:          `game-system talks to the Game System prediction services without the desktop UI.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logs != nil {
				return a.logs.Close()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.cfgFile, "config", "", "config file (default is ./config.yaml)")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Enable debug logging")
	pf.StringVar(&flags.catalogPath, "catalog", "", "game catalog CSV (default: search "+platform.CatalogFileName+")")
	pf.StringVar(&flags.model1URL, "model1-url", "", "player count endpoint")
	pf.StringVar(&flags.model2URL, "model2-url", "", "recommendations endpoint")
	pf.StringSliceVar(&flags.wakeURLs, "wake-url", nil, "service to wake (repeatable)")
	pf.IntVar(&flags.timeout, "timeout", 0, "request timeout in seconds")

	cmd.AddCommand(
		newCatalogCmd(a),
		newWakeCmd(a),
		newPredictCmd(a),
		newRecommendCmd(a),
	)
	return cmd
}

// init resolves configuration, logging, the catalog and the gateway
func (a *app) init(cmd *cobra.Command, flags *rootFlags) error {
	env, err := config.LoadEnvironment(flags.cfgFile)
	if err != nil {
		return err
	}

	overrides := map[string]bool{
		config.KeyDebug:          cmd.Flags().Changed("debug"),
		config.KeyCatalogPath:    cmd.Flags().Changed("catalog"),
		config.KeyModel1URL:      cmd.Flags().Changed("model1-url"),
		config.KeyModel2URL:      cmd.Flags().Changed("model2-url"),
		config.KeyWakeURLs:       cmd.Flags().Changed("wake-url"),
		config.KeyRequestTimeout: cmd.Flags().Changed("timeout"),
	}
	values := map[string]any{
		config.KeyDebug:          flags.debug,
		config.KeyCatalogPath:    flags.catalogPath,
		config.KeyModel1URL:      flags.model1URL,
		config.KeyModel2URL:      flags.model2URL,
		config.KeyWakeURLs:       flags.wakeURLs,
		config.KeyRequestTimeout: flags.timeout,
	}
	for key, changed := range overrides {
		if changed {
			env.Set(key, values[key])
		}
	}
	a.values = env.Values()

	// logs go to stderr so stdout stays parseable
	a.logs = telemetry.InitLoggerTo(os.Stderr, a.values.Debug, a.values.LogFile)

	path, err := platform.FindCatalog(a.values.CatalogPath)
	if err != nil {
		path = a.values.CatalogPath
		if path == "" {
			path = platform.CatalogFileName
		}
	}
	if a.catalog, err = catalog.Load(path); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	a.metrics = telemetry.NewMetrics(prometheus.NewRegistry())
	a.renderer = render.New(render.DefaultLanguage)
	a.gateway = newGateway(gateway.Options{
		PredictURL:   a.values.Model1URL,
		RecommendURL: a.values.Model2URL,
		WakeURLs:     a.values.WakeURLs,
		Timeout:      a.values.RequestTimeout,
		Metrics:      a.metrics,
	})
	return nil
}

// newSession starts a controller over the loaded catalog
func (a *app) newSession() *session.Controller {
	return session.NewController(a.catalog, a.gateway, session.Options{
		BannerDuration: a.values.BannerDuration,
		Metrics:        a.metrics,
		Renderer:       a.renderer,
	})
}
