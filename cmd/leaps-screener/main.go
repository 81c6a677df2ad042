package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Renotrader31/LEAPS/internal/chain"
	"github.com/Renotrader31/LEAPS/internal/config"
	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/report"
	"github.com/Renotrader31/LEAPS/internal/screener"
	"github.com/Renotrader31/LEAPS/internal/server"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "leaps-screener",
		Short:   "Screens equities for long-dated options strategies",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbosity(verbosity)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(newScreenCmd(&configDir))
	rootCmd.AddCommand(newServeCmd(&configDir))
	return rootCmd
}

// buildPipeline assembles provider chain and synthesizer from config.
// The mock provider always terminates the fallback chain.
func buildPipeline(cfg *config.Config) *screener.Pipeline {
	seed := cfg.Data.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mock := data.NewMockProvider(seed)
	var prov data.Provider
	switch cfg.Data.Provider {
	case "yahoo":
		prov = data.NewYahooProvider(cfg.Data.YahooBaseURL, mock)
	case "polygon":
		prov = data.NewPolygonProvider("https://api.polygon.io", cfg.Data.PolygonAPIKey, mock)
	default:
		prov = mock
	}

	rng := rand.New(rand.NewSource(seed))
	p := screener.NewPipeline(prov, chain.NewSynthesizer(rng))
	p.BatchSize = cfg.Data.BatchSize
	p.BatchDelay = cfg.Data.BatchDelay
	return p
}

func newScreenCmd(configDir *string) *cobra.Command {
	var tickers []string
	var strategyName string
	var maxResults int

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run one screening pass and write JSON/CSV reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}

			crit := screener.DefaultCriteria()
			if strategyName != "" {
				crit.Strategy = strategyName
			}
			if maxResults > 0 {
				crit.MaxResults = maxResults
			}

			universe := cfg.Screen.Universe
			if len(tickers) > 0 {
				universe = tickers
			}

			pipeline := buildPipeline(cfg)
			start := time.Now()
			results := pipeline.Screen(universe, crit)

			if err := os.MkdirAll(cfg.Report.Dir, 0755); err != nil {
				return fmt.Errorf("creating report dir %s: %w", cfg.Report.Dir, err)
			}
			if err := report.WriteJSON(results, cfg.Report.Dir); err != nil {
				return err
			}
			if err := report.WriteCSV(results, cfg.Report.Dir); err != nil {
				return err
			}

			logger.Infof("screened %d tickers in %v, %d results written to %s",
				len(universe), time.Since(start), len(results), cfg.Report.Dir)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tickers, "tickers", "t", nil, "tickers to screen (default: configured universe)")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "require this strategy to be viable")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "cap the result count")
	return cmd
}

func newServeCmd(configDir *string) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the screening API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.Server.ListenAddr = listenAddr
			}

			srv := server.New(cfg, buildPipeline(cfg))
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
