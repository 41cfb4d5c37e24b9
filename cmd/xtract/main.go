// Package main is the entry point for the xtract terminal client.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/xtract/internal/config"
	"github.com/csheth/xtract/internal/logging"
	"github.com/csheth/xtract/internal/route"
	"github.com/csheth/xtract/internal/tui"
	"github.com/csheth/xtract/internal/xtract"
)

// version is set at build time via ldflags.
var version = "dev"

var settings = viper.New()

// rootCmd opens the client, optionally at a location such as
// "/search?q=transformers" or "/paper/42241".
var rootCmd = &cobra.Command{
	Use:   "xtract [location]",
	Short: "Search research papers and browse recommendations in the terminal",
	Long: `xtract is a terminal client for a research paper recommendation service.
Search the corpus, open a paper, and follow the papers recommended for it.

Locations use the same shapes as the web client: "/", "/search?q=<query>"
and "/paper/<id>".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClient,
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(settings, version)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./xtract.yaml or ~/.config/xtract/xtract.yaml)")
	flags.String("api", "", "base URL of the recommendation service (default http://127.0.0.1:8000)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("no-alt-screen", false, "disable the alternate screen buffer")

	mustBind(config.KeyAPIBaseURL, "api")
	mustBind(config.KeyLogFile, "log-file")
	mustBind(config.KeyLogLevel, "log-level")
}

func mustBind(key, flag string) {
	if err := settings.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// configErr is reported once the command runs so cobra prints it.
var configErr error

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if _, err := config.ReadFile(settings, cfgFile); err != nil {
		configErr = err
	}
	if noAlt, _ := rootCmd.PersistentFlags().GetBool("no-alt-screen"); noAlt {
		settings.Set(config.KeyAltScreen, false)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}

	start := route.HomePath
	if len(args) == 1 {
		start = args[0]
		if _, err := route.Parse(start); err != nil {
			return fmt.Errorf("invalid location %q: %w", start, err)
		}
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.WithFields(logrus.Fields{
		"version": version,
		"api":     cfg.APIBaseURL,
		"config":  settings.ConfigFileUsed(),
	}).Info("starting")

	client := xtract.New(xtract.Config{
		BaseURL:   cfg.APIBaseURL,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Source:        client,
			Logger:        log,
			StartLocation: start,
			APIBaseURL:    client.BaseURL(),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("program error")
		return fmt.Errorf("program error: %w", err)
	}
	log.Info("exiting")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xtract:", err)
		os.Exit(1)
	}
}
