package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/mortality-atlas/pkg/runtime/logging"
	"github.com/de-tools/mortality-atlas/pkg/server"
	"github.com/de-tools/mortality-atlas/pkg/services/config"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Serve the weekly deaths snapshot and dashboard",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file loaded")
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	logger.Info().
		Str("snapshot", cfg.Output.Path).
		Str("static_dir", cfg.Server.StaticDir).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:      addr,
		StaticDir: cfg.Server.StaticDir,
		Dependencies: server.Dependencies{
			Reports: snapshot.FileSource{Path: cfg.Output.Path},
			Logger:  logger,
		},
	})

	return api.Start()
}
