package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
	"github.com/prathamc00/AI-Code-Reviewer/internal/server"
)

type serveFlags struct {
	configPath string
	debug      bool
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP review server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Config file path (default: built-in defaults)")
	flags.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(f *serveFlags) error {
	if err := logging.Init(f.debug); err != nil {
		return exitError(2, "initializing logging: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return exitError(1, "loading config: %v", err)
	}

	srv, err := server.New(newEngine(cfg), cfg)
	if err != nil {
		return exitError(2, "creating server: %v", err)
	}
	if err := srv.Run(context.Background()); err != nil {
		return exitError(2, "server error: %v", err)
	}
	return nil
}
