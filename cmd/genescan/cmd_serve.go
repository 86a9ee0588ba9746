package main

import (
	"github.com/agenthands/genescan/internal/server"
	"github.com/agenthands/genescan/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve completed runs and comparisons over a read-only HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		srv := server.NewServer(store.NewOS(cfg.Pipeline.OutputRoot))
		zap.L().Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("runs", cfg.Pipeline.OutputRoot))
		return srv.SetupRouter().Run(cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")
}
