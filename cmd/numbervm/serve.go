// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/numbervm/config"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/internal/logging"
	"github.com/ava-labs/numbervm/utils"
	"github.com/ava-labs/numbervm/vm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		log, err := logging.New(consts.Name, cfg.Log)
		if err != nil {
			return err
		}
		defer log.Stop()

		if cfg.DatabaseDirectory != "" {
			if err := utils.InitDirectory(cfg.DatabaseDirectory); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		v, err := vm.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		runErr := v.Run(ctx)
		log.Info("shutting down", zap.Error(runErr))
		if err := v.Close(); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path of the YAML config file")
	rootCmd.AddCommand(serveCmd)
}
