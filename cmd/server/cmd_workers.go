package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/internal/server"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/queue"
)

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}

		n, err := strconv.Atoi(config.QueueWorkers())
		if err != nil || n < 1 {
			n = 4
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		queue.StartWorkers(ctx, n)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		logger.Info("queue: stopping workers", "signal", sig.String())
		cancel()
		return nil
	},
}
