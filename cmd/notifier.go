/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/webmoto/storefront/internal/mq"
	"github.com/webmoto/storefront/internal/notify"
)

// notifierCmd represents the notifier command
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Delivers queued password reset mail",
	Long: `Consumes the notification channel and hands each message to the mail sink.
Requires MQ_BACKEND to be rabbitmq or pubsub.

	webmoto notifier
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if _, inProcess := broker.(*mq.Memory); broker == nil || inProcess {
			return errors.New("notifier needs rabbitmq or pubsub, set MQ_BACKEND")
		}
		defer broker.Close()

		logger.Info(ctx, "notifier started", "channel", cfg.MQ.NotifyChannel, "backend", cfg.MQ.Backend)
		relay := notify.NewRelay(broker, cfg.MQ.NotifyChannel, notify.NewLogSink(logger), logger)
		if err := relay.Run(ctx); err != nil {
			return fmt.Errorf("notifier stopped: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
