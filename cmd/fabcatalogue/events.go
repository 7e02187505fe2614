package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"fabcatalogue/messaging"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect catalogue change events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print change events from the events topic until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := messaging.NewClient(&cfg.Messaging)
		if err := client.Connect(); err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		consumer := messaging.NewConsumer(client, cfg.Messaging.EventsTopic, func(env *messaging.Envelope, ev messaging.ChangeEvent) {
			line := fmt.Sprintf("%s %s %s/%s by %s", env.Timestamp.Format("2006-01-02T15:04:05"), ev.Action, ev.Entity, ev.Key, ev.Actor)
			if len(ev.Fields) > 0 {
				line += " [" + strings.Join(ev.Fields, ", ") + "]"
			}
			fmt.Fprintln(out, line)
		})
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
}
