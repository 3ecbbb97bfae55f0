package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	Execute(ctx)
}

func newRootCommand(logger *log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fairway",
		Short: "Fairway career simulation tools",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(newSimulateCommand(logger))

	return cmd
}

func Execute(ctx context.Context) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})

	root := newRootCommand(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Fatal(err)
	}
}
