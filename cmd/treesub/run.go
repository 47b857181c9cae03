package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rafabd1/treesub/internal/bot"
	"github.com/rafabd1/treesub/internal/commands"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Connect to Discord, publish the command tree and serve commands",
	PreRunE: loadConfig,
	RunE:    runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := commands.NewRegistry()
	b, err := bot.New(reg, cfg)
	if err != nil {
		return err
	}

	// The scope publishes the tree once the gateway reports ready.
	go func() {
		if err := reg.Scope(ctx, func(r *commands.Registry) error {
			return declare(r, b.Stop)
		}); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Could not declare commands")
			b.Stop()
		}
	}()

	log.Info("Starting bot")
	return b.Run(ctx)
}
