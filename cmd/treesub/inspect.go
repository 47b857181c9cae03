package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafabd1/treesub/internal/bot"
	"github.com/rafabd1/treesub/internal/commands"
	"github.com/rafabd1/treesub/internal/tui"
)

var inspectPlain bool

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Short:   "Browse the command tree without connecting to Discord",
	PreRunE: loadConfig,
	RunE:    inspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectPlain, "plain", false, "print the tree instead of opening the browser")
}

func inspect(cmd *cobra.Command, args []string) error {
	reg := commands.NewRegistry()
	reg.Configure(cfg.Settings)
	c := bot.NewClient(reg, nil, "")
	if err := declare(reg, func() {}); err != nil {
		return err
	}
	if _, err := c.Tree().ApplicationCommands(); err != nil {
		return err
	}

	if inspectPlain {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.Render(c.Tree(), "", tui.PlainStyles()))
		return err
	}
	return tui.Run(c.Tree())
}
