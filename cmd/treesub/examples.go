package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/rafabd1/treesub/internal/commands"
	"github.com/rafabd1/treesub/internal/tree"
)

func intOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

// declare registers every command the example bot serves. stop is called by
// /admin shutdown.
func declare(r *commands.Registry, stop func()) error {
	if _, err := r.Register(commands.In("math"), "add", "Adds two numbers",
		intOption("a", "First number"),
		intOption("b", "Second number"),
	)(func(ctx context.Context, inv *tree.Invocation) error {
		a, b := inv.Int("a"), inv.Int("b")
		if commands.SettingAs(r, "debug", false) {
			log.WithFields(logrus.Fields{"a": a, "b": b}).Info("add command called")
		}
		return inv.Respond(fmt.Sprintf("The sum of %d and %d is %d", a, b, a+b))
	}); err != nil {
		return err
	}

	if _, err := r.Register(commands.In("math", "advanced"), "power", "Calculates the power of a number",
		intOption("base", "Base"),
		intOption("exponent", "Exponent"),
	)(func(ctx context.Context, inv *tree.Invocation) error {
		base, exp := inv.Int("base"), inv.Int("exponent")
		if commands.SettingAs(r, "debug", false) {
			log.WithFields(logrus.Fields{"base": base, "exponent": exp}).Info("power command called")
		}
		if exp < 0 {
			return inv.RespondEphemeral("The exponent must not be negative.")
		}
		result := new(big.Int).Exp(big.NewInt(base), big.NewInt(exp), nil)
		return inv.Respond(fmt.Sprintf("%d raised to the power of %d is %s", base, exp, result))
	}); err != nil {
		return err
	}

	for _, register := range []func(*commands.Registry) error{
		commands.RegisterHelp,
		commands.RegisterInfo,
		commands.RegisterResync,
		func(r *commands.Registry) error { return commands.RegisterShutdown(r, stop) },
	} {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}
