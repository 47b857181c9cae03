package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/rafabd1/treesub/internal/tree"
)

// RegisterShutdown adds /admin shutdown, which acknowledges and then calls
// stop. Only members with the Administrator permission may run it.
func RegisterShutdown(r *Registry, stop func()) error {
	_, err := r.Register(In("admin"), "shutdown", "Shuts down the bot (admin only)")(func(ctx context.Context, inv *tree.Invocation) error {
		if !inv.HasPermission(discordgo.PermissionAdministrator) {
			log.WithField("invocation", inv.ID).Warn("Refused shutdown from non-administrator")
			return inv.RespondEphemeral("You need the Administrator permission to shut down the bot.")
		}
		if err := inv.Respond("Shutting down the bot..."); err != nil {
			log.WithError(err).Warn("Could not acknowledge shutdown")
		}
		stop()
		return nil
	})
	return err
}
