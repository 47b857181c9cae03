package commands

import (
	"context"

	"github.com/rafabd1/treesub/internal/tree"
)

// RegisterResync adds /admin resync, which publishes the current tree again.
// The interaction is deferred first since syncing several guilds can outlast
// the response window.
func RegisterResync(r *Registry) error {
	_, err := r.Register(In("admin"), "resync", "Publishes the command tree again")(func(ctx context.Context, inv *tree.Invocation) error {
		if err := inv.Defer(true); err != nil {
			return err
		}
		if err := r.Sync(ctx); err != nil {
			log.WithError(err).WithField("invocation", inv.ID).Error("Resync failed")
			return inv.Followup("Could not synchronize the command tree.", true)
		}
		return inv.Followup("Command tree synchronized.", true)
	})
	return err
}
