package commands

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scope runs fn and then, however fn exits (error or panic), waits for the
// bound client to be ready, publishes the tree once per sync target and
// clears the group cache and the pending queue.
//
// The bound client must be valid on entry, otherwise ErrNotInitialized is
// returned and fn is not run.
func (r *Registry) Scope(ctx context.Context, fn func(*Registry) error) (err error) {
	c, err := r.Bot()
	if err != nil {
		return err
	}
	defer func() {
		serr := r.flush(ctx, c)
		if serr == nil {
			return
		}
		if err == nil {
			err = serr
			return
		}
		log.WithError(serr).Error("Could not synchronize command tree")
	}()
	return fn(r)
}

// Sync publishes the tree and resets the local bookkeeping, like the end of a Scope.
func (r *Registry) Sync(ctx context.Context) error {
	c, err := r.Bot()
	if err != nil {
		return err
	}
	return r.flush(ctx, c)
}

func (r *Registry) flush(ctx context.Context, c Client) error {
	defer r.reset()

	if err := c.WaitUntilReady(ctx); err != nil {
		return errors.Wrap(err, "wait for client ready")
	}

	targets := r.SyncTargets()
	if len(targets) == 0 {
		targets = []string{""}
	}
	pending := len(r.Pending())

	var first error
	for _, guildID := range targets {
		fields := logrus.Fields{"scope": scopeName(guildID), "pending": pending}
		if err := c.SyncCommands(ctx, guildID); err != nil {
			log.WithFields(fields).WithError(err).Error("Sync failed")
			if first == nil {
				first = errors.Wrapf(err, "sync %s", scopeName(guildID))
			}
			continue
		}
		log.WithFields(fields).Info("Synchronized command tree")
	}
	return first
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}
