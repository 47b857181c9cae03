package commands

import (
	"context"
	"strings"

	"github.com/rafabd1/treesub/internal/tree"
)

// Client is the bot the registry attaches commands to. The registry only
// ever holds a weak reference to it.
type Client interface {
	// Tree returns the root container commands are attached to.
	Tree() *tree.Tree
	// WaitUntilReady blocks until the client is connected or ctx is done.
	WaitUntilReady(ctx context.Context) error
	// SyncCommands publishes the tree to one guild, or globally when guildID is empty.
	SyncCommands(ctx context.Context, guildID string) error
}

// GroupPath is the ordered list of group names from the root down to a
// command's parent. A nil path registers at the root.
type GroupPath []string

// In builds a group path. In() and a nil GroupPath both mean the root.
func In(groups ...string) GroupPath {
	return GroupPath(groups)
}

func (p GroupPath) key() string {
	return strings.Join(p, " ")
}

// Decorator attaches a handler to the tree and hands the same handler back.
type Decorator func(h tree.Handler) (tree.Handler, error)

func groupDescription(name string) string {
	return name + " command group"
}
