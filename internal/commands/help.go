package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafabd1/treesub/internal/tree"
)

// RegisterHelp adds /help, which lists every command in the tree.
func RegisterHelp(r *Registry) error {
	_, err := r.Register(nil, "help", "Shows available commands and descriptions.")(func(ctx context.Context, inv *tree.Invocation) error {
		c, err := r.Bot()
		if err != nil {
			return err
		}
		return inv.RespondEphemeral(Listing(c.Tree()))
	})
	return err
}

// Listing renders one line per leaf command, e.g. "/math add: Adds two numbers".
func Listing(t *tree.Tree) string {
	var b strings.Builder
	tree.Walk(t, func(path []string, n tree.Node) {
		if _, ok := n.(*tree.Command); !ok {
			return
		}
		full := append(append([]string(nil), path...), n.Name())
		fmt.Fprintf(&b, "/%s: %s\n", strings.Join(full, " "), n.Description())
	})
	if b.Len() == 0 {
		return "No commands registered."
	}
	return strings.TrimSuffix(b.String(), "\n")
}
