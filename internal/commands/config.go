package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rafabd1/treesub/internal/tree"
)

// RegisterInfo adds /info version and /info settings, both backed by the
// settings blackboard.
func RegisterInfo(r *Registry) error {
	if _, err := r.Register(In("info"), "version", "Shows the bot version")(func(ctx context.Context, inv *tree.Invocation) error {
		return inv.Respond(fmt.Sprintf("The bot version is %v", r.Setting("version", "Unknown")))
	}); err != nil {
		return err
	}
	_, err := r.Register(In("info"), "settings", "Lists the initial settings")(func(ctx context.Context, inv *tree.Invocation) error {
		return inv.RespondEphemeral(formatSettings(r.Settings()))
	})
	return err
}

func formatSettings(settings map[string]any) string {
	if len(settings) == 0 {
		return "No settings configured."
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s = %v", k, settings[k]))
	}
	return strings.Join(lines, "\n")
}
