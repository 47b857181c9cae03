package tree

import (
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// ApplicationCommands converts the tree into the payload published on sync.
// Discord allows a top-level command to hold subcommand groups that hold
// subcommands, so a group may contain at most one further level of groups.
func (t *Tree) ApplicationCommands() ([]*discordgo.ApplicationCommand, error) {
	out := make([]*discordgo.ApplicationCommand, 0, len(t.nodes))
	for _, n := range t.nodes {
		ac := &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        n.Name(),
			Description: n.Description(),
		}
		switch n := n.(type) {
		case *Command:
			ac.Options = n.params
		case *Group:
			opts, err := groupOptions(n, 1)
			if err != nil {
				return nil, err
			}
			ac.Options = opts
		}
		out = append(out, ac)
	}
	return out, nil
}

func groupOptions(g *Group, depth int) ([]*discordgo.ApplicationCommandOption, error) {
	opts := make([]*discordgo.ApplicationCommandOption, 0, len(g.nodes))
	for _, n := range g.nodes {
		switch n := n.(type) {
		case *Command:
			opts = append(opts, &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        n.name,
				Description: n.description,
				Options:     n.params,
			})
		case *Group:
			if depth >= 2 {
				return nil, errors.Wrapf(ErrTooDeep, "group %q under %q", n.name, g.name)
			}
			sub, err := groupOptions(n, depth+1)
			if err != nil {
				return nil, err
			}
			opts = append(opts, &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        n.name,
				Description: n.description,
				Options:     sub,
			})
		}
	}
	return opts, nil
}

// Resolve walks an interaction's command name and nested subcommand options
// down to the leaf command. It returns the leaf and the leaf's own options.
func (t *Tree) Resolve(name string, options []*discordgo.ApplicationCommandInteractionDataOption) (*Command, []*discordgo.ApplicationCommandInteractionDataOption, error) {
	var (
		node Node = t.Get(name)
		path      = name
	)
	for {
		switch n := node.(type) {
		case nil:
			return nil, nil, errors.Wrapf(ErrUnknownCommand, "/%s", path)
		case *Command:
			return n, options, nil
		case *Group:
			sub := subcommandOption(options)
			if sub == nil {
				return nil, nil, errors.Wrapf(ErrUnknownCommand, "/%s has no subcommand", path)
			}
			node = n.Get(sub.Name)
			path += " " + sub.Name
			options = sub.Options
		}
	}
}

func subcommandOption(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand || o.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			return o
		}
	}
	return nil
}
