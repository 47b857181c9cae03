package tree

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicate is returned when a child with the same name is already attached.
	ErrDuplicate = errors.New("name already registered in this container")
	// ErrTooDeep is returned when groups are nested deeper than the platform allows.
	ErrTooDeep = errors.New("groups nested too deeply")
	// ErrUnknownCommand is returned when an interaction does not resolve to a leaf command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Handler is the callback run when a user invokes a command.
type Handler func(ctx context.Context, inv *Invocation) error

// Node is either a *Group or a *Command.
type Node interface {
	Name() string
	Description() string
}

// Container holds named children. Both *Tree and *Group are containers.
type Container interface {
	Get(name string) Node
	Add(n Node) error
	Remove(name string) Node
	Children() []Node
}

// Command is a leaf node.
type Command struct {
	name        string
	description string
	params      []*discordgo.ApplicationCommandOption
	handler     Handler
}

// NewCommand creates a detached command.
func NewCommand(name, description string, handler Handler, params ...*discordgo.ApplicationCommandOption) *Command {
	return &Command{name: name, description: description, handler: handler, params: params}
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }

// Params returns the declared command options.
func (c *Command) Params() []*discordgo.ApplicationCommandOption { return c.params }

// Handler returns the callback.
func (c *Command) Handler() Handler { return c.handler }

// Group is a named container of commands and subgroups.
type Group struct {
	name        string
	description string
	children
}

// NewGroup creates a detached, empty group.
func NewGroup(name, description string) *Group {
	return &Group{name: name, description: description}
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Description() string { return g.description }

// Tree is the root container of all top-level groups and commands.
type Tree struct {
	children
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// children keeps insertion order so payloads and listings are stable.
type children struct {
	nodes []Node
}

func (c *children) Get(name string) Node {
	for _, n := range c.nodes {
		if n.Name() == name {
			return n
		}
	}
	return nil
}

func (c *children) Add(n Node) error {
	if c.Get(n.Name()) != nil {
		return errors.Wrapf(ErrDuplicate, "add %q", n.Name())
	}
	c.nodes = append(c.nodes, n)
	return nil
}

func (c *children) Remove(name string) Node {
	for i, n := range c.nodes {
		if n.Name() == name {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return n
		}
	}
	return nil
}

func (c *children) Children() []Node {
	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Walk visits every node depth-first with its group path.
func Walk(c Container, fn func(path []string, n Node)) {
	walk(c, nil, fn)
}

func walk(c Container, path []string, fn func([]string, Node)) {
	for _, n := range c.Children() {
		fn(path, n)
		if g, ok := n.(*Group); ok {
			walk(g, append(append([]string(nil), path...), g.Name()), fn)
		}
	}
}
