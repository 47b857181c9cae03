package commands

import (
	"strings"
	"sync"
	"weak"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rafabd1/treesub/internal/tree"
)

// Registry attaches commands to a bound client's tree, creating the groups
// on their path on first use and reusing them afterwards.
type Registry struct {
	mu       sync.RWMutex
	client   func() Client
	groups   *cache.Cache // group path -> *tree.Group
	pending  []*tree.Command
	targets  []string
	settings map[string]any
	validate *validator.Validate
}

// NewRegistry creates a registry with no bound client.
func NewRegistry() *Registry {
	return &Registry{
		groups:   cache.New(cache.NoExpiration, 0),
		settings: make(map[string]any),
		validate: newValidator(),
	}
}

// Bind records a weak reference to c. Binding nil unbinds the registry.
func Bind[T any, P interface {
	*T
	Client
}](r *Registry, c P) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c == nil {
		r.client = nil
		return
	}
	w := weak.Make((*T)(c))
	r.client = func() Client {
		if p := w.Value(); p != nil {
			return P(p)
		}
		return nil
	}
}

// Bot returns the bound client, or ErrNotInitialized when it is unset or gone.
func (r *Registry) Bot() (Client, error) {
	r.mu.RLock()
	ref := r.client
	r.mu.RUnlock()
	if ref == nil {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	c := ref()
	if c == nil {
		return nil, errors.Wrap(ErrNotInitialized, "bound client was reclaimed")
	}
	return c, nil
}

// SetSyncTargets restricts synchronization to the given guilds. With no
// targets the tree is synchronized globally.
func (r *Registry) SetSyncTargets(guildIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append([]string(nil), guildIDs...)
}

// SyncTargets returns the configured guild IDs.
func (r *Registry) SyncTargets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.targets...)
}

// Register returns a decorator that attaches h as command name under path.
// Groups on the path are created on first use. A command or group already
// occupying name in the final container is replaced.
func (r *Registry) Register(path GroupPath, name, description string, params ...*discordgo.ApplicationCommandOption) Decorator {
	path = append(GroupPath(nil), path...)
	return func(h tree.Handler) (tree.Handler, error) {
		c, err := r.Bot()
		if err != nil {
			return nil, err
		}
		for _, g := range path {
			if err := r.check("group", g, groupDescription(g)); err != nil {
				return nil, err
			}
		}
		if err := r.check("command", name, description); err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		var parent tree.Container = c.Tree()
		for i := range path {
			if parent, err = r.group(parent, path[:i+1]); err != nil {
				return nil, err
			}
		}

		fields := logrus.Fields{"path": path.key(), "command": name}
		if old := parent.Remove(name); old != nil {
			switch old := old.(type) {
			case *tree.Group:
				r.forget(append(path[:len(path):len(path)], name))
				tree.Walk(old, func(_ []string, n tree.Node) {
					if cmd, ok := n.(*tree.Command); ok {
						r.unqueue(cmd)
					}
				})
			case *tree.Command:
				r.unqueue(old)
			}
			log.WithFields(fields).Debug("Replacing existing entry")
		}

		cmd := tree.NewCommand(name, description, h, params...)
		if err := parent.Add(cmd); err != nil {
			return nil, err
		}
		r.pending = append(r.pending, cmd)
		log.WithFields(fields).Debug("Registered command")
		return h, nil
	}
}

// MustRegister is like Register but panics if the decorator fails.
func (r *Registry) MustRegister(path GroupPath, name, description string, params ...*discordgo.ApplicationCommandOption) func(tree.Handler) tree.Handler {
	dec := r.Register(path, name, description, params...)
	return func(h tree.Handler) tree.Handler {
		h, err := dec(h)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// group returns the group at path inside parent, creating it if needed.
// Callers hold r.mu.
func (r *Registry) group(parent tree.Container, path GroupPath) (*tree.Group, error) {
	key := path.key()
	name := path[len(path)-1]

	if v, ok := r.groups.Get(key); ok {
		if g := v.(*tree.Group); parent.Get(name) == tree.Node(g) {
			return g, nil
		}
		r.forget(path)
	}

	switch existing := parent.Get(name).(type) {
	case *tree.Group:
		r.groups.Set(key, existing, cache.NoExpiration)
		return existing, nil
	case *tree.Command:
		parent.Remove(name)
		r.unqueue(existing)
		log.WithField("path", key).Debug("Replacing command with group")
	}

	g := tree.NewGroup(name, groupDescription(name))
	if err := parent.Add(g); err != nil {
		return nil, err
	}
	r.groups.Set(key, g, cache.NoExpiration)
	log.WithField("path", key).Debug("Created group")
	return g, nil
}

// forget evicts the group at path and everything cached below it.
func (r *Registry) forget(path GroupPath) {
	key := path.key()
	for k := range r.groups.Items() {
		if k == key || strings.HasPrefix(k, key+" ") {
			r.groups.Delete(k)
		}
	}
}

// unqueue drops a command that left the tree before it was synced.
// Callers hold r.mu.
func (r *Registry) unqueue(cmd *tree.Command) {
	for i, p := range r.pending {
		if p == cmd {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the commands registered since the last sync.
func (r *Registry) Pending() []*tree.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*tree.Command(nil), r.pending...)
}

// CachedGroups returns the number of groups in the lookup cache.
func (r *Registry) CachedGroups() int {
	return r.groups.ItemCount()
}

func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups.Flush()
	r.pending = nil
}
