// Package bot connects the command registry to a Discord session: it tracks
// readiness, publishes the command tree and routes interactions back to the
// registered handlers.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rafabd1/treesub/internal/commands"
	"github.com/rafabd1/treesub/internal/tree"
)

// ErrNoSession is returned when an offline client is asked to talk to Discord.
var ErrNoSession = errors.New("client has no discord session")

// Session is the subset of *discordgo.Session the client uses.
type Session interface {
	tree.Responder
	AddHandler(handler interface{}) func()
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Client is a bare bot client. It binds itself to the registry on creation.
type Client struct {
	session Session
	tree    *tree.Tree

	mu        sync.RWMutex
	appID     string
	ready     chan struct{}
	readyOnce sync.Once
	remove    []func()
}

// NewClient wraps session and binds the client to reg. appID may be empty;
// it is then learned from the Ready event. A nil session gives an offline
// client that can build a tree but not sync it.
func NewClient(reg *commands.Registry, session Session, appID string) *Client {
	c := &Client{
		session: session,
		tree:    tree.New(),
		appID:   appID,
		ready:   make(chan struct{}),
	}
	if session != nil {
		c.remove = append(c.remove,
			session.AddHandler(c.onReady),
			session.AddHandler(c.onInteraction),
		)
	}
	commands.Bind(reg, c)
	return c
}

// Tree returns the root command container.
func (c *Client) Tree() *tree.Tree { return c.tree }

// ApplicationID returns the application the commands are published for.
func (c *Client) ApplicationID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appID
}

// WaitUntilReady blocks until the Ready event has been seen or ctx is done.
func (c *Client) WaitUntilReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SyncCommands overwrites the published commands of guildID (or the global
// commands when guildID is empty) with the current tree.
func (c *Client) SyncCommands(ctx context.Context, guildID string) error {
	if c.session == nil {
		return errors.WithStack(ErrNoSession)
	}
	appID := c.ApplicationID()
	if appID == "" {
		return errors.New("application id unknown: wait for ready or configure discord.application_id")
	}
	payload, err := c.tree.ApplicationCommands()
	if err != nil {
		return errors.Wrap(err, "build command payload")
	}
	start := time.Now()
	if _, err := c.session.ApplicationCommandBulkOverwrite(appID, guildID, payload, discordgo.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "bulk overwrite application commands")
	}
	log.WithFields(logrus.Fields{
		"guild":    guildID,
		"commands": len(payload),
		"took":     time.Since(start),
	}).Debug("Published commands")
	return nil
}

// Detach removes the session handlers installed by NewClient.
func (c *Client) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rm := range c.remove {
		rm()
	}
	c.remove = nil
}

func (c *Client) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	if c.appID == "" && r.Application != nil {
		c.appID = r.Application.ID
	}
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.ready) })

	fields := logrus.Fields{"application": c.ApplicationID()}
	if r.User != nil {
		fields["user"] = r.User.String()
	}
	log.WithFields(fields).Info("Bot is now online")
}

func (c *Client) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	c.dispatch(context.Background(), i)
}

func (c *Client) dispatch(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	id := uuid.NewString()
	entry := log.WithFields(logrus.Fields{"invocation": id, "command": data.Name})

	cmd, opts, err := c.tree.Resolve(data.Name, data.Options)
	if err != nil {
		entry.WithError(err).Warn("Could not resolve interaction")
		c.fail(i, "Unknown command.")
		return
	}

	inv := tree.NewInvocation(id, commandPath(data), c.session, i, opts)
	entry = entry.WithField("path", inv.Path)
	defer func() {
		if p := recover(); p != nil {
			entry.WithField("panic", p).Error("Command panicked")
			c.fail(i, "Something went wrong while running this command.")
		}
	}()
	entry.Debug("Invoking command")
	if err := cmd.Handler()(ctx, inv); err != nil {
		entry.WithError(err).Error("Command failed")
		c.fail(i, "Something went wrong while running this command.")
	}
}

func (c *Client) fail(i *discordgo.InteractionCreate, msg string) {
	err := c.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Debug("Could not send error response")
	}
}

func commandPath(data discordgo.ApplicationCommandInteractionData) []string {
	path := []string{data.Name}
	opts := data.Options
	for {
		var next *discordgo.ApplicationCommandInteractionDataOption
		for _, o := range opts {
			if o.Type == discordgo.ApplicationCommandOptionSubCommand || o.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
				next = o
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next.Name)
		opts = next.Options
	}
}
