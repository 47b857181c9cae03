package bot

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/rafabd1/treesub/internal/commands"
	"github.com/rafabd1/treesub/internal/config"
)

// Gateway is the connection lifecycle of a discordgo session.
type Gateway interface {
	Session
	Open() error
	Close() error
}

var _ Gateway = (*discordgo.Session)(nil)

// Bot owns its Discord session. Like Client it binds itself to the registry
// on creation; it also applies the configured sync targets and settings.
type Bot struct {
	*Client
	gateway Gateway

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a bot from cfg. The session is not opened until Run.
func New(reg *commands.Registry, cfg *config.Config) (*Bot, error) {
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord.token is not set")
	}
	s, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, errors.Wrap(err, "create discord session")
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return NewWithGateway(reg, cfg, s), nil
}

// NewWithGateway builds a bot around an existing gateway.
func NewWithGateway(reg *commands.Registry, cfg *config.Config, gw Gateway) *Bot {
	b := &Bot{
		Client:  NewClient(reg, gw, cfg.Discord.ApplicationID),
		gateway: gw,
		stop:    make(chan struct{}),
	}
	commands.Bind(reg, b)
	reg.SetSyncTargets(cfg.Discord.SyncGuilds...)
	reg.Configure(cfg.Settings)
	return b
}

// Run opens the gateway and blocks until ctx is done or Stop is called.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.gateway.Open(); err != nil {
		return errors.Wrap(err, "open discord session")
	}
	log.Info("Gateway connection opened")

	select {
	case <-ctx.Done():
	case <-b.stop:
	}

	b.Detach()
	if err := b.gateway.Close(); err != nil {
		return errors.Wrap(err, "close discord session")
	}
	log.Info("Bot has been terminated")
	return nil
}

// Stop makes Run return. It is safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
}
