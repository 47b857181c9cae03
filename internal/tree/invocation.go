package tree

import (
	"github.com/bwmarrin/discordgo"
)

// Responder is the part of a discordgo session used to answer an interaction.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Invocation is what a Handler receives when its command is triggered.
type Invocation struct {
	ID          string
	Path        []string
	Interaction *discordgo.InteractionCreate

	options   map[string]*discordgo.ApplicationCommandInteractionDataOption
	responder Responder
}

// NewInvocation wraps an interaction for a resolved leaf command.
func NewInvocation(id string, path []string, r Responder, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) *Invocation {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return &Invocation{ID: id, Path: path, Interaction: i, options: m, responder: r}
}

// Option returns the raw option value by name.
func (inv *Invocation) Option(name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	o, ok := inv.options[name]
	return o, ok
}

// Int returns an integer option, or 0 when absent.
func (inv *Invocation) Int(name string) int64 {
	if o, ok := inv.options[name]; ok {
		return o.IntValue()
	}
	return 0
}

// String returns a string option, or "" when absent.
func (inv *Invocation) String(name string) string {
	if o, ok := inv.options[name]; ok {
		return o.StringValue()
	}
	return ""
}

// Bool returns a boolean option, or false when absent.
func (inv *Invocation) Bool(name string) bool {
	if o, ok := inv.options[name]; ok {
		return o.BoolValue()
	}
	return false
}

// Respond sends a visible channel message as the interaction response.
func (inv *Invocation) Respond(content string) error {
	return inv.respond(content, 0)
}

// RespondEphemeral sends a response only the invoking user can see.
func (inv *Invocation) RespondEphemeral(content string) error {
	return inv.respond(content, discordgo.MessageFlagsEphemeral)
}

// HasPermission reports whether the invoking guild member holds perm.
// Invocations outside a guild have no member and never hold it.
func (inv *Invocation) HasPermission(perm int64) bool {
	if inv.Interaction == nil || inv.Interaction.Member == nil {
		return false
	}
	return inv.Interaction.Member.Permissions&perm == perm
}

// Defer acknowledges the interaction without content. Discord then allows
// up to 15 minutes for a Followup instead of 3 seconds for a response.
func (inv *Invocation) Defer(ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	return inv.responder.InteractionRespond(inv.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
}

// Followup sends a message after Defer.
func (inv *Invocation) Followup(content string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := inv.responder.FollowupMessageCreate(inv.Interaction.Interaction, true, params)
	return err
}

func (inv *Invocation) respond(content string, flags discordgo.MessageFlags) error {
	return inv.responder.InteractionRespond(inv.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}
