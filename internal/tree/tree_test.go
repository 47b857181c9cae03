package tree

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, *Invocation) error { return nil }

func TestChildren_AddGetRemove(t *testing.T) {
	tr := New()
	cmd := NewCommand("ping", "Replies with pong", noop)

	require.NoError(t, tr.Add(cmd))
	require.Same(t, cmd, tr.Get("ping"))

	err := tr.Add(NewCommand("ping", "again", noop))
	require.True(t, errors.Is(err, ErrDuplicate))

	require.Same(t, cmd, tr.Remove("ping"))
	require.Nil(t, tr.Get("ping"))
	require.Nil(t, tr.Remove("ping"))
}

func TestChildren_PreservesInsertionOrder(t *testing.T) {
	g := NewGroup("math", "math command group")
	require.NoError(t, g.Add(NewCommand("b", "b", noop)))
	require.NoError(t, g.Add(NewCommand("a", "a", noop)))
	require.NoError(t, g.Add(NewCommand("c", "c", noop)))
	g.Remove("a")

	var names []string
	for _, n := range g.Children() {
		names = append(names, n.Name())
	}
	require.Equal(t, []string{"b", "c"}, names)
}

func TestWalk(t *testing.T) {
	tr := New()
	math := NewGroup("math", "math command group")
	adv := NewGroup("advanced", "advanced command group")
	require.NoError(t, tr.Add(math))
	require.NoError(t, math.Add(adv))
	require.NoError(t, adv.Add(NewCommand("power", "Calculates the power of a number", noop)))
	require.NoError(t, math.Add(NewCommand("add", "Adds two numbers", noop)))

	var seen []string
	Walk(tr, func(path []string, n Node) {
		seen = append(seen, joinPath(path, n.Name()))
	})
	require.Equal(t, []string{"math", "math advanced", "math advanced power", "math add"}, seen)
}

func joinPath(path []string, name string) string {
	s := ""
	for _, p := range path {
		s += p + " "
	}
	return s + name
}

func TestApplicationCommands(t *testing.T) {
	tr := New()
	math := NewGroup("math", "math command group")
	adv := NewGroup("advanced", "advanced command group")
	base := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionInteger, Name: "base", Description: "base", Required: true}
	require.NoError(t, tr.Add(math))
	require.NoError(t, math.Add(adv))
	require.NoError(t, adv.Add(NewCommand("power", "Calculates the power of a number", noop, base)))
	require.NoError(t, math.Add(NewCommand("add", "Adds two numbers", noop)))
	require.NoError(t, tr.Add(NewCommand("ping", "Replies with pong", noop)))

	cmds, err := tr.ApplicationCommands()
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	require.Equal(t, "math", cmds[0].Name)
	require.Equal(t, discordgo.ChatApplicationCommand, cmds[0].Type)
	require.Len(t, cmds[0].Options, 2)
	require.Equal(t, discordgo.ApplicationCommandOptionSubCommandGroup, cmds[0].Options[0].Type)
	require.Equal(t, "advanced", cmds[0].Options[0].Name)
	require.Equal(t, "power", cmds[0].Options[0].Options[0].Name)
	require.Equal(t, discordgo.ApplicationCommandOptionSubCommand, cmds[0].Options[0].Options[0].Type)
	require.Equal(t, []*discordgo.ApplicationCommandOption{base}, cmds[0].Options[0].Options[0].Options)
	require.Equal(t, discordgo.ApplicationCommandOptionSubCommand, cmds[0].Options[1].Type)
	require.Equal(t, "add", cmds[0].Options[1].Name)

	require.Equal(t, "ping", cmds[1].Name)
	require.Empty(t, cmds[1].Options)
}

func TestApplicationCommands_TooDeep(t *testing.T) {
	tr := New()
	a, b, c := NewGroup("a", "a"), NewGroup("b", "b"), NewGroup("c", "c")
	require.NoError(t, tr.Add(a))
	require.NoError(t, a.Add(b))
	require.NoError(t, b.Add(c))
	require.NoError(t, c.Add(NewCommand("leaf", "leaf", noop)))

	_, err := tr.ApplicationCommands()
	require.True(t, errors.Is(err, ErrTooDeep))
}

func TestResolve(t *testing.T) {
	tr := New()
	math := NewGroup("math", "math command group")
	adv := NewGroup("advanced", "advanced command group")
	power := NewCommand("power", "power", noop)
	ping := NewCommand("ping", "ping", noop)
	require.NoError(t, tr.Add(math))
	require.NoError(t, tr.Add(ping))
	require.NoError(t, math.Add(adv))
	require.NoError(t, adv.Add(power))

	leafOpts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "base", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2)},
	}
	cmd, opts, err := tr.Resolve("math", []*discordgo.ApplicationCommandInteractionDataOption{{
		Name: "advanced",
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:    "power",
			Type:    discordgo.ApplicationCommandOptionSubCommand,
			Options: leafOpts,
		}},
	}})
	require.NoError(t, err)
	require.Same(t, power, cmd)
	require.Equal(t, leafOpts, opts)

	cmd, opts, err = tr.Resolve("ping", nil)
	require.NoError(t, err)
	require.Same(t, ping, cmd)
	require.Empty(t, opts)

	_, _, err = tr.Resolve("nope", nil)
	require.True(t, errors.Is(err, ErrUnknownCommand))

	_, _, err = tr.Resolve("math", nil)
	require.True(t, errors.Is(err, ErrUnknownCommand))
}

type recordingResponder struct {
	resp     *discordgo.InteractionResponse
	followup *discordgo.WebhookParams
}

func (r *recordingResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.resp = resp
	return nil
}

func (r *recordingResponder) FollowupMessageCreate(_ *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.followup = data
	return &discordgo.Message{Content: data.Content}, nil
}

func TestInvocation_OptionsAndRespond(t *testing.T) {
	rr := &recordingResponder{}
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "1"}}
	inv := NewInvocation("id-1", []string{"math", "add"}, rr, ic, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "a", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
		{Name: "who", Type: discordgo.ApplicationCommandOptionString, Value: "gopher"},
		{Name: "loud", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
	})

	require.Equal(t, int64(3), inv.Int("a"))
	require.Equal(t, int64(0), inv.Int("missing"))
	require.Equal(t, "gopher", inv.String("who"))
	require.True(t, inv.Bool("loud"))
	_, ok := inv.Option("missing")
	require.False(t, ok)

	require.NoError(t, inv.RespondEphemeral("hi"))
	require.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, rr.resp.Type)
	require.Equal(t, "hi", rr.resp.Data.Content)
	require.Equal(t, discordgo.MessageFlagsEphemeral, rr.resp.Data.Flags)

	require.NoError(t, inv.Respond("visible"))
	require.Equal(t, discordgo.MessageFlags(0), rr.resp.Data.Flags)
}

func TestInvocation_DeferAndFollowup(t *testing.T) {
	rr := &recordingResponder{}
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "1"}}
	inv := NewInvocation("id-1", []string{"admin", "resync"}, rr, ic, nil)

	require.NoError(t, inv.Defer(true))
	require.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, rr.resp.Type)
	require.Equal(t, discordgo.MessageFlagsEphemeral, rr.resp.Data.Flags)

	require.NoError(t, inv.Followup("done", false))
	require.Equal(t, "done", rr.followup.Content)
	require.Equal(t, discordgo.MessageFlags(0), rr.followup.Flags)
}

func TestInvocation_HasPermission(t *testing.T) {
	withMember := func(m *discordgo.Member) *Invocation {
		ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: m}}
		return NewInvocation("id", nil, &recordingResponder{}, ic, nil)
	}

	admin := withMember(&discordgo.Member{Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages})
	require.True(t, admin.HasPermission(discordgo.PermissionAdministrator))

	mod := withMember(&discordgo.Member{Permissions: discordgo.PermissionKickMembers})
	require.False(t, mod.HasPermission(discordgo.PermissionAdministrator))
	require.True(t, mod.HasPermission(discordgo.PermissionKickMembers))

	require.False(t, withMember(nil).HasPermission(discordgo.PermissionAdministrator))
}
