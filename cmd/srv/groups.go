package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/questx-lab/reactrole/internal/client"
	"github.com/questx-lab/reactrole/internal/dashboard"
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/pkg/enum"
	"github.com/questx-lab/reactrole/pkg/session"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Success(msg string) {
	fmt.Fprintln(n.w, color.GreenString("✔ %s", msg))
}

func (n consoleNotifier) Error(msg string) {
	fmt.Fprintln(n.w, color.RedString("✘ %s", msg))
}

func (s *srv) loadDashboard(cctx *cli.Context) error {
	cfg := xcontext.Configs(s.ctx).Dashboard

	source := session.StaticToken(cfg.Token)
	if cfg.Token == "" {
		source = session.FileToken(cctx.String("token-file"))
	}

	caller := client.NewReactionRoleCaller(cfg.APIURL, session.New(source))
	s.manager = dashboard.NewManager(
		caller,
		cctx.String("guild"),
		consoleNotifier{w: cctx.App.ErrWriter},
		xcontext.Logger(s.ctx),
	)

	return s.manager.Load(cctx.Context)
}

func (s *srv) listGroups(cctx *cli.Context) error {
	printGroups(cctx.App.Writer, s.manager.Groups())
	return nil
}

func (s *srv) createGroup(cctx *cli.Context) error {
	form, err := s.manager.OpenCreate(cctx.Context)
	if err != nil {
		return err
	}

	form.SetField(dashboard.FieldChannelID, cctx.String("channel"))
	form.SetField(dashboard.FieldTitle, cctx.String("title"))
	form.SetField(dashboard.FieldCustomMessage, cctx.String("message"))
	form.SetField(dashboard.FieldMessageID, cctx.String("message-id"))

	for i, raw := range cctx.StringSlice("reaction") {
		if i > 0 {
			form.AddBinding()
		}

		emoji, roleID, reactionType, err := parseReaction(raw)
		if err != nil {
			return err
		}

		s.pickEmoji(form, i, emoji)
		form.UpdateBinding(i, dashboard.BindingRoleID, roleID)
		form.UpdateBinding(i, dashboard.BindingType, reactionType)
	}

	if err := s.manager.Submit(cctx.Context); err != nil {
		return err
	}

	if s.manager.Form() != nil {
		// The form is still open because the submit was refused.
		return cli.Exit("", 1)
	}

	printGroups(cctx.App.Writer, s.manager.Groups())
	return nil
}

// pickEmoji resolves the name of a guild emoji to its token through the
// picker. Any other value is used verbatim.
func (s *srv) pickEmoji(form *dashboard.Form, index int, emoji string) {
	picker := s.manager.Picker()
	if picker.Open(form, index) {
		name := strings.Trim(emoji, ":")
		for _, option := range picker.Options() {
			if option.Custom && option.Name == name {
				picker.Select(option.Token)
				return
			}
		}
		picker.Close()
	}

	form.UpdateBinding(index, dashboard.BindingEmoji, emoji)
}

func (s *srv) toggleGroup(cctx *cli.Context) error {
	index := cctx.Int("index")
	if err := s.manager.ToggleStatus(cctx.Context, index); err != nil {
		return err
	}

	printGroups(cctx.App.Writer, s.manager.Groups())
	return nil
}

func (s *srv) deleteGroup(cctx *cli.Context) error {
	if err := s.manager.Delete(cctx.Context, cctx.Int("index")); err != nil {
		return err
	}

	printGroups(cctx.App.Writer, s.manager.Groups())
	return nil
}

// parseReaction parses emoji=roleID[:type]. The type is toggle if omitted.
func parseReaction(raw string) (string, string, string, error) {
	emoji, rest, ok := strings.Cut(raw, "=")
	if !ok || emoji == "" || rest == "" {
		return "", "", "", fmt.Errorf("invalid reaction %q, expected emoji=roleID[:type]", raw)
	}

	roleID, reactionType, ok := strings.Cut(rest, ":")
	if !ok {
		return emoji, roleID, string(entity.ReactionToggle), nil
	}

	if _, err := enum.ToEnum[entity.ReactionType](reactionType); err != nil {
		return "", "", "", fmt.Errorf("invalid reaction %q: %w", raw, err)
	}

	return emoji, roleID, reactionType, nil
}

func printGroups(w io.Writer, groups []dashboard.Group) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tCHANNEL\tMESSAGE\tSTATUS\tREACTIONS")
	for i, g := range groups {
		reactions := make([]string, 0, len(g.Reactions))
		for _, r := range g.Reactions {
			reactions = append(reactions, fmt.Sprintf("%s→%s(%s)", r.Emoji, r.RoleID, r.Type))
		}

		status := color.RedString("off")
		if g.Status {
			status = color.GreenString("on")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strconv.Itoa(i), g.Title, g.ChannelID, g.MessageID, status, strings.Join(reactions, " "))
	}
	tw.Flush()
}
