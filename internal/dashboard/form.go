package dashboard

import (
	"strconv"
	"strings"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"golang.org/x/exp/slices"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Field is a group level field of the draft.
type Field string

const (
	FieldChannelID     Field = "channelId"
	FieldTitle         Field = "title"
	FieldCustomMessage Field = "customMessage"
	FieldMessageID     Field = "messageId"
	FieldStatus        Field = "status"
)

type BindingField string

const (
	BindingEmoji  BindingField = "emoji"
	BindingRoleID BindingField = "roleId"
	BindingType   BindingField = "type"
)

// Form holds the draft of the add or edit modal. It never does any I/O.
type Form struct {
	mode     Mode
	draft    model.ReactionRoleGroup
	baseline model.ReactionRoleGroup
}

func NewForm() *Form {
	f := &Form{}
	f.StartNew()
	return f
}

func emptyGroup() model.ReactionRoleGroup {
	return model.ReactionRoleGroup{
		Status:    true,
		Reactions: []model.ReactionBinding{emptyBinding()},
	}
}

func emptyBinding() model.ReactionBinding {
	return model.ReactionBinding{Type: string(entity.ReactionToggle)}
}

func copyGroup(g model.ReactionRoleGroup) model.ReactionRoleGroup {
	g.Reactions = slices.Clone(g.Reactions)
	if g.Reactions == nil {
		g.Reactions = []model.ReactionBinding{}
	}
	return g
}

func (f *Form) StartNew() {
	f.mode = ModeCreate
	f.baseline = emptyGroup()
	f.draft = copyGroup(f.baseline)
}

// StartEdit loads the group into the draft and keeps it as the baseline of
// IsDirty and Reset.
func (f *Form) StartEdit(group model.ReactionRoleGroup) {
	f.mode = ModeEdit
	f.baseline = copyGroup(group)
	f.draft = copyGroup(group)
}

func (f *Form) Mode() Mode {
	return f.mode
}

func (f *Form) Draft() model.ReactionRoleGroup {
	return copyGroup(f.draft)
}

func (f *Form) AddBinding() {
	f.draft.Reactions = append(f.draft.Reactions, emptyBinding())
}

// RemoveBinding refuses to remove the last binding.
func (f *Form) RemoveBinding(index int) bool {
	if len(f.draft.Reactions) <= 1 || index < 0 || index >= len(f.draft.Reactions) {
		return false
	}

	f.draft.Reactions = slices.Delete(f.draft.Reactions, index, index+1)
	return true
}

func (f *Form) UpdateBinding(index int, field BindingField, value string) bool {
	if index < 0 || index >= len(f.draft.Reactions) {
		return false
	}

	binding := &f.draft.Reactions[index]
	switch field {
	case BindingEmoji:
		binding.Emoji = value
	case BindingRoleID:
		binding.RoleID = value
	case BindingType:
		binding.Type = value
	default:
		return false
	}

	return true
}

// SetField changes a group level field. The message id cannot be changed in
// edit mode.
func (f *Form) SetField(field Field, value string) bool {
	switch field {
	case FieldChannelID:
		f.draft.ChannelID = value
	case FieldTitle:
		f.draft.Title = value
	case FieldCustomMessage:
		f.draft.CustomMessage = value
	case FieldMessageID:
		if f.mode == ModeEdit {
			return false
		}
		f.draft.MessageID = value
	case FieldStatus:
		status, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		f.draft.Status = status
	default:
		return false
	}

	return true
}

func (f *Form) IsDirty() bool {
	a, b := f.draft, f.baseline
	if a.ID != b.ID || a.GuildID != b.GuildID || a.MessageID != b.MessageID ||
		a.ChannelID != b.ChannelID || a.Title != b.Title ||
		a.CustomMessage != b.CustomMessage || a.Status != b.Status {
		return true
	}

	return !slices.Equal(a.Reactions, b.Reactions)
}

func (f *Form) Reset() {
	f.draft = copyGroup(f.baseline)
}

// existingMessage reports whether the group is attached to a message which
// was not sent by the bot.
func (f *Form) existingMessage() bool {
	if f.mode == ModeEdit {
		return f.baseline.CustomMessage == ""
	}
	return strings.TrimSpace(f.draft.MessageID) != ""
}

// Validate is the submit gate.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.draft.ChannelID) == "" {
		return errorx.New(errorx.BadRequest, "Please select a channel")
	}

	if strings.TrimSpace(f.draft.Title) == "" {
		return errorx.New(errorx.BadRequest, "Please enter a title")
	}

	if f.mode == ModeCreate && strings.TrimSpace(f.draft.MessageID) != "" &&
		strings.TrimSpace(f.draft.CustomMessage) != "" {
		return errorx.New(errorx.BadRequest, "Use either a new message or an existing message id")
	}

	if f.existingMessage() {
		if strings.TrimSpace(f.draft.MessageID) == "" {
			return errorx.New(errorx.BadRequest, "Please enter the message id")
		}
	} else if strings.TrimSpace(f.draft.CustomMessage) == "" {
		return errorx.New(errorx.BadRequest, "Please enter the message")
	}

	if len(f.draft.Reactions) == 0 {
		return errorx.New(errorx.EmptyBindings, "Please add at least one reaction")
	}

	for i, r := range f.draft.Reactions {
		if strings.TrimSpace(r.Emoji) == "" || strings.TrimSpace(r.RoleID) == "" {
			return errorx.New(errorx.BadRequest, "Reaction %d needs an emoji and a role", i+1)
		}
	}

	return nil
}
