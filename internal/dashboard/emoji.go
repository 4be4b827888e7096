package dashboard

import (
	"context"

	"github.com/questx-lab/reactrole/internal/model"
)

// CommonEmojis is offered in every guild, after the custom emoji of the
// guild.
var CommonEmojis = []string{
	"👍", "👎", "❤️", "😀", "😂", "🎉", "🔥", "✅",
	"❌", "⭐", "🎮", "🎵", "🎨", "📢", "💻", "📚",
}

type EmojiOption struct {
	Token  string
	Name   string
	Custom bool
}

type EmojiLoader interface {
	GuildEmojis(ctx context.Context, guildID string) ([]model.Emoji, error)
}

// EmojiPicker chooses the emoji of one binding of a form. The custom emoji of
// the guild are loaded once.
type EmojiPicker struct {
	loader  EmojiLoader
	guildID string

	loaded bool
	guild  []model.Emoji

	form  *Form
	index int
}

func NewEmojiPicker(loader EmojiLoader, guildID string) *EmojiPicker {
	return &EmojiPicker{loader: loader, guildID: guildID, index: -1}
}

// Load fetches the guild emoji if they are not loaded yet. A failed load is
// retried by the next call.
func (p *EmojiPicker) Load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	emojis, err := p.loader.GuildEmojis(ctx, p.guildID)
	if err != nil {
		return err
	}

	p.guild = emojis
	p.loaded = true
	return nil
}

func (p *EmojiPicker) Open(form *Form, bindingIndex int) bool {
	if form == nil || bindingIndex < 0 || bindingIndex >= len(form.draft.Reactions) {
		return false
	}

	p.form = form
	p.index = bindingIndex
	return true
}

func (p *EmojiPicker) IsOpen() bool {
	return p.form != nil
}

func (p *EmojiPicker) BindingIndex() int {
	return p.index
}

// Select writes the emoji into the binding and closes the picker.
func (p *EmojiPicker) Select(token string) bool {
	if p.form == nil {
		return false
	}

	ok := p.form.UpdateBinding(p.index, BindingEmoji, token)
	p.Close()
	return ok
}

func (p *EmojiPicker) Close() {
	p.form = nil
	p.index = -1
}

func (p *EmojiPicker) OutsideClick() {
	p.Close()
}

func (p *EmojiPicker) Options() []EmojiOption {
	options := []EmojiOption{}
	for _, e := range p.guild {
		options = append(options, EmojiOption{Token: e.Token, Name: e.Name, Custom: true})
	}

	for _, e := range CommonEmojis {
		options = append(options, EmojiOption{Token: e, Name: e})
	}

	return options
}
