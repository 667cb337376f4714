package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer is the text input for sending chat messages. Input is trimmed
// before submission and whitespace-only drafts are kept in the field
// rather than sent, so the push channel never carries empty messages.
type Composer struct {
	*tview.InputField
	onSend func(text string)
}

// NewComposer creates a new message composer.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetPlaceholder("write a message").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			c.submit()
		}
	})

	return c
}

// SetOnSend sets the callback when a message is sent.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// submit hands the trimmed draft to the send callback and clears the
// field. Whitespace-only drafts are left in place untouched.
func (c *Composer) submit() {
	if c.onSend == nil {
		return
	}
	text := strings.TrimSpace(c.GetText())
	if text == "" {
		return
	}
	c.onSend(text)
	c.SetText("")
}
