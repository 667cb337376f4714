package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ChatView displays the transcript of one open conversation.
type ChatView struct {
	*tview.TextView
	peerName string
}

// NewChatView creates the conversation view.
func NewChatView() *ChatView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Chat ")

	return &ChatView{TextView: tv}
}

// SetPeer updates the title with the conversation peer's name.
func (cv *ChatView) SetPeer(name string) {
	cv.peerName = name
	cv.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the transcript, oldest first. selfID marks own
// messages.
func (cv *ChatView) Update(msgs []domain.ChatMessage, selfID string) {
	cv.Clear()

	if len(msgs) == 0 {
		_, _ = fmt.Fprint(cv, "\n  [::d]No messages yet. Say hi![-:-:-]")
		return
	}

	for _, m := range msgs {
		sender := sanitizeForTerminal(m.SenderName())
		if m.SenderID != "" && m.SenderID == selfID {
			sender = "You"
		}
		_, _ = fmt.Fprintf(cv, "[::b]%s[-:-:-]\n%s\n\n", sender, sanitizeForTerminal(m.Text))
	}

	cv.ScrollToEnd()
}
