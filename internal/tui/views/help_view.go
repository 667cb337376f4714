package views

import (
	"fmt"

	"github.com/rivo/tview"
)

// HelpView lists all keybindings.
type HelpView struct {
	*tview.TextView
}

// NewHelpView creates the help view.
func NewHelpView() *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true).SetTitle(" Help ")

	return &HelpView{TextView: tv}
}

// Update renders help sections: a title followed by key hints.
func (hv *HelpView) Update(sections map[string][]string, order []string) {
	hv.Clear()
	for _, name := range order {
		_, _ = fmt.Fprintf(hv, "\n [::b]%s[-:-:-]\n", name)
		for _, hint := range sections[name] {
			_, _ = fmt.Fprintf(hv, "   %s\n", hint)
		}
	}
	_, _ = fmt.Fprint(hv, "\n [::d]Esc to go back[-:-:-]")
}
