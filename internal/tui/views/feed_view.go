package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// FeedView renders the head-of-deck candidate card.
type FeedView struct {
	*tview.TextView
}

// NewFeedView creates the candidate card view.
func NewFeedView() *FeedView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Feed ")

	return &FeedView{TextView: tv}
}

// Update renders the current top candidate. deckLen is the number of
// cards remaining, loading whether a fetch is in flight.
func (fv *FeedView) Update(head domain.Profile, ok bool, deckLen int, loading bool, filtered bool) {
	fv.Clear()

	if !ok {
		switch {
		case loading:
			_, _ = fmt.Fprint(fv, "\n  [::d]Loading readers...[-:-:-]")
		case filtered:
			_, _ = fmt.Fprint(fv, "\n  No readers match the current filters.\n\n  [::d]Press c to clear filters.[-:-:-]")
		default:
			_, _ = fmt.Fprint(fv, "\n  No more readers right now. Come back later!")
		}
		return
	}

	fv.SetTitle(fmt.Sprintf(" Feed (%d) ", deckLen))

	name := sanitizeForTerminal(head.DisplayName())
	_, _ = fmt.Fprintf(fv, "\n  [::b]%s[-:-:-]", name)
	if head.Age > 0 {
		_, _ = fmt.Fprintf(fv, "  [::d]%d", head.Age)
		if head.Gender != "" {
			_, _ = fmt.Fprintf(fv, ", %s", head.Gender)
		}
		_, _ = fmt.Fprint(fv, "[-:-:-]")
	}
	if head.About != "" {
		_, _ = fmt.Fprintf(fv, "\n\n  %s", sanitizeForTerminal(head.About))
	}
	if len(head.FavoriteGenres) > 0 {
		_, _ = fmt.Fprintf(fv, "\n\n  [orange]Genres:[-] %s", strings.Join(head.FavoriteGenres, ", "))
	}
	if len(head.FavoriteBooks) > 0 {
		_, _ = fmt.Fprint(fv, "\n\n  [orange]Favorite books:[-]")
		for _, b := range head.FavoriteBooks {
			line := "\n   - " + sanitizeForTerminal(b.Title)
			if b.Author != "" {
				line += " [::d]by " + sanitizeForTerminal(b.Author) + "[-:-:-]"
			}
			_, _ = fmt.Fprint(fv, line)
		}
	}
	_, _ = fmt.Fprint(fv, "\n\n  [green]i[-]:interested  [red]x[-]:ignore")
}
