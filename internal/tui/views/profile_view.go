package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ProfileView shows the logged-in user's profile with the favorite-book
// list selectable for removal.
type ProfileView struct {
	*tview.Flex
	summary    *tview.TextView
	books      *tview.Table
	profile    domain.Profile
	selectedFn func() (int, int)
}

// NewProfileView creates the own-profile view.
func NewProfileView() *ProfileView {
	summary := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	summary.SetBorder(true).SetTitle(" Profile ")

	books := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	books.SetBorder(true).SetTitle(" Favorite books ")

	pv := &ProfileView{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		summary: summary,
		books:   books,
	}
	pv.selectedFn = books.GetSelection
	pv.AddItem(summary, 0, 1, false).
		AddItem(books, 0, 2, true)
	return pv
}

// Update refreshes the view with the profile.
func (pv *ProfileView) Update(p domain.Profile) {
	pv.profile = p

	pv.summary.Clear()
	_, _ = fmt.Fprintf(pv.summary, "\n  [::b]%s[-:-:-]", sanitizeForTerminal(p.DisplayName()))
	if p.Age > 0 {
		_, _ = fmt.Fprintf(pv.summary, "  [::d]%d, %s[-:-:-]", p.Age, p.Gender)
	}
	if p.About != "" {
		_, _ = fmt.Fprintf(pv.summary, "\n\n  %s", sanitizeForTerminal(p.About))
	}
	if len(p.FavoriteGenres) > 0 {
		_, _ = fmt.Fprintf(pv.summary, "\n\n  [orange]Genres:[-] %s", strings.Join(p.FavoriteGenres, ", "))
	}

	pv.books.Clear()
	pv.books.SetCell(0, 0, tview.NewTableCell(" Title").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	pv.books.SetCell(0, 1, tview.NewTableCell(" Author").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	for i, b := range p.FavoriteBooks {
		row := i + 1
		pv.books.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(b.Title)).SetMaxWidth(40).SetExpansion(2))
		pv.books.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(b.Author)).SetMaxWidth(30).SetExpansion(1))
	}
}

// SelectedBook returns the favorite book under the cursor, or false.
func (pv *ProfileView) SelectedBook() (domain.FavoriteBook, bool) {
	row, _ := pv.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(pv.profile.FavoriteBooks) {
		return pv.profile.FavoriteBooks[idx], true
	}
	return domain.FavoriteBook{}, false
}

// Books returns the book table for focusing.
func (pv *ProfileView) Books() *tview.Table { return pv.books }
