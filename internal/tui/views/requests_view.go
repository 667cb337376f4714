package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// RequestsView lists received connection requests.
type RequestsView struct {
	*tview.Table
	entries    []domain.RequestEntry
	selectedFn func() (int, int)
}

// NewRequestsView creates the request inbox table.
func NewRequestsView() *RequestsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Requests ")

	rv := &RequestsView{Table: table}
	rv.selectedFn = table.GetSelection
	return rv
}

// Update refreshes the table with new data.
func (rv *RequestsView) Update(entries []domain.RequestEntry) {
	rv.entries = entries
	rv.Clear()
	rv.SetTitle(fmt.Sprintf(" Requests (%d) ", len(entries)))

	rv.SetCell(0, 0, tview.NewTableCell(" From").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	rv.SetCell(0, 1, tview.NewTableCell(" Genres").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	rv.SetCell(0, 2, tview.NewTableCell(" About").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, e := range entries {
		row := i + 1
		rv.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(e.From.DisplayName())).SetMaxWidth(30).SetExpansion(1))
		rv.SetCell(row, 1, tview.NewTableCell(" "+strings.Join(e.From.FavoriteGenres, ", ")).SetMaxWidth(30).SetExpansion(1))
		rv.SetCell(row, 2, tview.NewTableCell(" "+sanitizeForTerminal(e.From.About)).SetMaxWidth(40).SetExpansion(2))
	}
}

// Selected returns the request under the cursor, or false.
func (rv *RequestsView) Selected() (domain.RequestEntry, bool) {
	row, _ := rv.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(rv.entries) {
		return rv.entries[idx], true
	}
	return domain.RequestEntry{}, false
}
