package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ConnectionsView lists established connections.
type ConnectionsView struct {
	*tview.Table
	list       []domain.Profile
	selectedFn func() (int, int)
}

// NewConnectionsView creates the connections table.
func NewConnectionsView() *ConnectionsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Connections ")

	cv := &ConnectionsView{Table: table}
	cv.selectedFn = table.GetSelection
	return cv
}

// Update refreshes the table with new data.
func (cv *ConnectionsView) Update(list []domain.Profile) {
	cv.list = list
	cv.Clear()
	cv.SetTitle(fmt.Sprintf(" Connections (%d) ", len(list)))

	cv.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cv.SetCell(0, 1, tview.NewTableCell(" Genres").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, p := range list {
		row := i + 1
		cv.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(p.DisplayName())).SetMaxWidth(30).SetExpansion(1))
		cv.SetCell(row, 1, tview.NewTableCell(" "+strings.Join(p.FavoriteGenres, ", ")).SetMaxWidth(50).SetExpansion(2))
	}
}

// Selected returns the connection under the cursor, or false.
func (cv *ConnectionsView) Selected() (domain.Profile, bool) {
	row, _ := cv.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cv.list) {
		return cv.list[idx], true
	}
	return domain.Profile{}, false
}
