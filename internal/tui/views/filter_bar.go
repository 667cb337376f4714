package views

import (
	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

var sortLabels = []string{"default", "name", "newest", "oldest"}

var sortModes = []domain.SortMode{
	domain.SortDefault,
	domain.SortName,
	domain.SortNewest,
	domain.SortOldest,
}

// FilterBar holds the feed filter inputs. Text fields report every
// keystroke; the controller debounces. Genre and sort commit on select.
type FilterBar struct {
	*tview.Flex
	search *tview.InputField
	book   *tview.InputField
	genre  *tview.DropDown
	sort   *tview.DropDown

	onSearch func(string)
	onBook   func(string)
	onGenre  func(string)
	onSort   func(domain.SortMode)
}

// NewFilterBar creates the filter input row.
func NewFilterBar() *FilterBar {
	fb := &FilterBar{Flex: tview.NewFlex()}

	fb.search = tview.NewInputField().
		SetLabel(" search: ").
		SetFieldWidth(0)
	fb.search.SetChangedFunc(func(text string) {
		if fb.onSearch != nil {
			fb.onSearch(text)
		}
	})

	fb.book = tview.NewInputField().
		SetLabel(" book: ").
		SetFieldWidth(0)
	fb.book.SetChangedFunc(func(text string) {
		if fb.onBook != nil {
			fb.onBook(text)
		}
	})

	genreLabels := append([]string{"any"}, domain.Genres...)
	fb.genre = tview.NewDropDown().
		SetLabel(" genre: ").
		SetOptions(genreLabels, func(label string, index int) {
			if fb.onGenre == nil {
				return
			}
			if index == 0 {
				fb.onGenre("")
				return
			}
			fb.onGenre(label)
		})
	fb.genre.SetCurrentOption(0)

	fb.sort = tview.NewDropDown().
		SetLabel(" sort: ").
		SetOptions(sortLabels, func(_ string, index int) {
			if fb.onSort != nil && index >= 0 && index < len(sortModes) {
				fb.onSort(sortModes[index])
			}
		})
	fb.sort.SetCurrentOption(0)

	fb.AddItem(fb.search, 0, 2, false).
		AddItem(fb.book, 0, 2, false).
		AddItem(fb.genre, 0, 1, false).
		AddItem(fb.sort, 0, 1, false)

	return fb
}

// SetOnSearch sets the per-keystroke search callback.
func (fb *FilterBar) SetOnSearch(fn func(string)) { fb.onSearch = fn }

// SetOnBook sets the per-keystroke book filter callback.
func (fb *FilterBar) SetOnBook(fn func(string)) { fb.onBook = fn }

// SetOnGenre sets the genre selection callback.
func (fb *FilterBar) SetOnGenre(fn func(string)) { fb.onGenre = fn }

// SetOnSort sets the sort selection callback.
func (fb *FilterBar) SetOnSort(fn func(domain.SortMode)) { fb.onSort = fn }

// Search returns the search input for focusing.
func (fb *FilterBar) Search() *tview.InputField { return fb.search }

// Book returns the book input for focusing.
func (fb *FilterBar) Book() *tview.InputField { return fb.book }

// Genre returns the genre dropdown for focusing.
func (fb *FilterBar) Genre() *tview.DropDown { return fb.genre }

// Sort returns the sort dropdown for focusing.
func (fb *FilterBar) Sort() *tview.DropDown { return fb.sort }

// Reset clears every input without firing callbacks.
func (fb *FilterBar) Reset() {
	onSearch, onBook, onGenre, onSort := fb.onSearch, fb.onBook, fb.onGenre, fb.onSort
	fb.onSearch, fb.onBook, fb.onGenre, fb.onSort = nil, nil, nil, nil
	fb.search.SetText("")
	fb.book.SetText("")
	fb.genre.SetCurrentOption(0)
	fb.sort.SetCurrentOption(0)
	fb.onSearch, fb.onBook, fb.onGenre, fb.onSort = onSearch, onBook, onGenre, onSort
}
