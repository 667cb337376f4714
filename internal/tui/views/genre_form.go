package views

import (
	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// GenreForm is a checkbox list over the valid genre labels.
type GenreForm struct {
	*tview.Form
	onSave   func(genres []string)
	onCancel func()
}

// NewGenreForm creates the genre picker.
func NewGenreForm() *GenreForm {
	gf := &GenreForm{Form: tview.NewForm()}

	for _, g := range domain.Genres {
		gf.AddCheckbox(g, false, nil)
	}
	gf.AddButton("Save", func() {
		if gf.onSave == nil {
			return
		}
		var selected []string
		for _, g := range domain.Genres {
			if gf.GetFormItemByLabel(g).(*tview.Checkbox).IsChecked() {
				selected = append(selected, g)
			}
		}
		gf.onSave(selected)
	})
	gf.AddButton("Cancel", func() {
		if gf.onCancel != nil {
			gf.onCancel()
		}
	})
	gf.SetBorder(true).SetTitle(" Favorite genres ")

	return gf
}

// SetOnSave sets the save callback.
func (gf *GenreForm) SetOnSave(fn func(genres []string)) { gf.onSave = fn }

// SetOnCancel sets the cancel callback.
func (gf *GenreForm) SetOnCancel(fn func()) { gf.onCancel = fn }

// SetChecked pre-selects the given genres.
func (gf *GenreForm) SetChecked(genres []string) {
	checked := make(map[string]bool, len(genres))
	for _, g := range genres {
		checked[g] = true
	}
	for _, g := range domain.Genres {
		gf.GetFormItemByLabel(g).(*tview.Checkbox).SetChecked(checked[g])
	}
}
