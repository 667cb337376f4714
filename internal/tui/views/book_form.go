package views

import (
	"github.com/rivo/tview"
)

// BookForm collects a title and author for a new favorite book.
type BookForm struct {
	*tview.Form
	onAdd    func(title, author string)
	onCancel func()
}

// NewBookForm creates the add-book form.
func NewBookForm() *BookForm {
	bf := &BookForm{Form: tview.NewForm()}

	bf.AddInputField("Title", "", 40, nil, nil).
		AddInputField("Author", "", 40, nil, nil).
		AddButton("Add", func() {
			if bf.onAdd == nil {
				return
			}
			title := bf.GetFormItemByLabel("Title").(*tview.InputField).GetText()
			author := bf.GetFormItemByLabel("Author").(*tview.InputField).GetText()
			bf.onAdd(title, author)
		}).
		AddButton("Cancel", func() {
			if bf.onCancel != nil {
				bf.onCancel()
			}
		})
	bf.SetBorder(true).SetTitle(" Add favorite book ")

	return bf
}

// SetOnAdd sets the submit callback.
func (bf *BookForm) SetOnAdd(fn func(title, author string)) { bf.onAdd = fn }

// SetOnCancel sets the cancel callback.
func (bf *BookForm) SetOnCancel(fn func()) { bf.onCancel = fn }

// Reset clears both fields.
func (bf *BookForm) Reset() {
	bf.GetFormItemByLabel("Title").(*tview.InputField).SetText("")
	bf.GetFormItemByLabel("Author").(*tview.InputField).SetText("")
}
