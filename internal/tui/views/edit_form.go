package views

import (
	"strconv"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// ProfileEdits carries the edited basic-profile fields out of the form.
type ProfileEdits struct {
	FirstName string
	LastName  string
	PhotoURL  string
	Age       int
	Gender    string
	About     string
}

// EditForm edits the basic profile fields (name, photo, age, gender,
// bio). Books and genres have their own forms.
type EditForm struct {
	*tview.Form
	onSave   func(edits ProfileEdits)
	onCancel func()
}

// NewEditForm creates the profile edit form.
func NewEditForm() *EditForm {
	ef := &EditForm{Form: tview.NewForm()}

	ef.AddInputField("First name", "", 30, nil, nil).
		AddInputField("Last name", "", 30, nil, nil).
		AddInputField("Photo URL", "", 60, nil, nil).
		AddInputField("Age", "", 4, tview.InputFieldInteger, nil).
		AddInputField("Gender", "", 12, nil, nil).
		AddInputField("About", "", 60, nil, nil).
		AddButton("Save", func() {
			if ef.onSave == nil {
				return
			}
			ef.onSave(ef.edits())
		}).
		AddButton("Cancel", func() {
			if ef.onCancel != nil {
				ef.onCancel()
			}
		})
	ef.SetBorder(true).SetTitle(" Edit profile ")

	return ef
}

// SetOnSave sets the submit callback.
func (ef *EditForm) SetOnSave(fn func(edits ProfileEdits)) { ef.onSave = fn }

// SetOnCancel sets the cancel callback.
func (ef *EditForm) SetOnCancel(fn func()) { ef.onCancel = fn }

// SetProfile prefills the form from the current profile snapshot.
func (ef *EditForm) SetProfile(p domain.Profile) {
	ef.field("First name").SetText(p.FirstName)
	ef.field("Last name").SetText(p.LastName)
	ef.field("Photo URL").SetText(p.PhotoURL)
	age := ""
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}
	ef.field("Age").SetText(age)
	ef.field("Gender").SetText(p.Gender)
	ef.field("About").SetText(p.About)
	ef.SetFocus(0)
}

func (ef *EditForm) edits() ProfileEdits {
	age, _ := strconv.Atoi(ef.field("Age").GetText())
	return ProfileEdits{
		FirstName: ef.field("First name").GetText(),
		LastName:  ef.field("Last name").GetText(),
		PhotoURL:  ef.field("Photo URL").GetText(),
		Age:       age,
		Gender:    ef.field("Gender").GetText(),
		About:     ef.field("About").GetText(),
	}
}

func (ef *EditForm) field(label string) *tview.InputField {
	return ef.GetFormItemByLabel(label).(*tview.InputField)
}
