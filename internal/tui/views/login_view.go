package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mayank-pillai-99/bookconnect/internal/tui/ui"
)

// LoginView is the email/password form shown when no session exists.
// A button toggles between login and signup modes.
type LoginView struct {
	*tview.Flex
	theme   *ui.Theme
	form    *tview.Form
	message *tview.TextView
	signup  bool

	onLogin  func(email, password string)
	onSignup func(firstName, lastName, email, password string)
}

// NewLoginView creates the login form.
func NewLoginView(theme *ui.Theme) *LoginView {
	lv := &LoginView{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		theme:   theme,
		message: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
	}
	lv.rebuild()
	return lv
}

func (lv *LoginView) rebuild() {
	form := tview.NewForm()
	if lv.signup {
		form.AddInputField("First name", "", 30, nil, nil).
			AddInputField("Last name", "", 30, nil, nil)
	}
	form.AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)

	if lv.signup {
		form.AddButton("Sign up", func() {
			if lv.onSignup == nil {
				return
			}
			lv.onSignup(
				lv.fieldText(form, "First name"),
				lv.fieldText(form, "Last name"),
				lv.fieldText(form, "Email"),
				lv.fieldText(form, "Password"),
			)
		})
		form.AddButton("Have an account? Log in", func() { lv.toggleMode() })
		form.SetBorder(true).SetTitle(" Create account ")
	} else {
		form.AddButton("Log in", func() {
			if lv.onLogin == nil {
				return
			}
			lv.onLogin(lv.fieldText(form, "Email"), lv.fieldText(form, "Password"))
		})
		form.AddButton("New here? Sign up", func() { lv.toggleMode() })
		form.SetBorder(true).SetTitle(" Welcome ")
	}

	lv.form = form
	lv.Flex.Clear()
	lv.AddItem(ui.NewLogo(lv.theme), 5, 0, false).
		AddItem(form, 0, 1, true).
		AddItem(lv.message, 1, 0, false)
}

func (lv *LoginView) fieldText(form *tview.Form, label string) string {
	return form.GetFormItemByLabel(label).(*tview.InputField).GetText()
}

func (lv *LoginView) toggleMode() {
	lv.signup = !lv.signup
	lv.rebuild()
}

// SetOnLogin sets the login submit callback.
func (lv *LoginView) SetOnLogin(fn func(email, password string)) {
	lv.onLogin = fn
}

// SetOnSignup sets the signup submit callback.
func (lv *LoginView) SetOnSignup(fn func(firstName, lastName, email, password string)) {
	lv.onSignup = fn
}

// Form returns the current form for focusing.
func (lv *LoginView) Form() *tview.Form { return lv.form }

// ShowMessage displays a status or error line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.message.Clear()
	_, _ = fmt.Fprintf(lv.message, "[orangered]%s[-]", msg)
}
