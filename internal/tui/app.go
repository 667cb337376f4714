package tui

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/app"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/chat"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/feed"
	"github.com/mayank-pillai-99/bookconnect/internal/inbox"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
	"github.com/mayank-pillai-99/bookconnect/internal/status"
	"github.com/mayank-pillai-99/bookconnect/internal/tui/keys"
	"github.com/mayank-pillai-99/bookconnect/internal/tui/ui"
	"github.com/mayank-pillai-99/bookconnect/internal/tui/views"
)

// Deps are the collaborators the TUI shell drives.
type Deps struct {
	Service    *app.Service
	Container  *state.Container
	Machine    *status.Machine
	Controller *feed.Controller
	Dispatcher *feed.Dispatcher
	Reviewer   *inbox.Reviewer
	Dialer     *chat.Dialer
	Bus        *bus.Bus
	Logger     *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	deps     Deps
	app      *tview.Application
	pages    *tview.Pages
	registry *keys.Registry
	theme    *ui.Theme
	flash    *ui.FlashModel

	statusBar    *views.StatusBar
	feedView     *views.FeedView
	filterBar    *views.FilterBar
	requestsV    *views.RequestsView
	connectionsV *views.ConnectionsView
	chatView     *views.ChatView
	composer     *views.Composer
	loginV       *views.LoginView
	profileV     *views.ProfileView
	editForm     *views.EditForm
	bookForm     *views.BookForm
	genreForm    *views.GenreForm
	helpV        *views.HelpView

	chatMu      sync.Mutex
	chatSession *chat.Session

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(deps Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		deps:         deps,
		app:          tview.NewApplication(),
		pages:        tview.NewPages(),
		registry:     keys.NewRegistry(),
		theme:        theme,
		flash:        ui.NewFlashModel(),
		statusBar:    views.NewStatusBar(),
		feedView:     views.NewFeedView(),
		filterBar:    views.NewFilterBar(),
		requestsV:    views.NewRequestsView(),
		connectionsV: views.NewConnectionsView(),
		chatView:     views.NewChatView(),
		composer:     views.NewComposer(),
		loginV:       views.NewLoginView(theme),
		profileV:     views.NewProfileView(),
		editForm:     views.NewEditForm(),
		bookForm:     views.NewBookForm(),
		genreForm:    views.NewGenreForm(),
		helpV:        views.NewHelpView(),
		ctx:          ctx,
		cancel:       cancel,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.showHelp() },
	})
	a.registry.AddGlobal("feed", &keys.Action{
		Rune: '1', Key: tcell.KeyRune,
		Description: "1:feed", Visible: true,
		Handler: func() { a.switchTo("feed") },
	})
	a.registry.AddGlobal("requests", &keys.Action{
		Rune: '2', Key: tcell.KeyRune,
		Description: "2:requests", Visible: true,
		Handler: func() { a.switchTo("requests"); a.refreshInbox() },
	})
	a.registry.AddGlobal("connections", &keys.Action{
		Rune: '3', Key: tcell.KeyRune,
		Description: "3:connections", Visible: true,
		Handler: func() { a.switchTo("connections"); a.refreshConnections() },
	})
	a.registry.AddGlobal("profile", &keys.Action{
		Rune: '4', Key: tcell.KeyRune,
		Description: "4:profile", Visible: true,
		Handler: func() { a.switchTo("profile") },
	})

	a.registry.AddView("feed", "interested", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Description: "i:interested", Visible: true,
		Handler: func() { a.decide(api.VerdictInterested) },
	})
	a.registry.AddView("feed", "ignore", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:ignore", Visible: true,
		Handler: func() { a.decide(api.VerdictIgnored) },
	})
	a.registry.AddView("feed", "clear", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Description: "c:clear filters", Visible: true,
		Handler: func() {
			a.deps.Controller.ClearFilters()
			a.filterBar.Reset()
		},
	})
	a.registry.AddView("feed", "search", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:search", Visible: true,
		Handler: func() { a.app.SetFocus(a.filterBar.Search()) },
	})
	a.registry.AddView("feed", "book", &keys.Action{
		Rune: 'b', Key: tcell.KeyRune,
		Description: "b:book filter", Visible: true,
		Handler: func() { a.app.SetFocus(a.filterBar.Book()) },
	})
	a.registry.AddView("feed", "genre", &keys.Action{
		Rune: 'g', Key: tcell.KeyRune,
		Description: "g:genre", Visible: true,
		Handler: func() { a.app.SetFocus(a.filterBar.Genre()) },
	})
	a.registry.AddView("feed", "sort", &keys.Action{
		Rune: 's', Key: tcell.KeyRune,
		Description: "s:sort", Visible: true,
		Handler: func() { a.app.SetFocus(a.filterBar.Sort()) },
	})
	a.registry.AddView("feed", "retry", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:retry", Visible: true,
		Handler: func() { a.deps.Controller.Retry() },
	})

	a.registry.AddView("requests", "accept", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:accept", Visible: true,
		Handler: func() { a.review(api.DecisionAccepted) },
	})
	a.registry.AddView("requests", "reject", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:reject", Visible: true,
		Handler: func() { a.review(api.DecisionRejected) },
	})
	a.registry.AddView("requests", "refresh", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:refresh", Visible: true,
		Handler: func() { a.refreshInbox() },
	})

	a.registry.AddView("connections", "refresh", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:refresh", Visible: true,
		Handler: func() { a.refreshConnections() },
	})

	a.registry.AddView("profile", "edit", &keys.Action{
		Rune: 'e', Key: tcell.KeyRune,
		Description: "e:edit profile", Visible: true,
		Handler: func() { a.showEditForm() },
	})
	a.registry.AddView("profile", "add-book", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:add book", Visible: true,
		Handler: func() { a.showBookForm() },
	})
	a.registry.AddView("profile", "remove-book", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "d:remove book", Visible: true,
		Handler: func() { a.removeSelectedBook() },
	})
	a.registry.AddView("profile", "genres", &keys.Action{
		Rune: 'g', Key: tcell.KeyRune,
		Description: "g:edit genres", Visible: true,
		Handler: func() { a.showGenreForm() },
	})
	a.registry.AddView("profile", "logout", &keys.Action{
		Rune: 'o', Key: tcell.KeyRune,
		Description: "o:logout", Visible: true,
		Handler: func() { a.logout() },
	})
}

func (a *App) setupCallbacks() {
	a.filterBar.SetOnSearch(a.deps.Controller.SetSearch)
	a.filterBar.SetOnBook(a.deps.Controller.SetBook)
	a.filterBar.SetOnGenre(a.deps.Controller.SetGenre)
	a.filterBar.SetOnSort(a.deps.Controller.SetSort)

	a.loginV.SetOnLogin(func(email, password string) {
		a.loginV.ShowMessage("Logging in...")
		go func() {
			if err := a.deps.Service.Login(a.ctx, email, password); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginV.ShowMessage("Login failed: " + err.Error())
				})
			}
		}()
	})
	a.loginV.SetOnSignup(func(firstName, lastName, email, password string) {
		a.loginV.ShowMessage("Creating account...")
		go func() {
			err := a.deps.Service.Signup(a.ctx, api.SignupParams{
				FirstName: firstName,
				LastName:  lastName,
				EmailID:   email,
				Password:  password,
			})
			if err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginV.ShowMessage("Signup failed: " + err.Error())
				})
			}
		}()
	})

	a.connectionsV.SetSelectedFunc(func(row, col int) {
		if peer, ok := a.connectionsV.Selected(); ok {
			a.openChat(peer)
		}
	})

	a.composer.SetOnSend(func(text string) {
		a.chatMu.Lock()
		session := a.chatSession
		a.chatMu.Unlock()
		if session == nil {
			return
		}
		go func() {
			if err := session.Send(a.ctx, text); err != nil {
				a.flash.Err(err)
				a.app.QueueUpdateDraw(a.refresh)
			}
		}()
	})

	a.bookForm.SetOnAdd(func(title, author string) {
		profile := a.deps.Container.Profile()
		if err := domain.ValidateNewBook(profile.FavoriteBooks, title); err != nil {
			a.flash.Warn(err.Error())
			a.refresh()
			return
		}
		a.switchTo("profile")
		go a.updateProfile(func(ctx context.Context) (domain.Profile, error) {
			return a.deps.Service.Client().Profile.AddBook(ctx, title, author)
		})
	})
	a.bookForm.SetOnCancel(func() { a.switchTo("profile") })

	a.editForm.SetOnSave(func(edits views.ProfileEdits) {
		a.switchTo("profile")
		go a.updateProfile(func(ctx context.Context) (domain.Profile, error) {
			return a.deps.Service.Client().Profile.Edit(ctx, api.EditParams{
				FirstName: edits.FirstName,
				LastName:  edits.LastName,
				PhotoURL:  edits.PhotoURL,
				Age:       edits.Age,
				Gender:    edits.Gender,
				About:     edits.About,
			})
		})
	})
	a.editForm.SetOnCancel(func() { a.switchTo("profile") })

	a.genreForm.SetOnSave(func(genres []string) {
		a.switchTo("profile")
		go a.updateProfile(func(ctx context.Context) (domain.Profile, error) {
			return a.deps.Service.Client().Profile.SetGenres(ctx, genres)
		})
	})
	a.genreForm.SetOnCancel(func() { a.switchTo("profile") })
}

func (a *App) setupLayout() {
	feedFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.filterBar, 1, 0, false).
		AddItem(a.feedView, 0, 1, true)

	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.chatView, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("feed", feedFlex, true, true)
	a.pages.AddPage("requests", a.requestsV, true, false)
	a.pages.AddPage("connections", a.connectionsV, true, false)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("profile", a.profileV, true, false)
	a.pages.AddPage("edit", a.editForm, true, false)
	a.pages.AddPage("book", a.bookForm, true, false)
	a.pages.AddPage("genres", a.genreForm, true, false)
	a.pages.AddPage("help", a.helpV, true, false)
	a.pages.AddPage("login", a.loginV, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "chat":
				a.closeChat()
				return nil
			case "edit", "book", "genres":
				a.switchTo("profile")
				return nil
			case "help", "requests", "connections", "profile":
				a.switchTo("feed")
				return nil
			}
		}

		// Forms handle their own navigation and submission.
		switch currentPage {
		case "login", "edit", "book", "genres":
			return event
		}

		// Let text input widgets handle all keys normally.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.DropDown:
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

// switchTo flips pages and restores a sensible focus target.
func (a *App) switchTo(page string) {
	a.pages.SwitchToPage(page)
	switch page {
	case "feed":
		a.app.SetFocus(a.feedView)
	case "requests":
		a.app.SetFocus(a.requestsV)
	case "connections":
		a.app.SetFocus(a.connectionsV)
	case "profile":
		a.app.SetFocus(a.profileV.Books())
	case "chat":
		a.app.SetFocus(a.chatView)
	case "edit":
		a.app.SetFocus(a.editForm)
	case "book":
		a.app.SetFocus(a.bookForm)
	case "genres":
		a.app.SetFocus(a.genreForm)
	case "login":
		a.app.SetFocus(a.loginV.Form())
	}
	a.refresh()
}

func (a *App) decide(v api.Verdict) {
	head, ok := a.deps.Container.Feed.Head()
	if !ok {
		return
	}
	a.deps.Dispatcher.Decide(v, head.ID)
}

func (a *App) review(d api.Decision) {
	entry, ok := a.requestsV.Selected()
	if !ok {
		return
	}
	if !a.deps.Reviewer.Review(d, entry.ID) {
		a.flash.Warn("review already in progress")
	}
	a.refresh()
}

func (a *App) refreshInbox() {
	go func() {
		if err := a.deps.Service.RefreshInbox(a.ctx); err != nil {
			a.flash.Err(err)
			a.app.QueueUpdateDraw(a.refresh)
		}
	}()
}

func (a *App) refreshConnections() {
	go func() {
		if err := a.deps.Service.RefreshConnections(a.ctx); err != nil {
			a.flash.Err(err)
			a.app.QueueUpdateDraw(a.refresh)
		}
	}()
}

func (a *App) openChat(peer domain.Profile) {
	go func() {
		self := a.deps.Container.Profile()
		session, err := a.deps.Dialer.Open(a.ctx, self, peer)
		if err != nil {
			a.flash.Err(err)
			a.app.QueueUpdateDraw(a.refresh)
			return
		}
		a.chatMu.Lock()
		old := a.chatSession
		a.chatSession = session
		a.chatMu.Unlock()
		if old != nil {
			_ = old.Close()
		}
		a.app.QueueUpdateDraw(func() {
			a.chatView.SetPeer(peer.DisplayName())
			a.switchTo("chat")
			a.app.SetFocus(a.composer.InputField)
		})
	}()
}

func (a *App) closeChat() {
	a.chatMu.Lock()
	session := a.chatSession
	a.chatSession = nil
	a.chatMu.Unlock()
	if session != nil {
		go func() { _ = session.Close() }()
	}
	a.switchTo("connections")
}

func (a *App) logout() {
	go func() {
		_ = a.deps.Service.Logout(a.ctx)
	}()
}

func (a *App) showEditForm() {
	a.editForm.SetProfile(a.deps.Container.Profile())
	a.switchTo("edit")
}

func (a *App) showBookForm() {
	a.bookForm.Reset()
	a.switchTo("book")
}

func (a *App) showGenreForm() {
	a.genreForm.SetChecked(a.deps.Container.Profile().FavoriteGenres)
	a.switchTo("genres")
}

func (a *App) removeSelectedBook() {
	book, ok := a.profileV.SelectedBook()
	if !ok {
		return
	}
	go a.updateProfile(func(ctx context.Context) (domain.Profile, error) {
		return a.deps.Service.Client().Profile.RemoveBook(ctx, book.ID)
	})
}

// updateProfile runs a profile mutation and swaps in the returned
// snapshot.
func (a *App) updateProfile(mutate func(context.Context) (domain.Profile, error)) {
	profile, err := mutate(a.ctx)
	if err != nil {
		a.flash.Err(err)
		a.app.QueueUpdateDraw(a.refresh)
		return
	}
	a.deps.Container.SetProfile(profile)
	a.app.QueueUpdateDraw(a.refresh)
}

func (a *App) showHelp() {
	order := []string{"Global", "Feed", "Requests", "Connections", "Profile"}
	sections := map[string][]string{
		"Global":      a.registry.Hints(""),
		"Feed":        a.registry.Hints("feed"),
		"Requests":    a.registry.Hints("requests"),
		"Connections": a.registry.Hints("connections"),
		"Profile":     a.registry.Hints("profile"),
	}
	a.helpV.Update(sections, order)
	a.pages.SwitchToPage("help")
}

// refresh redraws the status bar and the current page from the stores.
// Must run on the UI goroutine.
func (a *App) refresh() {
	a.statusBar.SetUser(a.deps.Container.Profile().DisplayName())
	a.statusBar.SetStatus(string(a.deps.Machine.Current()))
	a.statusBar.SetFilters(a.deps.Controller.Criteria().Query())
	a.statusBar.SetFlash(a.flash.Get())

	currentPage, _ := a.pages.GetFrontPage()
	switch currentPage {
	case "feed":
		head, ok := a.deps.Container.Feed.Head()
		a.feedView.Update(head, ok,
			a.deps.Container.Feed.Len(),
			a.deps.Controller.Loading(),
			a.deps.Controller.Criteria().Active(),
		)
	case "requests":
		a.requestsV.Update(a.deps.Container.Inbox.Snapshot())
	case "connections":
		a.connectionsV.Update(a.deps.Container.Connections.Snapshot())
	case "profile":
		a.profileV.Update(a.deps.Container.Profile())
	case "chat":
		a.chatMu.Lock()
		session := a.chatSession
		a.chatMu.Unlock()
		if session != nil {
			a.chatView.Update(session.Messages(), a.deps.Container.Profile().ID)
		}
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.startEventLoop()
	a.startClock()
	return a.app.Run()
}

// startEventLoop forwards bus events into UI redraws.
func (a *App) startEventLoop() {
	ch, unsub := a.deps.Bus.Subscribe("", 128)
	go func() {
		defer unsub()
		for {
			select {
			case <-a.ctx.Done():
				return
			case evt := <-ch:
				a.handleEvent(evt)
			}
		}
	}()
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case "session.status_changed":
		change, ok := evt.Payload.(status.StatusChange)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			switch change.To {
			case status.AuthRequired:
				a.switchTo("login")
			case status.Ready:
				a.switchTo("feed")
				a.refreshInbox()
				a.refreshConnections()
			case status.Error:
				a.loginV.ShowMessage("Could not reach the server. Log in to retry.")
				a.switchTo("login")
			default:
				a.refresh()
			}
		})
	case "inbox.accepted":
		a.refreshConnections()
	case "feed.error":
		if msg, ok := evt.Payload.(string); ok {
			a.flash.Warn("feed: " + msg)
		}
		a.app.QueueUpdateDraw(a.refresh)
	case "feed.decision_failed", "inbox.review_failed":
		// The optimistic removal stands either way; the failure is log-only.
		if id, ok := evt.Payload.(string); ok {
			a.deps.Logger.Warn("decision delivery failed", zap.String("id", id))
		}
	default:
		a.app.QueueUpdateDraw(a.refresh)
	}
}

// startClock keeps the status bar clock and flash expiry fresh.
func (a *App) startClock() {
	ticker := time.NewTicker(time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				a.app.QueueUpdateDraw(func() {
					a.statusBar.SetFlash(a.flash.Get())
					a.statusBar.SetStatus(string(a.deps.Machine.Current()))
				})
			case <-a.ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.chatMu.Lock()
	session := a.chatSession
	a.chatSession = nil
	a.chatMu.Unlock()
	if session != nil {
		_ = session.Close()
	}
	a.app.Stop()
}
