package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/tui/keys"
	"github.com/matheus3301/svyazukha/internal/tui/model"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/matheus3301/svyazukha/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names. The first four are tabs; the rest are pushed on top of a tab.
const (
	pageChats    = "chats"
	pageContacts = "contacts"
	pageProfile  = "profile"
	pageSettings = "settings"
	pageThread   = "thread"
	pageDetails  = "details"
	pageHelp     = "help"
)

var tabs = []string{pageChats, pageContacts, pageProfile, pageSettings}

const (
	headerHeight = 6
	promptHeight = 3
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	vm       *model.ViewModel
	session  string
	theme    *ui.Theme
	registry *keys.Registry
	record   *keys.Action
	logger   *zap.Logger

	layout   *tview.Flex
	pages    *ui.Pages
	info     *ui.SessionInfo
	menu     *ui.Menu
	logo     *ui.Logo
	crumbs   *ui.Crumbs
	prompt   *ui.Prompt
	flashBar *ui.FlashBar

	chats    *views.ConversationList
	thread   *views.MessageThread
	details  *views.ConversationInfo
	contacts *views.ContactsView
	profile  *views.ProfileView
	settings *views.SettingsView
	help     *views.HelpView

	components    map[string]ui.Component
	primitives    map[string]tview.Primitive
	contactFilter string
	promptActive  bool
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, sessionName string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := ui.DefaultTheme()
	a := &App{
		app:      tview.NewApplication(),
		vm:       vm,
		session:  sessionName,
		theme:    theme,
		registry: keys.NewRegistry(),
		logger:   logger,
		pages:    ui.NewPages(),
		info:     ui.NewSessionInfo(theme),
		menu:     ui.NewMenu(theme),
		logo:     ui.NewLogo(theme),
		crumbs:   ui.NewCrumbs(theme),
		prompt:   ui.NewPrompt(theme),
		flashBar: ui.NewFlashBar(theme),
		chats:    views.NewConversationList(theme),
		thread:   views.NewMessageThread(theme),
		details:  views.NewConversationInfo(theme),
		contacts: views.NewContactsView(theme),
		profile:  views.NewProfileView(theme),
		settings: views.NewSettingsView(theme),
		help:     views.NewHelpView(theme),
	}

	a.setupCallbacks()
	a.setupBindings()
	a.setupLayout()
	a.render()

	return a
}

func (a *App) setupBindings() {
	for i, tab := range tabs {
		a.registry.AddGlobal(&keys.Action{
			Key: tcell.KeyRune, Rune: rune('1' + i),
			Label: fmt.Sprint(i + 1), Description: a.components[tab].Name(), Visible: true,
			Handler: func() { a.switchTab(tab) },
		})
	}
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Label: ":", Description: "Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?',
		Label: "?", Description: "Help", Visible: true,
		Handler: func() { a.push(pageHelp) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Label: "q", Description: "Quit", Visible: true,
		Handler: a.Stop,
	})
	a.record = &keys.Action{
		Key: tcell.KeyCtrlR, Rune: 'r', Mod: tcell.ModCtrl,
		Handler: a.toggleRecording,
	}
	a.registry.AddGlobal(a.record)

	filter := &keys.Action{
		Key: tcell.KeyRune, Rune: '/',
		Handler: func() { a.showPrompt(ui.PromptFilter) },
	}
	a.registry.AddView(pageChats, filter)
	a.registry.AddView(pageContacts, filter)
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: '0',
		Handler: func() {
			a.chats.ClearFilter()
			a.vm.SetSearch("")
		},
	})
	a.registry.AddView(pageThread, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i',
		Handler: func() { a.app.SetFocus(a.thread.Composer()) },
	})
	a.registry.AddView(pageThread, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd',
		Handler: func() { a.push(pageDetails) },
	})
	a.registry.AddView(pageSettings, &keys.Action{
		Key: tcell.KeyRune, Rune: ' ',
		Handler: a.toggleSetting,
	})
}

func (a *App) setupCallbacks() {
	a.components = map[string]ui.Component{
		pageChats:    a.chats,
		pageContacts: a.contacts,
		pageProfile:  a.profile,
		pageSettings: a.settings,
		pageThread:   a.thread,
		pageDetails:  a.details,
		pageHelp:     a.help,
	}
	a.primitives = map[string]tview.Primitive{
		pageChats:    a.chats,
		pageContacts: a.contacts,
		pageProfile:  a.profile,
		pageSettings: a.settings,
		pageThread:   a.thread.Messages(),
		pageDetails:  a.details,
		pageHelp:     a.help,
	}

	a.chats.SetSelectedFunc(func(row, _ int) {
		a.openConversation(func() bool { return a.vm.Open(a.chats.IDByIndex(row)) })
	})
	a.contacts.SetSelectedFunc(func(_, _ int) {
		id := a.contacts.SelectedID()
		a.openConversation(func() bool { return a.vm.OpenContact(id) })
	})
	a.settings.SetSelectedFunc(func(_, _ int) { a.toggleSetting() })

	a.thread.SetOnDraft(a.vm.SetDraft)
	a.thread.SetOnSend(func(text string) {
		if a.vm.Send(text) {
			a.render()
		}
	})

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack, func(page string) string { return a.components[page].Name() })
		a.updateMenu()
	})

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.applyFilter(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptFilter {
			a.applyFilter(text)
			return
		}
		if text != "" {
			a.execute(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.applyFilter("")
		}
		a.hidePrompt()
	})
	a.prompt.SetCompletions(func(text string) []string {
		convs := a.vm.Conversations()
		names := make([]string, len(convs))
		for i, c := range convs {
			names[i] = c.DisplayName
		}
		return completeCommand(text, names)
	})
}

func (a *App) setupLayout() {
	for name, p := range a.primitives {
		if name == pageThread {
			p = a.thread
		}
		a.pages.AddPage(name, p, true, false)
	}

	header := tview.NewFlex().
		AddItem(a.info, 34, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 34, 0, false)

	a.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, headerHeight, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.pages.Reset(pageChats)
	a.app.SetRoot(a.layout, true)
	a.app.SetFocus(a.chats)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if a.promptActive {
		return event
	}

	if a.app.GetFocus() == a.thread.Composer() {
		switch {
		case event.Key() == tcell.KeyEscape:
			a.app.SetFocus(a.thread.Messages())
			return nil
		case a.record.Matches(event):
			a.toggleRecording()
			return nil
		}
		return event
	}

	if event.Key() == tcell.KeyEscape {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(a.pages.Current(), event) {
		return nil
	}
	return event
}

func (a *App) updateMenu() {
	page := a.pages.Current()
	var hints []ui.MenuHint
	if c, ok := a.components[page]; ok {
		hints = append(hints, c.Hints()...)
	}
	hints = append(hints, a.registry.Hints(page)...)
	a.menu.Update(hints, headerHeight)
}

// switchTab resets the page stack to tab. Leaving an open conversation
// closes it, which also cancels a recording in progress.
func (a *App) switchTab(tab string) {
	if a.pages.Contains(pageThread) {
		a.vm.Back()
	}
	a.pages.Reset(tab)
	a.app.SetFocus(a.primitives[tab])
	a.render()
}

func (a *App) push(page string) {
	a.pages.Push(page)
	a.app.SetFocus(a.primitives[page])
	a.render()
}

// back pops one page; on a tab it clears the tab's filter instead.
func (a *App) back() {
	switch page := a.pages.Current(); page {
	case pageThread:
		a.vm.Back()
	case pageChats:
		a.chats.ClearFilter()
		a.vm.SetSearch("")
		return
	case pageContacts:
		a.applyFilter("")
		return
	}
	if a.pages.Pop() != "" {
		a.app.SetFocus(a.primitives[a.pages.Current()])
	}
	a.render()
}

// openConversation runs open and, when it selected a conversation, shows
// the thread above the current tab.
func (a *App) openConversation(open func() bool) {
	if !open() {
		a.render()
		return
	}
	for a.pages.Depth() > 1 {
		a.pages.Pop()
	}
	a.push(pageThread)
}

func (a *App) toggleRecording() {
	a.vm.ToggleRecording()
	a.render()
}

func (a *App) toggleSetting() {
	if key := a.settings.SelectedKey(); key != "" {
		a.vm.ToggleSetting(key)
		a.render()
	}
}

func (a *App) applyFilter(text string) {
	switch a.pages.Current() {
	case pageChats:
		a.chats.SetFilter(text)
	case pageContacts:
		a.contactFilter = text
		a.contacts.Update(a.vm.Contacts(text), text)
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.promptActive = true
	a.prompt.Activate(mode)
	a.layout.ResizeItem(a.prompt, promptHeight, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptActive = false
	a.layout.ResizeItem(a.prompt, 0, 0)
	a.app.SetFocus(a.primitives[a.pages.Current()])
}

func (a *App) execute(cmd Command) {
	a.logger.Debug("command", zap.String("name", cmd.Name), zap.String("args", cmd.Args))
	switch cmd.Name {
	case "chat":
		if cmd.Args == "" {
			a.vm.Flash.Warn("Usage: :chat <name>")
			return
		}
		a.openConversation(func() bool { return a.vm.OpenByName(cmd.Args) })
	case "search":
		n := a.vm.SetSearch(cmd.Args)
		a.switchTab(pageChats)
		if cmd.Args != "" {
			a.vm.Flash.Info(fmt.Sprintf("%d chats match %q", n, cmd.Args))
		}
	case "help":
		a.push(pageHelp)
	case "quit":
		a.Stop()
	case pageChats, pageContacts, pageProfile, pageSettings:
		a.switchTab(cmd.Name)
	default:
		a.vm.Flash.Warn(fmt.Sprintf("Unknown command %q", cmd.Name))
	}
}

// render pulls fresh state from the view model into every view. It must run
// on the UI goroutine.
func (a *App) render() {
	a.info.Update(a.vm.SessionData(a.session))
	a.chats.Update(a.vm.Conversations(), a.vm.Search())
	a.contacts.Update(a.vm.Contacts(a.contactFilter), a.contactFilter)
	a.profile.Update(a.vm.Profile(), a.vm.Online())
	a.settings.Update(a.vm.Settings())

	if a.pages.Contains(pageThread) {
		c, ok := a.vm.Selected()
		if !ok {
			// The selection was cleared underneath us.
			tab := a.pages.Stack()[0]
			a.pages.Reset(tab)
			a.app.SetFocus(a.primitives[tab])
		} else {
			a.thread.Update(c, a.vm.Draft(), a.vm.Recording())
			a.details.Update(c)
		}
	}

	a.flashBar.Update(a.vm.Flash.GetMessage())
	a.updateMenu()
}

func (a *App) refreshLoop(ctx context.Context) {
	// Expires flash messages even when nothing else changes.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.vm.RefreshCh():
		case <-a.vm.Flash.Watch():
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
		a.app.QueueUpdateDraw(a.render)
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.vm.Run(ctx)
	go a.refreshLoop(ctx)

	a.logger.Info("tui started")
	defer a.logger.Info("tui stopped")
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.app.Stop()
}
