package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/matheus3301/svyazukha/internal/config"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/roster"
	"github.com/matheus3301/svyazukha/internal/settings"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"go.uber.org/zap"
)

// Namespaces the view model redraws on.
var watched = []string{"conversation.", "recording.", "settings."}

// ViewModel sits between the views and the domain packages. It turns store
// outcomes into flash messages and bus events into refresh signals.
type ViewModel struct {
	mu    sync.RWMutex
	query string

	store    *conversation.Store
	settings *settings.Settings
	roster   *roster.Roster
	profile  config.Profile
	bus      *bus.Bus
	logger   *zap.Logger
	Flash    *ui.FlashModel

	refreshCh chan struct{}
}

// Deps groups what the view model reads from.
type Deps struct {
	Store    *conversation.Store
	Settings *settings.Settings
	Roster   *roster.Roster
	Profile  config.Profile
	Bus      *bus.Bus
	Flash    *ui.FlashModel
	Logger   *zap.Logger
}

// NewViewModel creates a view model.
func NewViewModel(d Deps) *ViewModel {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	flash := d.Flash
	if flash == nil {
		flash = ui.NewFlashModel(nil)
	}
	return &ViewModel{
		store:     d.Store,
		settings:  d.Settings,
		roster:    d.Roster,
		profile:   d.Profile,
		bus:       d.Bus,
		logger:    logger,
		Flash:     flash,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Run forwards bus events as refresh signals until ctx is done.
func (vm *ViewModel) Run(ctx context.Context) {
	if vm.bus == nil {
		<-ctx.Done()
		return
	}
	events, unsub := vm.bus.Subscribe(64, watched...)
	defer unsub()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			vm.logger.Debug("bus event", zap.String("kind", evt.Kind))
			vm.signalRefresh()
		case <-ctx.Done():
			return
		}
	}
}

// Conversations returns the chat list, narrowed by the active search.
func (vm *ViewModel) Conversations() []conversation.Conversation {
	if q := vm.Search(); q != "" {
		return vm.store.Search(q)
	}
	return vm.store.Conversations()
}

// Search returns the active chat search, set with :search.
func (vm *ViewModel) Search() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.query
}

// SetSearch narrows the chat list. An empty query shows every conversation.
func (vm *ViewModel) SetSearch(query string) int {
	vm.mu.Lock()
	vm.query = query
	vm.mu.Unlock()
	vm.signalRefresh()
	return len(vm.Conversations())
}

// Selected returns the open conversation.
func (vm *ViewModel) Selected() (conversation.Conversation, bool) {
	return vm.store.Selected()
}

// Conversation returns one conversation by id.
func (vm *ViewModel) Conversation(id conversation.ID) (conversation.Conversation, bool) {
	return vm.store.Conversation(id)
}

// Draft returns the composer text held by the store.
func (vm *ViewModel) Draft() string {
	return vm.store.Draft()
}

// SetDraft mirrors the composer into the store.
func (vm *ViewModel) SetDraft(text string) {
	vm.store.SetDraft(text)
}

// Recording returns the recorder status.
func (vm *ViewModel) Recording() conversation.RecordingStatus {
	return vm.store.Recording()
}

// Open selects a conversation and reports whether it is now open.
func (vm *ViewModel) Open(id conversation.ID) bool {
	return vm.report(vm.store.Select(id), "open")
}

// OpenByName opens the conversation with the given display name.
func (vm *ViewModel) OpenByName(name string) bool {
	c, ok := vm.store.FindByName(name)
	if !ok {
		vm.Flash.Warn(fmt.Sprintf("No conversation named %q", name))
		return false
	}
	return vm.Open(c.ID)
}

// Back closes the open conversation, cancelling any recording.
func (vm *ViewModel) Back() {
	rec := vm.store.Recording()
	vm.store.ClearSelection()
	if rec.State == conversation.Recording {
		vm.Flash.Warn("Recording cancelled")
	}
}

// Send sends the draft.
func (vm *ViewModel) Send(text string) bool {
	vm.store.SetDraft(text)
	return vm.report(vm.store.SendDraft(), "send")
}

// ToggleRecording starts a voice take, or stops the running one.
func (vm *ViewModel) ToggleRecording() bool {
	if vm.store.Recording().State == conversation.Recording {
		res := vm.store.StopRecording()
		if res.Applied() && res.Message != nil {
			vm.Flash.Info("Sent: " + res.Message.Text)
		}
		return vm.report(res, "stop recording")
	}
	res := vm.store.StartRecording()
	if res.Applied() {
		vm.Flash.Info("Recording… press Ctrl-R again to send")
	}
	return vm.report(res, "start recording")
}

// Contacts returns contacts matching filter.
func (vm *ViewModel) Contacts(filter string) []roster.Contact {
	if filter == "" {
		return vm.roster.List()
	}
	return vm.roster.Search(filter)
}

// OpenContact opens the conversation with the contact's display name.
func (vm *ViewModel) OpenContact(id string) bool {
	c, ok := vm.roster.Get(id)
	if !ok {
		return false
	}
	conv, ok := vm.store.FindByName(c.DisplayName)
	if !ok {
		vm.Flash.Warn("No conversation with " + c.DisplayName + " yet")
		return false
	}
	return vm.Open(conv.ID)
}

// Settings returns every toggle.
func (vm *ViewModel) Settings() []settings.Item {
	return vm.settings.Items()
}

// ToggleSetting flips a toggle.
func (vm *ViewModel) ToggleSetting(key settings.Key) {
	on, err := vm.settings.Toggle(key)
	if err != nil {
		vm.Flash.Err(err)
		return
	}
	state := "off"
	if on {
		state = "on"
	}
	vm.logger.Info("setting changed", zap.String("key", string(key)), zap.Bool("enabled", on))
	vm.Flash.Info(fmt.Sprintf("%s turned %s", key, state))
}

// Profile returns the user's card.
func (vm *ViewModel) Profile() config.Profile {
	return vm.profile
}

// Online reports whether the user shows as online.
func (vm *ViewModel) Online() bool {
	return vm.settings.Enabled(settings.OnlineStatus)
}

// SessionData summarizes state for the header.
func (vm *ViewModel) SessionData(session string) *ui.SessionData {
	convs := vm.store.Conversations()
	unread := 0
	for _, c := range convs {
		unread += c.UnreadCount
	}
	data := &ui.SessionData{
		Session:       session,
		Profile:       vm.profile.Name,
		Online:        vm.Online(),
		Conversations: len(convs),
		Unread:        unread,
	}
	if rec := vm.store.Recording(); rec.State == conversation.Recording {
		data.Recording = ui.FormatElapsed(rec.ElapsedSeconds)
	}
	return data
}

// report flashes ignored outcomes and returns whether res applied.
func (vm *ViewModel) report(res conversation.Result, action string) bool {
	if res.Applied() {
		return true
	}
	vm.logger.Debug("command ignored",
		zap.String("action", action),
		zap.String("outcome", string(res.Outcome)),
		zap.String("conversation", string(res.Conversation)),
	)
	switch res.Outcome {
	case conversation.IgnoredEmptyText:
		// An empty Enter is not worth a message.
	case conversation.IgnoredTooShort:
		vm.Flash.Warn("Recording too short, hold for at least a second")
	default:
		vm.Flash.Warn(fmt.Sprintf("Cannot %s: %s", action, res.Outcome.Reason()))
	}
	return false
}
