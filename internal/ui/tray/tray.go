// Package tray owns the system tray icon and menu.
package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
	"mindfulbreak/resources"
)

const menuTitle = "Mindful Break"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnTakeBreak   func()
	OnEndBreak    func()
	OnPreference  func(model.ContentPreference)
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	breakItem   *fyne.MenuItem
	contentItem *fyne.MenuItem
	choices     map[model.ContentPreference]*fyne.MenuItem
	callbacks   Callbacks
	state       scheduler.StateKind
	menu        *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, preference model.ContentPreference, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		choices:   make(map[model.ContentPreference]*fyne.MenuItem, len(model.AllPreferences)),
		state:     scheduler.StateIdle,
	}

	manager.statusItem = fyne.NewMenuItem("Starting...", nil)
	manager.statusItem.Disabled = true

	manager.breakItem = fyne.NewMenuItem("Take a Break Now", manager.toggleBreak)

	choices := make([]*fyne.MenuItem, 0, len(model.AllPreferences))
	for _, option := range model.AllPreferences {
		choice := option
		item := fyne.NewMenuItem(choice.Label(), func() {
			manager.SetPreference(choice)
			if manager.callbacks.OnPreference != nil {
				manager.callbacks.OnPreference(choice)
			}
		})
		manager.choices[choice] = item
		choices = append(choices, item)
	}
	manager.contentItem = fyne.NewMenuItem("Break Content", nil)
	manager.contentItem.ChildMenu = fyne.NewMenu("", choices...)

	preferences := fyne.NewMenuItem("Preferences...", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.breakItem,
		manager.contentItem,
		preferences,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	manager.markPreference(preference)
	if app != nil {
		app.SetSystemTrayMenu(manager.menu)
		app.SetSystemTrayIcon(resources.MustIcon(resources.IconApp))
	}
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if manager.statusItem.Label == status {
		return
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

// SetState switches the break item and the icon for the scheduler state.
func (manager *Manager) SetState(state scheduler.StateKind) {
	if manager.state == state {
		return
	}
	manager.state = state

	icon := resources.IconApp
	switch state {
	case scheduler.StateOnBreak:
		manager.breakItem.Label = "Back to Work"
		icon = resources.IconOnBreak
	case scheduler.StateBreakPending:
		manager.breakItem.Label = "Take a Break Now"
		icon = resources.IconPending
	default:
		manager.breakItem.Label = "Take a Break Now"
	}
	manager.breakItem.Disabled = state == scheduler.StateIdle
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(resources.MustIcon(icon))
	}
	manager.refreshMenu()
}

// SetPreference checks the menu entry for preference.
func (manager *Manager) SetPreference(preference model.ContentPreference) {
	manager.markPreference(preference)
	manager.refreshMenu()
}

func (manager *Manager) markPreference(preference model.ContentPreference) {
	for choice, item := range manager.choices {
		item.Checked = choice == preference
	}
}

func (manager *Manager) toggleBreak() {
	if manager.state == scheduler.StateOnBreak {
		if manager.callbacks.OnEndBreak != nil {
			manager.callbacks.OnEndBreak()
		}
		return
	}
	if manager.callbacks.OnTakeBreak != nil {
		manager.callbacks.OnTakeBreak()
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}
