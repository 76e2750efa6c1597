// Package preferences is the control panel: content preference, status and
// the manual break button.
package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/model"
)

// Store reads and persists the content preference.
type Store interface {
	Preference() model.ContentPreference
	SetPreference(preference model.ContentPreference) error
}

// Actions are the panel's buttons.
type Actions struct {
	TakeBreak func()
	Quit      func()
}

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	store     Store
	radio     *widget.RadioGroup
	status    *widget.Label
	takeBreak *widget.Button
	onChange  func(model.ContentPreference)
	logger    logrus.FieldLogger
}

// New creates the panel. Closing it only hides it.
func New(app fyne.App, store Store, actions Actions, logger logrus.FieldLogger) *Window {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	window := app.NewWindow("Mindful Break")
	prefs := &Window{
		window: window,
		store:  store,
		status: widget.NewLabel(""),
		logger: logger.WithField("component", "preferences"),
	}

	prefs.radio = widget.NewRadioGroup(Options(), prefs.handleSelect)
	prefs.radio.Required = true
	prefs.radio.SetSelected(store.Preference().Label())

	prefs.takeBreak = widget.NewButton("Take a Break Now", func() {
		if actions.TakeBreak != nil {
			actions.TakeBreak()
		}
	})
	prefs.takeBreak.Importance = widget.HighImportance
	quit := widget.NewButton("Quit", func() {
		if actions.Quit != nil {
			actions.Quit()
		}
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Mindful Break", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("BREAK CONTENT", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.radio,
		widget.NewSeparator(),
		prefs.takeBreak,
	)
	buttons := container.NewHBox(layout.NewSpacer(), quit)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(300, 380))
	window.SetCloseIntercept(window.Hide)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.radio.SetSelected(prefs.store.Preference().Label())
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetStatus updates the status line.
func (prefs *Window) SetStatus(text string) {
	if prefs.status.Text != text {
		prefs.status.SetText(text)
	}
}

// OnChange registers a callback for saved preference changes.
func (prefs *Window) OnChange(callback func(model.ContentPreference)) {
	prefs.onChange = callback
}

// Select shows preference as chosen, saving it if it differs from the store.
func (prefs *Window) Select(preference model.ContentPreference) {
	prefs.radio.SetSelected(preference.Label())
}

func (prefs *Window) handleSelect(label string) {
	preference, err := model.ParsePreference(label)
	if err != nil {
		return
	}
	if preference == prefs.store.Preference() {
		return
	}
	if err := prefs.store.SetPreference(preference); err != nil {
		prefs.logger.WithError(err).Error("failed to save preference")
		dialog.ShowError(err, prefs.window)
		return
	}
	if prefs.onChange != nil {
		prefs.onChange(preference)
	}
}
