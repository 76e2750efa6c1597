// Package prompt shows the break prompt and long-break warnings on the desktop.
package prompt

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const (
	promptTitle   = "Time for a mindful break"
	promptMessage = "You've been focused for a while. Step away for a few minutes?"
)

var errNotBound = errors.New("prompt has no answer handler")

// Answerer receives the user's answer to a prompt.
type Answerer interface {
	Accept()
	Decline()
}

// Notifier implements the scheduler's notifier with a small always-on-top
// style window plus system notifications. Its methods are called with the
// scheduler lock held, so every UI change is queued with fyne.Do.
type Notifier struct {
	app      fyne.App
	window   fyne.Window
	message  *widget.Label
	answerer Answerer
	logger   logrus.FieldLogger
}

// New builds the prompt window. Call it on the UI thread before the app runs.
func New(app fyne.App, logger logrus.FieldLogger) *Notifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	notifier := &Notifier{
		app:     app,
		window:  app.NewWindow(promptTitle),
		message: widget.NewLabel(promptMessage),
		logger:  logger.WithField("component", "prompt"),
	}
	if app.Icon() != nil {
		notifier.window.SetIcon(app.Icon())
	}

	accept := widget.NewButton("Take a Break", func() { notifier.answer(true) })
	accept.Importance = widget.HighImportance
	skip := widget.NewButton("Skip", func() { notifier.answer(false) })

	notifier.message.Wrapping = fyne.TextWrapWord
	notifier.window.SetContent(container.NewVBox(
		widget.NewLabelWithStyle(promptTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifier.message,
		container.NewHBox(layout.NewSpacer(), skip, accept),
	))
	notifier.window.Resize(fyne.NewSize(360, 140))
	notifier.window.SetFixedSize(true)
	// Closing the prompt counts as Skip.
	notifier.window.SetCloseIntercept(func() { notifier.answer(false) })
	return notifier
}

// Bind sets who receives the answers.
func (notifier *Notifier) Bind(answerer Answerer) {
	notifier.answerer = answerer
}

// RequestPermission only logs: fyne notifications need no runtime grant.
func (notifier *Notifier) RequestPermission() {
	notifier.logger.Debug("desktop notifications ready")
}

// PromptBreak shows the prompt window and a system notification.
func (notifier *Notifier) PromptBreak() error {
	if notifier.answerer == nil {
		return errNotBound
	}
	fyne.Do(func() {
		notifier.window.CenterOnScreen()
		notifier.window.Show()
		notifier.window.RequestFocus()
		notifier.app.SendNotification(fyne.NewNotification(promptTitle, promptMessage))
	})
	return nil
}

// DismissPrompt hides the prompt window.
func (notifier *Notifier) DismissPrompt() {
	fyne.Do(notifier.window.Hide)
}

// WarnLongBreak sends a system notification about a long break.
func (notifier *Notifier) WarnLongBreak(elapsed time.Duration) error {
	message := fmt.Sprintf("You've been on break for over %s. Ready to get back to work?", describeElapsed(elapsed))
	fyne.Do(func() {
		notifier.app.SendNotification(fyne.NewNotification("Taking a longer break?", message))
	})
	return nil
}

func (notifier *Notifier) answer(accepted bool) {
	notifier.window.Hide()
	if notifier.answerer == nil {
		return
	}
	if accepted {
		notifier.answerer.Accept()
		return
	}
	notifier.answerer.Decline()
}

func describeElapsed(elapsed time.Duration) string {
	if elapsed >= 2*time.Minute {
		return fmt.Sprintf("%d minutes", int(elapsed.Minutes()))
	}
	if elapsed >= time.Minute {
		return "a minute"
	}
	return fmt.Sprintf("%d seconds", int(elapsed.Seconds()))
}
