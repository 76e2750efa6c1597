// Package breakwindow shows the break: content card, breathing circle,
// elapsed time and the long-break warning.
package breakwindow

import (
	"context"
	"fmt"
	"image/color"
	"net/http"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/clock"
	"mindfulbreak/internal/core/content"
	"mindfulbreak/internal/core/games"
	"mindfulbreak/internal/core/scheduler"
	"mindfulbreak/internal/ui/animation"
	"mindfulbreak/internal/ui/gameview"
	"mindfulbreak/resources"
)

const (
	windowTitle = "Mindful Break"
	circleBase  = float32(90)
	circleArea  = float32(130)
)

var (
	accentColor   = color.NRGBA{R: 0, G: 184, B: 148, A: 255}
	gradientStart = color.NRGBA{R: 26, G: 26, B: 46, A: 255}
	gradientEnd   = color.NRGBA{R: 15, G: 52, B: 96, A: 255}
	bannerColor   = color.NRGBA{R: 225, G: 112, B: 85, A: 230}
)

// Controls are the scheduler operations the window triggers.
type Controls interface {
	EndBreak()
	RefreshContent() bool
}

// Config holds the window's dependencies.
type Config struct {
	Clock      clock.Clock
	Random     games.Intner
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Window manages the break UI. Open and Close are safe from any goroutine;
// everything else runs on the UI thread.
type Window struct {
	app        fyne.App
	window     fyne.Window
	clock      clock.Clock
	random     games.Intner
	images     imageLoader
	logger     logrus.FieldLogger
	controls   Controls
	engine     *animation.Engine
	circle     *canvas.Circle
	breathText *canvas.Text
	elapsed    *canvas.Text
	banner     *fyne.Container
	bannerText *canvas.Text
	card       *fyne.Container
	refresh    *widget.Button

	session     scheduler.SessionInfo
	open        bool
	game        gameview.View
	stopTicker  context.CancelFunc
	cancelImage context.CancelFunc
}

// New builds the window. Call it on the UI thread before the app runs.
func New(app fyne.App, config Config) *Window {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Clock == nil {
		config.Clock = clock.NewReal(config.Logger)
	}
	if config.Random == nil {
		config.Random = content.NewRandom(0)
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	breakWindow := &Window{
		app:    app,
		window: app.NewWindow(windowTitle),
		clock:  config.Clock,
		random: config.Random,
		images: imageLoader{client: config.HTTPClient},
		logger: config.Logger.WithField("component", "break_window"),
	}
	if app.Icon() != nil {
		breakWindow.window.SetIcon(app.Icon())
	}
	breakWindow.window.SetContent(breakWindow.build())
	breakWindow.window.Resize(fyne.NewSize(640, 720))
	breakWindow.window.SetCloseIntercept(breakWindow.endBreak)
	breakWindow.engine = animation.New(animation.DefaultBreath(), 0, breakWindow.renderFrame)
	return breakWindow
}

// Bind sets the scheduler the buttons drive.
func (breakWindow *Window) Bind(controls Controls) {
	breakWindow.controls = controls
}

// Follow forwards provider and scheduler updates to the window until both
// channels close.
func (breakWindow *Window) Follow(states <-chan content.State, events <-chan scheduler.Event) {
	go func() {
		for state := range states {
			fyne.Do(func() { breakWindow.showContent(state) })
		}
	}()
	go func() {
		for event := range events {
			if event.Type != scheduler.EventBreakWarning {
				continue
			}
			fyne.Do(func() { breakWindow.showWarning(event) })
		}
	}()
}

// OpenBreakWindow shows the window for session.
func (breakWindow *Window) OpenBreakWindow(session scheduler.SessionInfo) {
	fyne.Do(func() { breakWindow.show(session) })
}

// CloseBreakWindow hides the window and stops its animations.
func (breakWindow *Window) CloseBreakWindow() {
	fyne.Do(breakWindow.hide)
}

func (breakWindow *Window) build() fyne.CanvasObject {
	background := canvas.NewLinearGradient(gradientStart, gradientEnd, 135)

	breakWindow.bannerText = canvas.NewText("", color.White)
	breakWindow.bannerText.TextStyle = fyne.TextStyle{Bold: true}
	breakWindow.banner = container.NewStack(
		canvas.NewRectangle(bannerColor),
		container.NewPadded(container.NewCenter(breakWindow.bannerText)),
	)
	breakWindow.banner.Hide()

	fullscreen := widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), func() {
		breakWindow.window.SetFullScreen(!breakWindow.window.FullScreen())
	})
	closeButton := widget.NewButtonWithIcon("", theme.CancelIcon(), breakWindow.endBreak)
	header := container.NewHBox(layout.NewSpacer(), fullscreen, closeButton)

	breakWindow.circle = canvas.NewCircle(color.NRGBA{R: accentColor.R, G: accentColor.G, B: accentColor.B, A: 90})
	breakWindow.circle.StrokeColor = accentColor
	breakWindow.circle.StrokeWidth = 3
	breakWindow.placeCircle(1)
	circleHolder := container.NewGridWrap(fyne.NewSize(circleArea, circleArea), container.NewWithoutLayout(breakWindow.circle))

	title := canvas.NewText("Breathe & Relax", color.White)
	title.TextSize = 24
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	breakWindow.breathText = canvas.NewText(animation.PhaseInhale.Label(), color.NRGBA{R: 200, G: 230, B: 220, A: 255})
	breakWindow.breathText.Alignment = fyne.TextAlignCenter

	breakWindow.elapsed = canvas.NewText(formatDuration(0), color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	breakWindow.elapsed.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	breakWindow.elapsed.Alignment = fyne.TextAlignCenter

	breakWindow.card = container.NewStack()

	breakWindow.refresh = widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		if breakWindow.controls != nil {
			breakWindow.controls.RefreshContent()
		}
	})
	back := widget.NewButton("Back to Work", breakWindow.endBreak)
	back.Importance = widget.HighImportance

	body := container.NewVBox(
		container.NewCenter(circleHolder),
		title,
		breakWindow.breathText,
		breakWindow.elapsed,
		breakWindow.card,
	)
	footer := container.NewHBox(layout.NewSpacer(), breakWindow.refresh, back, layout.NewSpacer())
	top := container.NewVBox(breakWindow.banner, header)

	return container.NewStack(background, container.NewBorder(top, container.NewPadded(footer), nil, nil, container.NewVScroll(container.NewPadded(body))))
}

func (breakWindow *Window) show(session scheduler.SessionInfo) {
	breakWindow.session = session
	breakWindow.open = true
	breakWindow.banner.Hide()
	breakWindow.setElapsed()
	breakWindow.startTicker()
	breakWindow.engine.Start(context.Background())

	breakWindow.window.CenterOnScreen()
	breakWindow.window.Show()
	breakWindow.window.RequestFocus()
}

func (breakWindow *Window) hide() {
	breakWindow.open = false
	breakWindow.engine.Stop()
	if breakWindow.stopTicker != nil {
		breakWindow.stopTicker()
		breakWindow.stopTicker = nil
	}
	breakWindow.clearCard()
	if breakWindow.window.FullScreen() {
		breakWindow.window.SetFullScreen(false)
	}
	breakWindow.window.Hide()
}

func (breakWindow *Window) endBreak() {
	if breakWindow.controls == nil {
		breakWindow.hide()
		return
	}
	breakWindow.controls.EndBreak()
}

func (breakWindow *Window) startTicker() {
	if breakWindow.stopTicker != nil {
		breakWindow.stopTicker()
	}
	ctx, cancel := context.WithCancel(context.Background())
	breakWindow.stopTicker = cancel
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fyne.Do(func() {
					if ctx.Err() == nil {
						breakWindow.setElapsed()
					}
				})
			}
		}
	}()
}

func (breakWindow *Window) setElapsed() {
	elapsed := breakWindow.clock.Now().Sub(breakWindow.session.StartedAt)
	breakWindow.elapsed.Text = "On break " + formatDuration(elapsed)
	breakWindow.elapsed.Refresh()
}

func (breakWindow *Window) renderFrame(frame animation.Frame) {
	fyne.Do(func() {
		breakWindow.placeCircle(frame.Scale)
		breakWindow.circle.Refresh()
		if label := frame.Phase.Label(); breakWindow.breathText.Text != label {
			breakWindow.breathText.Text = label
			breakWindow.breathText.Refresh()
		}
	})
}

func (breakWindow *Window) placeCircle(scale float32) {
	side := circleBase * scale
	offset := (circleArea - side) / 2
	breakWindow.circle.Resize(fyne.NewSize(side, side))
	breakWindow.circle.Move(fyne.NewPos(offset, offset))
}

func (breakWindow *Window) showWarning(event scheduler.Event) {
	if !breakWindow.open || event.Session == nil || event.Session.ID != breakWindow.session.ID {
		return
	}
	elapsed := event.At.Sub(event.Session.StartedAt)
	breakWindow.bannerText.Text = formatDuration(elapsed) + "+ on break"
	breakWindow.bannerText.Refresh()
	breakWindow.banner.Show()
	dialog.ShowInformation("Taking a longer break?",
		"You've been on break for a while. Ready to get back to work?", breakWindow.window)
}

func (breakWindow *Window) showContent(state content.State) {
	breakWindow.clearCard()
	breakWindow.refresh.Enable()

	var object fyne.CanvasObject
	switch state.Phase {
	case content.PhaseLoading:
		breakWindow.refresh.Disable()
		object = container.NewVBox(widget.NewProgressBarInfinite(), centered("Finding something calming..."))
	case content.PhaseError:
		object = widget.NewCard("Nothing to show", "", wrapped(state.Message))
	case content.PhaseLoaded:
		object = breakWindow.resultObject(state.Result)
	}
	if object != nil {
		breakWindow.card.Add(object)
	}
	breakWindow.card.Refresh()
}

func (breakWindow *Window) resultObject(result content.Result) fyne.CanvasObject {
	switch loaded := result.(type) {
	case content.TechNews:
		headline := widget.NewLabelWithStyle(loaded.Headline, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		headline.Wrapping = fyne.TextWrapWord
		items := []fyne.CanvasObject{headline}
		if loaded.Source != "" {
			items = append(items, widget.NewLabelWithStyle("via "+loaded.Source, fyne.TextAlignTrailing, fyne.TextStyle{Italic: true}))
		}
		if link, err := url.Parse(loaded.Link); err == nil && loaded.Link != "" {
			items = append(items, widget.NewHyperlink("Read full article", link))
		}
		return widget.NewCard("Tech News", "", container.NewVBox(items...))
	case content.Joke:
		return widget.NewCard("Programming Humor", "", wrapped(loaded.Text))
	case content.Nature:
		return breakWindow.imageCard("Nature", "Nature awaits...", loaded.ImageURL)
	case content.Meme:
		return breakWindow.imageCard("Meme", loaded.Title, loaded.ImageURL)
	case content.Game:
		breakWindow.game = gameview.New(loaded.Game, breakWindow.random)
		return widget.NewCard(loaded.Game.Title(), "", breakWindow.game.Object())
	default:
		breakWindow.logger.WithField("result", fmt.Sprintf("%T", result)).Error("unknown content result")
		return nil
	}
}

func (breakWindow *Window) imageCard(title, caption, target string) fyne.CanvasObject {
	image := canvas.NewImageFromResource(resources.MustIcon(resources.IconNatureFallback))
	image.FillMode = canvas.ImageFillContain
	image.SetMinSize(fyne.NewSize(480, 300))

	ctx, cancel := context.WithCancel(context.Background())
	breakWindow.cancelImage = cancel
	go func() {
		resource, err := breakWindow.images.load(ctx, target)
		if err != nil {
			if ctx.Err() == nil {
				breakWindow.logger.WithError(err).WithField("url", target).Warn("image unavailable, keeping placeholder")
			}
			return
		}
		fyne.Do(func() {
			if ctx.Err() != nil {
				return
			}
			image.Resource = resource
			image.Refresh()
		})
	}()

	return widget.NewCard(title, "", container.NewVBox(image, centered(caption)))
}

func (breakWindow *Window) clearCard() {
	if breakWindow.game != nil {
		breakWindow.game.Stop()
		breakWindow.game = nil
	}
	if breakWindow.cancelImage != nil {
		breakWindow.cancelImage()
		breakWindow.cancelImage = nil
	}
	breakWindow.card.RemoveAll()
}

func centered(text string) *widget.Label {
	label := widget.NewLabelWithStyle(text, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	label.Wrapping = fyne.TextWrapWord
	return label
}

func wrapped(text string) *widget.Label {
	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapWord
	return label
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
