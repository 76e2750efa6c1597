package control

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LogNotifier is the notifier used without a desktop session. Prompts and
// warnings are logged; the answer arrives through POST /api/break/accept or
// /api/break/decline.
type LogNotifier struct {
	logger logrus.FieldLogger
}

// NewLogNotifier returns a notifier that writes to logger.
func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{logger: logger.WithField("component", "notifier")}
}

func (notifier *LogNotifier) RequestPermission() {}

func (notifier *LogNotifier) PromptBreak() error {
	notifier.logger.Info("time for a mindful break: answer with POST /api/break/accept or /api/break/decline")
	return nil
}

func (notifier *LogNotifier) DismissPrompt() {
	notifier.logger.Debug("break prompt dismissed")
}

func (notifier *LogNotifier) WarnLongBreak(elapsed time.Duration) error {
	notifier.logger.WithField("elapsed", elapsed.Round(time.Second).String()).Warn("break is running long")
	return nil
}
