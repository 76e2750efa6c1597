// Package clock abstracts time so the scheduler can run against the wall
// clock in production and a manually advanced clock in tests.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/logger"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels future firings. It does not wait for a callback that is
	// already running; callers guard against that themselves.
	Stop()
}

// Clock provides the time source and timer primitives.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, callback func()) Timer
	Every(interval time.Duration, callback func()) Timer
}

// Real is a Clock backed by the runtime timers. Repeating timers are cron
// entries on a shared engine.
type Real struct {
	once   sync.Once
	engine *cron.Cron
}

// NewReal returns a wall clock. Cron errors and recovered job panics are
// written to log; nil discards them.
func NewReal(log logrus.FieldLogger) *Real {
	if log == nil {
		log = logger.Discard()
	}
	cronLog := cronLogger{log: log.WithField("component", "clock")}
	return &Real{engine: cron.New(
		cron.WithLocation(time.Local),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)}
}

// Now returns the current local time.
func (wall *Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs callback once after delay.
func (wall *Real) AfterFunc(delay time.Duration, callback func()) Timer {
	return &runtimeTimer{timer: time.AfterFunc(delay, callback)}
}

// Every runs callback repeatedly. cron works in whole seconds: intervals
// below one second become one second, and the first firing lands on a
// second boundary, so it can come up to a second before a full interval.
func (wall *Real) Every(interval time.Duration, callback func()) Timer {
	wall.once.Do(wall.engine.Start)
	id := wall.engine.Schedule(cron.Every(interval), cron.FuncJob(callback))
	return &cronTimer{engine: wall.engine, id: id}
}

// Close stops the cron engine and waits for running jobs.
func (wall *Real) Close() {
	<-wall.engine.Stop().Done()
}

type runtimeTimer struct {
	timer *time.Timer
}

func (timer *runtimeTimer) Stop() {
	timer.timer.Stop()
}

type cronTimer struct {
	engine *cron.Cron
	id     cron.EntryID
	once   sync.Once
}

func (timer *cronTimer) Stop() {
	timer.once.Do(func() {
		timer.engine.Remove(timer.id)
	})
}

// cronLogger routes cron's own logging to logrus. cron's info output is
// scheduling chatter, so it goes to debug.
type cronLogger struct {
	log logrus.FieldLogger
}

func (adapter cronLogger) Info(msg string, keysAndValues ...interface{}) {
	adapter.log.WithFields(cronFields(keysAndValues)).Debug(msg)
}

func (adapter cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	adapter.log.WithFields(cronFields(keysAndValues)).WithError(err).Error(msg)
}

func cronFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
