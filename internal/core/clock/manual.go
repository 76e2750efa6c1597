package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Callbacks run
// synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	clock    *Manual
	id       int
	due      time.Time
	interval time.Duration
	callback func()
}

// NewManual returns a clock frozen at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, timers: map[int]*manualTimer{}}
}

// Now returns the manual time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// AfterFunc schedules a single-shot callback.
func (manual *Manual) AfterFunc(delay time.Duration, callback func()) Timer {
	return manual.schedule(delay, 0, callback)
}

// Every schedules a repeating callback.
func (manual *Manual) Every(interval time.Duration, callback func()) Timer {
	return manual.schedule(interval, interval, callback)
}

// Pending returns the number of live timers.
func (manual *Manual) Pending() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.timers)
}

// Advance moves time forward, firing due timers in order.
func (manual *Manual) Advance(delta time.Duration) {
	manual.mu.Lock()
	target := manual.now.Add(delta)
	manual.mu.Unlock()

	for {
		manual.mu.Lock()
		timer := manual.earliestDueLocked(target)
		if timer == nil {
			manual.now = target
			manual.mu.Unlock()
			return
		}
		manual.now = timer.due
		if timer.interval > 0 {
			timer.due = timer.due.Add(timer.interval)
		} else {
			delete(manual.timers, timer.id)
		}
		callback := timer.callback
		manual.mu.Unlock()

		callback()
	}
}

func (manual *Manual) schedule(delay, interval time.Duration, callback func()) Timer {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.nextID++
	timer := &manualTimer{
		clock:    manual,
		id:       manual.nextID,
		due:      manual.now.Add(delay),
		interval: interval,
		callback: callback,
	}
	manual.timers[timer.id] = timer
	return timer
}

func (manual *Manual) earliestDueLocked(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(manual.timers))
	for _, timer := range manual.timers {
		if !timer.due.After(target) {
			due = append(due, timer)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (timer *manualTimer) Stop() {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	delete(timer.clock.timers, timer.id)
}
