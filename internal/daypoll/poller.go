// Package daypoll detects local calendar date changes by wall-clock
// sampling. It is a heuristic, not a precise midnight trigger: a change
// is observed at most one polling interval late.
package daypoll

import (
	"sync"
	"time"

	"github.com/banned104/lorakeep/internal/log"
)

// DefaultInterval is how often the poller samples the clock.
const DefaultInterval = 30 * time.Second

// Event describes one observed day boundary.
type Event struct {
	PreviousDate string
	CurrentDate  string
	Timestamp    int64
}

// Callback receives day-change events. Callbacks run synchronously on
// the poll goroutine, in registration order; a panicking callback is
// logged and must not prevent subsequent callbacks from running.
type Callback func(Event)

// Poller is the day-boundary service. Construct one in the composition
// root and share it; it holds an explicit subscriber list with explicit
// Start/Stop lifecycle rather than hiding behind a global.
type Poller struct {
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	currentDate string
	nextSubID   int
	callbacks   []subscriber
	running     bool
	stop        chan struct{}
	done        chan struct{}
}

type subscriber struct {
	id int
	cb Callback
}

// New creates a poller sampling at the given interval. A non-positive
// interval falls back to DefaultInterval.
func New(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		interval: interval,
		now:      time.Now,
	}
	p.currentDate = p.today()
	return p
}

func (p *Poller) today() string {
	return p.now().Format("2006-01-02")
}

// CurrentDate returns the poller's last observed date.
func (p *Poller) CurrentDate() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentDate
}

// Subscribe registers a callback for day-change events and returns a
// function that removes it again.
func (p *Poller) Subscribe(cb Callback) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	p.callbacks = append(p.callbacks, subscriber{id: id, cb: cb})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, sub := range p.callbacks {
			if sub.id == id {
				p.callbacks = append(p.callbacks[:i], p.callbacks[i+1:]...)
				return
			}
		}
	}
}

// Start launches the sampling loop. Starting a running poller is a
// no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stop, p.done)
}

// Stop halts the sampling loop and waits for it to exit. Stopping a
// stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
}

func (p *Poller) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check samples the clock once and fires callbacks if the date rolled
// over. Exposed so callers can force a re-check on events like
// returning to the foreground.
func (p *Poller) Check() {
	newDate := p.today()

	p.mu.Lock()
	previous := p.currentDate
	if newDate == previous {
		p.mu.Unlock()
		return
	}
	p.currentDate = newDate
	callbacks := make([]subscriber, len(p.callbacks))
	copy(callbacks, p.callbacks)
	p.mu.Unlock()

	log.Printf("day boundary crossed: %s -> %s\n", previous, newDate)

	event := Event{
		PreviousDate: previous,
		CurrentDate:  newDate,
		Timestamp:    p.now().UnixMilli(),
	}
	for _, sub := range callbacks {
		fire(sub.cb, event)
	}
}

func fire(cb Callback, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("day-change callback panicked: %v", r)
		}
	}()
	cb(event)
}

// IsToday reports whether date is the current local date.
func IsToday(date string) bool {
	return date == time.Now().Format("2006-01-02")
}

// DaysBetween returns the whole-day difference date2 - date1. The
// comparison is between calendar dates, not wall-clock durations: both
// are anchored to UTC midnight so 23- and 25-hour local days around DST
// transitions still count as one day. Malformed dates count as zero
// distance.
func DaysBetween(date1, date2 string) int {
	d1, err1 := time.Parse("2006-01-02", date1)
	d2, err2 := time.Parse("2006-01-02", date2)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(d2.Sub(d1) / (24 * time.Hour))
}

// WithinDays reports whether date falls within the past n days,
// today inclusive.
func WithinDays(date string, n int) bool {
	diff := DaysBetween(date, time.Now().Format("2006-01-02"))
	return diff >= 0 && diff <= n
}
