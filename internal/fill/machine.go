package fill

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Status of the sequential filling machine.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFilling  Status = "filling"
	StatusPaused   Status = "paused"
	StatusComplete Status = "complete"
)

// Per-field display states, derived from machine state rather than
// stored redundantly.
const (
	FieldStateEmpty   = "empty"
	FieldStateFilling = "filling"
	FieldStateFilled  = "filled"
)

// Caller-overridable timing defaults.
const (
	DefaultHighlightDuration = 2 * time.Second
	DefaultFieldDelay        = 600 * time.Millisecond
)

// Options tunes the per-field highlight window and the pause between
// fields. Zero values take the defaults.
type Options struct {
	HighlightDuration time.Duration
	FieldDelay        time.Duration
}

func (o Options) withDefaults() Options {
	if o.HighlightDuration == 0 {
		o.HighlightDuration = DefaultHighlightDuration
	}
	if o.FieldDelay == 0 {
		o.FieldDelay = DefaultFieldDelay
	}
	return o
}

// Callbacks notify the consuming view. All callbacks are optional and
// fire outside the machine's lock, so a handler may call back into the
// machine (a click handler pausing the sequence, for example).
type Callbacks struct {
	// OnFieldStart fires when a field becomes highlighted; the view
	// should scroll the field into view.
	OnFieldStart func(item types.FillingQueueItem)
	// OnFieldComplete fires when a field's highlight window ends.
	OnFieldComplete func(item types.FillingQueueItem)
	// OnComplete fires once when the whole sequence finishes.
	OnComplete func()
	// OnEmpty fires when Start is called with nothing to fill.
	OnEmpty func()
}

// Machine applies a filling queue to a live form one item at a time.
// States: idle -> filling <-> paused -> complete; idle and complete
// are terminal until a new Start call. Failures applying a single
// field are not modeled; there is no error state.
type Machine struct {
	sched     Scheduler
	form      Form
	opts      Options
	callbacks Callbacks

	mu          sync.Mutex
	status      Status
	queue       []types.FillingQueueItem
	index       int
	highlighted string
	filled      map[string]bool

	// generation invalidates outstanding timers: every transition out
	// of filling bumps it, and a timer whose generation is stale
	// returns without touching state. No stale timer may fire into a
	// subsequently started sequence.
	generation     uint64
	highlightTimer Timer
	delayTimer     Timer
}

// NewMachine creates an idle machine writing into form.
func NewMachine(form Form, sched Scheduler, opts Options, callbacks Callbacks) *Machine {
	return &Machine{
		sched:     sched,
		form:      form,
		opts:      opts.withDefaults(),
		callbacks: callbacks,
		status:    StatusIdle,
		index:     -1,
		filled:    make(map[string]bool),
	}
}

// Status returns the current machine status.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// CurrentIndex returns the index of the in-flight queue item, or -1
// when the sequence has not started.
func (m *Machine) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// HighlightedField returns the currently highlighted key, or "" when
// none is highlighted.
func (m *Machine) HighlightedField() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlighted
}

// FilledFields returns a copy of the set of keys filled so far.
func (m *Machine) FilledFields() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.filled))
	for k := range m.filled {
		out[k] = true
	}
	return out
}

// FieldState derives a field's display state: filling if it is the
// highlighted key, filled if it is in the filled-set, else empty.
func (m *Machine) FieldState(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.highlighted == key {
		return FieldStateFilling
	}
	if m.filled[key] {
		return FieldStateFilled
	}
	return FieldStateEmpty
}

// Clickable reports whether a field is eligible for interactive
// review: already filled, currently being filled, or the sequence is
// complete. A click handler must Pause before editing while the
// machine is filling.
func (m *Machine) Clickable(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filled[key] || m.highlighted == key || m.status == StatusComplete
}

// Start begins filling the given queue, restarting from any state.
// An empty queue causes no state change; the caller is notified via
// OnEmpty that there is nothing to fill.
func (m *Machine) Start(queue []types.FillingQueueItem) {
	if len(queue) == 0 {
		if m.callbacks.OnEmpty != nil {
			m.callbacks.OnEmpty()
		}
		return
	}

	m.mu.Lock()
	m.generation++
	m.cancelTimersLocked()
	m.queue = append([]types.FillingQueueItem(nil), queue...)
	m.index = 0
	m.filled = make(map[string]bool)
	m.highlighted = ""
	m.status = StatusFilling
	m.mu.Unlock()

	m.step()
}

// Pause suspends playback. Valid only while filling: pending timers
// are canceled and the highlight cleared, but the filled-set and the
// current index are kept.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusFilling {
		return
	}
	m.generation++
	m.cancelTimersLocked()
	m.highlighted = ""
	m.status = StatusPaused
}

// Resume continues playback from the current index. Valid only while
// paused. The item that was in flight when paused is re-highlighted
// and re-applied; applying the same value twice is not observable.
func (m *Machine) Resume() {
	m.mu.Lock()
	if m.status != StatusPaused {
		m.mu.Unlock()
		return
	}
	m.status = StatusFilling
	m.mu.Unlock()

	m.step()
}

// Stop cancels playback from any state and returns to idle. The
// filled-set is kept; use Reset to discard it.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.cancelTimersLocked()
	m.highlighted = ""
	m.index = -1
	m.status = StatusIdle
}

// Reset performs Stop and additionally clears the filled-set and the
// stored queue.
func (m *Machine) Reset() {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filled = make(map[string]bool)
	m.queue = nil
}

// cancelTimersLocked stops any outstanding timers. Caller holds mu.
func (m *Machine) cancelTimersLocked() {
	if m.highlightTimer != nil {
		m.highlightTimer.Stop()
		m.highlightTimer = nil
	}
	if m.delayTimer != nil {
		m.delayTimer.Stop()
		m.delayTimer = nil
	}
}

// step processes the item at the current index: highlight, write the
// value into the form, mark filled, and schedule the highlight expiry.
// When the index has reached the queue length the machine completes.
func (m *Machine) step() {
	m.mu.Lock()
	if m.status != StatusFilling {
		m.mu.Unlock()
		return
	}

	if m.index >= len(m.queue) {
		m.status = StatusComplete
		m.highlighted = ""
		onComplete := m.callbacks.OnComplete
		m.mu.Unlock()
		if onComplete != nil {
			onComplete()
		}
		return
	}

	item := m.queue[m.index]
	m.highlighted = item.Key
	m.form.SetValue(item.Key, item.Value)
	m.filled[item.Key] = true

	gen := m.generation
	m.highlightTimer = m.sched.AfterFunc(m.opts.HighlightDuration, func() {
		m.highlightExpired(gen)
	})
	onStart := m.callbacks.OnFieldStart
	m.mu.Unlock()

	if onStart != nil {
		onStart(item)
	}
}

// highlightExpired clears the highlight and schedules the advance to
// the next item after the inter-field delay.
func (m *Machine) highlightExpired(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.status != StatusFilling {
		m.mu.Unlock()
		return
	}
	m.highlighted = ""
	item := m.queue[m.index]
	m.delayTimer = m.sched.AfterFunc(m.opts.FieldDelay, func() {
		m.advance(gen)
	})
	onFieldComplete := m.callbacks.OnFieldComplete
	m.mu.Unlock()

	if onFieldComplete != nil {
		onFieldComplete(item)
	}
}

// advance moves to the next queue item.
func (m *Machine) advance(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.status != StatusFilling {
		m.mu.Unlock()
		return
	}
	m.index++
	m.mu.Unlock()

	m.step()
}
