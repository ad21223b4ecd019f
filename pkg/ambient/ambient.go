// Package ambient resurfaces random past entries as short-lived floating
// reminders while the collection is non-empty.
//
// A repeating tick picks one entry uniformly at random and places a reminder
// for it somewhere in the viewport. Each reminder is pending until the reveal
// delay elapses, visible after that, and dropped once its lifetime, measured
// from creation, is over. Reminders are independent and uncapped.
package ambient

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/logging"
)

const (
	DefaultInterval    = 3 * time.Second
	DefaultRevealDelay = 100 * time.Millisecond
	DefaultLifetime    = 10 * time.Second
)

// DefaultBox is the footprint of a reminder in terminal cells.
var DefaultBox = Size{W: 32, H: 4}

// Phase is the display phase of a reminder.
type Phase int

const (
	Pending Phase = iota
	Visible
	Removed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Visible:
		return "visible"
	default:
		return "removed"
	}
}

type Position struct {
	X, Y int
}

type Size struct {
	W, H int
}

// Reminder is one floating copy of an entry.
type Reminder struct {
	ID           string
	EntryID      string
	Content      string
	EntryCreated time.Time
	Position
	Phase Phase
	Born  time.Time
}

// Source is the collection reminders are drawn from.
type Source interface {
	Entries() []entry.Entry
	Observe(fn func(size int)) (cancel func())
}

// Options configure the engine. Zero values fall back to the defaults.
type Options struct {
	Interval    time.Duration
	RevealDelay time.Duration
	Lifetime    time.Duration
	Box         Size
	// Viewport reports the current drawing area; reminders are positioned so
	// the box fits inside it.
	Viewport func() Size
	Clock    Clock
	Rand     *rand.Rand
	// OnChange receives the active set after every change. Calls are
	// serialized and never deliver a set older than one already delivered.
	// It must not call back into the Handle.
	OnChange func([]Reminder)
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.RevealDelay <= 0 {
		o.RevealDelay = DefaultRevealDelay
	}
	if o.Lifetime <= 0 {
		o.Lifetime = DefaultLifetime
	}
	if o.Box == (Size{}) {
		o.Box = DefaultBox
	}
	if o.Viewport == nil {
		o.Viewport = func() Size { return Size{W: 80, H: 24} }
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	o.Logger = logging.OrNop(o.Logger).Named("ambient")
	return o
}

type active struct {
	Reminder
	reveal, expire Timer
}

// Handle controls a running engine.
type Handle struct {
	mu        sync.Mutex
	opts      Options
	src       Source
	reminders []*active
	tick      Timer
	// gen invalidates tick callbacks that fire after the tick was stopped.
	gen       uint64
	cancelled bool
	// version orders snapshots; it is bumped under mu with every change.
	version uint64

	notifyMu  sync.Mutex
	delivered uint64

	unobserve func()
	once      sync.Once
}

// Start runs the engine over src until the handle is cancelled. Nothing is
// scheduled while src is empty.
func Start(src Source, opts Options) *Handle {
	h := &Handle{opts: opts.withDefaults(), src: src}
	h.unobserve = src.Observe(h.sizeChanged)
	h.sizeChanged(len(src.Entries()))
	return h
}

// Active returns the current reminders, oldest first.
func (h *Handle) Active() []Reminder {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Running reports whether a tick is scheduled.
func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tick != nil
}

// Cancel stops the tick and every pending reveal and removal, and clears the
// active set. It is safe to call more than once.
func (h *Handle) Cancel() {
	h.once.Do(func() {
		h.mu.Lock()
		h.cancelled = true
		h.stopTickLocked()
		for _, r := range h.reminders {
			r.reveal.Stop()
			r.expire.Stop()
		}
		h.reminders = nil
		h.version++
		v := h.version
		h.mu.Unlock()

		if h.unobserve != nil {
			h.unobserve()
		}
		h.notify(v, nil)
		h.opts.Logger.Debug("ambient cancelled")
	})
}

func (h *Handle) sizeChanged(size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	switch {
	case size > 0 && h.tick == nil:
		h.scheduleLocked()
		h.opts.Logger.Debug("ambient started", zap.Int("entries", size))
	case size == 0 && h.tick != nil:
		h.stopTickLocked()
		h.opts.Logger.Debug("ambient idle")
	}
}

func (h *Handle) scheduleLocked() {
	gen := h.gen
	h.tick = h.opts.Clock.AfterFunc(h.opts.Interval, func() { h.fire(gen) })
}

func (h *Handle) stopTickLocked() {
	if h.tick != nil {
		h.tick.Stop()
		h.tick = nil
	}
	h.gen++
}

func (h *Handle) fire(gen uint64) {
	list := h.src.Entries()

	h.mu.Lock()
	if h.cancelled || gen != h.gen {
		h.mu.Unlock()
		return
	}
	if len(list) == 0 {
		h.stopTickLocked()
		h.mu.Unlock()
		return
	}

	picked := list[h.opts.Rand.IntN(len(list))]
	r := &active{Reminder: Reminder{
		ID:           newID(),
		EntryID:      picked.ID,
		Content:      picked.Content,
		EntryCreated: picked.Created.Time,
		Position:     h.placeLocked(),
		Phase:        Pending,
		Born:         h.opts.Clock.Now(),
	}}
	id := r.ID
	r.reveal = h.opts.Clock.AfterFunc(h.opts.RevealDelay, func() { h.reveal(id) })
	r.expire = h.opts.Clock.AfterFunc(h.opts.Lifetime, func() { h.expire(id) })
	h.reminders = append(h.reminders, r)
	h.scheduleLocked()
	v, snap := h.changedLocked()
	h.mu.Unlock()

	h.notify(v, snap)
}

func (h *Handle) placeLocked() Position {
	vp := h.opts.Viewport()
	maxX := max(vp.W-h.opts.Box.W, 0)
	maxY := max(vp.H-h.opts.Box.H, 0)
	return Position{
		X: h.opts.Rand.IntN(maxX + 1),
		Y: h.opts.Rand.IntN(maxY + 1),
	}
}

func (h *Handle) reveal(id string) {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	changed := false
	for _, r := range h.reminders {
		if r.ID == id && r.Phase == Pending {
			r.Phase = Visible
			changed = true
		}
	}
	if !changed {
		h.mu.Unlock()
		return
	}
	v, snap := h.changedLocked()
	h.mu.Unlock()

	h.notify(v, snap)
}

func (h *Handle) expire(id string) {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	kept := h.reminders[:0]
	changed := false
	for _, r := range h.reminders {
		if r.ID == id {
			r.Phase = Removed
			r.reveal.Stop()
			changed = true
			continue
		}
		kept = append(kept, r)
	}
	h.reminders = kept
	if !changed {
		h.mu.Unlock()
		return
	}
	v, snap := h.changedLocked()
	h.mu.Unlock()

	h.notify(v, snap)
}

func (h *Handle) snapshotLocked() []Reminder {
	out := make([]Reminder, 0, len(h.reminders))
	for _, r := range h.reminders {
		out = append(out, r.Reminder)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Born.Before(out[j].Born) })
	return out
}

func (h *Handle) changedLocked() (uint64, []Reminder) {
	h.version++
	return h.version, h.snapshotLocked()
}

// notify delivers snap unless a newer version already went out. A timer
// callback that took its snapshot before Cancel loses to Cancel's empty set.
func (h *Handle) notify(v uint64, snap []Reminder) {
	if h.opts.OnChange == nil {
		return
	}
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()
	if v <= h.delivered {
		return
	}
	h.delivered = v
	h.opts.OnChange(snap)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
