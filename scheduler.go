package avrxmega

import "container/heap"

// ClockDomain is one of the ABI-visible clock domains. SYS is the
// fundamental time base; the others are integer prescales of it.
type ClockDomain int

const (
	ClockSYS ClockDomain = iota
	ClockCPU
	ClockPER
	ClockPER2
	ClockPER4
	ClockASY
)

func (c ClockDomain) String() string {
	switch c {
	case ClockSYS:
		return "SYS"
	case ClockCPU:
		return "CPU"
	case ClockPER:
		return "PER"
	case ClockPER2:
		return "PER2"
	case ClockPER4:
		return "PER4"
	case ClockASY:
		return "ASY"
	default:
		return "unknown"
	}
}

// EventCallback is invoked when a scheduled event comes due. It returns
// the number of domain ticks until the event should next fire, or 0 to
// detach it from the scheduler. A callback must not schedule or
// unschedule events; the scheduler only guarantees heap consistency
// between callbacks.
type EventCallback func() uint

// EventHandle identifies a scheduled event so the caller can later
// unschedule it. The generation field invalidates handles from before a
// Reset, since Device.Reset() clears the queue while blocks may still
// hold handles acquired before reset.
type EventHandle struct {
	id  uint64
	gen uint64
}

// schedEvent is one entry of the scheduler's min-heap.
type schedEvent struct {
	domain   ClockDomain
	callback EventCallback
	priority int
	tick     uint64 // absolute SYS-clock tick of next firing
	scale    uint64 // SYS ticks per domain tick, as of last (re)scale
	seq      uint64 // insertion order, for stable tie-breaking
	id       uint64
	gen      uint64
	index    int // heap index, maintained by container/heap
}

// eventHeap implements container/heap.Interface, ordering by
// (tick, priority, insertion order).
type eventHeap []*schedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].tick != h[j].tick {
		return h[i].tick < h[j].tick
	}
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	e := x.(*schedEvent)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// scheduler is the clock event priority queue: a min-heap of events keyed
// by absolute SYS tick, with live rescaling when the clock configuration
// changes.
type scheduler struct {
	heap    eventHeap
	sysTick uint64
	nextID  uint64
	nextSeq uint64
	gen     uint64
	scaleOf func(ClockDomain) uint64
}

func newScheduler(scaleOf func(ClockDomain) uint64) *scheduler {
	return &scheduler{scaleOf: scaleOf}
}

// reset clears the heap and bumps the generation counter so stale handles
// held by blocks from before reset are recognised as already gone rather
// than treated as an invariant violation.
func (s *scheduler) reset() {
	s.heap = nil
	s.sysTick = 0
	s.gen++
}

// schedule computes the event's absolute firing tick from the domain's
// current scale and pushes it onto the heap.
func (s *scheduler) schedule(domain ClockDomain, cb EventCallback, ticks uint, priority int) EventHandle {
	scale := s.scaleOf(domain)
	if scale == 0 {
		scale = 1
	}
	tick := ((s.sysTick/scale)+uint64(ticks))*scale
	s.nextID++
	s.nextSeq++
	e := &schedEvent{
		domain:   domain,
		callback: cb,
		priority: priority,
		tick:     tick,
		scale:    scale,
		seq:      s.nextSeq,
		id:       s.nextID,
		gen:      s.gen,
	}
	heap.Push(&s.heap, e)
	return EventHandle{id: e.id, gen: e.gen}
}

// unschedule removes the event identified by h. A handle from a previous
// generation (i.e. acquired before a Reset) is silently treated as
// already gone.
func (s *scheduler) unschedule(h EventHandle) bool {
	if h.gen != s.gen {
		return false
	}
	for i, e := range s.heap {
		if e.id == h.id {
			heap.Remove(&s.heap, i)
			return true
		}
	}
	return false
}

// empty reports whether the heap has no live events. step() must never be
// called on an empty scheduler; the CPU step event is always scheduled
// after reset.
func (s *scheduler) empty() bool { return len(s.heap) == 0 }

// step advances sysTick to the earliest due event and drains every event
// whose tick has now arrived, invoking each callback and either
// rescheduling it (non-zero return) or dropping it (zero return). Events
// due at the same tick fire in (priority, insertion) order.
func (s *scheduler) step() {
	if s.empty() {
		panic("scheduler: step called with no scheduled events")
	}

	s.sysTick = s.heap[0].tick

	for len(s.heap) > 0 && s.heap[0].tick <= s.sysTick {
		e := heap.Pop(&s.heap).(*schedEvent)
		next := e.callback()
		if next == 0 {
			continue
		}
		e.tick += uint64(next) * e.scale
		e.seq = s.nextSeqValue()
		heap.Push(&s.heap, e)
	}
}

func (s *scheduler) nextSeqValue() uint64 {
	s.nextSeq++
	return s.nextSeq
}

// onClockConfigChange re-expresses the firing time of every event whose
// scale no longer matches its domain's current scale, preserving the
// number of domain ticks remaining. The precondition is that this is
// called on the slowest-domain tick boundary so that (tick - now) is
// always a multiple of the old scale.
func (s *scheduler) onClockConfigChange() {
	changed := false
	for _, e := range s.heap {
		newScale := s.scaleOf(e.domain)
		if newScale == 0 {
			newScale = 1
		}
		if newScale == e.scale {
			continue
		}
		remaining := e.tick - s.sysTick
		domainTicksLeft := (remaining + e.scale - 1) / e.scale
		e.tick = s.sysTick + domainTicksLeft*newScale
		e.scale = newScale
		changed = true
	}
	if changed {
		heap.Init(&s.heap)
	}
}

// currentTick returns the scheduler's current absolute SYS tick.
func (s *scheduler) currentTick() uint64 { return s.sysTick }
