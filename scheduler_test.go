package avrxmega

import "testing"

func fixedScale(scales map[ClockDomain]uint64) func(ClockDomain) uint64 {
	return func(d ClockDomain) uint64 {
		if s, ok := scales[d]; ok {
			return s
		}
		return 1
	}
}

func TestSchedulerOrdersByTickThenPriority(t *testing.T) {
	s := newScheduler(fixedScale(nil))
	var order []string

	s.schedule(ClockSYS, func() uint { order = append(order, "late"); return 0 }, 5, 0)
	s.schedule(ClockSYS, func() uint { order = append(order, "early"); return 0 }, 1, 0)
	s.schedule(ClockSYS, func() uint { order = append(order, "mid-lo-pri"); return 0 }, 3, 10)
	s.schedule(ClockSYS, func() uint { order = append(order, "mid-hi-pri"); return 0 }, 3, -10)

	for !s.empty() {
		s.step()
	}

	want := []string{"early", "mid-hi-pri", "mid-lo-pri", "late"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSchedulerReschedulesOnNonZeroReturn(t *testing.T) {
	s := newScheduler(fixedScale(nil))
	count := 0
	s.schedule(ClockSYS, func() uint {
		count++
		if count < 3 {
			return 1
		}
		return 0
	}, 1, 0)

	for !s.empty() {
		s.step()
	}
	if count != 3 {
		t.Fatalf("callback fired %d times, want 3", count)
	}
}

func TestSchedulerResetInvalidatesHandles(t *testing.T) {
	s := newScheduler(fixedScale(nil))
	h := s.schedule(ClockSYS, func() uint { return 0 }, 1, 0)
	s.reset()
	if s.unschedule(h) {
		t.Fatal("unschedule succeeded on a handle from before reset")
	}
}

func TestSchedulerOnClockConfigChangePreservesDomainTicksRemaining(t *testing.T) {
	scale := uint64(1)
	s := newScheduler(fixedScale(map[ClockDomain]uint64{ClockCPU: scale}))

	fired := false
	s.schedule(ClockCPU, func() uint { fired = true; return 0 }, 10, 0)

	scale = 4
	s.scaleOf = fixedScale(map[ClockDomain]uint64{ClockCPU: scale})
	s.onClockConfigChange()

	// 10 CPU ticks remained at scale 1 (10 SYS ticks); at scale 4 that is
	// 40 SYS ticks away, not 10.
	if s.heap[0].tick != 40 {
		t.Fatalf("rescaled tick = %d, want 40", s.heap[0].tick)
	}

	for i := 0; i < 39; i++ {
		s.sysTick = uint64(i)
		if s.heap[0].tick <= s.sysTick {
			t.Fatalf("event fired early at sys tick %d", i)
		}
	}
	_ = fired
}
