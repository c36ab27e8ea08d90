package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"oracle-trading-bot/internal/types"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type scriptedEngine struct {
	calls int
	// fail maps a 1-based cycle number to the failure it should produce
	fail  map[int]string
	times []time.Time
	clock *fakeClock
	// status of the order each healthy cycle returns
	status string
}

func (e *scriptedEngine) Step(ctx context.Context, symbol string) (*types.CycleResult, error) {
	e.calls++
	e.times = append(e.times, e.clock.Now())
	switch e.fail[e.calls] {
	case "error":
		return nil, errors.New("oracle unavailable")
	case "panic":
		panic("unexpected nil opinion")
	}
	return &types.CycleResult{Symbol: symbol, Action: types.ActionBuy, Orders: []types.OrderResp{{OrderID: "x", Status: e.status}}}, nil
}

func TestDefaultScheduleCardinality(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)}
	eng := &scriptedEngine{clock: clock}

	sum := NewRunner(eng, clock, DefaultSchedule(), "TSLA").Run(context.Background())

	if eng.calls != 10 || sum.Cycles != 10 {
		t.Errorf("expected 10 cycles, got calls=%d summary=%d", eng.calls, sum.Cycles)
	}
	if len(clock.sleeps) != 9 || sum.Sleeps != 9 {
		t.Fatalf("expected 9 sleeps, got %d", len(clock.sleeps))
	}
	for i, d := range clock.sleeps {
		if d != 120*time.Second {
			t.Errorf("sleep %d: expected 120s, got %v", i, d)
		}
	}
	if sum.Orders != 10 || sum.Failed != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestCyclesRunSequentiallyAtInterval(t *testing.T) {
	start := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	eng := &scriptedEngine{clock: clock}

	NewRunner(eng, clock, DefaultSchedule(), "TSLA").Run(context.Background())

	for i, at := range eng.times {
		if want := start.Add(time.Duration(i) * 2 * time.Minute); !at.Equal(want) {
			t.Errorf("cycle %d ran at %v, want %v", i+1, at, want)
		}
	}
}

func TestFailingCycleDoesNotStopRun(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	eng := &scriptedEngine{clock: clock, fail: map[int]string{3: "error", 4: "panic"}}

	sum := NewRunner(eng, clock, DefaultSchedule(), "TSLA").Run(context.Background())

	if eng.calls != 10 {
		t.Errorf("expected all 10 cycles to run, got %d", eng.calls)
	}
	if sum.Failed != 2 {
		t.Errorf("expected 2 failed cycles, got %d", sum.Failed)
	}
	if sum.Orders != 8 {
		t.Errorf("expected orders from the 8 healthy cycles, got %d", sum.Orders)
	}
	if len(clock.sleeps) != 9 {
		t.Errorf("expected 9 sleeps, got %d", len(clock.sleeps))
	}
}

func TestScheduleIterations(t *testing.T) {
	tests := []struct {
		total, interval time.Duration
		want            int
	}{
		{20 * time.Minute, 2 * time.Minute, 10},
		{21 * time.Minute, 2 * time.Minute, 10},
		{2 * time.Minute, 2 * time.Minute, 1},
		{1 * time.Minute, 2 * time.Minute, 0},
		{10 * time.Minute, 0, 0},
	}
	for _, tt := range tests {
		s := Schedule{Total: tt.total, Interval: tt.interval}
		if got := s.Iterations(); got != tt.want {
			t.Errorf("Iterations(%v/%v) = %d, want %d", tt.total, tt.interval, got, tt.want)
		}
	}
}

func TestSingleCycleNeverSleeps(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	eng := &scriptedEngine{clock: clock}

	sum := NewRunner(eng, clock, Schedule{Total: 2 * time.Minute, Interval: 2 * time.Minute}, "TSLA").Run(context.Background())

	if sum.Cycles != 1 || len(clock.sleeps) != 0 {
		t.Errorf("expected one cycle and no sleep, got %+v sleeps=%d", sum, len(clock.sleeps))
	}
}

func TestSlots(t *testing.T) {
	start := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	slots := DefaultSchedule().Slots(start)

	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}
	if !slots[9].Equal(start.Add(18 * time.Minute)) {
		t.Errorf("last slot should be 18 minutes in, got %v", slots[9])
	}
}

func TestSimulatedOrdersSummarisedSeparately(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	eng := &scriptedEngine{clock: clock, status: types.OrderStatusSimulated}

	sum := NewRunner(eng, clock, DefaultSchedule(), "TSLA").Run(context.Background())

	if sum.Orders != 0 {
		t.Errorf("expected no live orders, got %d", sum.Orders)
	}
	if sum.Simulated != 10 {
		t.Errorf("expected 10 simulated orders, got %d", sum.Simulated)
	}
}
