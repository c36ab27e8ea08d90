// Package scheduler drives the trading pipeline over a fixed number of cycles.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/metrics"
	"oracle-trading-bot/internal/types"
)

const (
	TotalMinutes    = 20
	IntervalMinutes = 2
)

// Clock abstracts wall time. Sleep is not interruptible.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Schedule is a fixed run of Total split into cycles Interval apart.
type Schedule struct {
	Total    time.Duration
	Interval time.Duration
}

func DefaultSchedule() Schedule {
	return Schedule{
		Total:    TotalMinutes * time.Minute,
		Interval: IntervalMinutes * time.Minute,
	}
}

// Iterations is Total / Interval, truncated.
func (s Schedule) Iterations() int {
	if s.Interval <= 0 {
		return 0
	}
	return int(s.Total / s.Interval)
}

// Slots returns the nominal start time of every cycle. Actual start times
// drift later by however long each cycle takes.
func (s Schedule) Slots(start time.Time) []time.Time {
	n := s.Iterations()
	slots := make([]time.Time, n)
	for i := range slots {
		slots[i] = start.Add(time.Duration(i) * s.Interval)
	}
	return slots
}

// Summary counts what happened during a run.
type Summary struct {
	Cycles int
	Failed int
	Sleeps int
	// Orders counts live orders only; DRY_RUN acknowledgements go to Simulated.
	Orders    int
	Simulated int
}

type Runner struct {
	engine   interfaces.Engine
	clock    Clock
	schedule Schedule
	symbol   string
}

func NewRunner(engine interfaces.Engine, clock Clock, schedule Schedule, symbol string) *Runner {
	return &Runner{engine: engine, clock: clock, schedule: schedule, symbol: symbol}
}

// Run executes every scheduled cycle in sequence. A failing cycle is logged
// and counted; it never stops the run.
func (r *Runner) Run(ctx context.Context) Summary {
	var sum Summary
	n := r.schedule.Iterations()
	slots := r.schedule.Slots(r.clock.Now())

	logger.Info(ctx, "Starting trading bot",
		"symbol", r.symbol,
		"cycles", n,
		"interval", r.schedule.Interval.String(),
	)

	for i, slot := range slots {
		now := r.clock.Now()
		logger.Info(ctx, "Running trading cycle",
			"cycle", i+1,
			"of", n,
			"at", now.Format("2006-01-02 15:04:05"),
			"scheduled", slot.Format("2006-01-02 15:04:05"),
		)

		res, err := r.runCycle(ctx, i+1)
		sum.Cycles++
		if err != nil {
			sum.Failed++
			metrics.CyclesTotal.WithLabelValues("failed").Inc()
		} else {
			if res != nil {
				for _, o := range res.Orders {
					if o.Simulated() {
						sum.Simulated++
					} else {
						sum.Orders++
					}
				}
			}
			metrics.CyclesTotal.WithLabelValues("ok").Inc()
		}

		if i < n-1 {
			r.clock.Sleep(r.schedule.Interval)
			sum.Sleeps++
		}
	}

	logger.Info(ctx, "Trading bot completed all cycles",
		"cycles", sum.Cycles,
		"failed", sum.Failed,
		"orders", sum.Orders,
		"simulated", sum.Simulated,
	)
	return sum
}

// runCycle isolates one cycle: errors and panics alike become a logged no-op.
func (r *Runner) runCycle(ctx context.Context, cycle int) (res *types.CycleResult, err error) {
	op := logger.StartOperation(ctx, "cycle", "cycle", cycle, "cycle_id", uuid.NewString(), "symbol", r.symbol)

	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("cycle %d panicked: %v", cycle, p)
		}
		if err != nil {
			op.EndWithError(err)
			return
		}
		if res == nil {
			op.End()
			return
		}
		op.End("action", string(res.Action), "orders", len(res.Orders))
	}()

	return r.engine.Step(op.GetContext(), r.symbol)
}
