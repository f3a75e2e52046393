package eq

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMonitorInterval is the report period used when none is given.
const DefaultMonitorInterval = time.Second

// Monitor periodically reads a processor's counters off the audio path and
// reports anomalies through logrus: recovered faults and rejected blocks as
// warnings, sanitized input and limiting at debug level.
//
// Example usage:
//
//	m := eq.NewMonitor(proc, time.Second)
//	m.OnReport(func(s eq.Stats) { fmt.Println(s.Blocks) })
//	if err := m.Start(ctx); err != nil {
//	    return err
//	}
//	defer m.Stop()
type Monitor struct {
	proc     *Processor
	interval time.Duration

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	onReport func(Stats)
	last     Stats
}

// NewMonitor returns a monitor for proc. A non-positive interval selects
// DefaultMonitorInterval.
func NewMonitor(proc *Processor, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	return &Monitor{proc: proc, interval: interval}
}

// OnReport registers a callback invoked with every snapshot.
func (m *Monitor) OnReport(fn func(Stats)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onReport = fn
}

// Start launches the reporting goroutine. It stops when ctx is cancelled or
// Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyRunning
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.running = true
	m.last = m.proc.Stats()

	m.proc.log.WithFields(logrus.Fields{
		"function": "Monitor.Start",
		"interval": m.interval.String(),
	}).Debug("Starting stream monitor")

	go m.loop(ctx, m.done)

	return nil
}

// Stop halts the reporting goroutine and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()

	if !m.running {
		m.mu.Unlock()
		return
	}

	m.running = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
}

// IsRunning reports whether the reporting goroutine is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Poll takes one snapshot, logs what changed since the previous one and
// invokes the report callback. The loop calls it on every tick.
func (m *Monitor) Poll() Stats {
	s := m.proc.Stats()

	m.mu.Lock()
	prev := m.last
	m.last = s
	fn := m.onReport
	m.mu.Unlock()

	log := m.proc.log.WithField("function", "Monitor.Poll")

	if d := s.Faults - prev.Faults; d > 0 {
		log.WithFields(logrus.Fields{
			"faults":     d,
			"last_fault": s.LastFault,
		}).Warn("Block processing faulted; silence was emitted")
	}

	if d := s.Rejected - prev.Rejected; d > 0 {
		log.WithFields(logrus.Fields{
			"rejected": d,
			"state":    m.proc.State().String(),
		}).Warn("Blocks rejected with silence")
	}

	if d := s.SanitizedSamples - prev.SanitizedSamples; d > 0 {
		log.WithField("samples", d).Debug("Non-finite input samples replaced with zero")
	}

	if d := s.LimitedBlocks - prev.LimitedBlocks; d > 0 {
		log.WithFields(logrus.Fields{
			"blocks":    d,
			"last_peak": s.LastPeak,
			"last_gain": s.LastGain,
		}).Debug("Limiter engaged")
	}

	if fn != nil {
		fn(s)
	}

	return s
}
