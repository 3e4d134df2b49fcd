package matchmaking

import (
	"fmt"
	"sync"
	"time"
)

// Tick-period selection thresholds: a busier queue is scanned more often.
const (
	tickBusy    = 16
	tickActive  = 8
	tickWarm    = 4
	waitWindow  = 1000
	alertAvgWait     = 60 * time.Second
	alertSuccessRate = 0.95
	alertMinMatches  = 10
	alertPopulation  = 20
)

// tickPeriodFor maps the total queue population to the scheduler period.
func tickPeriodFor(population int) time.Duration {
	switch {
	case population >= tickBusy:
		return 1 * time.Second
	case population >= tickActive:
		return 2 * time.Second
	case population >= tickWarm:
		return 3 * time.Second
	default:
		return 5 * time.Second
	}
}

// Analytics accumulates matchmaking health counters: match outcomes, a
// rolling wait-time window, peak wait, queue population and the current
// scheduler period. Safe for concurrent use.
type Analytics struct {
	mu sync.Mutex

	totalMatches int
	successful   int
	failed       int
	waits        []time.Duration
	peakWait     time.Duration
	population   int
	tickPeriod   time.Duration
}

// NewAnalytics returns an empty collector.
func NewAnalytics() *Analytics {
	return &Analytics{tickPeriod: tickPeriodFor(0)}
}

// RecordMatch registers one pairing attempt. Wait durations are only
// meaningful for successful pairings and feed the rolling window.
func (a *Analytics) RecordMatch(success bool, waits ...time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalMatches++
	if !success {
		a.failed++
		return
	}
	a.successful++
	for _, w := range waits {
		if w > a.peakWait {
			a.peakWait = w
		}
		a.waits = append(a.waits, w)
	}
	if over := len(a.waits) - waitWindow; over > 0 {
		a.waits = a.waits[over:]
	}
}

// SetQueuePopulation updates the population gauge.
func (a *Analytics) SetQueuePopulation(n int) {
	a.mu.Lock()
	a.population = n
	a.mu.Unlock()
}

// SetTickPeriod records the scheduler period currently in effect.
func (a *Analytics) SetTickPeriod(d time.Duration) {
	a.mu.Lock()
	a.tickPeriod = d
	a.mu.Unlock()
}

// Metrics is the externally visible analytics snapshot.
type Metrics struct {
	TotalMatches       int     `json:"totalMatches"`
	SuccessfulMatches  int     `json:"successfulMatches"`
	FailedMatches      int     `json:"failedMatches"`
	SuccessRate        float64 `json:"successRate"`
	AverageWaitSeconds float64 `json:"averageWaitSeconds"`
	PeakWaitSeconds    float64 `json:"peakWaitSeconds"`
	QueuePopulation    int     `json:"queuePopulation"`
	TickPeriodSeconds  float64 `json:"tickPeriodSeconds"`
}

// Snapshot returns a consistent copy of the current counters.
func (a *Analytics) Snapshot() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := Metrics{
		TotalMatches:      a.totalMatches,
		SuccessfulMatches: a.successful,
		FailedMatches:     a.failed,
		SuccessRate:       1,
		QueuePopulation:   a.population,
		TickPeriodSeconds: a.tickPeriod.Seconds(),
		PeakWaitSeconds:   a.peakWait.Seconds(),
	}
	if a.totalMatches > 0 {
		m.SuccessRate = float64(a.successful) / float64(a.totalMatches)
	}
	if len(a.waits) > 0 {
		var sum time.Duration
		for _, w := range a.waits {
			sum += w
		}
		m.AverageWaitSeconds = (sum / time.Duration(len(a.waits))).Seconds()
	}
	return m
}

// Alerts evaluates the health thresholds against the current counters and
// returns one human-readable string per violated threshold.
func (a *Analytics) Alerts() []string {
	m := a.Snapshot()
	alerts := []string{}
	if m.AverageWaitSeconds > alertAvgWait.Seconds() {
		alerts = append(alerts, fmt.Sprintf("High average wait time: %.1fs", m.AverageWaitSeconds))
	}
	if m.TotalMatches > alertMinMatches && m.SuccessRate < alertSuccessRate {
		alerts = append(alerts, fmt.Sprintf("Low match success rate: %.1f%%", m.SuccessRate*100))
	}
	if m.QueuePopulation > alertPopulation {
		alerts = append(alerts, fmt.Sprintf("Queue population is high: %d players waiting", m.QueuePopulation))
	}
	return alerts
}
