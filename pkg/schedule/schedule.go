// Package schedule runs recurring maintenance tasks on fixed intervals.
//
//	schedule.Every(5).Minutes().
//		Name("reconcile-orphans").
//		WithoutOverlapping().
//		Run(sweep)
//
//	go schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rishavanand/bazario/pkg/logger"
)

// Task is a scheduled function. Tasks run on their own goroutine; a panic is
// caught and logged, never crashing the scheduler.
type Task func()

type job struct {
	name      string
	interval  time.Duration
	task      Task
	exclusive bool

	mu      sync.Mutex
	nextRun time.Time
	active  bool
}

var (
	mu   sync.Mutex
	jobs []*job
)

// Builder configures one recurring job before registration.
type Builder struct{ j *job }

// Every begins a builder for "every n <unit>" jobs.
func Every(n int) Unit { return Unit(n) }

// Unit carries the count until the time unit is chosen.
type Unit int

func (n Unit) Seconds() *Builder { return builderFor(time.Duration(n) * time.Second) }
func (n Unit) Minutes() *Builder { return builderFor(time.Duration(n) * time.Minute) }
func (n Unit) Hours() *Builder   { return builderFor(time.Duration(n) * time.Hour) }

// EveryMinute is shorthand for Every(1).Minutes().
func EveryMinute() *Builder { return Every(1).Minutes() }

// Hourly is shorthand for Every(1).Hours().
func Hourly() *Builder { return Every(1).Hours() }

// Daily is shorthand for Every(24).Hours().
func Daily() *Builder { return Every(24).Hours() }

func builderFor(d time.Duration) *Builder {
	return &Builder{j: &job{interval: d}}
}

// Name labels the job in logs and the CLI listing.
func (b *Builder) Name(name string) *Builder {
	b.j.name = name
	return b
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.j.exclusive = true
	return b
}

// Run registers the job. The first run happens one full interval after
// Start, not immediately.
func (b *Builder) Run(fn Task) {
	b.j.task = fn
	b.j.nextRun = time.Now().Add(b.j.interval)

	mu.Lock()
	if b.j.name == "" {
		b.j.name = fmt.Sprintf("job-%d", len(jobs)+1)
	}
	jobs = append(jobs, b.j)
	mu.Unlock()
}

// Start blocks, firing due jobs until ctx is cancelled. Run it on its own
// goroutine at boot.
func Start(ctx context.Context) {
	logger.Info("schedule: started", "jobs", len(snapshot()))

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-tick.C:
			for _, j := range snapshot() {
				j.fireIfDue(now)
			}
		}
	}
}

func snapshot() []*job {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*job, len(jobs))
	copy(out, jobs)
	return out
}

func (j *job) fireIfDue(now time.Time) {
	j.mu.Lock()
	if now.Before(j.nextRun) {
		j.mu.Unlock()
		return
	}
	if j.exclusive && j.active {
		j.mu.Unlock()
		logger.Warn("schedule: previous run still active, skipping", "job", j.name)
		return
	}
	j.active = true
	j.nextRun = now.Add(j.interval)
	j.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", j.name, "panic", r)
			}
			j.mu.Lock()
			j.active = false
			j.mu.Unlock()
		}()

		logger.Info("schedule: running", "job", j.name)
		j.task()
	}()
}

// List describes the registered jobs, for the CLI.
func List() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, fmt.Sprintf("%s  [every %s]", j.name, j.interval))
	}
	return out
}
