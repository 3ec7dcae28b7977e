// Package scheduler runs the batch jobs from cron expressions for
// deployments without an external cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polyphrases/polyphrases/internal/logger"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

// RunStatus describes a scheduled job and its most recent run
type RunStatus struct {
	Job          string    `json:"job"`
	Spec         string    `json:"spec"`
	Next         time.Time `json:"next"`
	Runs         int       `json:"runs"`
	LastStart    time.Time `json:"lastStart,omitempty"`
	LastDuration string    `json:"lastDuration,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
}

type jobState struct {
	status RunStatus
	id     cron.EntryID
}

// Scheduler triggers jobs on cron schedules. A job never overlaps with
// itself: a tick that arrives while the previous run is busy is skipped.
type Scheduler struct {
	log    *logger.Logger
	parser cron.Parser
	c      *cron.Cron
	ctx    context.Context

	mu   sync.Mutex
	jobs []*jobState
}

// New creates a Scheduler evaluating expressions in loc
func New(loc *time.Location, log *logger.Logger) *Scheduler {
	l := log.WithComponent("scheduler")
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		log:    l,
		parser: parser,
		c:      cron.New(cron.WithParser(parser), cron.WithLocation(loc), cron.WithLogger(cronLogger{l})),
		ctx:    context.Background(),
	}
}

// Add registers job under name. An empty spec leaves the job disabled.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.log.Info().Str("job", name).Msg("no schedule configured, job disabled")
		return nil
	}
	sched, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	state := &jobState{status: RunStatus{Job: name, Spec: spec}}
	state.id = s.c.Schedule(sched, s.wrap(state, job))

	s.mu.Lock()
	s.jobs = append(s.jobs, state)
	s.mu.Unlock()

	s.log.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return nil
}

// Entries returns the number of scheduled jobs
func (s *Scheduler) Entries() int {
	return len(s.c.Entries())
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.c.Start()
	s.log.Info().Int("jobs", s.Entries()).Msg("scheduler started")

	<-ctx.Done()

	s.log.Info().Msg("scheduler stopping, waiting for running jobs")
	<-s.c.Stop().Done()
	return nil
}

// Status returns a snapshot of every scheduled job
func (s *Scheduler) Status() []RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		st := j.status
		st.Next = s.c.Entry(j.id).Next
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) wrap(state *jobState, job Job) cron.Job {
	name := state.status.Job
	adapter := cronLogger{s.log.WithComponent("scheduler." + name)}
	return cron.NewChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)).Then(cron.FuncJob(func() {
		start := time.Now()
		err := job(s.ctx)
		took := time.Since(start)

		s.mu.Lock()
		state.status.Runs++
		state.status.LastStart = start
		state.status.LastDuration = took.String()
		state.status.LastError = ""
		if err != nil {
			state.status.LastError = err.Error()
		}
		s.mu.Unlock()

		if err != nil {
			s.log.Error().Err(err).Str("job", name).Dur("took", took).Msg("scheduled job failed")
			return
		}
		s.log.Info().Str("job", name).Dur("took", took).Msg("scheduled job finished")
	}))
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
