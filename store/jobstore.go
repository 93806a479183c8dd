package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/remigerme/the-crew-solver/game"
	"github.com/remigerme/the-crew-solver/protocol"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrUnknownJobID       = errors.New("unknown job ID")
	ErrJobAlreadyFinished = errors.New("job has already finished")
	ErrFnJobNotRunning    = func(jobID string) error {
		return fmt.Errorf("job with id \"%s\" is not running", jobID)
	}
)

// subscriber buffer; progress beyond it is dropped for slow readers
const progressBuffer = 16

type JobStore interface {
	AddJob(mode protocol.Mode, deal *game.State) Job
	FindJob(jobID string) (Job, error)
	StartJob(jobID string) error
	ReportProgress(jobID string, stats protocol.Stats) error
	FinishJob(jobID string, out Outcome) error
	Subscribe(jobID string) (<-chan protocol.Stats, func(), error)
}

// Job is a snapshot of a solve request and its outcome so far
type Job struct {
	ID       string
	Mode     protocol.Mode
	Status   protocol.JobStatus
	Deal     *game.State
	Stats    protocol.Stats
	Solution *game.State
	Elapsed  time.Duration
	Err      string
	Created  time.Time
}

// Outcome is what a finished search reports back
type Outcome struct {
	Stats    protocol.Stats
	Solution *game.State
	Elapsed  time.Duration
	Err      error
}

// Feasible reports whether the finished job found a way to complete every task.
func (j Job) Feasible() bool {
	if j.Mode == protocol.ModeStats {
		return j.Stats.Done > 0
	}
	return j.Solution != nil
}

// Response builds the wire form of the job.
func (j Job) Response() protocol.JobResponse {
	res := protocol.JobResponse{
		JobID:  j.ID,
		Status: j.Status,
		Mode:   j.Mode,
		Error:  j.Err,
	}
	if j.Deal != nil {
		res.Tasks = protocol.TaskNames(j.Deal)
	}
	if j.Status == protocol.JobPending {
		return res
	}
	stats := j.Stats
	res.Stats = &stats
	if j.Status != protocol.JobDone {
		return res
	}
	feasible := j.Feasible()
	res.Feasible = &feasible
	res.Elapsed = j.Elapsed.String()
	if j.Solution != nil {
		res.Tricks = protocol.TrickViews(j.Solution)
	}
	return res
}

type jobEntry struct {
	job  Job
	subs map[int]chan protocol.Stats
	next int
}

// InMemoryJobStore maps job id to job
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

// NewInMemoryJobStore constructs an InMemoryJobStore
func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{jobs: map[string]*jobEntry{}}
}

func NewID() string {
	return uuid.NewV4().String()
}

// AddJob registers a pending job for deal and returns it with a fresh id.
func (s *InMemoryJobStore) AddJob(mode protocol.Mode, deal *game.State) Job {
	job := Job{
		ID:      NewID(),
		Mode:    mode,
		Status:  protocol.JobPending,
		Deal:    deal,
		Created: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = &jobEntry{job: job, subs: map[int]chan protocol.Stats{}}
	return job
}

func (s *InMemoryJobStore) FindJob(jobID string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return Job{}, ErrUnknownJobID
	}
	return e.job, nil
}

func (s *InMemoryJobStore) StartJob(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return ErrUnknownJobID
	}
	if e.job.Status.Finished() {
		return ErrJobAlreadyFinished
	}
	e.job.Status = protocol.JobRunning
	return nil
}

// ReportProgress records running totals and forwards them to subscribers that keep up.
func (s *InMemoryJobStore) ReportProgress(jobID string, stats protocol.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return ErrUnknownJobID
	}
	if e.job.Status != protocol.JobRunning {
		return ErrFnJobNotRunning(jobID)
	}
	e.job.Stats = stats
	for _, ch := range e.subs {
		select {
		case ch <- stats:
		default:
		}
	}
	return nil
}

// FinishJob stores the outcome and closes every subscription.
func (s *InMemoryJobStore) FinishJob(jobID string, out Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return ErrUnknownJobID
	}
	if e.job.Status.Finished() {
		return ErrJobAlreadyFinished
	}

	e.job.Stats = out.Stats
	e.job.Solution = out.Solution
	e.job.Elapsed = out.Elapsed
	e.job.Status = protocol.JobDone
	if out.Err != nil {
		e.job.Status = protocol.JobFailed
		e.job.Err = out.Err.Error()
	}
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
	return nil
}

// Subscribe returns a channel of progress updates that is closed once the job finishes,
// and a function releasing the subscription. A finished job yields a closed channel.
func (s *InMemoryJobStore) Subscribe(jobID string) (<-chan protocol.Stats, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return nil, nil, ErrUnknownJobID
	}

	ch := make(chan protocol.Stats, progressBuffer)
	if e.job.Status.Finished() {
		close(ch)
		return ch, func() {}, nil
	}

	id := e.next
	e.next++
	e.subs[id] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			close(c)
			delete(e.subs, id)
		}
	}
	return ch, cancel, nil
}
