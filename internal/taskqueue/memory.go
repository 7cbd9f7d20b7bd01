package taskqueue

import "context"

// Memory is a channel-backed Source for tests, and the Source the serve
// subcommand uses when cache_backend is not "redis". Nack pushes the job back onto the channel for
// immediate redelivery, matching a local retry loop rather than a real
// broker's backoff.
type Memory struct {
	jobs chan *Job
}

// NewMemory returns a Memory queue with capacity for pending jobs.
func NewMemory(capacity int) *Memory {
	return &Memory{jobs: make(chan *Job, capacity)}
}

// Push enqueues a job. It panics if the queue is full, since Memory is
// sized by its caller for exactly the jobs it intends to submit.
func (m *Memory) Push(job *Job) {
	select {
	case m.jobs <- job:
	default:
		panic("taskqueue: Memory queue full")
	}
}

// Next implements Source.
func (m *Memory) Next(ctx context.Context) (*Job, error) {
	select {
	case job := <-m.jobs:
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, ErrNoJob
	}
}

// Ack implements Source; Memory has nothing further to do on success.
func (m *Memory) Ack(ctx context.Context, job *Job) error {
	return nil
}

// Nack implements Source by requeuing job for redelivery.
func (m *Memory) Nack(ctx context.Context, job *Job) error {
	m.Push(job)
	return nil
}

// Len reports how many jobs are currently queued.
func (m *Memory) Len() int {
	return len(m.jobs)
}
