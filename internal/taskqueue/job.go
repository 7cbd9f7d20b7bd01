// Package taskqueue ingests decomposition jobs from an external queue
// and feeds them to the shiftsolve core, one at a time.
package taskqueue

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Job is a single decomposition request pulled off the queue.
type Job struct {
	ID         uuid.UUID `json:"id"`
	OrgID      string    `json:"org_id"`
	LocationID string    `json:"location_id"`
	WeekDemand [][]int   `json:"week_demand"`
	MinLength  int       `json:"min_length"`
	MaxLength  int       `json:"max_length"`
}

// ErrNoJob is returned by Next when the queue is empty. Pollers treat it
// as a normal, expected condition rather than an error worth logging.
var ErrNoJob = errors.New("taskqueue: no job available")

// Source produces jobs and accepts completion signals for them. Ack
// removes a job permanently; Nack returns it for redelivery (at the
// implementation's discretion — Memory redelivers immediately, Redis
// pushes it back onto the tail of its list).
type Source interface {
	Next(ctx context.Context) (*Job, error)
	Ack(ctx context.Context, job *Job) error
	Nack(ctx context.Context, job *Job) error
}

// Status is the last-known outcome of a job, held in memory for the
// debug HTTP surface's /jobs/:id endpoint.
type Status struct {
	JobID     uuid.UUID `json:"job_id"`
	State     string    `json:"state"` // "running", "done", "failed"
	Err       string    `json:"error,omitempty"`
	ShiftsLen int       `json:"shifts_len,omitempty"`
}
