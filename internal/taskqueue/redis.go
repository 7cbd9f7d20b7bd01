package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Source backed by a single Redis list key, BLPOP-polled for
// JSON job payloads. Nack pushes the job back onto the tail of the list
// (RPUSH) so other workers get a chance at jobs ahead of it, rather than
// immediately retrying the same worker.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis constructs a Redis-backed Source against addr, reading jobs
// from key.
func NewRedis(addr, key string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    key,
	}
}

// Next implements Source, blocking up to the context's deadline (or
// indefinitely if none is set) waiting for a job.
func (r *Redis) Next(ctx context.Context) (*Job, error) {
	result, err := r.client.BLPop(ctx, 0, r.key).Result()
	if err == redis.Nil {
		return nil, ErrNoJob
	}
	if err != nil {
		return nil, fmt.Errorf("taskqueue: Redis BLPOP: %w", err)
	}

	// BLPop returns [key, value]; the payload is the second element.
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("taskqueue: Redis: decoding job payload: %w", err)
	}
	return &job, nil
}

// Ack implements Source; the job was already removed by BLPOP, so there
// is nothing further to acknowledge.
func (r *Redis) Ack(ctx context.Context, job *Job) error {
	return nil
}

// Nack implements Source by pushing job back onto the tail of the queue.
func (r *Redis) Nack(ctx context.Context, job *Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("taskqueue: Redis: encoding job for requeue: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, encoded).Err(); err != nil {
		return fmt.Errorf("taskqueue: Redis RPUSH: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
