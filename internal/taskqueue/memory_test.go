package taskqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNextReturnsErrNoJobWhenEmpty(t *testing.T) {
	m := NewMemory(4)
	_, err := m.Next(context.Background())
	assert.True(t, errors.Is(err, ErrNoJob))
}

func TestMemoryPushThenNextRoundTrips(t *testing.T) {
	m := NewMemory(4)
	job := &Job{ID: uuid.New(), OrgID: "org-1"}
	m.Push(job)

	got, err := m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, job, got)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryNackRequeuesJob(t *testing.T) {
	m := NewMemory(4)
	job := &Job{ID: uuid.New()}
	require.NoError(t, m.Nack(context.Background(), job))
	assert.Equal(t, 1, m.Len())

	got, err := m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestMemoryPushPanicsWhenFull(t *testing.T) {
	m := NewMemory(1)
	m.Push(&Job{ID: uuid.New()})
	assert.Panics(t, func() { m.Push(&Job{ID: uuid.New()}) })
}
