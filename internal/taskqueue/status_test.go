package taskqueue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusStoreSetAndGet(t *testing.T) {
	store := newStatusStore()
	id := uuid.New()

	_, ok := store.Get(id)
	assert.False(t, ok)

	store.set(id, Status{JobID: id, State: "running"})
	status, ok := store.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "running", status.State)

	store.set(id, Status{JobID: id, State: "done", ShiftsLen: 3})
	status, ok = store.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "done", status.State)
	assert.Equal(t, 3, status.ShiftsLen)
}
