package undo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfdomain "taskportal-backend/internal/workflow/domain"
)

func TestPopEmptyLog(t *testing.T) {
	var log Log
	_, ok := log.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, log.Len())
}

func TestPushPopLIFO(t *testing.T) {
	var log Log
	log.Push(Entry{Kind: KindCreate, TaskID: "task-1"})
	log.Push(Entry{Kind: KindStatusChange, TaskID: "task-2",
		PreviousStatus: wfdomain.StatusPending, NextStatus: wfdomain.StatusInProgress})

	entry, ok := log.Pop()
	require.True(t, ok)
	assert.Equal(t, KindStatusChange, entry.Kind)
	assert.Equal(t, wfdomain.StatusPending, entry.PreviousStatus)

	entry, ok = log.Pop()
	require.True(t, ok)
	assert.Equal(t, KindCreate, entry.Kind)

	_, ok = log.Pop()
	assert.False(t, ok)
}

func TestCapacityDropsOldest(t *testing.T) {
	var log Log
	for i := 0; i < Capacity+5; i++ {
		log.Push(Entry{Kind: KindCreate, TaskID: fmt.Sprintf("task-%d", i)})
	}
	assert.Equal(t, Capacity, log.Len())

	// Newest entry is still on top...
	entry, ok := log.Pop()
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("task-%d", Capacity+4), entry.TaskID)

	// ...and the oldest surviving entry is the sixth pushed.
	for log.Len() > 1 {
		log.Pop()
	}
	entry, _ = log.Pop()
	assert.Equal(t, "task-5", entry.TaskID)
}

func TestClear(t *testing.T) {
	var log Log
	log.Push(Entry{Kind: KindCreate, TaskID: "task-1"})
	log.Clear()
	assert.Equal(t, 0, log.Len())
	_, ok := log.Pop()
	assert.False(t, ok)
}
