package taskqueue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisc "github.com/saleslens/core/internal/pkg/redis"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := redisc.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	return NewService(rc), mr
}

func TestEnqueueDedupReturnsExistingTask(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_1"}, "process:CALL_1", "CALL_1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_1"}, "process:CALL_1", "CALL_1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnqueueRecoversFromStaleDedupEntry(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	first, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_1"}, "process:CALL_1", "CALL_1")
	require.NoError(t, err)

	// Simulate the task key expiring while the dedup hash still points at it.
	mr.Del(keyPrefix + first.ID)

	second, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_1"}, "process:CALL_1", "CALL_1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, TaskPending, second.Status)

	got, err := svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
}

func TestUpdateStatusClearsDedupOnCompletion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_2"}, "process:CALL_2", "CALL_2")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, first.ID, TaskCompleted, nil, ""))

	second, err := svc.Enqueue(ctx, "process-call", map[string]string{"call_id": "CALL_2"}, "process:CALL_2", "CALL_2")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetByIDMissingTask(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, task)
}
