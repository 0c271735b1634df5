package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_RecordAndEvents(t *testing.T) {
	ctx := context.Background()
	j, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	execA, execB := uuid.New(), uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	want := []Event{
		{ExecutionID: execA, TaskID: uuid.New(), TaskName: "t0", Category: "filter", Algorithm: "Multiply", Kind: KindCompleted, Duration: 3 * time.Millisecond, At: at},
		{ExecutionID: execA, TaskID: uuid.New(), TaskName: "t1", Category: "filter", Algorithm: "Multiply", Kind: KindEvicted, At: at},
		{ExecutionID: execA, TaskID: uuid.New(), TaskName: "t1", Category: "filter", Algorithm: "Multiply", Kind: KindSaved, Detail: "out.txt", At: at},
	}
	for i, e := range want {
		require.NoError(t, j.Record(ctx, e))
		if i == 0 {
			require.NoError(t, j.Record(ctx, Event{ExecutionID: execB, Kind: KindFailed, Detail: "boom", At: at}))
		}
	}

	got, err := j.Events(ctx, execA)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	ids, err := j.Executions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{execA, execB}, ids)

	other, err := j.Events(ctx, execB)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "boom", other[0].Detail)
}

func TestSQLite_InMemory(t *testing.T) {
	ctx := context.Background()
	j, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer j.Close()

	id := uuid.New()
	require.NoError(t, j.Record(ctx, Event{ExecutionID: id, Kind: KindCompleted}))

	got, err := j.Events(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].At.IsZero(), "a missing timestamp is filled in")
}

func TestSQLite_RecordAfterClose(t *testing.T) {
	j, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	err = j.Record(context.Background(), Event{Kind: KindSaved})
	assert.ErrorContains(t, err, "record saved event")
}

func TestMemory(t *testing.T) {
	var j Journal = &Memory{}
	require.NoError(t, j.Record(context.Background(), Event{Kind: KindCompleted}))
	require.NoError(t, j.Record(context.Background(), Event{Kind: KindEvicted}))

	events := j.(*Memory).Events()
	require.Len(t, events, 2)
	assert.Equal(t, KindEvicted, events[1].Kind)
	assert.NoError(t, Nop{}.Record(context.Background(), Event{}))
}
