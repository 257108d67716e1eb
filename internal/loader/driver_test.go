package loader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/loader/configuration"
	"github.com/oaeproject/model-loader/internal/loader/metrics"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/suiterunner"
)

// driverBatch holds one user, created first, and one discussion, created last.
func driverBatch(index int) (*model.Batch, error) {
	b := model.NewBatch(index)
	u := fmt.Sprintf("u%d", index)
	if err := b.AddUser(user(u)); err != nil {
		return nil, err
	}
	if err := b.AddDiscussion(&model.Discussion{Base: model.Base{ID: fmt.Sprintf("d%d", index)}, Creator: u}); err != nil {
		return nil, err
	}
	return b, nil
}

func driverConfig(t *testing.T, end, concurrent, interval int) configuration.LoaderConfiguration {
	c := configuration.Default()
	c.EndBatch = end
	c.ConcurrentBatches = concurrent
	c.TestBatchInterval = interval
	c.ScriptsDir = t.TempDir()
	return c
}

type suiteRun struct {
	indexes  []int
	inFlight int32
}

type recordingRunner struct {
	mu     sync.Mutex
	client *fakeClient
	runs   []suiteRun
	err    error
}

func (r *recordingRunner) Run(_ context.Context, batches []*model.Batch, _ string) (suiterunner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run := suiteRun{inFlight: atomic.LoadInt32(&r.client.active)}
	for _, b := range batches {
		run.indexes = append(run.indexes, b.Index)
	}
	r.runs = append(r.runs, run)
	return suiterunner.Result{Batches: len(batches), Passed: r.err == nil}, r.err
}

func TestDriver_LoadsEveryBatch(t *testing.T) {
	client := newFakeClient()
	config := driverConfig(t, 5, 1, 0)
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), nil)

	require.NoError(t, d.Run(context.Background()))

	var indexes []int
	for _, b := range d.Loaded() {
		indexes = append(indexes, b.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes)
	assert.Empty(t, d.SuiteResults())
}

func TestDriver_StartBatch(t *testing.T) {
	client := newFakeClient()
	config := driverConfig(t, 4, 2, 0)
	config.StartBatch = 2
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), nil)

	require.NoError(t, d.Run(context.Background()))

	assert.Len(t, d.Loaded(), 2)
	assert.Equal(t, 2, d.Loaded()[0].Index)
}

func TestDriver_BoundsConcurrentBatches(t *testing.T) {
	client := newFakeClient()
	client.delay = 10 * time.Millisecond
	config := driverConfig(t, 8, 3, 0)
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), nil)

	require.NoError(t, d.Run(context.Background()))

	assert.Len(t, d.Loaded(), 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&client.maxActive), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&client.maxActive), int32(1))
}

func TestDriver_RunsSuiteWithNoBatchInFlight(t *testing.T) {
	client := newFakeClient()
	client.delay = 5 * time.Millisecond
	runner := &recordingRunner{client: client}
	config := driverConfig(t, 6, 3, 2)
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), runner)

	require.NoError(t, d.Run(context.Background()))

	require.Len(t, runner.runs, 3)
	for _, run := range runner.runs {
		assert.Zero(t, run.inFlight)
		assert.IsIncreasing(t, run.indexes)
	}
	for i, due := range []int{1, 3, 5} {
		assert.Contains(t, runner.runs[i].indexes, due)
	}
	assert.Len(t, d.Loaded(), 6)
	assert.Len(t, d.SuiteResults(), 3)
}

func TestDriver_SuiteErrorStopsRun(t *testing.T) {
	client := newFakeClient()
	runner := &recordingRunner{client: client, err: errors.New("suite binary missing")}
	config := driverConfig(t, 10, 1, 2)
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), runner)

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite binary missing")
	assert.Len(t, runner.runs, 1)
	assert.Less(t, len(d.Loaded()), 10)
}

func TestDriver_MissingBatchStopsRun(t *testing.T) {
	client := newFakeClient()
	config := driverConfig(t, 3, 1, 0)
	source := func(index int) (*model.Batch, error) {
		if index == 1 {
			return nil, errors.WithStack(&modelerrors.ErrNotFound{Type: "record file", Value: "users/1.txt"})
		}
		return driverBatch(index)
	}
	d := NewDriver(config, source, NewPipeline(client, metrics.New(), config.ScriptsDir), nil)

	err := d.Run(context.Background())
	assert.True(t, modelerrors.IsNotFound(err))
	assert.Len(t, d.Loaded(), 1)
}

func TestDriver_CancelledContext(t *testing.T) {
	client := newFakeClient()
	config := driverConfig(t, 3, 1, 0)
	d := NewDriver(config, driverBatch, NewPipeline(client, metrics.New(), config.ScriptsDir), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, d.Run(ctx), context.Canceled)
	assert.Empty(t, d.Loaded())
}
