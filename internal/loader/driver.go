package loader

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/oaeproject/model-loader/internal/loader/configuration"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/suiterunner"
)

// BatchSource returns the batch generated under index.
type BatchSource func(index int) (*model.Batch, error)

// Driver loads a range of batches, up to ConcurrentBatches at a time, and runs the test suite
// every TestBatchInterval batches. While the suite runs no batch is being loaded.
type Driver struct {
	config   configuration.LoaderConfiguration
	source   BatchSource
	pipeline *Pipeline
	runner   suiterunner.Runner

	// Loading a batch holds gate for reading; running the suite holds it for writing.
	gate sync.RWMutex

	mu      sync.Mutex
	loaded  []*model.Batch
	results []suiterunner.Result
}

func NewDriver(config configuration.LoaderConfiguration, source BatchSource, pipeline *Pipeline, runner suiterunner.Runner) *Driver {
	if runner == nil {
		runner = suiterunner.NopRunner{}
	}
	return &Driver{
		config:   config,
		source:   source,
		pipeline: pipeline,
		runner:   runner,
	}
}

// Run loads batches [StartBatch, EndBatch). The first error stops the launch of new batches
// and is returned once the batches in flight have stopped.
func (d *Driver) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.ConcurrentBatches)
	for index := d.config.StartBatch; index < d.config.EndBatch; index++ {
		index := index
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return d.loadBatch(gctx, index)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *Driver) loadBatch(ctx context.Context, index int) error {
	if err := d.load(ctx, index); err != nil {
		return err
	}
	if d.suiteDue(index) {
		return d.runSuite(ctx)
	}
	return nil
}

func (d *Driver) load(ctx context.Context, index int) error {
	d.gate.RLock()
	defer d.gate.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	log.WithField("batch", index).Info("Loading batch")
	batch, err := d.source(index)
	if err != nil {
		return errors.WithMessagef(err, "reading batch %d", index)
	}
	if err := d.pipeline.ReconcileAndLoad(ctx, batch, index); err != nil {
		return err
	}
	d.mu.Lock()
	d.loaded = append(d.loaded, batch)
	d.mu.Unlock()
	return nil
}

func (d *Driver) suiteDue(index int) bool {
	interval := d.config.TestBatchInterval
	return interval > 0 && (index+1)%interval == 0
}

// runSuite waits for the batches in flight, then runs the suite against every batch loaded so
// far. New batches wait until it is done.
func (d *Driver) runSuite(ctx context.Context) error {
	d.gate.Lock()
	defer d.gate.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	batches := d.Loaded()
	result, err := d.runner.Run(ctx, batches, d.config.ServerURL)
	if err != nil {
		return errors.WithMessage(err, "running test suite")
	}
	logger := log.WithFields(log.Fields{"batches": result.Batches, "lastBatch": result.LastBatch, "duration": result.Duration})
	if result.Passed {
		logger.Info("Test suite passed")
	} else {
		logger.WithField("exitCode", result.ExitCode).Warn("Test suite failed")
	}
	d.mu.Lock()
	d.results = append(d.results, result)
	d.mu.Unlock()
	return nil
}

// Loaded returns the batches loaded so far, ordered by index.
func (d *Driver) Loaded() []*model.Batch {
	d.mu.Lock()
	defer d.mu.Unlock()
	batches := slices.Clone(d.loaded)
	slices.SortFunc(batches, func(a, b *model.Batch) bool { return a.Index < b.Index })
	return batches
}

func (d *Driver) SuiteResults() []suiterunner.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.results)
}
