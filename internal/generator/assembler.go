package generator

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/records"
)

// Counts is the number of entities of each type generated per batch.
type Counts struct {
	Users        int `validate:"gte=0"`
	Groups       int `validate:"gte=0"`
	Content      int `validate:"gte=0"`
	Discussions  int `validate:"gte=0"`
	Publications int `validate:"gte=0"`
}

func (c Counts) Total() int {
	return c.Users + c.Groups + c.Content + c.Discussions + c.Publications
}

type Option func(a *Assembler)

// WithProgress registers a callback invoked after every generated entity.
func WithProgress(onGenerated func(t model.EntityType)) Option {
	return func(a *Assembler) {
		a.onGenerated = onGenerated
	}
}

// Assembler generates whole batches: users first, then groups and their nesting, following,
// content, discussions and publications.
type Assembler struct {
	counts      Counts
	gen         *Generator
	onGenerated func(t model.EntityType)
}

func NewAssembler(counts Counts, gen *Generator, opts ...Option) (*Assembler, error) {
	if err := gen.profiles.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid distribution profiles")
	}
	if counts.Users == 0 && counts.Total() > 0 {
		return nil, errors.New("at least one user per batch is needed to create groups, content, discussions or publications")
	}
	if counts.Content > 0 && len(gen.catalog.ContentFiles) == 0 && fileWeight(gen.profiles) > 0 {
		return nil, errors.New("file content is enabled but no content files were found")
	}
	a := &Assembler{counts: counts, gen: gen, onGenerated: func(model.EntityType) {}}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func fileWeight(p Profiles) float64 {
	for _, w := range p.ContentSubTypes {
		if w.Value == model.File {
			return w.Weight
		}
	}
	return 0
}

// GenerateBatch builds batch number index.
func (a *Assembler) GenerateBatch(index int) (*model.Batch, error) {
	start := time.Now()
	logger := log.WithField("batch", index)
	logger.Info("Generating batch")

	b := model.NewBatch(index)
	if err := generate(a, b, model.Users, a.counts.Users, a.gen.User, b.AddUser); err != nil {
		return nil, err
	}
	if err := generate(a, b, model.Groups, a.counts.Groups, a.gen.Group, b.AddGroup); err != nil {
		return nil, err
	}
	a.gen.SetGroupMemberships(b)
	a.gen.SetFollowing(b)
	if err := generate(a, b, model.ContentItems, a.counts.Content, a.gen.Content, b.AddContent); err != nil {
		return nil, err
	}
	if err := generate(a, b, model.Discussions, a.counts.Discussions, a.gen.Discussion, b.AddDiscussion); err != nil {
		return nil, err
	}
	if err := generate(a, b, model.Publications, a.counts.Publications, a.gen.Publication, b.AddPublication); err != nil {
		return nil, err
	}

	logger.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("Finished generating batch")
	return b, nil
}

func generate[T model.Entity](
	a *Assembler,
	b *model.Batch,
	t model.EntityType,
	n int,
	create func(*model.Batch) (T, error),
	add func(T) error,
) error {
	for i := 0; i < n; i++ {
		e, err := create(b)
		if err != nil {
			return errors.WithMessagef(err, "batch %d", b.Index)
		}
		if err := add(e); err != nil {
			return errors.WithMessagef(err, "batch %d", b.Index)
		}
		a.onGenerated(t)
	}
	return nil
}

// WriteBatch writes b to scriptsDir/<type>/<index>.txt, one record per line.
func (a *Assembler) WriteBatch(scriptsDir string, b *model.Batch) error {
	return records.WriteBatch(scriptsDir, b)
}
