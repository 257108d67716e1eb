package generator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/generator/configuration"
	"github.com/oaeproject/model-loader/internal/lexicon"
	"github.com/oaeproject/model-loader/internal/sampler"
)

// Run generates config.Batches batches and writes each one under config.ScriptsDir as soon as it
// is complete. It returns the seed the batches were generated with.
func Run(ctx context.Context, config configuration.GeneratorConfiguration, opts ...Option) (int64, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	profiles, err := LoadProfiles(config.ProfilesFile)
	if err != nil {
		return 0, err
	}
	lex, err := loadLexicon(config.DataDir)
	if err != nil {
		return 0, err
	}
	catalog, err := LoadCatalog(config.ContentDir, config.PicturesDir)
	if err != nil {
		return 0, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.WithFields(log.Fields{"seed": seed, "tenant": config.Tenant}).Infof("Generating %d batches", config.Batches)

	gen := New(sampler.NewSeeded(seed), lex, profiles, catalog).ForTenant(config.Tenant)
	assembler, err := NewAssembler(countsOf(config), gen, opts...)
	if err != nil {
		return seed, err
	}
	for i := 0; i < config.Batches; i++ {
		if err := ctx.Err(); err != nil {
			return seed, err
		}
		b, err := assembler.GenerateBatch(i)
		if err != nil {
			return seed, err
		}
		if err := assembler.WriteBatch(config.ScriptsDir, b); err != nil {
			return seed, err
		}
	}
	return seed, nil
}

func countsOf(config configuration.GeneratorConfiguration) Counts {
	return Counts{
		Users:        config.Users,
		Groups:       config.Groups,
		Content:      config.Content,
		Discussions:  config.Discussions,
		Publications: config.Publications,
	}
}

func loadLexicon(dataDir string) (*lexicon.Lexicon, error) {
	if dataDir == "" {
		return lexicon.Default()
	}
	lex, err := lexicon.FromDir(dataDir)
	return lex, errors.WithMessagef(err, "loading lexical pools from %s", dataDir)
}
