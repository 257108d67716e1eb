package configuration

import (
	"github.com/oaeproject/model-loader/internal/common/config"
)

type GeneratorConfiguration struct {
	Batches int    `validate:"gte=1"`
	Tenant  string `validate:"required"`
	// Zero picks a seed from the clock. The seed used is always logged.
	Seed int64

	// Entities per batch. Every other entity type references users, so at least one is needed.
	Users        int `validate:"gte=1"`
	Groups       int `validate:"gte=0"`
	Content      int `validate:"gte=0"`
	Discussions  int `validate:"gte=0"`
	Publications int `validate:"gte=0"`

	// YAML overrides merged over the built-in distribution profiles.
	ProfilesFile string
	// Directory of lexical pool files replacing the embedded ones.
	DataDir     string
	ContentDir  string
	PicturesDir string
	ScriptsDir  string `validate:"required"`
}

func (c GeneratorConfiguration) Validate() error {
	return config.Validate(c)
}

func Default() GeneratorConfiguration {
	return GeneratorConfiguration{
		Users:        1000,
		Groups:       2000,
		Content:      5000,
		Discussions:  1000,
		Publications: 500,
		ContentDir:   "data/content",
		PicturesDir:  "data/pictures",
		ScriptsDir:   "scripts",
	}
}
