package configuration

import (
	"time"

	"github.com/oaeproject/model-loader/internal/common/config"
)

type LoaderConfiguration struct {
	// Batches [StartBatch, EndBatch) are loaded.
	StartBatch int `validate:"gte=0"`
	EndBatch   int `validate:"required,gtfield=StartBatch"`

	ScriptsDir string `validate:"required"`

	ServerURL     string `validate:"required,url"`
	AdminPassword string `validate:"required"`

	ConcurrentBatches int `validate:"gte=1"`

	// A suite run follows every batch b with (b+1) % TestBatchInterval == 0. Zero disables suite runs.
	TestBatchInterval int      `validate:"gte=0"`
	SuiteCommand      []string `validate:"required_unless=TestBatchInterval 0"`

	Timeout           time.Duration `validate:"gte=0"`
	RequestsPerSecond float64       `validate:"gte=0"`
	Burst             int           `validate:"gte=0"`

	MetricsPort uint16
}

func (c LoaderConfiguration) Validate() error {
	return config.Validate(c)
}

// Default returns the configuration used for every key the user does not set.
func Default() LoaderConfiguration {
	return LoaderConfiguration{
		ScriptsDir:        "scripts",
		ServerURL:         "http://localhost:8080",
		AdminPassword:     "admin",
		ConcurrentBatches: 1,
		Timeout:           30 * time.Second,
	}
}
