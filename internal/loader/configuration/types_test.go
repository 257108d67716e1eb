package configuration

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

func TestLoaderConfiguration_Validate(t *testing.T) {
	valid := func() LoaderConfiguration {
		c := Default()
		c.EndBatch = 3
		return c
	}

	tests := map[string]struct {
		modify  func(*LoaderConfiguration)
		wantErr string
	}{
		"defaults with end batch": {
			modify: func(c *LoaderConfiguration) {},
		},
		"missing end batch": {
			modify:  func(c *LoaderConfiguration) { c.EndBatch = 0 },
			wantErr: "EndBatch",
		},
		"end before start": {
			modify:  func(c *LoaderConfiguration) { c.StartBatch = 3 },
			wantErr: "EndBatch",
		},
		"negative start": {
			modify:  func(c *LoaderConfiguration) { c.StartBatch = -1 },
			wantErr: "StartBatch",
		},
		"relative server url": {
			modify:  func(c *LoaderConfiguration) { c.ServerURL = "localhost" },
			wantErr: "ServerURL",
		},
		"no concurrent batches": {
			modify:  func(c *LoaderConfiguration) { c.ConcurrentBatches = 0 },
			wantErr: "ConcurrentBatches",
		},
		"negative interval": {
			modify: func(c *LoaderConfiguration) {
				c.TestBatchInterval = -2
				c.SuiteCommand = []string{"npm", "test"}
			},
			wantErr: "TestBatchInterval",
		},
		"suite interval without command": {
			modify:  func(c *LoaderConfiguration) { c.TestBatchInterval = 2 },
			wantErr: "SuiteCommand",
		},
		"suite interval with command": {
			modify: func(c *LoaderConfiguration) {
				c.TestBatchInterval = 2
				c.SuiteCommand = []string{"npm", "test"}
			},
		},
		"no admin password": {
			modify:  func(c *LoaderConfiguration) { c.AdminPassword = "" },
			wantErr: "AdminPassword",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok)
			require.Len(t, merr.Errors, 1)
			assert.True(t, modelerrors.IsInvalidArgument(merr.Errors[0]))
			assert.Contains(t, merr.Errors[0].Error(), tc.wantErr)
		})
	}
}
