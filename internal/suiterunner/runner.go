// Package suiterunner runs a correctness test suite against the server between loaded batches.
package suiterunner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/model"
)

const envPrefix = "MODELLOADER_"

type Result struct {
	// Batches is the number of batches the suite ran against.
	Batches   int
	LastBatch int
	Passed    bool
	ExitCode  int
	Duration  time.Duration
}

// Runner runs the suite against serverURL, which has been loaded with batches.
type Runner interface {
	Run(ctx context.Context, batches []*model.Batch, serverURL string) (Result, error)
}

// NopRunner passes without running anything.
type NopRunner struct{}

func (NopRunner) Run(_ context.Context, batches []*model.Batch, _ string) (Result, error) {
	return Result{Batches: len(batches), LastBatch: lastBatch(batches), Passed: true}, nil
}

// ExecRunner runs Command with the run's details in MODELLOADER_* environment variables. A
// non-zero exit is a failed suite, not an error.
type ExecRunner struct {
	Command       []string
	AdminPassword string
	ScriptsDir    string
	// If set, the output of each run is also written to ResultsDir/suite-<last batch>.log.
	ResultsDir string
	Stdout     io.Writer
	Stderr     io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, batches []*model.Batch, serverURL string) (Result, error) {
	if len(r.Command) == 0 {
		return Result{}, errors.WithStack(&modelerrors.ErrInvalidArgument{
			Name:    "suiteCommand",
			Value:   r.Command,
			Message: "no suite command configured",
		})
	}
	result := Result{Batches: len(batches), LastBatch: lastBatch(batches)}

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Env = append(os.Environ(), r.env(batches, serverURL)...)
	stdout, stderr := orDefault(r.Stdout, os.Stdout), orDefault(r.Stderr, os.Stderr)
	if r.ResultsDir != "" {
		if err := os.MkdirAll(r.ResultsDir, 0o755); err != nil {
			return result, errors.WithStack(err)
		}
		file, err := os.Create(filepath.Join(r.ResultsDir, fmt.Sprintf("suite-%d.log", result.LastBatch)))
		if err != nil {
			return result, errors.WithStack(err)
		}
		defer file.Close()
		stdout = io.MultiWriter(stdout, file)
		stderr = io.MultiWriter(stderr, file)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.WithField("batches", result.Batches).Infof("Running test suite: %s", strings.Join(r.Command, " "))
	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Passed = true
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, errors.Wrapf(err, "running test suite %s", r.Command[0])
	}
	return result, nil
}

func (r *ExecRunner) env(batches []*model.Batch, serverURL string) []string {
	indexes := make([]string, 0, len(batches))
	for _, b := range batches {
		indexes = append(indexes, strconv.Itoa(b.Index))
	}
	return []string{
		envPrefix + "SERVER_URL=" + serverURL,
		envPrefix + "ADMIN_PASSWORD=" + r.AdminPassword,
		envPrefix + "SCRIPTS_DIR=" + r.ScriptsDir,
		envPrefix + "BATCHES=" + strings.Join(indexes, ","),
	}
}

func lastBatch(batches []*model.Batch) int {
	last := -1
	for _, b := range batches {
		if b.Index > last {
			last = b.Index
		}
	}
	return last
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
