// Package records reads and writes the newline-delimited JSON files that connect the generator
// and the loader.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/model"
)

const maxLineBytes = 64 * 1024 * 1024

// GeneratedIDsDir is the directory, relative to the scripts folder, that holds id mappings.
const GeneratedIDsDir = "generatedIds"

// Path returns the record file of entity type t for a batch, e.g. scripts/users/0.txt.
func Path(scriptsDir string, t model.EntityType, batch int) string {
	return filepath.Join(scriptsDir, string(t), fmt.Sprintf("%d.txt", batch))
}

// MappingPath returns the generated-id file of entity type t for a batch, e.g.
// scripts/generatedIds/users-0.txt.
func MappingPath(scriptsDir string, t model.EntityType, batch int) string {
	return filepath.Join(scriptsDir, GeneratedIDsDir, fmt.Sprintf("%s-%d.txt", t, batch))
}

// Write replaces the file at path with one JSON record per line, in slice order.
func Write[T any](path string, items []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			f.Close()
			return errors.Wrapf(err, "encoding record %d of %s", i, path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}

// Load reads the records of the file at path in file order. Empty lines are skipped.
// A missing file is reported as *modelerrors.ErrNotFound.
func Load[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(&modelerrors.ErrNotFound{Type: "record file", Value: path})
		}
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var items []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, line)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return items, nil
}

// LoadOptional is Load, except that a missing file yields no records.
func LoadOptional[T any](path string) ([]T, error) {
	items, err := Load[T](path)
	if modelerrors.IsNotFound(err) {
		return nil, nil
	}
	return items, err
}
