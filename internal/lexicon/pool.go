package lexicon

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

// LoadPool reads one entry per line from r. Carriage returns are stripped and empty lines dropped;
// order is preserved.
func LoadPool(r io.Reader) ([]string, error) {
	var pool []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ReplaceAll(scanner.Text(), "\r", "")
		if line == "" {
			continue
		}
		pool = append(pool, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return pool, nil
}

// LoadPoolFile is LoadPool on a file inside fsys. An empty pool is an error, since every pool is
// sampled from uniformly.
func LoadPoolFile(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithStack(&modelerrors.ErrNotFound{Type: "lexical pool", Value: name})
		}
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	pool, err := LoadPool(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "reading pool %s", name)
	}
	if len(pool) == 0 {
		return nil, errors.WithStack(&modelerrors.ErrInvalidArgument{
			Name:    name,
			Value:   "",
			Message: "pool contains no entries",
		})
	}
	return pool, nil
}

// ListFiles returns the names of the regular files directly under dir, skipping dot-files.
// Returned paths are joined with dir.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, dir+"/"+e.Name())
	}
	return files, nil
}
