// Package script runs SQL files statement by statement through a DB.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Execer runs one statement that gives no rows back.
type Execer interface {
	Exec(ctx context.Context, query string) error
}

// File is one SQL file split into statements.
type File struct {
	Order      int
	Name       string
	Path       string
	Statements []string
}

var fileRe = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// Load reads path. A file yields one File; a directory yields every
// NNNN_name.sql file in it, sorted by number.
func Load(path string) ([]File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		f, err := readFile(path, 0, filepath.Base(path))
		if err != nil {
			return nil, err
		}
		return []File{f}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read script dir: %w", err)
	}
	var files []File
	seen := map[int]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		order, _ := strconv.Atoi(m[1])
		if prev, ok := seen[order]; ok {
			return nil, fmt.Errorf("duplicate script number %d: %s and %s", order, prev, e.Name())
		}
		seen[order] = e.Name()
		f, err := readFile(filepath.Join(path, e.Name()), order, m[2])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Order < files[j].Order })
	return files, nil
}

func readFile(path string, order int, name string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return File{Order: order, Name: name, Path: path, Statements: Split(string(data))}, nil
}

// Run executes every statement of every file in order and stops at the
// first failure. Statements already executed stay committed.
func Run(ctx context.Context, db Execer, files []File) (int, error) {
	n := 0
	for _, f := range files {
		log.Info().Str("file", filepath.Base(f.Path)).Int("statements", len(f.Statements)).Msg("Running script")
		for i, stmt := range f.Statements {
			if err := db.Exec(ctx, stmt); err != nil {
				return n, fmt.Errorf("%s statement %d: %w", filepath.Base(f.Path), i+1, err)
			}
			n++
		}
	}
	return n, nil
}
