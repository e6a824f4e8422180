package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

func isCatalogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadDir parses every *.yaml / *.yml file in dir concurrently and merges
// them in file-name order, so the result does not depend on scheduling.
func LoadDir(ctx context.Context, dir string) (Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isCatalogFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	parsed := make([]Catalog, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cat, err := LoadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			parsed[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return Merge(parsed...), nil
}

// Load reads path as a single catalog file or as a directory of them.
func Load(ctx context.Context, path string) (Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("stat catalog: %w", err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}
	return LoadFile(path)
}
