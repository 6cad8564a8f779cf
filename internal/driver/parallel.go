package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileExt is the query file extension CheckDir looks for.
const FileExt = ".sift"

// FileResult pairs one file's path with its analysis.
type FileResult struct {
	Path   string
	Result *Result
	Err    error // read failure; Result is nil
}

// CheckDir analyzes every query file under dir with up to jobs workers.
// Results come back in path order regardless of completion order.
// Cancelled contexts abort outstanding work; files already analyzed
// keep their results.
func CheckDir(ctx context.Context, dir string, opts Options, jobs int) ([]FileResult, error) {
	files, err := collectFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return nil
			}
			results[i] = FileResult{Path: path, Result: Analyze(string(data), opts)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == FileExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
