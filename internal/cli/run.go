// Package cli implements the stackgen commands: generate, check and watch.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/xgx-io/stackerr"
	"github.com/xgx-io/stackerr/internal/config"
	"github.com/xgx-io/stackerr/internal/console"
	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/gen"
	"github.com/xgx-io/stackerr/internal/logging"
	"github.com/xgx-io/stackerr/internal/resolve"
	"github.com/xgx-io/stackerr/internal/schema"
)

// SchemaSuffixes are the file name endings picked up when a directory is
// given.
var SchemaSuffixes = []string{".stackerr.yaml", ".stackerr.yml"}

// Status of one processed schema file.
const (
	StatusGenerated = "generated"
	StatusUnchanged = "unchanged"
	StatusChecked   = "ok"
	StatusStale     = "stale"
	StatusFailed    = "failed"
)

// Runner executes stackgen commands with one configuration.
type Runner struct {
	Config  *config.Config
	Verbose bool
	Out     io.Writer
	Err     io.Writer
}

// NewRunner returns a Runner printing to stdout and stderr.
func NewRunner(cfg *config.Config, verbose bool) *Runner {
	return &Runner{Config: cfg, Verbose: verbose, Out: os.Stdout, Err: os.Stderr}
}

// ConfigureLogging installs l in every package of the pipeline.
func ConfigureLogging(l *zap.Logger) {
	logging.SetLogger(l)
	schema.SetLogger(l.Named("schema"))
	resolve.SetLogger(l.Named("resolve"))
	gen.SetLogger(l.Named("gen"))
}

// FileResult is the outcome of processing one schema file.
type FileResult struct {
	Path   string
	Output string
	Status string
	Types  int
	Source []byte
	// Diags holds the definition-time diagnostics of the file.
	Diags error
	// Failure is set when the file failed.
	Failure stackerr.StackError
}

// Generate writes the generated file of every schema found in paths.
func (r *Runner) Generate(ctx context.Context, paths []string) error {
	results, err := r.run(ctx, paths, true)
	if err != nil {
		return err
	}
	failed, first := r.report(results)
	if failed > 0 {
		return NewRunErrorGenerate(failed, len(results), stackerr.NewBoxed(first))
	}
	return nil
}

// Check reports diagnostics and stale generated files without writing.
func (r *Runner) Check(ctx context.Context, paths []string) error {
	results, err := r.run(ctx, paths, false)
	if err != nil {
		return err
	}
	failed, first := r.report(results)
	if r.Verbose {
		rows := make([][]string, len(results))
		for i, res := range results {
			rows[i] = []string{console.ToRelativePath(res.Path), strconv.Itoa(res.Types), res.Status}
		}
		fmt.Fprint(r.Out, console.RenderTable([]string{"FILE", "TYPES", "STATUS"}, rows))
	}
	if failed > 0 {
		return NewRunErrorCheck(failed, len(results), stackerr.NewBoxed(first))
	}
	return nil
}

func (r *Runner) run(ctx context.Context, paths []string, write bool) ([]FileResult, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("processing schema files", zap.Int("files", len(files)), zap.Bool("write", write))
	if len(files) == 0 {
		fmt.Fprintln(r.Out, console.FormatWarningMessage("no schema files found"))
	}

	p := pool.NewWithResults[FileResult]().WithContext(ctx).WithMaxGoroutines(r.Config.Concurrency)
	for _, path := range files {
		p.Go(func(ctx context.Context) (FileResult, error) {
			if err := ctx.Err(); err != nil {
				return FileResult{}, err
			}
			return r.Process(path, write), nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// report prints every file's outcome and returns the number of failed files
// and the first failure.
func (r *Runner) report(results []FileResult) (int, stackerr.StackError) {
	var (
		failed int
		first  stackerr.StackError
	)
	for _, res := range results {
		if res.Diags != nil {
			fmt.Fprint(r.Err, console.FormatError(res.Diags, map[string][]byte{res.Path: res.Source}))
		}
		if res.Failure != nil {
			failed++
			if first == nil {
				first = res.Failure
			}
			if res.Diags == nil {
				fmt.Fprintln(r.Err, console.FormatErrorMessage(stackerr.Sprint(res.Failure)))
			}
			continue
		}
		switch {
		case res.Status == StatusGenerated:
			fmt.Fprintln(r.Out, console.FormatSuccessMessage(fmt.Sprintf("%s -> %s", console.ToRelativePath(res.Path), console.ToRelativePath(res.Output))))
		case r.Verbose:
			fmt.Fprintln(r.Out, console.FormatVerboseMessage(fmt.Sprintf("%s: %s", console.ToRelativePath(res.Path), res.Status)))
		}
	}
	return failed, first
}

// Process runs the pipeline on one schema file. With write set the
// generated file is written when its content changed; otherwise it is only
// compared. A file with diagnostics is never written.
func (r *Runner) Process(path string, write bool) FileResult {
	res := FileResult{Path: path, Output: gen.OutputPath(path, r.Config.Suffix)}
	log := logging.Logger().With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		res.Status, res.Failure = StatusFailed, NewReadSchemaError(path, err)
		return res
	}
	res.Source = data

	f, err := schema.Parse(path, data)
	var src []byte
	if err == nil {
		res.Types = len(f.Types)
		src, err = gen.Generate(f, gen.Options{Tier: r.Config.Tier, StackTypes: r.Config.StackTypes})
	}
	if err != nil {
		res.Diags = err
		res.Status, res.Failure = StatusFailed, NewSchemaError(path, max(diag.Count(err), 1))
		log.Debug("schema has problems", zap.Int("diagnostics", diag.Count(err)))
		return res
	}

	existing, err := os.ReadFile(res.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		res.Status, res.Failure = StatusFailed, NewWriteOutputError(res.Output, err)
		return res
	}
	if bytes.Equal(existing, src) {
		res.Status = StatusUnchanged
		if !write {
			res.Status = StatusChecked
		}
		return res
	}
	if !write {
		res.Status, res.Failure = StatusStale, NewStaleOutputError(res.Output)
		return res
	}
	if err := os.WriteFile(res.Output, src, 0o644); err != nil {
		res.Status, res.Failure = StatusFailed, NewWriteOutputError(res.Output, err)
		return res
	}
	log.Info("wrote generated file", zap.String("output", res.Output), zap.Int("bytes", len(src)))
	res.Status = StatusGenerated
	return res
}

// Expand turns files and directories into the sorted list of schema files.
// Directories are walked recursively for SchemaSuffixes; named files are
// kept whatever their name. No paths means the working directory.
func Expand(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, NewReadSchemaError(p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (strings.HasPrefix(d.Name(), ".") || d.Name() == "vendor" || d.Name() == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSchemaFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, NewReadSchemaError(p, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// IsSchemaFile reports whether path has one of the SchemaSuffixes.
func IsSchemaFile(path string) bool {
	for _, s := range SchemaSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
