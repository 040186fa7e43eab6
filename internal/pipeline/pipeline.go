// Package pipeline wires the core (lexer, parser, solver) and the
// external lint/config/project collaborators into a six-stage staged
// producer/consumer graph:
//
//	1. filesystem walk            → path channel
//	2. path                       → source loader (read)
//	3. loaded source              → parser
//	4. parsed AST                 → lint early-pass (+ solver)
//	5. lint early-pass results    → lint late-pass
//	6. late-pass results          → diagnostic aggregator
//
// Stages 1-4 are a classic Go fan-out/fan-in pipeline: each stage is a
// pool of goroutines reading one bounded channel and writing another,
// so a slow file in stage 3 doesn't block a fast one already in stage
// 4. Stage 5 needs a synchronization barrier first: every file's
// global-scope fields are merged into one consolidated global scope
// before any late-pass lint can run, so the pipeline drains stages 1-4
// to a slice, merges, and only then fans stage 5 out over a second
// channel pool. Stage 6 is the sequential collector that assembles the
// final Result.
//
// Grounded on Tangerg-lynx's flow.Batch.runN (errgroup.WithContext +
// SetLimit to cap concurrency while preserving per-item order) for the
// worker-pool shape.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
	"github.com/duck-lang/duck/internal/lexer"
	"github.com/duck-lang/duck/internal/lint"
	"github.com/duck-lang/duck/internal/parser"
	"github.com/duck-lang/duck/internal/solver"
	"github.com/duck-lang/duck/internal/token"
)

// channelCapacity is the bounded-buffer size every inter-stage channel
// uses, on the order of 1,000 items, to provide backpressure.
const channelCapacity = 1024

// defaultConcurrency is the worker-pool size used when the caller
// doesn't specify one.
const defaultConcurrency = 8

// pathItem is stage 1's output: one discovered source file, assigned
// its FileId up front so every later stage can tag diagnostics without
// a lookup.
type pathItem struct {
	file token.FileId
	path string
}

// loadedItem is stage 2's output: pathItem plus its source text, or an
// I/O error. A read failure doesn't fail individual files fatally
// unless the file cannot be read at all; it rides the channel as data,
// not as a fatal pipeline error.
type loadedItem struct {
	pathItem
	source  string
	ioError error
}

// parsedItem is stage 3's output: the parsed statement list plus any
// ParseErrors, reported as diagnostics.
type parsedItem struct {
	loadedItem
	stmts      []*ast.Stmt
	parseDiags []*diagnostic.Diagnostic
}

// FileResult is stage 4's output and the unit the rest of the run
// (merge barrier, stage 5, stage 6) operates on: everything computed
// for one file without needing to re-touch its source text.
type FileResult struct {
	Path         string
	File         token.FileId
	Source       string
	Stmts        []*ast.Stmt
	IOError      error
	ParseDiags   []*diagnostic.Diagnostic
	SolveDiags   []*diagnostic.Diagnostic
	EarlyDiags   []*diagnostic.Diagnostic
	GlobalFields []solver.GlobalFieldSnapshot
}

// Result is the whole run's output: every file's result plus the
// late-pass diagnostics computed against the merged global scope,
// stage 6's aggregation target.
type Result struct {
	Files     []*FileResult
	LateDiags map[string][]*diagnostic.Diagnostic // keyed by FileResult.Path
}

// Run executes the full six-stage pipeline over paths. Concurrency
// caps the worker-pool size for every staged fan-out; 0 selects
// defaultConcurrency. A panic or context cancellation inside any
// worker propagates through errgroup and aborts the run, the same way
// a child task's panic propagates to the top-level runner and aborts
// it; everything else a file can go wrong (I/O, lex/parse/type errors)
// is recorded as data on that file's FileResult instead of failing Run.
func Run(ctx context.Context, paths []string, cfg *config.Config, concurrency int) (*Result, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	group, groupCtx := errgroup.WithContext(ctx)

	pathCh := make(chan pathItem, channelCapacity)
	group.Go(func() error {
		defer close(pathCh)
		for i, p := range paths {
			item := pathItem{file: token.FileId(i + 1), path: p}
			select {
			case pathCh <- item:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	loadedCh := stage(groupCtx, group, pathCh, concurrency, loadSource)
	parsedCh := stage(groupCtx, group, loadedCh, concurrency, parseSource)
	resultCh := stage(groupCtx, group, parsedCh, concurrency, func(p parsedItem) (*FileResult, error) {
		return solveAndLintEarly(p, cfg)
	})

	// Stages 1-4 are pipelined; the merge barrier requires every
	// stage-4 result collected before stage 5 can start, so drain
	// resultCh to a slice under the same errgroup.
	var files []*FileResult
	group.Go(func() error {
		for {
			select {
			case r, ok := <-resultCh:
				if !ok {
					return nil
				}
				files = append(files, r)
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	// Workers finish in any order; restore the order paths were
	// supplied in so diagnostics and the merge below are deterministic.
	sort.Slice(files, func(i, j int) bool { return files[i].File < files[j].File })

	merged := solver.NewMergedGlobalScope()
	for _, f := range files {
		if f == nil || f.IOError != nil {
			continue
		}
		merged.Merge(f.GlobalFields)
	}

	lateGroup, lateCtx := errgroup.WithContext(ctx)
	fileCh := make(chan *FileResult, channelCapacity)
	lateGroup.Go(func() error {
		defer close(fileCh)
		for _, f := range files {
			if f == nil || f.IOError != nil {
				continue
			}
			select {
			case fileCh <- f:
			case <-lateCtx.Done():
				return lateCtx.Err()
			}
		}
		return nil
	})

	type lateItem struct {
		path  string
		diags []*diagnostic.Diagnostic
	}
	lateCh := stage(lateCtx, lateGroup, fileCh, concurrency, func(f *FileResult) (lateItem, error) {
		return lateItem{path: f.Path, diags: lint.LatePass(f.Stmts, merged, cfg)}, nil
	})

	result := &Result{Files: files, LateDiags: map[string][]*diagnostic.Diagnostic{}}
	lateGroup.Go(func() error {
		for {
			select {
			case li, ok := <-lateCh:
				if !ok {
					return nil
				}
				result.LateDiags[li.path] = li.diags
			case <-lateCtx.Done():
				return lateCtx.Err()
			}
		}
	})

	if err := lateGroup.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// stage starts a bounded worker pool reading in, applying fn to each
// item, and writing to the returned channel, which closes once every
// worker has drained in and exited. errors returned by fn are fatal
// (propagated through group); per-item domain errors (a bad file, a
// parse failure) are carried as data inside the item type instead, so
// they flow through to the next stage rather than aborting the run.
func stage[In, Out any](ctx context.Context, group *errgroup.Group, in <-chan In, concurrency int, fn func(In) (Out, error)) <-chan Out {
	out := make(chan Out, channelCapacity)
	var workers errgroup.Group
	workers.SetLimit(concurrency)
	group.Go(func() error {
		for {
			select {
			case item, ok := <-in:
				if !ok {
					err := workers.Wait()
					close(out)
					return err
				}
				workers.Go(func() error {
					result, err := fn(item)
					if err != nil {
						return err
					}
					select {
					case out <- result:
					case <-ctx.Done():
						return ctx.Err()
					}
					return nil
				})
			case <-ctx.Done():
				workers.Wait() //nolint:errcheck
				close(out)
				return ctx.Err()
			}
		}
	})
	return out
}

// loadSource is stage 2: read path's contents. Line count is computed
// lazily by FileResult.SourceLine on demand rather than eagerly
// stored, since diagnostic rendering is the only consumer.
func loadSource(p pathItem) (loadedItem, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return loadedItem{pathItem: p, ioError: err}, nil
	}
	return loadedItem{pathItem: p, source: string(data)}, nil
}

// parseSource is stage 3: lex + parse, or pass the I/O error through
// untouched for the aggregator to report.
func parseSource(l loadedItem) (parsedItem, error) {
	if l.ioError != nil {
		return parsedItem{loadedItem: l}, nil
	}
	lex := lexer.New(l.file, l.source)
	p := parser.New(l.file, lex)
	stmts := p.ParseProgram()
	var diags []*diagnostic.Diagnostic
	for _, perr := range p.Errors() {
		diags = append(diags, diagnostic.New(diagnostic.Deny, "parse-error", perr.Error(), perr.Location))
	}
	return parsedItem{loadedItem: l, stmts: stmts, parseDiags: diags}, nil
}

// solveAndLintEarly is stage 4: type-check the parsed file and run
// every early-pass lint over it. The solver never suspends, so this is
// a plain synchronous call per file.
func solveAndLintEarly(p parsedItem, cfg *config.Config) (*FileResult, error) {
	res := &FileResult{
		Path:       p.path,
		File:       p.file,
		Source:     p.source,
		IOError:    p.ioError,
		Stmts:      p.stmts,
		ParseDiags: p.parseDiags,
	}
	if p.ioError != nil {
		return res, nil
	}
	sol := solver.New(nil)
	sol.RunProgram(res.Stmts)
	res.SolveDiags = sol.Diagnostics()
	res.GlobalFields = sol.GlobalFields()
	res.EarlyDiags = lint.EarlyPass(res.Stmts, cfg)
	return res, nil
}

// AllDiagnostics flattens a Result into one ordered slice: every
// file's I/O, parse, solve, early-lint, then late-lint diagnostics, in
// the order files were supplied to Run.
func (r *Result) AllDiagnostics() []*diagnostic.Diagnostic {
	var out []*diagnostic.Diagnostic
	for _, f := range r.Files {
		if f == nil {
			continue
		}
		if f.IOError != nil {
			out = append(out, &diagnostic.Diagnostic{
				Severity: diagnostic.Deny,
				Tag:      "io-error",
				Message:  fmt.Sprintf("%s: %s", f.Path, f.IOError),
			})
			continue
		}
		out = append(out, f.ParseDiags...)
		out = append(out, f.SolveDiags...)
		out = append(out, f.EarlyDiags...)
		out = append(out, r.LateDiags[f.Path]...)
	}
	return out
}

// SourceLine returns line n (1-based) of f's source text, for
// diagnostic rendering; "" if out of range.
func (f *FileResult) SourceLine(n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(f.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}
