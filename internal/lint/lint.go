// Package lint runs rules over class files and collects results in a fixed
// order: input file order outer, rule catalog order inner.
package lint

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"classlint/internal/classfile"
	"classlint/internal/jvmfmt"
	"classlint/internal/rules"
)

// DefaultCacheSize bounds the number of decoded classes kept between runs.
const DefaultCacheSize = 256

// Failure is an input that could not be decoded. It is excluded from rule
// evaluation.
type Failure struct {
	File string
	Err  error
}

// Report is the outcome of one run.
type Report struct {
	Files    int // inputs decoded and evaluated
	Results  []rules.Result
	Failures []Failure
}

// Violations returns the total number of violations across results.
func (r *Report) Violations() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Violations)
	}
	return n
}

// OK reports whether every result succeeded and every input decoded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0 && r.Violations() == 0
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of files processed concurrently. Values
// below 1 run sequentially.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithDecodeOptions sets the decoder mode and size cap.
func WithDecodeOptions(o jvmfmt.Options) Option {
	return func(r *Runner) { r.opts = o }
}

// WithCacheSize sets the decoded-class cache capacity. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(r *Runner) { r.cacheSize = n }
}

// Runner decodes inputs and evaluates rules against them.
type Runner struct {
	workers   int
	log       *slog.Logger
	opts      jvmfmt.Options
	cacheSize int
	cache     *lru.Cache[string, *classfile.ClassFile]
}

// New returns a Runner.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		workers:   1,
		log:       slog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, o := range opts {
		o(r)
	}
	if r.cacheSize > 0 {
		c, err := lru.New[string, *classfile.ClassFile](r.cacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = c
	}
	return r, nil
}

type fileOutcome struct {
	results []rules.Result
	failure *Failure
}

// Run decodes each input and evaluates every rule against it. Directories
// are expanded to the *.class files beneath them. A decode failure is
// logged and recorded; it never stops the run. The error is non-nil only
// when ctx is cancelled or a directory cannot be walked.
func (r *Runner) Run(ctx context.Context, paths []string, rs []rules.Rule) (*Report, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}

	outcomes := make([]fileOutcome, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.workers, 1))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.lintFile(file, rs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{}
	for _, o := range outcomes {
		if o.failure != nil {
			rep.Failures = append(rep.Failures, *o.failure)
			continue
		}
		rep.Files++
		rep.Results = append(rep.Results, o.results...)
	}
	return rep, nil
}

func (r *Runner) lintFile(file string, rs []rules.Rule) fileOutcome {
	cf, err := r.Decode(file)
	if err != nil {
		r.log.Warn("skipping input", "file", file, "kind", jvmfmt.KindOf(err).String(), "err", err)
		return fileOutcome{failure: &Failure{File: file, Err: err}}
	}
	for _, d := range cf.Diags {
		r.log.Debug("decode diagnostic", "file", file, "diag", d.String())
	}
	out := make([]rules.Result, 0, len(rs))
	for _, rule := range rs {
		res := rules.Evaluate(file, cf, rule)
		r.log.Debug("rule evaluated", "file", file, "rule", rule.Kind().Key(), "violations", len(res.Violations))
		out = append(out, res)
	}
	return fileOutcome{results: out}
}

// Decode opens and decodes file, consulting the cache by canonical path.
func (r *Runner) Decode(file string) (*classfile.ClassFile, error) {
	if r.cache == nil {
		return classfile.Open(file, r.opts)
	}
	key, err := classfile.Canonical(file)
	if err != nil {
		return nil, err
	}
	if cf, ok := r.cache.Get(key); ok {
		return cf, nil
	}
	cf, err := classfile.Open(key, r.opts)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, cf)
	return cf, nil
}

// Expand replaces each directory in paths with the *.class files beneath
// it in lexical order. Other paths, including missing ones, are kept as
// given so that decoding reports them.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".class") {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, jvmfmt.Errorf(jvmfmt.KindInvalidPath, err, "walk %s", p)
		}
	}
	return out, nil
}
