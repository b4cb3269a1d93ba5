package lint_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlint/internal/classfile"
	"classlint/internal/classfile/classfiletest"
	"classlint/internal/jvmfmt"
	"classlint/internal/lint"
	"classlint/internal/rules"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func allRules() []rules.Rule {
	return []rules.Rule{
		rules.New(rules.NoBinaryInNames, 0),
		rules.New(rules.TooManyArguments, 2),
		rules.New(rules.CheckNoVoid, 0),
	}
}

// corpus writes n classes with varying methods and returns their paths.
func corpus(t *testing.T, dir string, n int) []string {
	t.Helper()
	var paths []string
	for i := 0; i < n; i++ {
		b := classfiletest.New().This(fmt.Sprintf("pkg/C%02d", i)).
			Method("<init>", "()V").
			Method("getValue", "()I")
		if i%2 == 0 {
			b.Method("readAndWrite", "(III)V")
		}
		if i%3 == 0 {
			b.Method("reset", "()V")
		}
		path := filepath.Join(dir, fmt.Sprintf("C%02d.class", i))
		require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestRun_Order(t *testing.T) {
	paths := corpus(t, t.TempDir(), 3)
	r, err := lint.New(lint.WithLogger(quiet))
	require.NoError(t, err)

	rep, err := r.Run(context.Background(), paths, allRules())
	require.NoError(t, err)
	require.Len(t, rep.Results, 9)
	assert.Equal(t, 3, rep.Files)
	for i, res := range rep.Results {
		assert.Equal(t, paths[i/3], res.File)
		assert.Equal(t, rules.All()[i%3], res.Rule.Kind())
	}
	assert.False(t, rep.OK())
	assert.Equal(t, []string{"readAndWrite", "reset"}, []string{
		rep.Results[0].Violations[0].Method,
		rep.Results[2].Violations[1].Method,
	})
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	paths := corpus(t, t.TempDir(), 24)

	seq, err := lint.New(lint.WithLogger(quiet), lint.WithWorkers(1), lint.WithCacheSize(0))
	require.NoError(t, err)
	par, err := lint.New(lint.WithLogger(quiet), lint.WithWorkers(8))
	require.NoError(t, err)

	want, err := seq.Run(context.Background(), paths, allRules())
	require.NoError(t, err)
	for range 3 {
		got, err := par.Run(context.Background(), paths, allRules())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRun_DecodeFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	good := corpus(t, dir, 1)[0]
	bad := filepath.Join(dir, "Bad.class")
	require.NoError(t, os.WriteFile(bad, []byte{0xCA, 0xFE}, 0o644))
	missing := filepath.Join(dir, "Missing.class")

	r, err := lint.New(lint.WithLogger(quiet), lint.WithWorkers(4))
	require.NoError(t, err)
	rep, err := r.Run(context.Background(), []string{bad, good, missing}, []rules.Rule{rules.New(rules.TooManyArguments, 10)})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Files)
	require.Len(t, rep.Results, 1)
	assert.True(t, rep.Results[0].OK())
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, bad, rep.Failures[0].File)
	assert.ErrorIs(t, rep.Failures[0].Err, classfile.ErrMalformedHeader)
	assert.Equal(t, missing, rep.Failures[1].File)
	assert.Equal(t, jvmfmt.KindInvalidPath, jvmfmt.KindOf(rep.Failures[1].Err))
	assert.False(t, rep.OK())
}

func TestRun_Clean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Clean.class")
	require.NoError(t, os.WriteFile(path, classfiletest.New().Method("size", "()I").Bytes(), 0o644))

	r, err := lint.New(lint.WithLogger(quiet))
	require.NoError(t, err)
	rep, err := r.Run(context.Background(), []string{path}, allRules())
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Equal(t, 0, rep.Violations())
}

func TestRun_StrictMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Trailing.class")
	data := classfiletest.New().Method("size", "()I").Trailing([]byte{0}).Bytes()
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lenient, err := lint.New(lint.WithLogger(quiet))
	require.NoError(t, err)
	rep, err := lenient.Run(context.Background(), []string{path}, allRules())
	require.NoError(t, err)
	assert.Empty(t, rep.Failures)

	strict, err := lint.New(lint.WithLogger(quiet), lint.WithDecodeOptions(jvmfmt.Options{Mode: jvmfmt.ModeStrict}))
	require.NoError(t, err)
	rep, err = strict.Run(context.Background(), []string{path}, allRules())
	require.NoError(t, err)
	require.Len(t, rep.Failures, 1)
	assert.ErrorIs(t, rep.Failures[0].Err, classfile.ErrTrailingData)
}

func TestRun_Cancelled(t *testing.T) {
	paths := corpus(t, t.TempDir(), 2)
	r, err := lint.New(lint.WithLogger(quiet))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, paths, allRules())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "b")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"b/Z.class", "a.class", "notes.txt", "b/A.class"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	extra := filepath.Join(dir, "nope.class")

	got, err := lint.Expand([]string{dir, extra})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.class"),
		filepath.Join(dir, "b", "A.class"),
		filepath.Join(dir, "b", "Z.class"),
		extra,
	}, got)
}

func TestDecode_Cache(t *testing.T) {
	path := corpus(t, t.TempDir(), 1)[0]
	r, err := lint.New(lint.WithLogger(quiet))
	require.NoError(t, err)

	first, err := r.Decode(path)
	require.NoError(t, err)
	second, err := r.Decode(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
